package csaclient

// Default connection parameters, carried from the source's
// network/csa_client.py module constants.
const (
	DefaultHost = "localhost"
	DefaultPort = 4081
)
