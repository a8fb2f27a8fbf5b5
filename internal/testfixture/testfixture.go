// Package testfixture provides small helpers shared by this module's
// test suites.
package testfixture

import "github.com/google/uuid"

// NewUsername mints a distinct username for a test fixture. The source
// this client was ported from grew successive test usernames off a
// module-scope mutable counter, which made test ordering load-bearing;
// minting a fresh UUID per call removes that dependency entirely.
func NewUsername() string {
	return "test-" + uuid.NewString()
}
