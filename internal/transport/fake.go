package transport

import "time"

// Fake is an in-memory Transport for tests: it stands in for the real
// socket the way the teacher's fake PTY (internal/pty/hub_test.go) stands
// in for a real terminal — drive the real protocol logic against a
// scripted peer instead of an actual server.
//
// Queue the server's side of a conversation with Push, then exercise the
// client; inspect what the client sent via Sent.
type Fake struct {
	incoming []string
	closed   bool
	timeout  time.Duration
	Sent     []string
}

// NewFake returns a Fake transport with no queued input.
func NewFake() *Fake {
	return &Fake{timeout: -1}
}

// Push appends lines to the queue of lines the fake peer "sends".
func (f *Fake) Push(lines ...string) {
	f.incoming = append(f.incoming, lines...)
}

// CloseRemote marks the fake peer as having closed the connection: any
// further read returns Disconnected once the queue drains.
func (f *Fake) CloseRemote() {
	f.closed = true
}

func (f *Fake) SendLine(line string) error {
	f.Sent = append(f.Sent, line)
	return nil
}

func (f *Fake) ReadLine() (string, error) {
	if len(f.incoming) == 0 {
		return "", Disconnected
	}
	line := f.incoming[0]
	f.incoming = f.incoming[1:]
	return line, nil
}

// ReadAvailable returns everything currently queued: since the fake has
// no real clock, "available without blocking" just means "whatever is
// queued right now", matching how tests script a peer's pushes ahead of
// time. Once the peer is closed, the queued lines come back together
// with Disconnected, as a real socket reports EOF after its last bytes.
func (f *Fake) ReadAvailable() ([]string, error) {
	lines := f.incoming
	f.incoming = nil
	if f.closed {
		return lines, Disconnected
	}
	return lines, nil
}

func (f *Fake) SetReadTimeout(d time.Duration) {
	f.timeout = d
}

func (f *Fake) Close() error {
	f.closed = true
	return nil
}
