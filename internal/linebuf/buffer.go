// Package linebuf implements the single FIFO of already-received lines
// with front pushback that sits between the transport and the protocol
// state machine (component B), so the state machine can peek ahead for a
// spontaneous game-end pair without losing a line it isn't ready to
// consume yet.
package linebuf

import "github.com/mogproject/mog-cli-archive/internal/transport"

// Buffer is a FIFO of lines already read off the wire, with the ability
// to push a line back onto the front. Ordering matches arrival order.
type Buffer struct {
	transport transport.Transport
	queue     []string
}

// New wraps t in a Buffer.
func New(t transport.Transport) *Buffer {
	return &Buffer{transport: t}
}

// Pop returns the next line, blocking on the transport to refill the
// queue if it's currently empty.
func (b *Buffer) Pop() (string, error) {
	if len(b.queue) > 0 {
		line := b.queue[0]
		b.queue = b.queue[1:]
		return line, nil
	}
	return b.transport.ReadLine()
}

// Unshift pushes a line back onto the front of the queue, as if it had
// not been popped.
func (b *Buffer) Unshift(line string) {
	b.queue = append([]string{line}, b.queue...)
}

// DrainAvailable appends every line currently available on the transport
// without blocking, per the transport's configured read timeout. Lines
// read before a Disconnected error are still appended to the queue; the
// error itself is returned so callers can treat the session as over.
func (b *Buffer) DrainAvailable() error {
	lines, err := b.transport.ReadAvailable()
	b.queue = append(b.queue, lines...)
	return err
}

// Peek returns up to n lines from the front of the queue without
// removing them.
func (b *Buffer) Peek(n int) []string {
	if n > len(b.queue) {
		n = len(b.queue)
	}
	out := make([]string, n)
	copy(out, b.queue[:n])
	return out
}

// Len returns the number of lines currently queued.
func (b *Buffer) Len() int {
	return len(b.queue)
}
