// Package transport implements the line-oriented, full-duplex byte
// channel the CSA protocol client is built on (component A): a TCP
// connection with LF line framing and a settable read timeout, including
// a zero-timeout non-blocking poll, per §4.A and §5 of the design.
package transport

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strconv"
	"time"
)

// Disconnected indicates the peer closed the connection (an empty read,
// i.e. EOF). It is always fatal to the session.
var Disconnected = errors.New("transport: disconnected")

// Transport is a line-oriented byte channel: send a line, read a line,
// or drain every line currently buffered without blocking.
//
// A Transport is not safe for concurrent use: one side sends, one side
// blocks in reads, and both share one read deadline. See §5.
type Transport interface {
	// SendLine writes line followed by LF, UTF-8 encoded.
	SendLine(line string) error

	// ReadLine blocks until a full line (terminated by LF) is available,
	// returning it without the terminator. It returns Disconnected if the
	// peer closes the connection first, or the timeout error if the read
	// timeout (see SetReadTimeout) expires first.
	ReadLine() (string, error)

	// ReadAvailable returns every complete line currently buffered. It
	// polls with a zero read timeout regardless of SetReadTimeout, and
	// restores the configured timeout before returning. It never blocks
	// waiting for more data to arrive: a partial, not-yet-terminated line
	// stays buffered for the next call.
	ReadAvailable() ([]string, error)

	// SetReadTimeout changes how long ReadLine will wait for more bytes
	// before giving up: d == 0 means a non-blocking poll (return
	// immediately with whatever is already buffered), d < 0 means block
	// indefinitely, d > 0 bounds the wait.
	SetReadTimeout(d time.Duration)

	// Close releases the underlying connection.
	Close() error
}

type tcpTransport struct {
	conn    net.Conn
	buf     []byte
	timeout time.Duration
}

// Dial opens a TCP connection to host:port and returns a Transport over
// it, initially set to block indefinitely on reads.
func Dial(host string, port int) (Transport, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return newTCPTransport(conn), nil
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	t := &tcpTransport{conn: conn, timeout: -1}
	t.applyDeadline()
	return t
}

func (t *tcpTransport) applyDeadline() {
	switch {
	case t.timeout < 0:
		_ = t.conn.SetReadDeadline(time.Time{})
	case t.timeout == 0:
		_ = t.conn.SetReadDeadline(time.Now())
	default:
		_ = t.conn.SetReadDeadline(time.Now().Add(t.timeout))
	}
}

func (t *tcpTransport) SetReadTimeout(d time.Duration) {
	t.timeout = d
	t.applyDeadline()
}

func (t *tcpTransport) SendLine(line string) error {
	_, err := t.conn.Write([]byte(line + "\n"))
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// popLine extracts the first complete line from the internal buffer, if
// any.
func (t *tcpTransport) popLine() (string, bool) {
	idx := bytes.IndexByte(t.buf, '\n')
	if idx < 0 {
		return "", false
	}
	line := string(t.buf[:idx])
	t.buf = t.buf[idx+1:]
	return line, true
}

// fill reads once from the socket into the internal buffer, respecting
// the current read deadline. A byte or two may arrive even when the
// overall read times out; those bytes are kept, and "no bytes at all"
// and "some bytes but no terminator yet" are handled identically — both
// leave popLine returning false, and the next call (blocking or not)
// picks up where this one left off.
func (t *tcpTransport) fill() error {
	tmp := make([]byte, 4096)
	n, err := t.conn.Read(tmp)
	if n > 0 {
		t.buf = append(t.buf, tmp[:n]...)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Disconnected
		}
		return err
	}
	return nil
}

func (t *tcpTransport) ReadLine() (string, error) {
	for {
		if line, ok := t.popLine(); ok {
			return line, nil
		}
		if err := t.fill(); err != nil {
			if errors.Is(err, Disconnected) {
				return "", Disconnected
			}
			return "", err
		}
	}
}

func (t *tcpTransport) ReadAvailable() ([]string, error) {
	prev := t.timeout
	t.SetReadTimeout(0)
	defer t.SetReadTimeout(prev)

	var lines []string
	for {
		if line, ok := t.popLine(); ok {
			lines = append(lines, line)
			continue
		}
		err := t.fill()
		if err == nil {
			continue
		}
		if errors.Is(err, Disconnected) {
			return lines, Disconnected
		}
		if isTimeout(err) {
			return lines, nil
		}
		return lines, err
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
