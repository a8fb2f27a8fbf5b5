// Package csaclient implements the CSA protocol client state machine
// (component G): the line-oriented request/response engine that tracks
// the client lifecycle, negotiates a game, and disambiguates the
// move/confirmation/game-end sub-protocol described in §4.G.
package csaclient

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mogproject/mog-cli-archive/internal/linebuf"
	"github.com/mogproject/mog-cli-archive/internal/shogi"
	"github.com/mogproject/mog-cli-archive/internal/summary"
	"github.com/mogproject/mog-cli-archive/internal/transport"
)

var (
	reNormalConfirm  = regexp.MustCompile(`^([+-][0-9]{2}[1-9]{2}[A-Z]{2}),T([0-9]+)$`)
	reSpecialConfirm = regexp.MustCompile(`^(%[A-Z]+)(?:,T([0-9]+))?$`)
	reConsumedTime   = regexp.MustCompile(`,T([0-9]+)$`)
)

// endPair is one (reason, result) token pair the server sends to close a
// game, e.g. ("#SENNICHITE", "#DRAW").
type endPair struct {
	Reason string
	Result string
}

var afterMoveMatrix = []endPair{
	{"#SENNICHITE", "#DRAW"},
	{"#OUTE_SENNICHITE", "#WIN"},
	{"#ILLEGAL_MOVE", "#LOSE"},
	{"#TIME_UP", "#LOSE"},
}

var getMoveMatrix = []endPair{
	{"#SENNICHITE", "#DRAW"},
	{"#OUTE_SENNICHITE", "#LOSE"},
	{"#ILLEGAL_MOVE", "#WIN"},
	{"#TIME_UP", "#WIN"},
}

var resignPairs = []endPair{
	{"#RESIGN", "#LOSE"},
	{"#TIME_UP", "#LOSE"},
}

var declareWinPairs = []endPair{
	{"#JISHOGI", "#WIN"},
	{"#ILLEGAL_MOVE", "#LOSE"},
	{"#TIME_UP", "#LOSE"},
}

func contains(pairs []endPair, reason, result string) bool {
	for _, p := range pairs {
		if p.Reason == reason && p.Result == result {
			return true
		}
	}
	return false
}

// MoveResult is the four-tuple every move-related operation returns:
// the command that was exchanged, how many seconds it consumed (if
// known), and — if the game ended on this step — the reason/result pair.
type MoveResult struct {
	Command   string
	Elapsed   *int
	EndReason string
	EndResult string
}

// Ended reports whether this result closed the game.
func (r *MoveResult) Ended() bool {
	return r.EndReason != ""
}

// Client is the CSA protocol client: one TCP connection, one line
// buffer, one state. It is not safe for concurrent use (§5): all reads
// are either blocking or a temporary zero-timeout poll, and state
// transitions are meant to be linearised by a single driver.
type Client struct {
	transport transport.Transport
	buf       *linebuf.Buffer
	state     State
	username  string
	log       *logrus.Entry

	Host string
	Port int
}

// New wraps t as a CSA protocol client, starting in the Connected state.
// t is assumed already connected. New leaves the Host and Port fields
// empty; they are used only for display (the shell's prompt), and Dial
// fills them in.
func New(t transport.Transport, log *logrus.Entry) *Client {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		transport: t,
		buf:       linebuf.New(t),
		state:     Connected,
		log:       log,
	}
}

// State returns the client's current lifecycle state.
func (c *Client) State() State {
	return c.state
}

// Addr renders the host:port this client connected to.
func (c *Client) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Dial opens a TCP connection to host:port and returns a Client over it.
func Dial(host string, port int, log *logrus.Entry) (*Client, error) {
	t, err := transport.Dial(host, port)
	if err != nil {
		return nil, err
	}
	c := New(t, log)
	c.Host = host
	c.Port = port
	return c, nil
}

func (c *Client) requireState(op string, want State) error {
	if c.state != want {
		return &StateError{Op: op, Current: c.state}
	}
	return nil
}

func (c *Client) send(line string) error {
	c.log.Debugf("-> %s", redact(line))
	return c.transport.SendLine(line)
}

func (c *Client) pop() (string, error) {
	line, err := c.buf.Pop()
	if err != nil {
		return "", err
	}
	c.log.Debugf("<- %s", line)
	return line, nil
}

// redact hides a LOGIN command's password from debug logs.
func redact(line string) string {
	if !strings.HasPrefix(line, "LOGIN ") {
		return line
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return line
	}
	return fmt.Sprintf("%s %s ***", fields[0], fields[1])
}

// Login sends LOGIN and reports whether the server accepted it. On
// success the client moves to GameWaiting; on failure (incorrect
// credentials) the state is left unchanged — this is not an error, it's
// the normal LoginFailed outcome (§7).
func (c *Client) Login(username, password string) (bool, string, error) {
	if err := c.requireState("login", Connected); err != nil {
		return false, "", err
	}

	if err := c.send(fmt.Sprintf("LOGIN %s %s", username, password)); err != nil {
		return false, "", err
	}
	line, err := c.pop()
	if err != nil {
		return false, "", err
	}

	if line == "LOGIN:incorrect" {
		return false, line, nil
	}
	if line != fmt.Sprintf("LOGIN:%s OK", username) {
		return false, "", protocolErrorf("unexpected login response: %q", line)
	}

	c.username = username
	c.state = GameWaiting
	return true, line, nil
}

// Logout sends LOGOUT. A peer that closes the socket immediately after
// confirming logout does not retroactively invalidate the (true, msg)
// this already returned — Logout performs exactly one read and stops.
func (c *Client) Logout() (bool, string, error) {
	if err := c.requireState("logout", GameWaiting); err != nil {
		return false, "", err
	}
	if err := c.send("LOGOUT"); err != nil {
		return false, "", err
	}
	line, err := c.pop()
	if err != nil {
		return false, "", err
	}
	if line != "LOGOUT:completed" {
		return false, "", protocolErrorf("unexpected logout response: %q", line)
	}
	c.state = Connected
	return true, line, nil
}

// GetGameCondition waits for the server to push a game summary,
// accumulating lines up to and including "END Game_Summary", then parses
// it per §4.F.
func (c *Client) GetGameCondition() (*summary.Condition, error) {
	if err := c.requireState("get_game_condition", GameWaiting); err != nil {
		return nil, err
	}

	var lines []string
	for {
		line, err := c.pop()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		if line == "END Game_Summary" {
			break
		}
	}

	cond, err := summary.ParseCondition(lines)
	if err != nil {
		return nil, protocolErrorf("game summary: %v", err)
	}
	c.state = AgreeWaiting
	return cond, nil
}

// Agree sends AGREE for the given game. The server's response arrives
// later, via GetAgreement.
func (c *Client) Agree(cond *summary.Condition) error {
	if err := c.requireState("agree", AgreeWaiting); err != nil {
		return err
	}
	if err := c.send("AGREE " + cond.GameSummary.GameID); err != nil {
		return err
	}
	c.state = StartWaiting
	return nil
}

// Reject sends REJECT for the given game and returns the peer's
// acknowledgement line.
func (c *Client) Reject(cond *summary.Condition) (string, error) {
	if err := c.requireState("reject", AgreeWaiting); err != nil {
		return "", err
	}
	id := cond.GameSummary.GameID
	if err := c.send("REJECT " + id); err != nil {
		return "", err
	}
	line, err := c.pop()
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(line, "REJECT:"+id+" by ") {
		return "", protocolErrorf("unexpected reject response: %q", line)
	}
	c.state = GameWaiting
	return line, nil
}

// GetAgreement waits for the peer's response to an earlier Agree: either
// the match starts (moving to GameToMove or GameToWait depending on
// whose turn is first) or the peer rejected it (moving back to
// GameWaiting).
func (c *Client) GetAgreement(cond *summary.Condition) (bool, string, error) {
	if err := c.requireState("get_agreement", StartWaiting); err != nil {
		return false, "", err
	}

	id := cond.GameSummary.GameID
	line, err := c.pop()
	if err != nil {
		return false, "", err
	}

	switch {
	case line == "START:"+id:
		if cond.GameSummary.ToMove == cond.GameSummary.YourTurn {
			c.state = GameToMove
		} else {
			c.state = GameToWait
		}
		return true, line, nil
	case strings.HasPrefix(line, "REJECT:"+id+" by "):
		c.state = GameWaiting
		return false, line, nil
	default:
		return false, "", protocolErrorf("unexpected agreement response: %q", line)
	}
}

// parseConsumedTime extracts the elapsed seconds from a ",T<seconds>"
// suffix, or returns nil if line has none.
func parseConsumedTime(line string) *int {
	m := reConsumedTime.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func bothHash(lines []string) bool {
	return len(lines) == 2 && strings.HasPrefix(lines[0], "#") && strings.HasPrefix(lines[1], "#")
}

// Move sends a move and resolves whatever the server does in response:
// an echoed confirmation, an end-of-game pair, or — when the opponent's
// clock already ended the game — just the end-of-game pair with no
// confirmation at all. See §4.G for the full algorithm.
func (c *Client) Move(raw string) (*MoveResult, error) {
	if err := c.requireState("move", GameToMove); err != nil {
		return nil, err
	}

	mv, err := shogi.ParseMove(raw, nil)
	if err != nil {
		return nil, err
	}
	s := mv.Raw

	if err := c.buf.DrainAvailable(); err != nil {
		return nil, err
	}
	if head := c.buf.Peek(2); bothHash(head) {
		reason, _ := c.pop()
		result, _ := c.pop()
		if !contains(afterMoveMatrix, reason, result) {
			return nil, protocolErrorf("unexpected game end pair: %s %s", reason, result)
		}
		c.state = GameWaiting
		return &MoveResult{Command: s, EndReason: reason, EndResult: result}, nil
	}

	if err := c.send(s); err != nil {
		return nil, err
	}

	var elapsed *int
	line, err := c.pop()
	if err != nil {
		return nil, err
	}
	confirmRe := regexp.MustCompile(`^` + regexp.QuoteMeta(s) + `,T([0-9]+)$`)
	if m := confirmRe.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		elapsed = &n
	} else {
		c.buf.Unshift(line)
	}

	if err := c.buf.DrainAvailable(); err != nil {
		return nil, err
	}
	if head := c.buf.Peek(2); bothHash(head) {
		reason, _ := c.pop()
		result, _ := c.pop()
		if !contains(afterMoveMatrix, reason, result) {
			return nil, protocolErrorf("unexpected game end pair: %s %s", reason, result)
		}
		c.state = GameWaiting
		return &MoveResult{Command: s, Elapsed: elapsed, EndReason: reason, EndResult: result}, nil
	}

	if elapsed == nil {
		return nil, protocolErrorf("move %q was neither confirmed nor ended the game", s)
	}
	c.state = GameToWait
	return &MoveResult{Command: s, Elapsed: elapsed}, nil
}

// validateGetMovePair checks a (cmd, reason, result) triple against the
// get_move matrix (§4.G): the four clock/repetition outcomes are
// cmd-independent, but a peer resignation or declared win is only valid
// paired with the special move that announced it.
func validateGetMovePair(cmd, reason, result string) bool {
	switch cmd {
	case "%TORYO":
		return reason == "#RESIGN" && result == "#WIN"
	case "%KACHI":
		return reason == "#JISHOGI" && result == "#LOSE"
	default:
		return contains(getMoveMatrix, reason, result)
	}
}

// GetMove waits for the peer's move (or resignation, declared win, or a
// clock/repetition outcome) and resolves it the same way Move does, from
// the other side of the board. See §4.G.
func (c *Client) GetMove() (*MoveResult, error) {
	if err := c.requireState("get_move", GameToWait); err != nil {
		return nil, err
	}

	line, err := c.pop()
	if err != nil {
		return nil, err
	}

	var cmd string
	var elapsed *int
	var haveCmd bool

	if m := reNormalConfirm.FindStringSubmatch(line); m != nil {
		cmd = m[1]
		n, _ := strconv.Atoi(m[2])
		elapsed = &n
		haveCmd = true
	} else if m := reSpecialConfirm.FindStringSubmatch(line); m != nil {
		cmd = m[1]
		haveCmd = true
		if m[2] != "" {
			n, _ := strconv.Atoi(m[2])
			elapsed = &n
		} else {
			next, err := c.pop()
			if err != nil {
				return nil, err
			}
			if next != cmd {
				c.buf.Unshift(next)
			}
		}
	} else {
		c.buf.Unshift(line)
	}

	if err := c.buf.DrainAvailable(); err != nil {
		return nil, err
	}
	if head := c.buf.Peek(2); bothHash(head) {
		reason, _ := c.pop()
		result, _ := c.pop()
		if !validateGetMovePair(cmd, reason, result) {
			return nil, protocolErrorf("unexpected game end pair: %s %s %s", cmd, reason, result)
		}
		c.state = GameWaiting
		res := &MoveResult{Elapsed: elapsed, EndReason: reason, EndResult: result}
		if haveCmd {
			res.Command = cmd
		}
		return res, nil
	}

	if !haveCmd || elapsed == nil {
		return nil, protocolErrorf("get_move: no confirmation and no game end")
	}
	c.state = GameToMove
	return &MoveResult{Command: cmd, Elapsed: elapsed}, nil
}

// moveSpecial implements the shared resign/declare-win exchange (§4.G):
// send cmd, then unravel the confirmation/echo/reason/result sequence
// the server may send in several different shapes.
func (c *Client) moveSpecial(cmd string, allowed []endPair) (*MoveResult, error) {
	if err := c.requireState(cmd, GameToMove); err != nil {
		return nil, err
	}

	if err := c.send(cmd); err != nil {
		return nil, err
	}

	first, err := c.pop()
	if err != nil {
		return nil, err
	}

	elapsed := parseConsumedTime(first)

	var reason string
	if strings.HasPrefix(first, cmd) && elapsed == nil {
		reason = first
	} else {
		reason, err = c.pop()
		if err != nil {
			return nil, err
		}
	}

	if reason == cmd {
		reason, err = c.pop()
		if err != nil {
			return nil, err
		}
	}

	if !strings.HasPrefix(first, cmd) {
		return nil, protocolErrorf("unexpected response to %s: %q", cmd, first)
	}

	result, err := c.pop()
	if err != nil {
		return nil, err
	}

	if !contains(allowed, reason, result) {
		return nil, protocolErrorf("unexpected %s outcome: %s %s", cmd, reason, result)
	}

	c.state = GameWaiting
	return &MoveResult{Command: cmd, Elapsed: elapsed, EndReason: reason, EndResult: result}, nil
}

// Resign sends %TORYO.
func (c *Client) Resign() (*MoveResult, error) {
	return c.moveSpecial("%TORYO", resignPairs)
}

// DeclareWin sends %KACHI.
func (c *Client) DeclareWin() (*MoveResult, error) {
	return c.moveSpecial("%KACHI", declareWinPairs)
}

// Close tears down the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}
