package shogi

import "fmt"

// MoveFormatError reports that a candidate move string violates the CSA
// move grammar. It carries no I/O side effects; callers can retry with a
// corrected string without touching the connection.
type MoveFormatError struct {
	Raw string
}

func (e *MoveFormatError) Error() string {
	return fmt.Sprintf("move format error: %q", e.Raw)
}

// SpecialMoves is the closed set of "%..."-prefixed special-move command
// strings ParseMove accepts, beyond the two exercised by the protocol
// scenarios (%TORYO, %KACHI): a claimed checkmate, a request to abort, a
// self-declared repetition claim, a draw offer, an illegal-interrupt
// marker, and a generic error marker. A "#..." token is always accepted
// as special without consulting this set — those are server-reported
// reason/result tokens (e.g. "#SENNICHITE"), validated against the
// move/confirmation/game-end matrices in package csaclient, not against
// a move grammar.
var SpecialMoves = []string{
	"%TORYO", "%KACHI", "%TSUMI", "%CHUDAN", "%SENNICHITE", "%HIKIWAKE", "%MATTA", "%ERROR",
}

func isSpecialMove(upper string) bool {
	for _, s := range SpecialMoves {
		if s == upper {
			return true
		}
	}
	return false
}

// Move is a parsed CSA move token: either a normal board move (turn,
// from, to, piece type) or a special move (resignation, a declared win,
// and so on), carrying the raw wire string and an optional elapsed time
// in seconds.
type Move struct {
	IsSpecial bool
	Turn      Turn
	From      Position
	To        Position
	PieceType PieceType
	Raw       string
	Elapsed   *int
}

// ParseMove parses raw (a CSA move token with no ",T..." suffix) with an
// optional elapsed time, validating it against the CSA move grammar.
// raw is upper-cased before validation. It returns a *MoveFormatError for
// any grammar violation.
func ParseMove(raw string, elapsed *int) (*Move, error) {
	upper := upperASCII(raw)

	if len(upper) > 0 && upper[0] == '#' {
		return &Move{IsSpecial: true, Raw: upper, Elapsed: elapsed}, nil
	}
	if len(upper) > 0 && upper[0] == '%' {
		if !isSpecialMove(upper) {
			return nil, &MoveFormatError{Raw: raw}
		}
		return &Move{IsSpecial: true, Raw: upper, Elapsed: elapsed}, nil
	}

	if len(upper) != 7 {
		return nil, &MoveFormatError{Raw: raw}
	}

	turn := Turn(upper[0:1])
	from := Position(upper[1:3])
	to := Position(upper[3:5])
	pt := PieceType(upper[5:7])

	if !turn.Valid() {
		return nil, &MoveFormatError{Raw: raw}
	}
	if !to.Valid() || to.IsHand() {
		return nil, &MoveFormatError{Raw: raw}
	}
	if from.IsHand() {
		if !IsHandPieceType(pt) {
			return nil, &MoveFormatError{Raw: raw}
		}
	} else {
		if !from.Valid() {
			return nil, &MoveFormatError{Raw: raw}
		}
		if !IsPieceType(pt) {
			return nil, &MoveFormatError{Raw: raw}
		}
	}

	return &Move{
		IsSpecial: false,
		Turn:      turn,
		From:      from,
		To:        to,
		PieceType: pt,
		Raw:       upper,
		Elapsed:   elapsed,
	}, nil
}

// String renders the move the way it appears on the wire: the raw token,
// plus ",T<elapsed>" when an elapsed time is present.
func (m *Move) String() string {
	if m.Elapsed == nil {
		return m.Raw
	}
	return fmt.Sprintf("%s,T%d", m.Raw, *m.Elapsed)
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
