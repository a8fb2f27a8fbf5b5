// Package shogi implements the board/hand position model and move value
// used by the CSA protocol client: Turn, PieceType, Position, Piece, State
// and Move (components C and D of the protocol client).
package shogi

// Turn identifies which side is to move: Black ('+') or White ('-').
type Turn string

const (
	Black Turn = "+"
	White Turn = "-"
)

// Turns lists both sides in CSA order, black first.
var Turns = []Turn{Black, White}

// Flip returns the opposing turn.
func (t Turn) Flip() Turn {
	switch t {
	case Black:
		return White
	case White:
		return Black
	default:
		return t
	}
}

// Valid reports whether t is one of Black or White.
func (t Turn) Valid() bool {
	return t == Black || t == White
}
