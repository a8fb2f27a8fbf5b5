package shogi

import "strings"

// emptyCell is the CSA rendering of a board square with no piece on it.
const emptyCell = " * "

// State is a shogi position: whose turn it is, what's on the board, and
// what each side holds in hand.
//
// NewState always allocates fresh, empty maps. The source this client was
// ported from defaulted State's board/hand to mutable default arguments
// shared across instances — a classic aliasing bug. Every constructor here
// builds its own containers per instance instead.
type State struct {
	ToMove Turn
	board  map[Position]Piece
	hand   map[Piece]int
}

// NewState returns an empty state with Black to move, an empty board, and
// an empty hand for both sides.
func NewState() *State {
	return &State{
		ToMove: Black,
		board:  make(map[Position]Piece),
		hand:   make(map[Piece]int),
	}
}

// Set places piece on pos (board square), or adds one to the hand count
// for piece if pos is HandPos.
func (s *State) Set(pos Position, piece Piece) {
	if pos.IsHand() {
		s.hand[piece]++
		return
	}
	s.board[pos] = piece
}

// Reset removes the piece on pos from the board, or removes one instance
// of piece from hand, if pos is HandPos. It requires the board square be
// occupied, or the hand count be positive; calling it otherwise is a no-op.
func (s *State) Reset(pos Position, piece Piece) {
	if pos.IsHand() {
		if s.hand[piece] > 0 {
			s.hand[piece]--
			if s.hand[piece] == 0 {
				delete(s.hand, piece)
			}
		}
		return
	}
	delete(s.board, pos)
}

// GetBoard returns the piece occupying pos, or "" if the square is empty.
func (s *State) GetBoard(pos Position) Piece {
	return s.board[pos]
}

// GetHand returns the number of piece held in hand (0 if none).
func (s *State) GetHand(piece Piece) int {
	return s.hand[piece]
}

// BoardPositions returns every board square currently occupied.
func (s *State) BoardPositions() []Position {
	positions := make([]Position, 0, len(s.board))
	for pos := range s.board {
		positions = append(positions, pos)
	}
	return positions
}

// Copy returns a deep copy of s.
func (s *State) Copy() *State {
	c := NewState()
	c.ToMove = s.ToMove
	for k, v := range s.board {
		c.board[k] = v
	}
	for k, v := range s.hand {
		c.hand[k] = v
	}
	return c
}

// Equal reports whether s and other have the same turn, board, and hand.
func (s *State) Equal(other *State) bool {
	if other == nil {
		return false
	}
	if s.ToMove != other.ToMove {
		return false
	}
	if len(s.board) != len(other.board) {
		return false
	}
	for k, v := range s.board {
		if other.board[k] != v {
			return false
		}
	}
	if len(s.hand) != len(other.hand) {
		return false
	}
	for k, v := range s.hand {
		if other.hand[k] != v {
			return false
		}
	}
	return true
}

// String renders s as the CSA position block: nine rank lines, then the
// black and white hand lines, then the to-move line. Empty squares render
// as " * " so this is bit-exact with the CSA server's own Position block.
func (s *State) String() string {
	var lines []string

	for rank := byte('1'); rank <= '9'; rank++ {
		var b strings.Builder
		b.WriteByte('P')
		b.WriteByte(rank)
		for file := byte('9'); file >= '1'; file-- {
			cell := s.GetBoard(NewPosition(file, rank))
			if cell == "" {
				b.WriteString(emptyCell)
			} else {
				b.WriteString(string(cell))
			}
		}
		lines = append(lines, b.String())
	}

	for _, t := range Turns {
		var b strings.Builder
		b.WriteByte('P')
		b.WriteString(string(t))
		for _, pt := range HandPieceTypes {
			count := s.GetHand(NewPiece(t, pt))
			for i := 0; i < count; i++ {
				b.WriteString("00")
				b.WriteString(string(pt))
			}
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, string(s.ToMove))

	return strings.Join(lines, "\n")
}

// SetHirate installs the standard initial shogi position: Black to move,
// no handicap.
func (s *State) SetHirate() {
	s.ToMove = Black
	s.board = map[Position]Piece{
		"91": "-KY", "81": "-KE", "71": "-GI", "61": "-KI", "51": "-OU", "41": "-KI", "31": "-GI", "21": "-KE", "11": "-KY",
		"82": "-HI", "22": "-KA",
		"93": "-FU", "83": "-FU", "73": "-FU", "63": "-FU", "53": "-FU", "43": "-FU", "33": "-FU", "23": "-FU", "13": "-FU",
		"97": "+FU", "87": "+FU", "77": "+FU", "67": "+FU", "57": "+FU", "47": "+FU", "37": "+FU", "27": "+FU", "17": "+FU",
		"88": "+KA", "28": "+HI",
		"99": "+KY", "89": "+KE", "79": "+GI", "69": "+KI", "59": "+OU", "49": "+KI", "39": "+GI", "29": "+KE", "19": "+KY",
	}
	s.hand = make(map[Piece]int)
}
