package shogi

// PieceType is one of the 14 two-letter CSA piece codes.
type PieceType string

const (
	OU PieceType = "OU"
	FU PieceType = "FU"
	KY PieceType = "KY"
	KE PieceType = "KE"
	GI PieceType = "GI"
	KI PieceType = "KI"
	KA PieceType = "KA"
	HI PieceType = "HI"
	TO PieceType = "TO"
	NY PieceType = "NY"
	NK PieceType = "NK"
	NG PieceType = "NG"
	UM PieceType = "UM"
	RY PieceType = "RY"
)

// PieceTypes lists every piece type the protocol understands, in the
// order the source enumerates them: king first, then the unpromoted
// pieces that can be held in hand, then their promoted forms.
var PieceTypes = []PieceType{OU, FU, KY, KE, GI, KI, KA, HI, TO, NY, NK, NG, UM, RY}

// HandPieceTypes lists the piece types that may be held in hand, in the
// order a hand block is rendered (matches the source's HAND_PIECE_TYPES).
var HandPieceTypes = []PieceType{FU, KY, KE, GI, KI, KA, HI}

var promoteMap = map[PieceType]PieceType{
	FU: TO, KY: NY, KE: NK, GI: NG, KA: UM, HI: RY,
}

var unpromoteMap = map[PieceType]PieceType{
	TO: FU, NY: KY, NK: KE, NG: GI, UM: KA, RY: HI,
}

// Promote returns the promoted form of pt, or pt unchanged if pt cannot
// promote (KI, OU) or is already promoted.
func Promote(pt PieceType) PieceType {
	if p, ok := promoteMap[pt]; ok {
		return p
	}
	return pt
}

// Unpromote returns the unpromoted form of pt, or pt unchanged if pt is
// not a promoted piece.
func Unpromote(pt PieceType) PieceType {
	if p, ok := unpromoteMap[pt]; ok {
		return p
	}
	return pt
}

// IsHandPieceType reports whether pt may be held in hand.
func IsHandPieceType(pt PieceType) bool {
	for _, h := range HandPieceTypes {
		if h == pt {
			return true
		}
	}
	return false
}

// IsPieceType reports whether pt is one of the 14 known piece codes.
func IsPieceType(pt PieceType) bool {
	for _, p := range PieceTypes {
		if p == pt {
			return true
		}
	}
	return false
}

// Piece is a three-character turn+piece-type code, e.g. "+FU", "-OU".
type Piece string

// NewPiece builds a Piece from a turn and piece type.
func NewPiece(t Turn, pt PieceType) Piece {
	return Piece(string(t) + string(pt))
}

// Turn returns the owning side of the piece.
func (p Piece) Turn() Turn {
	if len(p) < 1 {
		return ""
	}
	return Turn(p[0:1])
}

// PieceType returns the piece type, ignoring the owning side.
func (p Piece) PieceType() PieceType {
	if len(p) < 3 {
		return ""
	}
	return PieceType(p[1:3])
}

// Valid reports whether p is a well-formed turn+piece-type code.
func (p Piece) Valid() bool {
	return len(p) == 3 && p.Turn().Valid() && IsPieceType(p.PieceType())
}
