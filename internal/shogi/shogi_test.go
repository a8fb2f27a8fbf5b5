package shogi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnFlip(t *testing.T) {
	assert.Equal(t, White, Black.Flip())
	assert.Equal(t, Black, White.Flip())
	assert.True(t, Black.Valid())
	assert.False(t, Turn("x").Valid())
}

func TestPromoteUnpromoteRoundTrip(t *testing.T) {
	for _, pt := range []PieceType{FU, KY, KE, GI, KA, HI} {
		promoted := Promote(pt)
		assert.NotEqual(t, pt, promoted)
		assert.Equal(t, pt, Unpromote(promoted))
	}
	assert.Equal(t, KI, Promote(KI))
	assert.Equal(t, OU, Unpromote(OU))
}

func TestPositionValid(t *testing.T) {
	assert.True(t, NewPosition('5', '5').Valid())
	assert.True(t, HandPos.Valid())
	assert.True(t, HandPos.IsHand())
	assert.False(t, NewPosition('5', '5').IsHand())
	assert.False(t, Position("0a").Valid())
}

func TestStateSetResetHand(t *testing.T) {
	s := NewState()
	p := NewPiece(Black, FU)
	s.Set(HandPos, p)
	s.Set(HandPos, p)
	assert.Equal(t, 2, s.GetHand(p))
	s.Reset(HandPos, p)
	assert.Equal(t, 1, s.GetHand(p))
	s.Reset(HandPos, p)
	assert.Equal(t, 0, s.GetHand(p))
}

func TestStateCopyIsIndependent(t *testing.T) {
	s := NewState()
	s.SetHirate()
	c := s.Copy()
	c.Reset(NewPosition('7', '7'), NewPiece(Black, FU))
	assert.NotEqual(t, s.GetBoard(NewPosition('7', '7')), c.GetBoard(NewPosition('7', '7')))
	assert.True(t, s.Equal(s.Copy()))
	assert.False(t, s.Equal(c))
}

func TestStateStringHirateHasTwelveLines(t *testing.T) {
	s := NewState()
	s.SetHirate()
	lines := strings.Split(s.String(), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "+", lines[11])
	assert.Equal(t, "P+", lines[9])
	assert.Equal(t, "P-", lines[10])
}

func TestParseMoveNormal(t *testing.T) {
	mv, err := ParseMove("+7776FU", nil)
	require.NoError(t, err)
	assert.False(t, mv.IsSpecial)
	assert.Equal(t, Black, mv.Turn)
	assert.Equal(t, Position("77"), mv.From)
	assert.Equal(t, Position("76"), mv.To)
	assert.Equal(t, FU, mv.PieceType)
}

func TestParseMoveFromHand(t *testing.T) {
	mv, err := ParseMove("+0055FU", nil)
	require.NoError(t, err)
	assert.Equal(t, HandPos, mv.From)
}

func TestParseMoveRejectsHandTarget(t *testing.T) {
	_, err := ParseMove("+7700FU", nil)
	require.Error(t, err)
}

func TestParseMoveRejectsBadLength(t *testing.T) {
	_, err := ParseMove("+776FU", nil)
	require.Error(t, err)
	var fmtErr *MoveFormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestParseMoveSpecial(t *testing.T) {
	mv, err := ParseMove("%toryo", nil)
	require.NoError(t, err)
	assert.True(t, mv.IsSpecial)
	assert.Equal(t, "%TORYO", mv.Raw)
}

func TestMoveStringWithElapsed(t *testing.T) {
	elapsed := 7
	mv, err := ParseMove("+7776FU", &elapsed)
	require.NoError(t, err)
	assert.Equal(t, "+7776FU,T7", mv.String())
}
