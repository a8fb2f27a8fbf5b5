package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogproject/mog-cli-archive/internal/shogi"
)

func TestReadPresetHirate(t *testing.T) {
	games, err := Read([]string{"PI", "+"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, shogi.Black, games[0].State.ToMove)
	assert.Equal(t, shogi.Piece("+FU"), games[0].State.GetBoard(shogi.Position("77")))
}

func TestReadPresetWithHandicapRemoval(t *testing.T) {
	games, err := Read([]string{"PI82HI22KA", "+"})
	require.NoError(t, err)
	assert.Equal(t, shogi.Piece(""), games[0].State.GetBoard(shogi.Position("82")))
	assert.Equal(t, shogi.Piece(""), games[0].State.GetBoard(shogi.Position("22")))
}

func TestReadBoardAndPieceRows(t *testing.T) {
	hirate := shogi.NewState()
	hirate.SetHirate()
	lines := splitLines(hirate.String())

	games, err := Read(lines)
	require.NoError(t, err)
	s := games[0].State
	assert.Equal(t, shogi.Piece("-KY"), s.GetBoard(shogi.Position("91")))
	assert.Equal(t, shogi.Piece("+HI"), s.GetBoard(shogi.Position("28")))
	assert.Equal(t, shogi.Black, s.ToMove)
	assert.True(t, hirate.Equal(s))
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func TestReadPieceRowWithAll(t *testing.T) {
	games, err := Read([]string{"P+00HI", "P-00AL", "+"})
	require.NoError(t, err)
	s := games[0].State
	assert.Equal(t, 1, s.GetHand(shogi.Piece("+HI")))
	assert.Equal(t, 1, s.GetHand(shogi.Piece("-HI")))
	assert.Equal(t, 18, s.GetHand(shogi.Piece("-FU")))
	assert.Equal(t, 0, s.GetHand(shogi.Piece("-OU")))
}

func TestReadMoveHistoryWithTime(t *testing.T) {
	games, err := Read([]string{"PI", "+", "+7776FU", "T12", "-3334FU", "T8"})
	require.NoError(t, err)
	require.Len(t, games[0].History, 2)
	assert.Equal(t, "+7776FU", games[0].History[0].Move.Raw)
	require.NotNil(t, games[0].History[0].Elapsed)
	assert.Equal(t, 12, *games[0].History[0].Elapsed)
}

func TestReadCommentsPreserved(t *testing.T) {
	games, err := Read([]string{"'this is a comment", "PI", "+"})
	require.NoError(t, err)
	assert.Equal(t, []string{"'this is a comment"}, games[0].Comments)
}

func TestWriteRoundTrip(t *testing.T) {
	games, err := Read([]string{"PI", "+", "+7776FU"})
	require.NoError(t, err)

	lines := Write(games)
	reparsed, err := Read(lines)
	require.NoError(t, err)

	assert.True(t, games[0].State.Equal(reparsed[0].State))
	require.Len(t, reparsed[0].History, 1)
	assert.Equal(t, "+7776FU", reparsed[0].History[0].Move.Raw)
}

func TestReadSpecialMoveToken(t *testing.T) {
	games, err := Read([]string{"PI", "+", "%TORYO"})
	require.NoError(t, err)
	require.Len(t, games[0].History, 1)
	assert.True(t, games[0].History[0].Move.IsSpecial)
}
