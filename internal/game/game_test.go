package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogproject/mog-cli-archive/internal/shogi"
	"github.com/mogproject/mog-cli-archive/internal/summary"
)

func hirateCondition(t *testing.T) *summary.Condition {
	t.Helper()
	st := shogi.NewState()
	st.SetHirate()
	return &summary.Condition{GameSummary: summary.GameSummary{
		GameID:        "20260731-a-b-001",
		NamePlus:      "alice",
		NameMinus:     "bob",
		YourTurn:      "+",
		RematchOnDraw: "NO",
		Position:      st.String(),
		Time: summary.TimeSettings{
			TimeUnit:         "1sec",
			TotalTime:        "1500",
			LeastTimePerMove: "0",
			Byoyomi:          "60",
		},
	}}
}

func TestNewGameFromHirate(t *testing.T) {
	g, err := New(hirateCondition(t))
	require.NoError(t, err)
	assert.True(t, g.IsMyTurn())
	assert.Equal(t, shogi.Black, g.State.ToMove)
	assert.Equal(t, shogi.Piece("+FU"), g.State.GetBoard(shogi.Position("77")))
}

func TestApplyNormalMoveFlipsTurn(t *testing.T) {
	g, err := New(hirateCondition(t))
	require.NoError(t, err)

	mv, err := shogi.ParseMove("+7776FU", nil)
	require.NoError(t, err)
	elapsed := 3
	g.Apply(mv, &elapsed)

	assert.Equal(t, shogi.Piece(""), g.State.GetBoard(shogi.Position("77")))
	assert.Equal(t, shogi.Piece("+FU"), g.State.GetBoard(shogi.Position("76")))
	assert.Equal(t, shogi.White, g.State.ToMove)
	assert.False(t, g.IsMyTurn())
	require.Len(t, g.History, 1)
	assert.Equal(t, 3, *g.History[0].Elapsed)
}

func TestApplyCaptureAddsToHand(t *testing.T) {
	g, err := New(hirateCondition(t))
	require.NoError(t, err)
	g.State.Set(shogi.Position("33"), shogi.Piece("+TO"))

	mv, err := shogi.ParseMove("-2333TO", nil)
	require.NoError(t, err)
	g.Apply(mv, nil)

	assert.Equal(t, 1, g.State.GetHand(shogi.Piece("-FU")))
}

func TestApplySpecialMoveDoesNotTouchBoard(t *testing.T) {
	g, err := New(hirateCondition(t))
	require.NoError(t, err)
	before := g.State.String()

	mv, err := shogi.ParseMove("%TORYO", nil)
	require.NoError(t, err)
	g.Apply(mv, nil)

	assert.Equal(t, before, g.State.String())
	require.Len(t, g.History, 1)
}

func TestHistoryStringWrapsEveryFour(t *testing.T) {
	g, err := New(hirateCondition(t))
	require.NoError(t, err)

	assert.Equal(t, "no history", g.HistoryString())

	moves := []string{"+7776FU", "-3334FU", "+2726FU", "-8384FU", "+8877KA"}
	for _, raw := range moves {
		mv, err := shogi.ParseMove(raw, nil)
		require.NoError(t, err)
		g.Apply(mv, nil)
	}
	assert.Equal(t, 1, strings.Count(g.HistoryString(), "\n"))
}

func TestGameString(t *testing.T) {
	g, err := New(hirateCondition(t))
	require.NoError(t, err)
	out := g.String()
	assert.Contains(t, out, "[Game Summary]")
	assert.Contains(t, out, "alice (You!)")
	assert.Contains(t, out, "[Time Settings]")
	assert.Contains(t, out, "[Position]")
	assert.Contains(t, out, "[History]")
}
