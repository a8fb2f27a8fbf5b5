package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []string {
	return []string{
		"BEGIN Game_Summary",
		"Protocol_Version:1.1",
		"Protocol_Mode:Server",
		"Format:Standard",
		"Declaration:Jishogi 1.1",
		"Game_ID:20260731-alice-bob-001",
		"Name+:alice",
		"Name-:bob",
		"Your_Turn:+",
		"Rematch_On_Draw:NO",
		"To_Move:+",
		"BEGIN Time",
		"Time_Unit:1sec",
		"Total_Time:1500",
		"Least_Time_Per_Move:0",
		"Byoyomi:60",
		"END Time",
		"BEGIN Position",
		"P1-KY-KE-GI-KI-OU-KI-GI-KE-KY",
		"P+",
		"P-",
		"+",
		"END Position",
		"END Game_Summary",
	}
}

func TestParseTree(t *testing.T) {
	tree, err := Parse(sampleLines())
	require.NoError(t, err)

	gs, ok := tree["Game_Summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "20260731-alice-bob-001", gs["Game_ID"])

	timeBlock, ok := gs["Time"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1500", timeBlock["Total_Time"])

	pos, ok := gs["Position"].(string)
	require.True(t, ok)
	assert.Contains(t, pos, "P1-KY-KE-GI-KI-OU-KI-GI-KE-KY")
	assert.Contains(t, pos, "P+")
}

func TestParseUnrecognizedLine(t *testing.T) {
	_, err := Parse([]string{"BEGIN Game_Summary", "not a valid line", "END Game_Summary"})
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseConditionDecodesTypedStruct(t *testing.T) {
	cond, err := ParseCondition(sampleLines())
	require.NoError(t, err)

	assert.Equal(t, "20260731-alice-bob-001", cond.GameSummary.GameID)
	assert.Equal(t, "alice", cond.GameSummary.NamePlus)
	assert.Equal(t, "bob", cond.GameSummary.NameMinus)
	assert.Equal(t, "+", cond.GameSummary.YourTurn)
	assert.Equal(t, "1500", cond.GameSummary.Time.TotalTime)
	assert.Equal(t, "60", cond.GameSummary.Time.Byoyomi)
	assert.Contains(t, cond.GameSummary.Position, "P1-KY-KE-GI-KI-OU-KI-GI-KE-KY")
}
