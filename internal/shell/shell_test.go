package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownCommand(t *testing.T) {
	in := strings.NewReader("BOGUS\n")
	var out bytes.Buffer
	sh := New(in, &out, nil)

	sh.Start()
	assert.Contains(t, out.String(), "unknown command: BOGUS")
}

func TestExitEndsLoop(t *testing.T) {
	in := strings.NewReader("EXIT\n")
	var out bytes.Buffer
	sh := New(in, &out, nil)
	sh.Start()
	assert.Contains(t, out.String(), "[not connected]> ")
}

func TestHistoryWithNoGame(t *testing.T) {
	in := strings.NewReader("HISTORY\nQ\n")
	var out bytes.Buffer
	sh := New(in, &out, nil)
	sh.Start()
	assert.Contains(t, out.String(), "no game")
}

func TestHelpOverview(t *testing.T) {
	in := strings.NewReader("HELP\nQ\n")
	var out bytes.Buffer
	sh := New(in, &out, nil)
	sh.Start()
	assert.Contains(t, out.String(), "LOGIN")
	assert.Contains(t, out.String(), "EXIT")
}

func TestModeSwitchChangesCommandSet(t *testing.T) {
	sh := New(strings.NewReader(""), &bytes.Buffer{}, nil)
	require.Contains(t, sh.commands, "LOGIN")
	require.NotContains(t, sh.commands, "MOVE")

	sh.SetMode(ModeNetwork)
	require.NotContains(t, sh.commands, "LOGIN")
	require.Contains(t, sh.commands, "MOVE")
}

func TestGameEndBannerCentersLabel(t *testing.T) {
	var out bytes.Buffer
	sh := New(strings.NewReader(""), &out, nil)
	sh.GameEndBanner("#WIN")
	assert.Contains(t, out.String(), "YOU WIN!")
	assert.Contains(t, out.String(), strings.Repeat("*", 80))
	assert.Contains(t, out.String(), "*"+strings.Repeat(" ", 35)+"YOU WIN!"+strings.Repeat(" ", 35)+"*")
}

func TestPromptNotConnected(t *testing.T) {
	sh := New(strings.NewReader(""), &bytes.Buffer{}, nil)
	assert.Equal(t, "[not connected]> ", sh.Prompt())
}
