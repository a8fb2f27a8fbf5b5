package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSendRecordsSentLines(t *testing.T) {
	f := NewFake()
	require.NoError(t, f.SendLine("LOGIN alice secret"))
	assert.Equal(t, []string{"LOGIN alice secret"}, f.Sent)
}

func TestFakeReadLineFIFO(t *testing.T) {
	f := NewFake()
	f.Push("one", "two")

	line, err := f.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	line, err = f.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = f.ReadLine()
	assert.ErrorIs(t, err, Disconnected)
}

func TestFakeReadAvailableDrains(t *testing.T) {
	f := NewFake()
	f.Push("a", "b", "c")

	lines, err := f.ReadAvailable()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)

	lines, err = f.ReadAvailable()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFakeReadAvailableDisconnectedAfterClose(t *testing.T) {
	f := NewFake()
	f.CloseRemote()

	lines, err := f.ReadAvailable()
	assert.ErrorIs(t, err, Disconnected)
	assert.Empty(t, lines)
}
