package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandRoundTrip(t *testing.T) {
	for cmd := range commandNames {
		got, err := ParseCommand(cmd.String())
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
	}
}

func TestParseCommandNormalizes(t *testing.T) {
	got, err := ParseCommand("  Hard ")
	require.NoError(t, err)
	assert.Equal(t, CmdHardDrop, got)
}

func TestParseCommandUnknown(t *testing.T) {
	_, err := ParseCommand("teleport")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Command(99).String())
}
