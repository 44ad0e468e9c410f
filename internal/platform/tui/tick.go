// Package tui is the terminal front end: a Bubble Tea model that turns key
// presses into engine commands, redraws on every published snapshot, and
// an SSH server that gives each connection its own game.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// SnapshotMsg carries a freshly published game state.
type SnapshotMsg tetris.Snapshot

// stoppedMsg is sent once the runner's snapshot channel closes.
type stoppedMsg struct{}

// errMsg reports a failed command round trip.
type errMsg struct{ err error }

// listen waits for the next snapshot on ch. The model re-arms it after
// every delivery.
func listen(ch <-chan tetris.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return stoppedMsg{}
		}
		return SnapshotMsg(s)
	}
}
