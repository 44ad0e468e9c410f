package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// KeyMap holds the in-game key bindings. Each gameplay binding maps to
// exactly one engine command; the rest are handled by the model.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	Hold      key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.HardDrop, k.Hold, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Hold},
		{k.Pause, k.Restart, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings: arrows or WASD-style keys,
// z/x for rotation, space to hard drop, c to hold.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("up", "x", "w", "k"),
			key.WithHelp("↑/x", "rotate"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "rotate ccw"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "soft drop"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "drop"),
		),
		Hold: key.NewBinding(
			key.WithKeys("c", "shift+c"),
			key.WithHelp("c", "hold"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p/esc", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "restart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Command maps a key press to an engine command. It reports false for
// keys that are not gameplay input.
func (k KeyMap) Command(msg tea.KeyMsg) (tetris.Command, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return tetris.CmdMoveLeft, true
	case key.Matches(msg, k.Right):
		return tetris.CmdMoveRight, true
	case key.Matches(msg, k.RotateCW):
		return tetris.CmdRotateCW, true
	case key.Matches(msg, k.RotateCCW):
		return tetris.CmdRotateCCW, true
	case key.Matches(msg, k.SoftDrop):
		return tetris.CmdSoftDrop, true
	case key.Matches(msg, k.HardDrop):
		return tetris.CmdHardDrop, true
	case key.Matches(msg, k.Hold):
		return tetris.CmdHold, true
	case key.Matches(msg, k.Pause):
		return tetris.CmdPause, true
	}
	return tetris.CmdNone, false
}
