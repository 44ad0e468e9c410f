package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/runner"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Game is the part of the runner the model talks to.
type Game interface {
	Send(ctx context.Context, cmd tetris.Command) (tetris.Snapshot, error)
	Restart(ctx context.Context, seed int64) (tetris.Snapshot, error)
	Snapshot() tetris.Snapshot
	Subscribe() (<-chan tetris.Snapshot, func())
	Best() int
	NewBest() bool
}

// Model is the Bubble Tea model for one game. It never touches the engine
// directly: key presses go to the runner as commands and the view is
// redrawn from the snapshots the runner publishes.
type Model struct {
	ctx         context.Context
	game        Game
	snaps       <-chan tetris.Snapshot
	unsubscribe func()

	screen *core.Screen
	config core.RuntimeConfig
	keys   KeyMap
	help   help.Model

	snap     tetris.Snapshot
	player   string
	err      error
	quitting bool
}

// NewModel creates a model bound to game. ctx bounds every command sent
// to the runner.
func NewModel(ctx context.Context, game Game, player string, cfg core.RuntimeConfig) Model {
	snaps, unsubscribe := game.Subscribe()
	return Model{
		ctx:         ctx,
		game:        game,
		snaps:       snaps,
		unsubscribe: unsubscribe,
		screen:      core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		config:      cfg,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		snap:        game.Snapshot(),
		player:      player,
	}
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return listen(m.snaps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case SnapshotMsg:
		m.snap = tetris.Snapshot(msg)
		return m, listen(m.snaps)

	case stoppedMsg:
		return m.quit()

	case errMsg:
		if errors.Is(msg.err, runner.ErrStopped) || errors.Is(msg.err, context.Canceled) {
			return m.quit()
		}
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeScreen()
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if m.snap.Over() {
			return m, m.restart()
		}
		return m, nil
	}

	if cmd, ok := m.keys.Command(msg); ok {
		return m, m.send(cmd)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.resizeScreen()
	return m, nil
}

// resizeScreen fits the board screen above the help view.
func (m *Model) resizeScreen() {
	helpLines := strings.Count(m.help.View(m.keys), "\n") + 1
	m.screen.Resize(m.config.ScreenW, max(m.config.ScreenH-helpLines, 0))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

func (m Model) send(cmd tetris.Command) tea.Cmd {
	ctx, game := m.ctx, m.game
	return func() tea.Msg {
		if _, err := game.Send(ctx, cmd); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) restart() tea.Cmd {
	ctx, game := m.ctx, m.game
	return func() tea.Msg {
		if _, err := game.Restart(ctx, 0); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	hud := tetris.HUD{
		Player:  m.player,
		Best:    m.game.Best(),
		NewBest: m.snap.Over() && m.game.NewBest(),
	}
	tetris.Render(m.screen, m.snap, hud)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

// Run plays one game in the terminal. The runner is started here and
// stopped when the program exits.
func Run(parent context.Context, r *runner.Runner, player string, cfg core.RuntimeConfig) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	go func() { _ = r.Run(ctx) }()

	p := tea.NewProgram(
		NewModel(ctx, r, player, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()

	cancel()
	<-r.Done()

	if errors.Is(err, tea.ErrProgramKilled) && parent.Err() != nil {
		return nil
	}
	return err
}
