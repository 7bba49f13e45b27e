// Package tui is the terminal player. It renders the engine's view and turns
// key presses into engine commands; it never changes playback state itself.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jonhuth/dsa/internal/playback"
	"github.com/jonhuth/dsa/internal/render"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Config wires a Model.
type Config struct {
	Engine   *playback.Engine
	Notifier *Notifier
	// Session starts runs. Nil makes the model a pure player of whatever
	// the engine was loaded with.
	Session     *playback.Session
	AlgorithmID string
	Title       string
	// Input is the initial JSON input. With a Session it runs on start.
	Input   string
	Painter render.Painter
}

type viewMsg struct{}

type runDoneMsg struct{ err error }

// Model is the bubbletea model of the player.
type Model struct {
	ctx     context.Context
	engine  *playback.Engine
	notify  *Notifier
	session *playback.Session
	algo    string
	title   string
	painter render.Painter

	input   textinput.Model
	keys    keyMap
	help    help.Model
	view    playback.View
	running bool
	err     error
}

// New builds a model. ctx bounds the runs it starts.
func New(ctx context.Context, cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = "input> "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(cfg.Input)

	p := cfg.Painter
	if p == nil {
		p = render.NewStyled()
	}
	title := cfg.Title
	if title == "" {
		title = cfg.AlgorithmID
	}
	return Model{
		ctx:     ctx,
		engine:  cfg.Engine,
		notify:  cfg.Notifier,
		session: cfg.Session,
		algo:    cfg.AlgorithmID,
		title:   title,
		painter: p,
		input:   ti,
		keys:    newKeyMap(cfg.Session != nil),
		help:    help.New(),
		view:    cfg.Engine.View(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForView()}
	if m.session != nil && strings.TrimSpace(m.input.Value()) != "" {
		cmds = append(cmds, m.runCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) waitForView() tea.Cmd {
	if m.notify == nil {
		return nil
	}
	c := m.notify.C()
	return func() tea.Msg {
		<-c
		return viewMsg{}
	}
}

func (m Model) runCmd() tea.Cmd {
	ctx, session, id := m.ctx, m.session, m.algo
	input := json.RawMessage(m.input.Value())
	return func() tea.Msg {
		return runDoneMsg{err: session.Run(ctx, id, input)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = m.engine.View()
		return m, m.waitForView()

	case runDoneMsg:
		m.running = false
		if errors.Is(msg.err, playback.ErrStaleRun) {
			return m, nil
		}
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateEditing(msg)
		}
		return m.updatePlaying(msg)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Run):
		m.input.Blur()
		return m.startRun()
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Edit):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Run) && m.session != nil:
		return m.startRun()
	case key.Matches(msg, m.keys.Cancel) && m.running && m.session != nil:
		// The pending run still finishes, but its steps are not loaded.
		m.session.Invalidate()
		return m, nil
	}
	m.engine.HandleKey(playback.ParseKey(msg.String()))
	return m, nil
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	if m.running {
		m.err = playback.ErrRunInFlight
		return m, nil
	}
	m.running = true
	m.err = nil
	return m, m.runCmd()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if s := m.view.ActiveStep; s != nil {
		b.WriteString(render.Step(*s, m.view.Total, m.painter))
	} else {
		b.WriteString("No steps loaded.")
	}
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status()))

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()))
	}
	if m.session != nil {
		b.WriteString("\n" + m.input.View())
	}
	b.WriteString("\n\n")
	if m.input.Focused() {
		b.WriteString(m.help.View(editingHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) status() string {
	state := "paused"
	if m.view.Playing {
		state = "playing"
	}
	if m.running {
		state = "running…"
	}
	pos := "0/0"
	if m.view.Total > 0 {
		pos = fmt.Sprintf("%d/%d", m.view.Index+1, m.view.Total)
	}
	return fmt.Sprintf("%s · step %s · %s per step", state, pos, m.view.Speed)
}

// Run starts the bubbletea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
