// Package ui drives the interactive presentation loop: a Bubble Tea
// model that navigates the deck, renders frames, and fans them out to
// followers and the resume store.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/declaim/declaim/internal/deck"
	"github.com/declaim/declaim/internal/render"
	"github.com/declaim/declaim/internal/state"
)

// Publisher receives every rendered frame. The follow-along server
// implements it.
type Publisher interface {
	Publish(frame string)
}

// Loader re-reads and re-parses the script. It is invoked when the
// watcher reports a change or the presenter presses reload. Warnings
// (such as a slide taller than the screen) are returned rather than
// prompted, because the terminal belongs to the presentation here.
type Loader func() (*deck.Deck, []string, error)

// KeyMap defines the presenter keybindings.
type KeyMap struct {
	NextBuild key.Binding
	PrevBuild key.Binding
	NextSlide key.Binding
	PrevSlide key.Binding
	First     key.Binding
	Last      key.Binding
	RunCode   key.Binding
	Reload    key.Binding
	Blank     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var presenterKeys = KeyMap{
	NextBuild: key.NewBinding(key.WithKeys("right", "l", " ", "enter"), key.WithHelp("→/l/space", "next build")),
	PrevBuild: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous build")),
	NextSlide: key.NewBinding(key.WithKeys("down", "j", "n"), key.WithHelp("↓/j/n", "next slide")),
	PrevSlide: key.NewBinding(key.WithKeys("up", "k", "p"), key.WithHelp("↑/k/p", "previous slide")),
	First:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/home", "first slide")),
	Last:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G/end", "last slide")),
	RunCode:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run code")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload script")),
	Blank:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "blank screen")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3)
	helpKeyStyle = lipgloss.NewStyle().Bold(true)
)

// reloadMsg is emitted when the script watcher reports a change.
type reloadMsg struct{}

// codeDoneMsg carries the result of an interpreter run.
type codeDoneMsg struct{ err error }

// Model is the presenter loop state.
type Model struct {
	deck   *deck.Deck
	geo    render.Geometry
	border string

	keys KeyMap

	runner    deck.CodeRunner
	loader    Loader
	reloads   <-chan struct{}
	publisher Publisher

	store      *state.Store
	scriptPath string

	progressBar  progress.Model
	showProgress bool

	pending  string // accumulated digits for a numeric jump
	status   string
	blanked  bool
	showHelp bool
	quitting bool
}

// Options configures a presenter Model. Deck and Geometry are
// required; everything else is optional.
type Options struct {
	Deck       *deck.Deck
	Geometry   render.Geometry
	Border     string
	Runner     deck.CodeRunner
	Loader     Loader
	Reloads    <-chan struct{}
	Publisher  Publisher
	Store      *state.Store
	ScriptPath string
	Progress   bool
}

// New builds a presenter model parked before the first slide.
func New(opts Options) Model {
	border := opts.Border
	if border == "" {
		border = render.DefaultBorder
	}
	return Model{
		deck:         opts.Deck,
		geo:          opts.Geometry,
		border:       border,
		keys:         presenterKeys,
		runner:       opts.Runner,
		loader:       opts.Loader,
		reloads:      opts.Reloads,
		publisher:    opts.Publisher,
		store:        opts.Store,
		scriptPath:   opts.ScriptPath,
		progressBar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		showProgress: opts.Progress,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForReload()
}

// waitForReload blocks on the watcher channel and resumes the update
// loop when the script changes.
func (m Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.geo.Width = msg.Width
		m.geo.Height = msg.Height
		if m.showProgress {
			m.geo.Height--
		}
		m.deck.SetWidth(m.geo.HorizontalSpace())
		m.publish()
		return m, nil

	case reloadMsg:
		m.reload()
		return m, m.waitForReload()

	case codeDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
		} else {
			m.status = statusStyle.Render("code finished")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	s := msg.String()
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		m.pending += s
		m.status = ""
		return m, nil
	}

	// Enter commits a pending numeric jump before it advances builds.
	if m.pending != "" {
		switch s {
		case "enter":
			n, err := strconv.Atoi(m.pending)
			m.pending = ""
			if err == nil {
				m.deck.JumpTo(n - 1)
				m.publish()
			}
			return m, nil
		case "esc":
			m.pending = ""
			return m, nil
		}
		m.pending = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.savePosition()
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextBuild):
		m.deck.NextBuild()
		m.afterMove()

	case key.Matches(msg, m.keys.PrevBuild):
		m.deck.PreviousBuild()
		m.afterMove()

	case key.Matches(msg, m.keys.NextSlide):
		m.deck.Jump(1)
		m.afterMove()

	case key.Matches(msg, m.keys.PrevSlide):
		m.deck.Jump(-1)
		m.afterMove()

	case key.Matches(msg, m.keys.First):
		m.deck.FirstSlide()
		m.afterMove()

	case key.Matches(msg, m.keys.Last):
		m.deck.LastBuild()
		m.afterMove()

	case key.Matches(msg, m.keys.Blank):
		m.blanked = !m.blanked

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Reload):
		m.reload()

	case key.Matches(msg, m.keys.RunCode):
		return m, m.runCode()
	}

	return m, nil
}

func (m *Model) afterMove() {
	m.status = ""
	m.blanked = false
	m.publish()
}

// reload swaps in a freshly parsed deck, keeping the current position.
// Parse warnings land in the status line instead of a prompt.
func (m *Model) reload() {
	if m.loader == nil {
		return
	}
	fresh, warnings, err := m.loader()
	if err != nil {
		m.status = errorStyle.Render(fmt.Sprintf("reload failed: %v", err))
		return
	}
	slide, _ := m.deck.Cursor()
	fresh.SetWidth(m.geo.HorizontalSpace())
	fresh.JumpTo(slide)
	m.deck = fresh
	if len(warnings) > 0 {
		m.status = errorStyle.Render(warnings[0])
	} else {
		m.status = statusStyle.Render("reloaded")
	}
	m.publish()
}

// runCode feeds the current slide's snippet to the interpreter off the
// update loop.
func (m *Model) runCode() tea.Cmd {
	d := m.deck
	runner := m.runner
	return func() tea.Msg {
		return codeDoneMsg{err: d.RunCode(context.Background(), runner)}
	}
}

func (m *Model) savePosition() {
	if m.store == nil || m.scriptPath == "" {
		return
	}
	slide, build := m.deck.Cursor()
	if err := m.store.SavePosition(m.scriptPath, slide, build); err != nil {
		slog.Warn("save position", "script", m.scriptPath, "error", err)
	}
}

func (m *Model) publish() {
	if m.publisher == nil {
		return
	}
	m.publisher.Publish(m.frame())
}

// frame renders the current build, or an empty screen when the deck is
// parked outside the slides.
func (m Model) frame() string {
	b, ok := m.deck.Current()
	if !ok {
		return ""
	}
	return render.RenderFrame(b, m.geo, m.border)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}
	if m.blanked {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.frame())

	if m.showProgress {
		sb.WriteString("\n")
		sb.WriteString(m.progressView())
	}
	if m.pending != "" {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render("jump to slide: " + m.pending))
	} else if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.status)
	}
	return sb.String()
}

func (m Model) progressView() string {
	total := m.deck.SlideCount()
	if total == 0 {
		return ""
	}
	slide, _ := m.deck.Cursor()
	if slide < 0 {
		slide = -1
	}
	if slide >= total {
		slide = total - 1
	}
	bar := m.progressBar
	bar.Width = m.geo.Width
	return bar.ViewAs(float64(slide+1) / float64(total))
}

func (m Model) helpView() string {
	bindings := []key.Binding{
		m.keys.NextBuild,
		m.keys.PrevBuild,
		m.keys.NextSlide,
		m.keys.PrevSlide,
		m.keys.First,
		m.keys.Last,
		m.keys.RunCode,
		m.keys.Reload,
		m.keys.Blank,
		m.keys.Help,
		m.keys.Quit,
	}

	var sb strings.Builder
	sb.WriteString("declaim\n\n")
	for _, b := range bindings {
		h := b.Help()
		sb.WriteString(fmt.Sprintf("%s  %s\n", helpKeyStyle.Render(fmt.Sprintf("%-12s", h.Key)), h.Desc))
	}
	sb.WriteString(fmt.Sprintf("%s  %s\n", helpKeyStyle.Render(fmt.Sprintf("%-12s", "1-9 enter")), "jump to slide"))

	box := helpBox.Render(strings.TrimRight(sb.String(), "\n"))
	if m.geo.Width > 0 && m.geo.Height > 0 {
		return lipgloss.Place(m.geo.Width, m.geo.Height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
