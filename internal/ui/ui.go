package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/playx/internal/session"
)

const banner = `
 ▗▄▄▖ ▗▖    ▗▄▖▗▖  ▗▖▗▖  ▗▖
 ▐▌ ▐▌▐▌   ▐▌ ▐▌▝▚▞▘  ▝▚▞▘
 ▐▛▀▘ ▐▌   ▐▛▀▜▌ ▐▌    ▐▌
 ▐▌   ▐▙▄▄▖▐▌ ▐▌ ▐▌  ▗▞▘▝▚▖`

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 12 // banner, panel borders, notice and help
)

// Model is the bubbletea model wrapping a [session.Controller].
type Model struct {
	ctx      context.Context
	ctl      *session.Controller
	interval time.Duration
	width    int
	height   int
	snap     session.Snapshot
	input    textinput.Model
	help     help.Model
	keys     keyMap
	quitting bool
}

// NewModel creates a new TUI model that redraws every interval.
func NewModel(ctx context.Context, ctl *session.Controller, interval time.Duration) *Model {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	input := textinput.New()
	input.Prompt = "(Search Query): "
	input.Placeholder = "artist, title or anything"
	input.Focus()

	return &Model{
		ctx:      ctx,
		ctl:      ctl,
		interval: interval,
		snap:     ctl.Snapshot(),
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the redraw tick and the input cursor blink.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(m.interval), textinput.Blink)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		for _, ev := range m.keys.events(m.snap.View, msg) {
			if m.ctl.Dispatch(m.ctx, ev) {
				m.quitting = true
				return m, tea.Quit
			}
		}
		m.refresh()
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgTick:
			m.refresh()
			return m, tick(m.interval)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	m.snap = m.ctl.Snapshot()
	m.input.SetValue(m.snap.Query)
	m.input.CursorEnd()
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.innerWidth()
	var body string
	switch m.snap.View {
	case session.ModeSelect:
		body = m.panel("Select Mode", renderList(modeItems(session.Modes), m.snap.ModeCursor, true, width, m.listRows()))
	case session.QueryInput:
		m.input.Width = max(1, width-lipgloss.Width(m.input.Prompt)-1)
		body = m.panel("Search Music", m.input.View())
	case session.SourceSelect:
		body = m.panel("Select Source", renderList(sourceItems(m.snap.Sources), m.snap.SourceCursor, len(m.snap.Sources) > 0, width, m.listRows()))
	case session.ResultsList:
		body = m.panel("Search Results", m.renderResults(width))
	case session.Streaming:
		body = m.renderStreaming(width)
	case session.Downloading:
		body = m.renderDownloads(width)
	}

	var notice string
	if m.snap.Notice != "" {
		notice = styles.err.Render(truncate(m.snap.Notice, width))
	}

	helpView := m.help.ShortHelpView(m.keys.forView(m.snap.View))
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render(banner),
		"",
		body,
		notice,
		helpView,
	)
}

func (m *Model) renderResults(width int) string {
	if m.snap.NoResults {
		return styles.text.Bold(true).Render("NO MUSIC FOUND =(")
	}
	return renderList(resultItems(m.snap.Results), m.snap.Cursor, m.snap.HasCursor, width, m.listRows())
}

func (m *Model) renderStreaming(width int) string {
	title := m.snap.NowPlaying
	if title == "" {
		title = "Unknown Song"
	}
	switch {
	case m.snap.Finished:
		title += " (finished)"
	case m.snap.Paused:
		title += " (paused)"
	}
	song := lipgloss.PlaceHorizontal(width, lipgloss.Center, styles.text.Render(truncate(title, width)))

	rows := max(1, m.listRows()-4)
	bars := styles.bar.Render(renderBars(m.snap.Levels, m.snap.Equalizer, width, rows))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.panel("Now Streaming", song),
		m.panel(fmt.Sprintf("Visual (Equalizer %d)", m.snap.Equalizer+1), bars),
	)
}

func (m *Model) renderDownloads(width int) string {
	status := "No downloads in progress"
	if m.snap.HasStatus {
		status = m.snap.Status
	}

	text := styles.text.Render(truncate(status, width))
	switch {
	case strings.HasPrefix(status, "Download failed"):
		text = styles.err.Render(truncate(status, width))
	case strings.HasSuffix(status, "downloaded successfully"):
		text = styles.ok.Render(truncate(status, width))
	}
	return m.panel("Downloads", lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
}

// panel draws body in a bordered box headed by title.
func (m *Model) panel(title, body string) string {
	content := lipgloss.JoinVertical(lipgloss.Left, styles.title.Render(title), body)
	return styles.panel.Width(m.innerWidth() + 2).Render(content)
}

func (m *Model) innerWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	return max(10, w-4)
}

func (m *Model) listRows() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	return max(3, h-chromeHeight)
}
