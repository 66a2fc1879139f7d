package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playx/internal/session"
)

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	confirm   key.Binding
	back      key.Binding
	pause     key.Binding
	equalizer key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		confirm:   key.NewBinding(key.WithKeys("enter", "right"), key.WithHelp("enter/→", "select")),
		back:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "back")),
		pause:     key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space/p", "pause")),
		equalizer: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "equalizer")),
		quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.confirm, k.back},
		{k.pause, k.equalizer, k.quit},
	}
}

// forView returns the bindings shown in the help line for v.
func (k keyMap) forView(v session.View) []key.Binding {
	switch v {
	case session.QueryInput:
		return []key.Binding{k.confirm, k.back, k.quit}
	case session.Streaming:
		return []key.Binding{k.pause, k.equalizer, k.back, k.quit}
	case session.Downloading:
		return []key.Binding{k.back, k.quit}
	default:
		return []key.Binding{k.up, k.down, k.confirm, k.back, k.quit}
	}
}

// events translates a key press into session events.
//
// On QueryInput every printable rune is text, so only the arrows, enter, backspace and the
// quit keys are treated as commands there.
func (k keyMap) events(v session.View, msg tea.KeyMsg) []session.Event {
	if key.Matches(msg, k.quit) {
		return []session.Event{session.Key(session.EventQuit)}
	}

	if v == session.QueryInput {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyRight:
			return []session.Event{session.Key(session.EventConfirm)}
		case tea.KeyLeft:
			return []session.Event{session.Key(session.EventBack)}
		case tea.KeyBackspace:
			return []session.Event{session.Key(session.EventBackspace)}
		case tea.KeySpace:
			return []session.Event{session.Char(' ')}
		case tea.KeyRunes:
			evs := make([]session.Event, 0, len(msg.Runes))
			for _, r := range msg.Runes {
				evs = append(evs, session.Char(r))
			}
			return evs
		}
		return nil
	}

	switch {
	case key.Matches(msg, k.up):
		return []session.Event{session.Key(session.EventUp)}
	case key.Matches(msg, k.down):
		return []session.Event{session.Key(session.EventDown)}
	case key.Matches(msg, k.confirm):
		return []session.Event{session.Key(session.EventConfirm)}
	case key.Matches(msg, k.back):
		return []session.Event{session.Key(session.EventBack)}
	case key.Matches(msg, k.pause):
		return []session.Event{session.Key(session.EventTogglePause)}
	case key.Matches(msg, k.equalizer):
		n, _ := strconv.Atoi(msg.String())
		return []session.Event{session.Equalizer(n - 1)}
	}
	return nil
}
