package session

// EventKind enumerates the discrete inputs the controller understands.
type EventKind int

const (
	EventUp EventKind = iota
	EventDown
	EventConfirm
	EventBack
	EventChar
	EventBackspace
	EventTogglePause
	EventSetEqualizer
	EventQuit
)

func (k EventKind) String() string {
	switch k {
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventConfirm:
		return "confirm"
	case EventBack:
		return "back"
	case EventChar:
		return "char"
	case EventBackspace:
		return "backspace"
	case EventTogglePause:
		return "toggle_pause"
	case EventSetEqualizer:
		return "set_equalizer"
	case EventQuit:
		return "quit"
	default:
		return ""
	}
}

// Event is one input. Char is set for [EventChar], Level for [EventSetEqualizer].
type Event struct {
	Kind  EventKind
	Char  rune
	Level int
}

// Key returns an event carrying no payload.
func Key(kind EventKind) Event {
	return Event{Kind: kind}
}

// Char returns a text input event.
func Char(r rune) Event {
	return Event{Kind: EventChar, Char: r}
}

// Equalizer returns an event selecting equalizer style n (0 based).
func Equalizer(n int) Event {
	return Event{Kind: EventSetEqualizer, Level: n}
}
