package session

import (
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/player"
)

// View is the screen the session is currently on.
type View int

const (
	ModeSelect View = iota
	QueryInput
	SourceSelect
	ResultsList
	Streaming
	Downloading
)

func (v View) String() string {
	switch v {
	case ModeSelect:
		return "mode_select"
	case QueryInput:
		return "query_input"
	case SourceSelect:
		return "source_select"
	case ResultsList:
		return "results_list"
	case Streaming:
		return "streaming"
	case Downloading:
		return "downloading"
	default:
		return ""
	}
}

// Mode is the action chosen on [ModeSelect].
type Mode int

const (
	ModeUnset Mode = iota
	ModeStream
	ModeDownload
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "Stream"
	case ModeDownload:
		return "Download"
	default:
		return ""
	}
}

// Modes lists the [ModeSelect] entries in display order.
var Modes = []Mode{ModeStream, ModeDownload}

// EqualizerStyles is the number of cosmetic equalizer styles.
const EqualizerStyles = 5

// Cursor is a selection index over a list, absent when the list is empty.
type Cursor struct {
	index int
	valid bool
}

// NewCursor returns a cursor at the first of n items, or an absent cursor when n is zero.
func NewCursor(n int) Cursor {
	return Cursor{valid: n > 0}
}

// Index returns the position and whether the cursor is present.
func (c Cursor) Index() (int, bool) {
	return c.index, c.valid
}

// AtTop reports whether Up has nowhere to go.
func (c Cursor) AtTop() bool {
	return !c.valid || c.index == 0
}

// Up moves one item towards the start, stopping at 0.
func (c Cursor) Up() Cursor {
	if c.valid && c.index > 0 {
		c.index--
	}
	return c
}

// Down moves one item towards the end of a list of n items, stopping at n-1.
func (c Cursor) Down(n int) Cursor {
	if c.valid && c.index < n-1 {
		c.index++
	}
	return c
}

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	View View
	Mode Mode

	ModeCursor int
	Query      string

	Sources      []string
	SourceCursor int
	Source       string // catalog used for the current results

	Results   []models.Track
	Cursor    int
	HasCursor bool
	NoResults bool

	NowPlaying string
	Paused     bool
	Finished   bool // play exited on its own
	Levels     [player.LevelCount]uint8
	Equalizer  int

	Status    string
	HasStatus bool

	Notice string
}

// Selected returns the track under the results cursor.
func (s Snapshot) Selected() (models.Track, bool) {
	if !s.HasCursor || s.Cursor >= len(s.Results) {
		return models.Track{}, false
	}
	return s.Results[s.Cursor], true
}
