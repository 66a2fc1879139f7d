package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/session"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// truncate shortens s to at most w terminal cells.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, ellipsis)
}

// window returns the slice bounds of at most rows items of n that keep cursor visible.
func window(n, cursor, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	start = max(0, min(start, n-rows))
	return start, start + rows
}

// renderList draws numbered rows, highlighting the cursor row when present.
func renderList(items []string, cursor int, hasCursor bool, width, rows int) string {
	start, end := window(len(items), cursor, rows)

	var b strings.Builder
	for i := start; i < end; i++ {
		line := truncate(items[i], width)
		if pad := width - runewidth.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		if hasCursor && i == cursor {
			b.WriteString(styles.selected.Render(line))
		} else {
			b.WriteString(styles.text.Render(line))
		}
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func modeItems(modes []session.Mode) []string {
	items := make([]string, len(modes))
	for i, m := range modes {
		items[i] = fmt.Sprintf("%d. %s", i+1, strings.ToUpper(m.String()))
	}
	return items
}

func sourceItems(names []string) []string {
	items := make([]string, len(names))
	for i, n := range names {
		items[i] = fmt.Sprintf("%d. %s", i+1, n)
	}
	return items
}

func resultItems(tracks []models.Track) []string {
	items := make([]string, len(tracks))
	for i, t := range tracks {
		items[i] = fmt.Sprintf("%d: %s (%s)", i+1, t.Title, t.Source)
	}
	return items
}
