package ui

import (
	"math"
	"strings"

	"github.com/desertthunder/playx/internal/player"
)

// maxBarHeight caps the equalizer at one row per level step.
const maxBarHeight = 10

// glyph returns the cell drawn at row j (0 is the bottom) of a bar of height h.
type glyph func(j, h int) rune

var equalizerStyles = [...]glyph{
	func(j, h int) rune {
		if j%2 == 0 {
			return '|'
		}
		return ' '
	},
	func(j, h int) rune { return '█' },
	func(j, h int) rune {
		if j%2 == 0 {
			return '▆'
		}
		return ' '
	},
	func(j, h int) rune { return '#' },
	func(j, h int) rune {
		if j == h-1 {
			return '●'
		}
		return '│'
	},
}

// barHeight scales a level in [0, MaxLevel] to rows.
func barHeight(v uint8, rows int) int {
	return int(math.Round(float64(v) / float64(player.MaxLevel+1) * float64(rows)))
}

// renderBars draws one bar per level, bottom aligned, in a width by height cell area.
func renderBars(levels [player.LevelCount]uint8, style, width, height int) string {
	rows := min(height, maxBarHeight)
	if rows <= 0 {
		return ""
	}
	if style < 0 || style >= len(equalizerStyles) {
		style = 0
	}
	draw := equalizerStyles[style]
	cell := max(1, width/len(levels))

	var heights [player.LevelCount]int
	for i, v := range levels {
		heights[i] = barHeight(v, rows)
	}

	lines := make([]string, rows)
	for r := range rows {
		j := rows - 1 - r
		var b strings.Builder
		for i := range levels {
			ch := ' '
			if j < heights[i] {
				ch = draw(j, heights[i])
			}
			left := (cell - 1) / 2
			b.WriteString(strings.Repeat(" ", left))
			b.WriteRune(ch)
			b.WriteString(strings.Repeat(" ", cell-1-left))
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}
