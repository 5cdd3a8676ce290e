package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// ansiCodes maps core.Color to terminal palette indices.
var ansiCodes = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// cellStyles holds one lipgloss style per screen color. Bright colors are
// bold so gems stand out from the gray frame and empty cells.
var cellStyles = buildCellStyles()

func buildCellStyles() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
	}
	for c, code := range ansiCodes {
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(code))
		if c >= core.ColorBrightRed && c <= core.ColorOrange {
			st = st.Bold(true)
		}
		styles[c] = st
	}
	return styles
}

func styleFor(c core.Color) lipgloss.Style {
	if st, ok := cellStyles[c]; ok {
		return st
	}
	return cellStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Cells are styled in same-color spans and trailing blanks are dropped, which
// keeps frames small over SSH.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var span strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}

		end := s.Width()
		for end > 0 && s.Get(end-1, y) == ' ' {
			end--
		}

		x := 0
		for x < end {
			color := s.GetCell(x, y).Color
			span.Reset()
			for x < end {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				span.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(color).Render(span.String()))
		}
	}
	return sb.String()
}
