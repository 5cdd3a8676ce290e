package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// gemColors is the display order for gem color indices.
var gemColors = []Color{
	ColorBrightRed,
	ColorBrightGreen,
	ColorBrightYellow,
	ColorBrightBlue,
	ColorBrightMagenta,
	ColorBrightCyan,
	ColorOrange,
	ColorWhite,
	ColorRed,
	ColorGreen,
}

// GemColor returns the screen color used for gem color index i.
// Indices past the table wrap around.
func GemColor(i int) Color {
	return gemColors[Wrap(i, len(gemColors))]
}

// GemColorCount is the number of distinct gem display colors.
func GemColorCount() int {
	return len(gemColors)
}
