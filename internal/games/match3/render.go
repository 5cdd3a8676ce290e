package match3

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	platformcore "github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

const (
	cellWidth = 3 // gem glyph plus a marker column on each side
	hudHeight = 4 // title, level, score bar, blank line
	barWidth  = 20
)

// Gem glyphs by color index. Shapes differ so colors never carry meaning alone.
var gemGlyphs = []rune{'●', '◆', '▲', '■', '♥', '♣', '♠', '✚', '▼', '◉'}

const (
	bombGlyph  = '✹'
	flashGlyph = '✶'
	emptyGlyph = '·'
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	b := g.engine.Board()
	if b == nil {
		g.drawOverlay(dst, g.screenW/2, g.screenH/2, "NO BOARD", "Check the level configuration")
		return
	}

	area := g.boardRect(b)
	g.renderHUD(dst, area)
	g.renderBoard(dst, b, area)
	g.renderFooter(dst, area)
	g.renderOverlays(dst, area)
}

// boardRect returns the framed board area, centered horizontally.
func (g *Game) boardRect(b *core.Board) platformcore.Rect {
	w := b.Cols()*cellWidth + 2
	h := b.Rows() + 2
	return platformcore.NewRect((g.screenW-w)/2, hudHeight, w, h)
}

// minScreenSize returns the smallest screen that fits the largest board
// this run can show.
func (g *Game) minScreenSize() (int, int) {
	rows, cols := g.cfg.Board.Rows, g.cfg.Board.Cols
	if b := g.engine.Board(); b != nil {
		rows = max(rows, b.Rows())
		cols = max(cols, b.Cols())
	}
	w := max(cols*cellWidth+2, 40)
	h := hudHeight + rows + 2 + 2 // board frame, message and controls lines
	return w, h
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *platformcore.Screen) {
	y := g.screenH / 2
	dst.DrawTextCenteredColor(y, "Window too small", platformcore.ColorBrightRed)
	minW, minH := g.minScreenSize()
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d, please resize", minW, minH))
}

// renderHUD draws the title, level, score progress and run counters.
func (g *Game) renderHUD(dst *platformcore.Screen, area platformcore.Rect) {
	dst.DrawTextCenteredColor(0, g.Title(), platformcore.ColorBrightMagenta)

	var levelStr string
	if g.mode == ModeCampaign {
		levelStr = fmt.Sprintf("Level %d/%d: %s", g.level.ID, len(g.levels), g.level.Name)
	} else {
		levelStr = fmt.Sprintf("%s  (%d colors)", g.level.Name, g.level.Palette)
	}
	dst.DrawTextCentered(1, levelStr)

	score := g.engine.Score()
	var bar string
	if g.level.Target > 0 {
		filled := platformcore.Clamp(score*barWidth/g.level.Target, 0, barWidth)
		bar = fmt.Sprintf("%s%s %d/%d",
			strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), score, g.level.Target)
	} else {
		bar = fmt.Sprintf("Score %d", score)
	}
	x := (g.screenW - utf8.RuneCountInString(bar)) / 2
	dst.DrawTextColor(x, 2, bar, platformcore.ColorBrightGreen)

	stats := fmt.Sprintf("Total %d  Moves %d  Best chain x%d", g.Score(), g.moves, g.bestChain)
	dst.DrawTextCenteredColor(3, stats, platformcore.ColorGray)
}

// renderBoard draws the frame, empty cells, fading gems, gems and markers.
func (g *Game) renderBoard(dst *platformcore.Screen, b *core.Board, area platformcore.Rect) {
	dst.DrawBoxColor(area, platformcore.ColorGray)
	inner := area.Inset(1)

	for r := range b.Rows() {
		for c := range b.Cols() {
			x, y := cellCenter(inner, float64(r), float64(c))
			dst.SetWithColor(x, y, emptyGlyph, platformcore.ColorGray)
		}
	}

	for t, p := range g.fx.fading {
		if b.Get(t.Pos) != nil {
			continue
		}
		x, y := cellCenter(inner, float64(t.Pos.Row), float64(t.Pos.Col))
		glyph := tileGlyph(&t)
		if p >= 0.5 {
			glyph = '∙'
		}
		dst.SetWithColor(x, y, glyph, platformcore.ColorGray)
	}

	// Static gems first so sliding ones are drawn on top.
	var moving []*core.Tile
	for _, t := range b.Tiles() {
		if _, _, ok := g.fx.offset(t); ok {
			moving = append(moving, t)
			continue
		}
		g.drawTile(dst, inner, t, 0, 0)
		if !t.Movable {
			x, y := cellCenter(inner, float64(t.Pos.Row), float64(t.Pos.Col))
			dst.SetWithColor(x-1, y, '│', platformcore.ColorGray)
			dst.SetWithColor(x+1, y, '│', platformcore.ColorGray)
		}
	}
	for _, t := range moving {
		dr, dc, _ := g.fx.offset(t)
		g.drawTile(dst, inner, t, dr, dc)
	}

	for r := range b.Rows() {
		for c := range b.Cols() {
			p := core.P(r, c)
			if g.fx.flashing(p) {
				x, y := cellCenter(inner, float64(r), float64(c))
				color := platformcore.ColorBrightYellow
				if (g.tick/4)%2 == 0 {
					color = platformcore.ColorOrange
				}
				dst.SetWithColor(x, y, flashGlyph, color)
			}
		}
	}

	if g.hint != nil && (g.tick/15)%2 == 0 {
		markCell(dst, inner, g.hint.A, '(', ')', platformcore.ColorBrightCyan)
		markCell(dst, inner, g.hint.B, '(', ')', platformcore.ColorBrightCyan)
	}
	if g.selected != nil {
		markCell(dst, inner, *g.selected, '{', '}', platformcore.ColorBrightYellow)
	}
	if !g.levelCleared && !g.won {
		markCell(dst, inner, g.cursor, '[', ']', platformcore.ColorBrightWhite)
	}
}

// drawTile draws one gem shifted by (dr, dc) cells, clipped to the board.
func (g *Game) drawTile(dst *platformcore.Screen, inner platformcore.Rect, t *core.Tile, dr, dc float64) {
	x, y := cellCenter(inner, float64(t.Pos.Row)+dr, float64(t.Pos.Col)+dc)
	if !inner.Contains(x, y) {
		return
	}
	dst.SetWithColor(x, y, tileGlyph(t), g.tileColor(t))
}

func (g *Game) tileColor(t *core.Tile) platformcore.Color {
	if t.IsSpecial() {
		if (g.tick/10)%2 == 0 {
			return platformcore.ColorOrange
		}
		return platformcore.ColorBrightRed
	}
	return platformcore.GemColor(int(t.Color))
}

func tileGlyph(t *core.Tile) rune {
	if t.IsSpecial() {
		return bombGlyph
	}
	return gemGlyphs[int(t.Color)%len(gemGlyphs)]
}

// cellCenter maps a (possibly fractional) board cell to the screen column of
// its glyph.
func cellCenter(inner platformcore.Rect, row, col float64) (int, int) {
	x := inner.X + int(math.Round(col*cellWidth)) + cellWidth/2
	y := inner.Y + int(math.Round(row))
	return x, y
}

// markCell draws bracket markers on both sides of a cell.
func markCell(dst *platformcore.Screen, inner platformcore.Rect, p core.Position, left, right rune, c platformcore.Color) {
	x, y := cellCenter(inner, float64(p.Row), float64(p.Col))
	dst.SetWithColor(x-1, y, left, c)
	dst.SetWithColor(x+1, y, right, c)
}

// renderFooter draws the transient message and the control hints.
func (g *Game) renderFooter(dst *platformcore.Screen, area platformcore.Rect) {
	if g.message != "" {
		dst.DrawTextCenteredColor(area.Bottom(), g.message, platformcore.ColorBrightYellow)
	}
	dst.DrawTextCenteredColor(g.screenH-1, g.Controls(), platformcore.ColorGray)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *platformcore.Screen, area platformcore.Rect) {
	cx, cy := area.Center()

	switch {
	case g.paused:
		g.drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case g.levelCleared:
		scoreStr := fmt.Sprintf("Scored %d", g.lastLevelScore)
		var next string
		switch {
		case g.mode == ModeEndless:
			next = fmt.Sprintf("Next: Stage %d", g.level.ID+1)
		case g.levelIndex >= len(g.levels)-1:
			next = "Final level complete!"
		default:
			next = fmt.Sprintf("Next: %s", g.levels[g.levelIndex+1].Name)
		}
		g.drawOverlay(dst, cx, cy, fmt.Sprintf("%s CLEARED!", strings.ToUpper(g.level.Name)), scoreStr, next)
	case g.won:
		g.drawOverlay(dst, cx, cy, "CAMPAIGN COMPLETE!",
			fmt.Sprintf("Total score: %d", g.Score()),
			fmt.Sprintf("Moves: %d  Best chain: x%d", g.moves, g.bestChain),
			"Press R to restart")
	case g.gameOver:
		g.drawOverlay(dst, cx, cy, "GAME OVER", "The board could not be built", "Press R to restart")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *platformcore.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := platformcore.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBoxColor(box, platformcore.ColorBrightWhite)

	for i, line := range lines {
		x := centerX - utf8.RuneCountInString(line)/2
		color := platformcore.ColorDefault
		if i == 0 {
			color = platformcore.ColorBrightYellow
		}
		dst.DrawTextColor(x, box.Y+1+i, line, color)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows: Move | Space: Select | X: Bomb | H: Hint | P: Pause | R: Reset | Q: Quit"
}
