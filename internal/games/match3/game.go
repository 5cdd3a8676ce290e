package match3

import (
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/config"
	platformcore "github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Durations in ticks.
const (
	levelClearDuration = 120 // level cleared overlay, ~2s at 60fps
	messageDuration    = 90
	hintDuration       = 120
	maxReshuffles      = 8 // per settle, before giving up on a dead board
)

// Package-level variables for configuration set by the CLI.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.New(io.Discard)

	// Start level for the next campaign game created by New.
	pendingStartLevel atomic.Int32
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetStartLevel sets the starting campaign level (1-indexed) for the next
// game created by New, which takes it over. 0 means start from the
// beginning.
func SetStartLevel(level int) {
	pendingStartLevel.Store(int32(level))
}

// GetStartLevel returns the start level the next New will take.
func GetStartLevel() int {
	return int(pendingStartLevel.Load())
}

// SetLogger routes engine and game diagnostics to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// loadConfig loads the configuration and applies the difficulty preset.
func loadConfig() (config.Match3Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if difficultyPreset != "" {
		config.ApplyMatch3Preset(&cfg, difficultyPreset)
	}
	return cfg, nil
}

// Game implements the match-three game on top of the board engine.
type Game struct {
	mode Mode

	cfg        config.Match3Config
	difficulty *config.DifficultyManager
	levels     []Level
	level      Level
	levelIndex int // campaign index, or levels cleared in endless
	startLevel int // campaign level for the next Reset, 0 for the first

	rng      *rand.Rand
	engine   *core.Engine
	timeline *core.Timeline
	fx       *effects
	dt       time.Duration // simulated time per tick

	// Screen dimensions
	screenW int
	screenH int

	// Player state
	cursor   core.Position
	selected *core.Position
	hint     *core.Move

	// Run statistics
	tick       uint64
	total      int // score banked from cleared levels
	moves      int
	bestChain  int
	specials   int
	reshuffles int

	// Status
	message         string
	messageTicks    int
	hintTicks       int
	levelClearTicks int
	lastLevelScore  int

	paused       bool
	tooSmall     bool
	levelCleared bool
	won          bool
	gameOver     bool
}

// New creates a new campaign mode game, taking over the level set with
// SetStartLevel.
func New() *Game {
	return &Game{mode: ModeCampaign, startLevel: int(pendingStartLevel.Swap(0))}
}

// NewEndless creates a new endless mode game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register("match3", func() registry.Game {
		return New()
	})
	registry.Register("match3_endless", func() registry.Game {
		return NewEndless()
	})
}

// SetStartLevel makes the next Reset start the campaign at level
// (1-indexed). Endless games ignore it.
func (g *Game) SetStartLevel(level int) {
	g.startLevel = level
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "match3_endless"
	}
	return "match3"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Match-3 (Endless)"
	}
	return "Match-3"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	if g.mode == ModeEndless {
		return "Endless stages with rising targets and more colors"
	}
	return "Swap gems, make runs of three, clear every level"
}

// Reset initializes or restarts the run.
func (g *Game) Reset(rc platformcore.RuntimeConfig) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Warn("using default configuration", "err", err)
		cfg = config.DefaultMatch3Config()
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.levels = campaignLevels(cfg)

	rc = rc.Normalize()
	g.dt = rc.TickDuration()
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH

	delays := core.Delays{
		Swap:   cfg.Timing.Swap(),
		Remove: cfg.Timing.Remove(),
		Refill: cfg.Timing.Refill(),
		Fade:   cfg.Timing.Fade(),
	}
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.timeline = core.NewTimeline()
	g.fx = newEffects(rc.TickRate, delays)
	g.engine = core.NewEngine(
		core.WithRandom(g.rng),
		core.WithScheduler(g.timeline),
		core.WithSink(g.fx),
		core.WithLogger(logger),
		core.WithSpecialThreshold(cfg.Rules.SpecialThreshold),
		core.WithDelays(delays),
	)

	g.tick = 0
	g.total = 0
	g.moves = 0
	g.bestChain = 0
	g.specials = 0
	g.reshuffles = 0
	g.message = ""
	g.messageTicks = 0
	g.levelClearTicks = 0
	g.lastLevelScore = 0
	g.paused = false
	g.levelCleared = false
	g.won = false
	g.gameOver = false

	g.levelIndex = 0
	if g.mode == ModeCampaign && g.startLevel > 0 && g.startLevel <= len(g.levels) {
		g.levelIndex = g.startLevel - 1
	}
	g.startLevel = 0 // restarts begin at the first level
	g.loadLevel()
	g.cursor = core.P(g.cfg.Board.Rows/2, g.cfg.Board.Cols/2)
	g.clampCursor()

	g.checkScreenSize()
}

// currentLevel returns the level at levelIndex for the mode.
func (g *Game) currentLevel() Level {
	if g.mode == ModeEndless {
		return endlessLevel(g.cfg, g.difficulty, g.levelIndex)
	}
	if g.levelIndex >= len(g.levels) {
		return g.levels[len(g.levels)-1]
	}
	return g.levels[g.levelIndex]
}

// loadLevel builds a fresh board for the current level.
func (g *Game) loadLevel() {
	g.level = g.currentLevel()
	g.engine.SetTarget(g.level.Target)
	palette := core.NewPalette(g.level.Palette)

	g.fx.reset()
	g.selected = nil
	g.hint = nil

	b, err := g.level.board()
	if err == nil && b != nil {
		err = g.engine.LoadBoard(b, palette)
	}
	if err != nil {
		logger.Warn("level layout rejected, using a random board", "level", g.level.ID, "err", err)
	}
	if b == nil || err != nil {
		if _, err := g.engine.InitBoard(g.cfg.Board.Rows, g.cfg.Board.Cols, palette, g.rng.Int63()); err != nil {
			logger.Error("cannot build board", "level", g.level.ID, "err", err)
			g.gameOver = true
			return
		}
	}
	g.engine.Events()
	g.clampCursor()
	g.ensureMoves()
	g.checkScreenSize()
	logger.Debug("level loaded", "mode", g.mode, "level", g.level.ID, "target", g.level.Target, "colors", g.level.Palette)
}

// Resize adapts to a new screen size without restarting the run.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	minW, minH := g.minScreenSize()
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	if g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) && !g.won && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	g.timeline.Advance(g.dt)
	g.fx.update()
	g.drainEvents()
	g.countDown()

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= levelClearDuration {
			g.advanceLevel()
		}
		return platformcore.StepResult{State: g.State()}
	}

	if g.won || g.gameOver {
		return platformcore.StepResult{State: g.State()}
	}

	g.handleInput(in)
	return platformcore.StepResult{State: g.State()}
}

// countDown expires the timed HUD elements.
func (g *Game) countDown() {
	if g.messageTicks > 0 {
		g.messageTicks--
		if g.messageTicks == 0 {
			g.message = ""
		}
	}
	if g.hintTicks > 0 {
		g.hintTicks--
		if g.hintTicks == 0 {
			g.hint = nil
		}
	}
}

var cursorMoves = []struct {
	action platformcore.Action
	dir    core.Dir
}{
	{platformcore.ActionUp, core.DirUp},
	{platformcore.ActionDown, core.DirDown},
	{platformcore.ActionLeft, core.DirLeft},
	{platformcore.ActionRight, core.DirRight},
}

// handleInput applies one frame of player input.
func (g *Game) handleInput(in platformcore.InputFrame) {
	for _, m := range cursorMoves {
		if in.Has(m.action) {
			g.moveCursor(m.dir)
			break
		}
	}

	if in.Has(platformcore.ActionSelect) || in.Has(platformcore.ActionConfirm) {
		g.toggleSelect()
	}
	if in.Has(platformcore.ActionDetonate) {
		g.detonate()
	}
	if in.Has(platformcore.ActionHint) {
		g.showHint()
	}
}

// moveCursor moves the cursor one cell. With a gem selected the move is a
// swap in that direction instead.
func (g *Game) moveCursor(d core.Dir) {
	b := g.engine.Board()
	if g.selected != nil {
		from := *g.selected
		to := from.Step(d)
		if !b.InBounds(to) {
			return
		}
		g.trySwap(from, to)
		g.cursor = to
		return
	}

	if next := g.cursor.Step(d); b.InBounds(next) {
		g.cursor = next
	}
}

// toggleSelect picks up the gem under the cursor, drops it, or swaps it
// with the cursor cell when the two are neighbours.
func (g *Game) toggleSelect() {
	switch {
	case g.selected == nil:
		if g.engine.Board().Get(g.cursor) != nil {
			pos := g.cursor
			g.selected = &pos
		}
	case *g.selected == g.cursor:
		g.selected = nil
	case g.selected.Adjacent(g.cursor):
		g.trySwap(*g.selected, g.cursor)
	default:
		pos := g.cursor
		g.selected = &pos
	}
}

// trySwap asks the engine to swap two cells. The outcome arrives as events.
func (g *Game) trySwap(a, b core.Position) {
	g.selected = nil
	g.hint = nil
	g.hintTicks = 0
	g.engine.AttemptSwap(a, b)
}

// detonate sets off the bomb under the cursor.
func (g *Game) detonate() {
	g.selected = nil
	g.hint = nil
	g.hintTicks = 0
	g.engine.TriggerSpecial(g.cursor)
}

// showHint highlights one legal move.
func (g *Game) showHint() {
	if g.engine.IsBusy() {
		return
	}
	moves := core.FindMoves(g.engine.Board())
	if len(moves) == 0 {
		return
	}
	m := moves[g.rng.Intn(len(moves))]
	g.hint = &m
	g.hintTicks = hintDuration
}

// drainEvents consumes the engine's event queue.
func (g *Game) drainEvents() {
	for _, ev := range g.engine.Events() {
		switch ev := ev.(type) {
		case core.LevelComplete:
			g.total += ev.Score
			g.lastLevelScore = ev.Score
			g.levelCleared = true
			g.levelClearTicks = 0
			g.selected = nil
			g.hint = nil
		case core.MoveRejected:
			if msg := rejectMessage(ev.Reason); msg != "" {
				g.say(msg)
			}
		case core.MoveResolved:
			g.resolved(ev.Result)
		}
	}
}

// resolved records the outcome of a settled sequence.
func (g *Game) resolved(r core.MoveResult) {
	if !r.Accepted {
		return
	}
	g.moves++
	g.specials += r.Specials
	if r.Passes > g.bestChain {
		g.bestChain = r.Passes
	}
	switch {
	case r.Passes > 1:
		g.say(fmt.Sprintf("Chain x%d! +%d", r.Passes, r.ScoreDelta))
	case len(r.Blast.Detonated) > 1:
		g.say(fmt.Sprintf("Chain blast x%d! +%d", len(r.Blast.Detonated), r.ScoreDelta))
	}
	if !g.levelCleared {
		g.ensureMoves()
	}
}

// ensureMoves reshuffles a board that has no legal move left.
func (g *Game) ensureMoves() {
	for range maxReshuffles {
		if len(core.FindMoves(g.engine.Board())) > 0 {
			return
		}
		if !g.engine.Reshuffle() {
			return
		}
		g.reshuffles++
		g.say("No moves left, reshuffled")
		logger.Debug("reshuffled dead board", "level", g.level.ID)
	}
}

// advanceLevel moves on after the level cleared overlay.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.mode == ModeCampaign {
		if g.levelIndex >= len(g.levels)-1 {
			g.won = true
			return
		}
		g.levelIndex++
		g.loadLevel()
		return
	}

	// Endless keeps the board the engine regenerated and raises the stakes.
	g.levelIndex++
	prev := g.level.Palette
	g.level = g.currentLevel()
	g.engine.SetTarget(g.level.Target)
	if g.level.Palette != prev {
		g.engine.SetPalette(core.NewPalette(g.level.Palette))
		g.engine.Reshuffle()
	}
	g.ensureMoves()
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageTicks = messageDuration
}

func rejectMessage(r core.RejectReason) string {
	switch r {
	case core.ReasonNoMatch:
		return "No match"
	case core.ReasonImmovable:
		return "That gem is stuck"
	case core.ReasonNotAdjacent:
		return "Pick a neighbouring gem"
	case core.ReasonEmptyCell:
		return "Nothing there"
	case core.ReasonNotSpecial:
		return "Only bombs can be detonated"
	default:
		return ""
	}
}

func (g *Game) clampCursor() {
	b := g.engine.Board()
	if b == nil {
		return
	}
	g.cursor = core.P(
		platformcore.Clamp(g.cursor.Row, 0, b.Rows()-1),
		platformcore.Clamp(g.cursor.Col, 0, b.Cols()-1),
	)
}

// Score returns the run score.
func (g *Game) Score() int {
	if g.engine == nil {
		return g.total
	}
	return g.total + g.engine.Score()
}

// RunStats reports the figures stored with a finished run.
func (g *Game) RunStats() (level, moves, bestChain int) {
	return g.level.ID, g.moves, g.bestChain
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.Score(),
		Level:    g.level.ID,
		GameOver: g.won || g.gameOver,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}
