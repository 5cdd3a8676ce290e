package match3

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	platformcore "github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Two short levels on a 6x6 board. Any match clears a level.
const quickConfig = `
board:
  rows: 6
  cols: 6
  palette: 5
rules:
  target_score: 3
  special_threshold: 4
levels:
  - name: One
    target: 3
  - name: Two
    target: 3
difficulty:
  enabled: true
  progression:
    type: levels
    max_at: 10
  scaling:
    target_multiplier: 2.0
    palette_growth: 2
`

// A single level that cannot be cleared by a handful of moves.
const longConfig = `
board:
  rows: 6
  cols: 6
  palette: 5
rules:
  target_score: 10000
levels:
  - name: Marathon
    target: 10000
`

func useConfig(t *testing.T, yaml string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match3.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })
}

func testRuntime(seed int64) platformcore.RuntimeConfig {
	return platformcore.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func press(g *Game, actions ...platformcore.Action) platformcore.StepResult {
	in := platformcore.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

// settle steps the game until the engine is idle again.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if !g.engine.IsBusy() {
			return
		}
		press(g)
	}
	t.Fatalf("engine still busy in phase %s", g.engine.Phase())
}

// swapByInput selects a and swaps it towards b with the cursor keys.
func swapByInput(g *Game, a, b core.Position) {
	g.cursor = a
	press(g, platformcore.ActionSelect)
	if b.Row == a.Row {
		press(g, platformcore.ActionRight)
	} else {
		press(g, platformcore.ActionDown)
	}
}

// dudSwap finds a horizontal swap of two standard gems that completes nothing.
func dudSwap(t *testing.T, b *core.Board) (core.Position, core.Position) {
	t.Helper()
	legal := make(map[core.Move]bool)
	for _, m := range core.FindMoves(b) {
		legal[m] = true
	}
	for r := range b.Rows() {
		for c := range b.Cols() - 1 {
			m := core.Move{A: core.P(r, c), B: core.P(r, c+1)}
			if !legal[m] && core.CheckSwap(b, m.A, m.B) == core.ReasonNone {
				return m.A, m.B
			}
		}
	}
	t.Fatal("no dud swap on board")
	return core.Position{}, core.Position{}
}

func TestResetBuildsPlayableBoard(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(42))

	b := g.engine.Board()
	if b == nil {
		t.Fatal("Reset should build a board")
	}
	if b.Rows() != 6 || b.Cols() != 6 {
		t.Errorf("board = %dx%d, want 6x6", b.Rows(), b.Cols())
	}
	if !b.Full() {
		t.Error("new board should be full")
	}
	if core.HasMatch(b) {
		t.Errorf("new board should have no runs:\n%s", b)
	}
	if len(core.FindMoves(b)) == 0 {
		t.Error("new board should have a legal move")
	}
	if g.cursor != core.P(3, 3) {
		t.Errorf("cursor = %s, want (3,3)", g.cursor)
	}
	if g.tooSmall {
		t.Error("80x24 should fit a 6x6 board")
	}
}

func TestDeterministicBoard(t *testing.T) {
	useConfig(t, longConfig)

	g1 := New()
	g1.Reset(testRuntime(12345))
	g2 := New()
	g2.Reset(testRuntime(12345))

	if !g1.engine.Board().Equal(g2.engine.Board()) {
		t.Errorf("same seed should produce the same board:\n%s\nvs\n%s",
			g1.engine.Board(), g2.engine.Board())
	}
}

func TestCursorMovement(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(1))

	press(g, platformcore.ActionUp)
	if g.cursor != core.P(2, 3) {
		t.Errorf("after Up cursor = %s, want (2,3)", g.cursor)
	}

	for i := 0; i < 10; i++ {
		press(g, platformcore.ActionLeft)
	}
	if g.cursor != core.P(2, 0) {
		t.Errorf("cursor should stop at the left edge, got %s", g.cursor)
	}
	if g.engine.IsBusy() {
		t.Error("moving the cursor should not start a move")
	}
}

func TestSelectToggle(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(1))

	press(g, platformcore.ActionSelect)
	if g.selected == nil || *g.selected != g.cursor {
		t.Fatal("Select should pick up the gem under the cursor")
	}
	press(g, platformcore.ActionSelect)
	if g.selected != nil {
		t.Error("second Select on the same cell should drop the gem")
	}
}

func TestSwapThroughInput(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(7))

	moves := core.FindMoves(g.engine.Board())
	if len(moves) == 0 {
		t.Fatal("no legal move")
	}
	m := moves[0]

	swapByInput(g, m.A, m.B)
	if !g.engine.IsBusy() {
		t.Fatal("swap should start the engine")
	}
	if g.cursor != m.B {
		t.Errorf("cursor should follow the swapped gem to %s, got %s", m.B, g.cursor)
	}

	settle(t, g)

	if g.moves != 1 {
		t.Errorf("moves = %d, want 1", g.moves)
	}
	if g.Score() < core.MinRun {
		t.Errorf("score = %d, want at least %d", g.Score(), core.MinRun)
	}
	if g.bestChain < 1 {
		t.Errorf("bestChain = %d, want at least 1", g.bestChain)
	}
	b := g.engine.Board()
	if !b.Full() || core.HasMatch(b) {
		t.Errorf("settled board should be full and stable:\n%s", b)
	}
}

func TestRejectedSwapRestoresBoard(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(3))

	before := g.engine.Board().Clone()
	a, b := dudSwap(t, before)

	swapByInput(g, a, b)
	settle(t, g)

	if !g.engine.Board().Equal(before) {
		t.Errorf("dud swap should be reverted:\n%s\nvs\n%s", g.engine.Board(), before)
	}
	if g.moves != 0 {
		t.Errorf("moves = %d, want 0", g.moves)
	}
	if g.Score() != 0 {
		t.Errorf("score = %d, want 0", g.Score())
	}
	if g.message != "No match" {
		t.Errorf("message = %q, want %q", g.message, "No match")
	}
}

func TestInputIgnoredWhileBusy(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(7))

	m := core.FindMoves(g.engine.Board())[0]
	swapByInput(g, m.A, m.B)

	press(g, platformcore.ActionSelect)
	press(g, platformcore.ActionRight)
	settle(t, g)

	if g.moves != 1 {
		t.Errorf("moves = %d, want 1", g.moves)
	}
}

func TestCampaignProgression(t *testing.T) {
	useConfig(t, quickConfig)

	g := New()
	g.Reset(testRuntime(42))

	m := core.FindMoves(g.engine.Board())[0]
	swapByInput(g, m.A, m.B)
	settle(t, g)

	if !g.levelCleared {
		t.Fatal("a match should clear a level with target 3")
	}
	if g.lastLevelScore < 3 || g.Score() != g.lastLevelScore {
		t.Errorf("level score = %d, run score = %d", g.lastLevelScore, g.Score())
	}
	if snap := g.Snapshot(); snap.State != StateLevelCleared {
		t.Errorf("Snapshot State = %s, want level_cleared", snap.State)
	}

	// Advance past the overlay
	g.levelClearTicks = levelClearDuration
	press(g)

	if g.levelIndex != 1 {
		t.Errorf("should advance to level 2, got level %d", g.levelIndex+1)
	}
	if g.level.Name != "Two" {
		t.Errorf("level name = %q, want Two", g.level.Name)
	}
	if g.engine.Score() != 0 {
		t.Errorf("level score should restart at 0, got %d", g.engine.Score())
	}
}

func TestCampaignWin(t *testing.T) {
	useConfig(t, quickConfig)

	g := New()
	g.Reset(testRuntime(42))

	for level := 0; level < 2; level++ {
		m := core.FindMoves(g.engine.Board())[0]
		swapByInput(g, m.A, m.B)
		settle(t, g)
		if !g.levelCleared {
			t.Fatalf("level %d should be cleared", level+1)
		}
		g.levelClearTicks = levelClearDuration
		press(g)
	}

	if !g.won {
		t.Fatal("clearing the last level should win the campaign")
	}
	if !g.State().GameOver {
		t.Error("a won run should report GameOver")
	}
	level, moves, _ := g.RunStats()
	if level != 2 || moves != 2 {
		t.Errorf("RunStats = level %d, moves %d; want 2, 2", level, moves)
	}
}

func TestStartLevel(t *testing.T) {
	useConfig(t, quickConfig)

	SetStartLevel(2)
	g := New()
	if GetStartLevel() != 0 {
		t.Error("start level should be taken over by New")
	}
	g.Reset(testRuntime(1))

	if g.level.ID != 2 {
		t.Errorf("level = %d, want 2", g.level.ID)
	}

	g.Reset(testRuntime(2))
	if g.level.ID != 1 {
		t.Errorf("level after restart = %d, want 1", g.level.ID)
	}
}

func TestStartLevelIsPerGame(t *testing.T) {
	useConfig(t, quickConfig)

	first := New()
	first.SetStartLevel(2)
	second := New()

	first.Reset(testRuntime(1))
	second.Reset(testRuntime(1))

	if first.level.ID != 2 {
		t.Errorf("first game level = %d, want 2", first.level.ID)
	}
	if second.level.ID != 1 {
		t.Errorf("second game level = %d, want 1", second.level.ID)
	}
}

func TestConcurrentResets(t *testing.T) {
	useConfig(t, quickConfig)

	var wg sync.WaitGroup
	games := make([]*Game, 8)
	for i := range games {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := New()
			g.SetStartLevel(i%2 + 1)
			g.Reset(testRuntime(int64(i + 1)))
			games[i] = g
		}(i)
	}
	wg.Wait()

	for i, g := range games {
		if want := i%2 + 1; g.level.ID != want {
			t.Errorf("game %d level = %d, want %d", i, g.level.ID, want)
		}
	}
}

func TestEndlessProgression(t *testing.T) {
	useConfig(t, quickConfig)

	g := NewEndless()
	g.Reset(testRuntime(42))

	if g.level.Name != "Stage 1" || g.engine.Target() != 3 {
		t.Fatalf("stage 1 = %q target %d", g.level.Name, g.engine.Target())
	}

	m := core.FindMoves(g.engine.Board())[0]
	swapByInput(g, m.A, m.B)
	settle(t, g)
	if !g.levelCleared {
		t.Fatal("a match should clear stage 1")
	}
	g.levelClearTicks = levelClearDuration
	press(g)

	if g.won {
		t.Error("endless mode should never be won")
	}
	if g.level.ID != 2 {
		t.Errorf("stage = %d, want 2", g.level.ID)
	}
	if g.engine.Target() <= 3 {
		t.Errorf("stage 2 target = %d, want more than 3", g.engine.Target())
	}
	if len(core.FindMoves(g.engine.Board())) == 0 {
		t.Error("stage 2 board should have a legal move")
	}
}

func TestPauseFreezesEngine(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(7))

	m := core.FindMoves(g.engine.Board())[0]
	swapByInput(g, m.A, m.B)
	phase := g.engine.Phase()

	press(g, platformcore.ActionPause)
	for i := 0; i < 100; i++ {
		press(g)
	}
	if g.engine.Phase() != phase {
		t.Errorf("phase moved from %s to %s while paused", phase, g.engine.Phase())
	}
	if !g.State().Paused {
		t.Error("State should report paused")
	}

	press(g, platformcore.ActionPause)
	settle(t, g)
	if g.moves != 1 {
		t.Errorf("moves = %d after resume, want 1", g.moves)
	}
}

func TestHint(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(9))

	press(g, platformcore.ActionHint)
	if g.hint == nil {
		t.Fatal("Hint should highlight a move")
	}
	legal := false
	for _, m := range core.FindMoves(g.engine.Board()) {
		if m == *g.hint {
			legal = true
		}
	}
	if !legal {
		t.Errorf("hint %v is not a legal move", *g.hint)
	}

	for i := 0; i < hintDuration; i++ {
		press(g)
	}
	if g.hint != nil {
		t.Error("hint should expire")
	}
}

func TestDetonateNeedsBomb(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	g.Reset(testRuntime(9))

	press(g, platformcore.ActionDetonate)
	if g.engine.IsBusy() {
		t.Error("detonating a plain gem should be rejected")
	}
	press(g) // rejection is reported on the next tick
	if g.message != "Only bombs can be detonated" {
		t.Errorf("message = %q", g.message)
	}
}

func TestTooSmallScreen(t *testing.T) {
	useConfig(t, longConfig)

	g := New()
	rc := testRuntime(1)
	rc.ScreenW, rc.ScreenH = 20, 8
	g.Reset(rc)

	if !g.tooSmall {
		t.Fatal("20x8 should be too small")
	}
	if snap := g.Snapshot(); snap.State != StatePausedSmall {
		t.Errorf("Snapshot State = %s, want paused_small_window", snap.State)
	}

	screen := platformcore.NewScreen(rc.ScreenW, rc.ScreenH)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Errorf("render should explain the window is too small:\n%s", screen)
	}
}

func TestRender(t *testing.T) {
	useConfig(t, quickConfig)

	g := New()
	rc := testRuntime(1)
	g.Reset(rc)

	screen := platformcore.NewScreen(rc.ScreenW, rc.ScreenH)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Match-3", "Level 1/2: One", "[", "Space: Select"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshot(t *testing.T) {
	useConfig(t, quickConfig)

	g := New()
	g.Reset(testRuntime(42))

	snap := g.Snapshot()
	if snap.Mode != "campaign" {
		t.Errorf("Snapshot Mode = %s, want campaign", snap.Mode)
	}
	if snap.Level != 1 {
		t.Errorf("Snapshot Level = %d, want 1", snap.Level)
	}
	if snap.Target != 3 {
		t.Errorf("Snapshot Target = %d, want 3", snap.Target)
	}
	if snap.State != StatePlaying {
		t.Errorf("Snapshot State = %s, want playing", snap.State)
	}
	if snap.Phase != core.PhaseIdle {
		t.Errorf("Snapshot Phase = %s, want Idle", snap.Phase)
	}
	if len(snap.Board) != 6 {
		t.Errorf("Snapshot Board has %d rows, want 6", len(snap.Board))
	}
}

func TestEffectsTiming(t *testing.T) {
	fx := newEffects(60, core.DefaultDelays())

	if got := fx.ticksFor(200 * time.Millisecond); got != 12 {
		t.Errorf("ticksFor(200ms) = %d, want 12", got)
	}
	if got := fx.ticksFor(time.Millisecond); got != 1 {
		t.Errorf("ticksFor(1ms) = %d, want 1", got)
	}
	if got := fx.ticksFor(0); got != 0 {
		t.Errorf("ticksFor(0) = %d, want 0", got)
	}

	tile := core.Tile{ID: 1, Pos: core.P(1, 0)}
	fx.TileMoved(tile, core.P(0, 0), core.P(1, 0), 200*time.Millisecond)
	dr, _, moving := fx.offset(&tile)
	if !moving || dr != -1 {
		t.Errorf("slide should start one row up, got dr=%v moving=%v", dr, moving)
	}

	fx.TileRemoved(core.Tile{ID: 2, Pos: core.P(2, 2)})
	fx.Explosion(core.P(3, 3))
	if !fx.active() || !fx.flashing(core.P(3, 3)) {
		t.Fatal("effects should be running")
	}

	for i := 0; i < flashTicks; i++ {
		fx.update()
	}
	if fx.active() {
		t.Error("every effect should be finished")
	}
	if _, _, moving := fx.offset(&tile); moving {
		t.Error("finished slide should not offset the tile")
	}
}

func TestValidateLevels(t *testing.T) {
	useConfig(t, quickConfig)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateLevels(cfg); err != nil {
		t.Errorf("ValidateLevels() = %v", err)
	}

	cfg.Levels[0].Layout = []string{"000", "...", "..."}
	if err := ValidateLevels(cfg); err == nil {
		t.Error("a layout with a run should be rejected")
	}

	cfg.Levels[0].Layout = []string{"0?", ".."}
	if err := ValidateLevels(cfg); err == nil {
		t.Error("a layout with an unknown symbol should be rejected")
	}
}

func TestCampaignLevels(t *testing.T) {
	useConfig(t, quickConfig)

	infos, err := CampaignLevels()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("CampaignLevels() = %d levels, want 2", len(infos))
	}
	if infos[1].Name != "Two" || infos[1].Target != 3 || infos[1].Palette != 5 {
		t.Errorf("level 2 = %+v", infos[1])
	}
}
