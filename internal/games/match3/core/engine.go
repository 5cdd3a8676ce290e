package core

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gammazero/deque"
)

// Reference configuration.
const (
	DefaultRows             = 10
	DefaultCols             = 8
	DefaultPaletteSize      = 5
	DefaultTarget           = 100
	DefaultSpecialThreshold = 4
)

// Delays are the hints passed to the scheduler at each suspension point and
// to the sink with each move.
type Delays struct {
	Swap   time.Duration // swap animation, before evaluation
	Remove time.Duration // after removal, before gravity and refill
	Refill time.Duration // after refill, before the re-scan
	Fade   time.Duration // fade-out of removed tiles; never waited on
}

// DefaultDelays returns the reference animation timings.
func DefaultDelays() Delays {
	return Delays{
		Swap:   200 * time.Millisecond,
		Remove: 250 * time.Millisecond,
		Refill: 200 * time.Millisecond,
		Fade:   200 * time.Millisecond,
	}
}

// Phase is the engine state machine:
//
//	Idle -> Swapping -> Evaluating -> Resolving -> Refilling -> Checking -> (Resolving | Idle)
//
// A failed swap goes Evaluating -> Swapping (revert) -> Idle. A manual
// detonation starts at Resolving.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSwapping
	PhaseEvaluating
	PhaseResolving
	PhaseRefilling
	PhaseChecking
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseSwapping:
		return "Swapping"
	case PhaseEvaluating:
		return "Evaluating"
	case PhaseResolving:
		return "Resolving"
	case PhaseRefilling:
		return "Refilling"
	case PhaseChecking:
		return "Checking"
	default:
		return "Unknown"
	}
}

// MoveResult describes one swap or detonation sequence.
type MoveResult struct {
	A Position
	B Position

	Accepted bool
	Pending  bool         // continuations still scheduled; see MoveResolved
	Reason   RejectReason // set when not accepted

	Groups        []MatchGroup // every group resolved, across all cascade passes
	Blast         Blast        // detonation sweep, when a special went off
	ScoreDelta    int          // points gained by this sequence
	BoardChanged  bool
	Passes        int // resolve passes; more than one means a chained cascade
	Specials      int // special tiles created
	LevelComplete bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the random source. InitBoard then ignores its seed.
func WithRandom(r Random) Option {
	return func(e *Engine) {
		e.rng = r
		e.fixedRNG = true
	}
}

// WithScheduler sets the scheduler used at suspension points.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithSink sets the presentation sink.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTarget sets the score that completes a level. Zero disables it.
func WithTarget(n int) Option {
	return func(e *Engine) { e.target = n }
}

// WithSpecialThreshold sets the group size that creates a special tile.
func WithSpecialThreshold(n int) Option {
	return func(e *Engine) { e.threshold = n }
}

// WithDelays sets the suspension point timings.
func WithDelays(d Delays) Option {
	return func(e *Engine) { e.delays = d }
}

// Engine drives one board through the swap and cascade state machine. It is
// single-threaded: all calls, including scheduler continuations, must come
// from the same goroutine.
type Engine struct {
	board    *Board
	template *Board // fixed tiles restored on regeneration; nil for random boards
	gen      *Generator
	rng      Random
	fixedRNG bool
	sched    Scheduler
	sink     Sink
	log      *log.Logger

	phase     Phase
	score     int
	target    int
	threshold int
	level     int
	delays    Delays

	epoch  int // bumped when the board is replaced; stale continuations are dropped
	seq    *sequence
	outbox deque.Deque[Event]
}

// sequence tracks one in-flight move from request to PhaseIdle.
type sequence struct {
	result MoveResult
	done   bool
}

func (s *sequence) snapshot() MoveResult {
	if s.done {
		return s.result
	}
	r := s.result
	r.Pending = true
	return r
}

// NewEngine creates an engine with the reference configuration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		sched:     ImmediateScheduler{},
		sink:      NopSink{},
		log:       log.New(io.Discard),
		target:    DefaultTarget,
		threshold: DefaultSpecialThreshold,
		delays:    DefaultDelays(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InitBoard creates a rows x cols board filled without pre-formed runs and
// resets the score. Non-positive dimensions or an empty palette abort with a
// *ConfigError.
func (e *Engine) InitBoard(rows, cols int, palette Palette, seed int64) (*Board, error) {
	if len(palette) == 0 {
		return nil, &ConfigError{Code: CodeEmptyPalette, Message: "palette has no colors"}
	}
	b, err := NewBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	if !e.fixedRNG {
		e.rng = rand.New(rand.NewSource(seed))
	}
	if len(palette) < MinRun {
		e.log.Warn("palette too small to avoid runs", "colors", len(palette))
	}

	e.replace(b, nil, palette)
	for _, t := range e.gen.Fill(b) {
		e.sink.TileCreated(*t)
	}
	e.log.Debug("board initialised", "rows", rows, "cols", cols, "colors", len(palette))
	return b, nil
}

// maxLayoutAttempts bounds the retries when filling around fixed tiles.
const maxLayoutAttempts = 32

// LoadBoard adopts a prepared board, typically from ParseBoard, and fills its
// empty cells. The fixed tiles are kept as the template for regeneration. A
// layout that already contains a run, or whose gaps cannot be filled without
// one, is a *ConfigError.
func (e *Engine) LoadBoard(b *Board, palette Palette) error {
	if len(palette) == 0 {
		return &ConfigError{Code: CodeEmptyPalette, Message: "palette has no colors"}
	}
	if b == nil {
		return &ConfigError{Code: CodeInvalidLayout, Message: "no board"}
	}
	if err := b.Check(); err != nil {
		return &ConfigError{Code: CodeInvalidLayout, Message: err.Error()}
	}
	if HasMatch(b) {
		return &ConfigError{Code: CodeInvalidLayout, Message: "layout contains a run"}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	template := b.Clone()
	e.replace(b, template, palette)
	if !e.fillTemplate(b) {
		return &ConfigError{
			Code:    CodeInvalidLayout,
			Message: fmt.Sprintf("could not fill layout without runs after %d attempts", maxLayoutAttempts),
		}
	}
	for _, t := range b.Tiles() {
		e.sink.TileCreated(*t)
	}
	return nil
}

// replace installs a new board and drops any in-flight sequence.
func (e *Engine) replace(b, template *Board, palette Palette) {
	e.epoch++
	e.board = b
	e.template = template
	e.gen = NewGenerator(palette, e.rng)
	e.seq = nil
	e.score = 0
	e.level = 0
	e.phase = PhaseIdle
}

// fillTemplate fills the gaps of a board whose fixed tiles came from the
// template, retrying until the result holds no run.
func (e *Engine) fillTemplate(b *Board) bool {
	for range maxLayoutAttempts {
		created := e.gen.FillAround(b)
		if !HasMatch(b) {
			return true
		}
		for _, t := range created {
			b.Clear(t.Pos)
		}
	}
	return false
}

// regenerate refills the current board in place with fresh tiles.
func (e *Engine) regenerate() {
	for _, t := range e.board.Tiles() {
		e.sink.TileRemoved(*t)
	}
	e.board.Reset()
	if e.template != nil {
		for _, ft := range e.template.Tiles() {
			var t *Tile
			if ft.IsSpecial() {
				t = e.board.NewSpecial()
			} else {
				t = e.board.NewStandard(ft.Color)
				t.Movable = ft.Movable
			}
			e.board.Set(ft.Pos, t)
		}
		if !e.fillTemplate(e.board) {
			e.log.Warn("layout refill left runs on the board")
			e.gen.FillAround(e.board)
		}
	} else {
		e.gen.Fill(e.board)
	}
	for _, t := range e.board.Tiles() {
		e.sink.TileCreated(*t)
	}
}

// Reshuffle regenerates the board without touching the score, for example
// when no move is left. It does nothing unless the engine is idle.
func (e *Engine) Reshuffle() bool {
	if e.board == nil || e.phase != PhaseIdle {
		return false
	}
	e.regenerate()
	e.log.Debug("board reshuffled")
	return true
}

// SetPalette changes the palette used by later refills and regenerations.
func (e *Engine) SetPalette(p Palette) {
	if len(p) == 0 || e.gen == nil {
		return
	}
	e.gen = NewGenerator(p, e.rng)
}

// Board returns the live board. Callers must not mutate it.
func (e *Engine) Board() *Board { return e.board }

// Phase returns the current state machine phase.
func (e *Engine) Phase() Phase { return e.phase }

// IsBusy reports whether a sequence is in flight.
func (e *Engine) IsBusy() bool { return e.phase != PhaseIdle }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Target returns the level target; zero means no target.
func (e *Engine) Target() int { return e.target }

// SetTarget changes the level target.
func (e *Engine) SetTarget(n int) { e.target = n }

// Level returns the number of levels completed since the board was created.
func (e *Engine) Level() int { return e.level }

// Palette returns the active palette.
func (e *Engine) Palette() Palette {
	if e.gen == nil {
		return nil
	}
	return e.gen.Palette()
}

// Events drains and returns the queued events in emission order.
func (e *Engine) Events() []Event {
	if e.outbox.Len() == 0 {
		return nil
	}
	out := make([]Event, 0, e.outbox.Len())
	for e.outbox.Len() > 0 {
		out = append(out, e.outbox.PopFront())
	}
	return out
}

func (e *Engine) emit(ev Event) {
	e.outbox.PushBack(ev)
}

func (e *Engine) setPhase(p Phase) {
	if p == e.phase {
		return
	}
	from := e.phase
	e.phase = p
	e.emit(PhaseChanged{From: from, To: p})
}

// after schedules fn at a suspension point. Continuations that belong to a
// replaced board are dropped.
func (e *Engine) after(d time.Duration, fn func()) {
	epoch := e.epoch
	e.sched.After(d, func() {
		if epoch != e.epoch {
			return
		}
		fn()
	})
}

func (e *Engine) begin(a, b Position) *sequence {
	e.seq = &sequence{result: MoveResult{A: a, B: b}}
	return e.seq
}

func (e *Engine) finish(seq *sequence) {
	seq.done = true
	e.seq = nil
	e.setPhase(PhaseIdle)
	e.log.Debug("sequence settled",
		"accepted", seq.result.Accepted,
		"passes", seq.result.Passes,
		"gained", seq.result.ScoreDelta,
	)
	e.emit(MoveResolved{Result: seq.result})
}

func (e *Engine) reject(a, b Position, reason RejectReason) MoveResult {
	e.emit(MoveRejected{A: a, B: b, Reason: reason})
	return MoveResult{A: a, B: b, Reason: reason}
}

func (e *Engine) addScore(seq *sequence, n int) {
	if n <= 0 {
		return
	}
	e.score += n
	seq.result.ScoreDelta += n
	e.emit(ScoreChanged{Score: e.score})
}

func (e *Engine) targetReached() bool {
	return e.target > 0 && e.score >= e.target
}

// completeLevel ends the sequence, resets the score and regenerates the
// same board in place.
func (e *Engine) completeLevel(seq *sequence) {
	e.level++
	seq.result.LevelComplete = true
	e.log.Info("level complete", "level", e.level, "score", e.score)
	e.emit(LevelComplete{Score: e.score, Level: e.level})

	e.regenerate()
	e.score = 0
	e.emit(ScoreChanged{Score: 0})
	e.finish(seq)
}
