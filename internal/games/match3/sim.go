package match3

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// SimOptions configures a headless autoplay run.
type SimOptions struct {
	Mode     Mode
	Seed     int64
	MaxMoves int // stop after this many accepted moves; 0 means 1000
	Levels   int // endless stages to play; 0 means 10. Ignored in campaign.
}

// SimResult summarises an autoplay run.
type SimResult struct {
	Mode       Mode
	Seed       int64
	Cleared    int // levels completed
	Score      int // banked plus the unfinished level
	Moves      int
	Rejected   int
	Specials   int
	Detonated  int
	BestChain  int
	Reshuffles int
	Won        bool // every campaign level, or every requested endless stage
}

const (
	defaultSimMoves  = 1000
	defaultSimLevels = 10
)

// ErrStuck is returned when the autoplayer cannot find a legal move even
// after reshuffling.
var ErrStuck = errors.New("match3: board has no legal move")

// Simulate plays the configured levels without a screen, resolving every
// cascade inline. Moves are chosen at random among the legal ones, with
// bombs preferred.
func Simulate(opts SimOptions) (SimResult, error) {
	cfg, err := loadConfig()
	if err != nil {
		return SimResult{}, err
	}
	return simulate(cfg, opts)
}

func simulate(cfg config.Match3Config, opts SimOptions) (SimResult, error) {
	if opts.Mode == "" {
		opts.Mode = ModeCampaign
	}
	if opts.MaxMoves <= 0 {
		opts.MaxMoves = defaultSimMoves
	}
	if opts.Levels <= 0 {
		opts.Levels = defaultSimLevels
	}

	res := SimResult{Mode: opts.Mode, Seed: opts.Seed}
	rng := rand.New(rand.NewSource(opts.Seed))
	dm := config.NewDifficultyManager(cfg.Difficulty)
	e := core.NewEngine(
		core.WithRandom(rng),
		core.WithLogger(logger),
		core.WithSpecialThreshold(cfg.Rules.SpecialThreshold),
	)

	levels := campaignLevels(cfg)
	total := len(levels)
	if opts.Mode == ModeEndless {
		total = opts.Levels
	}

	for i := 0; i < total; i++ {
		lvl := levels[min(i, len(levels)-1)]
		if opts.Mode == ModeEndless {
			lvl = endlessLevel(cfg, dm, i)
		}
		if err := simLoad(e, cfg, lvl, rng); err != nil {
			return res, err
		}
		logger.Debug("sim level", "level", lvl.ID, "name", lvl.Name, "target", lvl.Target)

		cleared, err := simLevel(e, rng, &res, opts.MaxMoves)
		if err != nil {
			res.Score += e.Score()
			return res, err
		}
		if !cleared {
			res.Score += e.Score()
			logger.Info("sim out of moves", "level", lvl.ID, "score", e.Score(), "moves", res.Moves)
			return res, nil
		}
		res.Cleared++
		logger.Info("sim level cleared", "level", lvl.ID, "total", res.Score, "moves", res.Moves)
	}
	res.Won = true
	return res, nil
}

// simLoad puts a fresh board for lvl into the engine.
func simLoad(e *core.Engine, cfg config.Match3Config, lvl Level, rng *rand.Rand) error {
	e.SetTarget(lvl.Target)
	palette := core.NewPalette(lvl.Palette)
	b, err := lvl.board()
	if err == nil && b != nil {
		if err = e.LoadBoard(b, palette); err == nil {
			e.Events()
			return nil
		}
	}
	if err != nil {
		logger.Warn("level layout rejected, using a random board", "level", lvl.ID, "err", err)
	}
	if _, err := e.InitBoard(cfg.Board.Rows, cfg.Board.Cols, palette, rng.Int63()); err != nil {
		return err
	}
	e.Events()
	return nil
}

// simLevel plays moves until the level completes or the move budget runs out.
func simLevel(e *core.Engine, rng *rand.Rand, res *SimResult, maxMoves int) (bool, error) {
	for res.Moves < maxMoves {
		m, ok := pickMove(e, rng, res)
		if !ok {
			return false, ErrStuck
		}

		var r core.MoveResult
		if bomb := bombAt(e.Board(), m); bomb != nil && rng.Intn(2) == 0 {
			r = e.TriggerSpecial(*bomb).Move
		} else {
			r = e.AttemptSwap(m.A, m.B)
		}
		if !r.Accepted {
			res.Rejected++
			if res.Rejected > maxMoves {
				return false, ErrStuck
			}
			continue
		}

		res.Moves++
		logger.Debug("sim move", "a", r.A, "b", r.B, "points", r.ScoreDelta, "passes", r.Passes)
		res.Specials += r.Specials
		res.Detonated += len(r.Blast.Detonated)
		res.BestChain = max(res.BestChain, r.Passes)
		for _, ev := range e.Events() {
			if lc, ok := ev.(core.LevelComplete); ok {
				res.Score += lc.Score
				return true, nil
			}
		}
	}
	return false, nil
}

// pickMove returns a legal move, reshuffling a dead board when needed.
func pickMove(e *core.Engine, rng *rand.Rand, res *SimResult) (core.Move, bool) {
	for range maxReshuffles + 1 {
		moves := core.FindMoves(e.Board())
		if len(moves) > 0 {
			for _, m := range moves {
				if bombAt(e.Board(), m) != nil {
					return m, true
				}
			}
			return moves[rng.Intn(len(moves))], true
		}
		if !e.Reshuffle() {
			break
		}
		res.Reshuffles++
	}
	return core.Move{}, false
}

// bombAt returns the position of a special tile in m, if any.
func bombAt(b *core.Board, m core.Move) *core.Position {
	for _, p := range []core.Position{m.A, m.B} {
		if b.Get(p).IsSpecial() {
			return &p
		}
	}
	return nil
}
