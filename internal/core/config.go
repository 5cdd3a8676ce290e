package core

import "time"

// Limits for the simulation rate. Engine delays are paced in whole ticks, so
// very low rates make swaps and cascades visibly step.
const (
	MinTickRate = 10
	MaxTickRate = 240
)

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed; 0 lets the platform pick one
}

// DefaultConfig returns a RuntimeConfig sized for a classic 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// Normalize fills unset fields from DefaultConfig, clamps the tick rate and
// replaces a zero seed with one taken from the clock.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	def := DefaultConfig()
	if c.ScreenW <= 0 {
		c.ScreenW = def.ScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = def.ScreenH
	}
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	c.TickRate = Clamp(c.TickRate, MinTickRate, MaxTickRate)
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// TickDuration is the simulated time covered by one Step.
func (c RuntimeConfig) TickDuration() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = DefaultConfig().TickRate
	}
	return time.Second / time.Duration(rate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Run score, including levels already cleared
	Level    int  // 1-based level number, 0 for games without levels
	GameOver bool // Whether the run has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
