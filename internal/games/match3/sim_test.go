package match3

import (
	"testing"

	"github.com/vovakirdan/tui-match3/internal/config"
)

func TestSimulateCampaign(t *testing.T) {
	useConfig(t, quickConfig)

	res, err := Simulate(SimOptions{Seed: 42})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if !res.Won || res.Cleared != 2 {
		t.Errorf("Simulate() = %+v, want both levels cleared", res)
	}
	if res.Moves < 2 {
		t.Errorf("Moves = %d, want at least 2", res.Moves)
	}
	if res.Score < 6 {
		t.Errorf("Score = %d, want at least 6", res.Score)
	}
	if res.Mode != ModeCampaign {
		t.Errorf("Mode = %s, want campaign", res.Mode)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := config.DefaultMatch3Config()

	a, errA := simulate(cfg, SimOptions{Seed: 7, MaxMoves: 50})
	b, errB := simulate(cfg, SimOptions{Seed: 7, MaxMoves: 50})
	if errA != nil || errB != nil {
		t.Fatalf("simulate() errors = %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("same seed should replay the same run:\n%+v\n%+v", a, b)
	}
}

func TestSimulateMoveBudget(t *testing.T) {
	useConfig(t, longConfig)

	res, err := Simulate(SimOptions{Seed: 1, MaxMoves: 5})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if res.Won || res.Cleared != 0 {
		t.Errorf("a 10000 point level should not be cleared in 5 moves: %+v", res)
	}
	if res.Moves != 5 {
		t.Errorf("Moves = %d, want 5", res.Moves)
	}
	if res.Score == 0 {
		t.Error("unfinished level score should be reported")
	}
}

func TestSimulateEndless(t *testing.T) {
	useConfig(t, quickConfig)

	res, err := Simulate(SimOptions{Mode: ModeEndless, Seed: 3, Levels: 3})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if !res.Won || res.Cleared != 3 {
		t.Errorf("Simulate() = %+v, want three stages cleared", res)
	}
}
