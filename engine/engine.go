// Package engine infers board state for grid-based mines games and chooses
// the next move. It is pure computation over a snapshot: the caller scans the
// board, builds a Grid, asks for one move, executes it, and re-scans. Certain
// deductions are preferred; otherwise every hidden cell gets a
// mine-probability estimate and the configured strategy picks among them.
package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Config is the full strategy surface of the engine.
type Config struct {
	Strategy                Strategy
	ProbabilityThreshold    float64
	CheatingConfidenceLevel float64
	Estimator               EstimatorConfig
}

func DefaultConfig() Config {
	return Config{
		Strategy:                StrategyConservative,
		ProbabilityThreshold:    0.7,
		CheatingConfidenceLevel: 0.85,
		Estimator:               DefaultEstimatorConfig(),
	}
}

type Engine struct {
	cfg Config
	est *Estimator
	sel *Selector
}

// New builds an engine. rng may be nil (a time-seeded source is used); tests
// pass a fixed seed for reproducible selection. learn may be nil to disable
// pattern-outcome bias.
func New(cfg Config, rng *rand.Rand, learn LearningStore) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		cfg: cfg,
		est: NewEstimator(cfg.Estimator),
		sel: NewSelector(SelectorConfig{
			Strategy:                cfg.Strategy,
			ProbabilityThreshold:    cfg.ProbabilityThreshold,
			CheatingConfidenceLevel: cfg.CheatingConfidenceLevel,
		}, rng, learn),
	}
}

func (e *Engine) Strategy() Strategy { return e.cfg.Strategy }

// ChooseMove returns the next move for the snapshot, or nil when the round is
// over or no hidden cells remain. A nil move is a terminal condition, not an
// error.
func (e *Engine) ChooseMove(gs GameState) (*Move, error) {
	if gs.Grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if gs.Status != StatusPlaying {
		return nil, nil
	}
	if gs.Grid.CountHidden() == 0 {
		return nil, nil
	}

	deduced, err := FindDeductions(gs.Grid)
	if err != nil {
		return nil, err
	}
	if len(deduced) > 0 {
		return e.sel.Select(deduced), nil
	}

	var candidates []Move
	if e.cfg.Strategy == StrategyCheating {
		candidates = e.est.EstimateBoosted(gs.Grid, gs.TotalMines)
	} else {
		candidates = e.est.Estimate(gs.Grid, gs.TotalMines)
	}
	return e.sel.Select(candidates), nil
}
