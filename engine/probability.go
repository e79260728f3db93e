package engine

// EstimatorConfig holds the tunable constants of the probability model. The
// boosted factors are empirical; they ship as defaults rather than constants
// so callers can adjust them per site.
type EstimatorConfig struct {
	MinBaseProbability float64
	CornerFactor       float64
	EdgeFactor         float64
	LowNeighborFactor  float64
	ConfidenceBoost    float64
}

func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MinBaseProbability: 0.15,
		CornerFactor:       0.7,
		EdgeFactor:         0.8,
		LowNeighborFactor:  0.6,
		ConfidenceBoost:    1.2,
	}
}

// Estimator assigns every hidden cell a mine probability. It is fully
// deterministic: the same grid and mine count always produce the same output.
type Estimator struct {
	cfg EstimatorConfig
}

func NewEstimator(cfg EstimatorConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate scores every hidden cell as a reveal candidate. Cells with at
// least one revealed numbered neighbor take the maximum local probability
// across those neighbors (the most constraining neighbor wins); cells with no
// numbered information fall back to the global base rate. Both are floored at
// MinBaseProbability.
func (e *Estimator) Estimate(g *Grid, totalMines int) []Move {
	hidden := g.HiddenCells()
	if len(hidden) == 0 {
		return nil
	}
	base := clamp01(float64(totalMines-g.CountFlagged()) / float64(len(hidden)))

	moves := make([]Move, 0, len(hidden))
	for _, c := range hidden {
		p := e.cellProbability(g, c, base)
		moves = append(moves, Move{
			X:               c.X,
			Y:               c.Y,
			Action:          ActionReveal,
			MineProbability: p,
			SafetyScore:     1 - p,
			Patterns:        DetectPatterns(g, c.X, c.Y),
		})
	}
	return moves
}

// EstimateBoosted is the cheating variant: it starts from the plain estimate,
// discounts the probability by the corner/edge and low-neighbor-number
// factors, then inflates the complementary safety score into a confidence
// value used to gate fast play. Less rigorous, more decisive.
func (e *Estimator) EstimateBoosted(g *Grid, totalMines int) []Move {
	moves := e.Estimate(g, totalMines)
	for i := range moves {
		m := &moves[i]
		p := m.MineProbability

		corner, edge := false, false
		for _, t := range m.Patterns {
			switch t {
			case PatternCorner:
				corner = true
			case PatternEdge:
				edge = true
			}
		}
		if corner {
			p *= e.cfg.CornerFactor
		} else if edge {
			p *= e.cfg.EdgeFactor
		}
		if mean, ok := meanRevealedNumber(g, m.X, m.Y); ok && mean < 2 {
			p *= e.cfg.LowNeighborFactor
		}

		p = clamp01(p)
		m.MineProbability = p
		m.SafetyScore = 1 - p
		m.Confidence = clamp01((1 - p) * e.cfg.ConfidenceBoost)
	}
	return moves
}

func (e *Estimator) cellProbability(g *Grid, c Cell, base float64) float64 {
	best := -1.0
	for _, n := range g.Neighbors(c.X, c.Y) {
		if !n.Revealed || n.Mine {
			continue
		}
		if p, ok := localProbability(g, n); ok && p > best {
			best = p
		}
	}
	if best < 0 {
		// No numbered neighbor information at all.
		return max(base, e.cfg.MinBaseProbability)
	}
	return clamp01(max(best, e.cfg.MinBaseProbability))
}

// localProbability is the constraint a single revealed numbered cell puts on
// each of its hidden neighbors: remaining mines divided by hidden neighbors.
func localProbability(g *Grid, n Cell) (float64, bool) {
	flags, hidden := 0, 0
	for _, nn := range g.Neighbors(n.X, n.Y) {
		if nn.Flagged {
			flags++
		} else if !nn.Revealed {
			hidden++
		}
	}
	if hidden == 0 {
		return 0, false
	}
	p := float64(n.Number-flags) / float64(hidden)
	if p < 0 {
		p = 0
	}
	return p, true
}

func meanRevealedNumber(g *Grid, x, y int) (float64, bool) {
	sum, n := 0, 0
	for _, c := range g.Neighbors(x, y) {
		if c.Revealed && !c.Mine {
			sum += c.Number
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
