package engine

import (
	"fmt"
	"math/rand"
	"sort"
)

// Strategy picks how much risk the selector tolerates.
type Strategy int

const (
	StrategyConservative Strategy = iota
	StrategyThresholded
	StrategyCheating
)

func (s Strategy) String() string {
	switch s {
	case StrategyThresholded:
		return "thresholded"
	case StrategyCheating:
		return "cheating"
	default:
		return "conservative"
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "conservative":
		return StrategyConservative, nil
	case "thresholded":
		return StrategyThresholded, nil
	case "cheating":
		return StrategyCheating, nil
	}
	return StrategyConservative, fmt.Errorf("unknown strategy %q", s)
}

type SelectorConfig struct {
	Strategy                Strategy
	ProbabilityThreshold    float64
	CheatingConfidenceLevel float64
}

// Selector chooses one move from a scored candidate list. Randomness comes
// from the injected rng so selection is reproducible under a fixed seed.
type Selector struct {
	cfg   SelectorConfig
	rng   *rand.Rand
	learn LearningStore
}

// NewSelector builds a selector. learn may be nil; pattern bonuses then fall
// back to the static tag weights.
func NewSelector(cfg SelectorConfig, rng *rand.Rand, learn LearningStore) *Selector {
	return &Selector{cfg: cfg, rng: rng, learn: learn}
}

// Select returns one move, or nil when candidates is empty (round complete,
// nothing to do).
func (s *Selector) Select(candidates []Move) *Move {
	if len(candidates) == 0 {
		return nil
	}
	switch s.cfg.Strategy {
	case StrategyThresholded:
		return s.selectThresholded(candidates)
	case StrategyCheating:
		return s.selectCheating(candidates)
	default:
		return s.selectConservative(candidates)
	}
}

func (s *Selector) selectConservative(candidates []Move) *Move {
	best := candidates[0]
	for _, m := range candidates[1:] {
		if safer(m, best) {
			best = m
		}
	}
	return &best
}

// safer orders two moves: higher safety wins, ties go corner first, then
// edge, then lowest coordinate sum, then row-major position.
func safer(a, b Move) bool {
	if a.SafetyScore != b.SafetyScore {
		return a.SafetyScore > b.SafetyScore
	}
	if ac, bc := hasTag(a, PatternCorner), hasTag(b, PatternCorner); ac != bc {
		return ac
	}
	if ae, be := hasTag(a, PatternEdge), hasTag(b, PatternEdge); ae != be {
		return ae
	}
	if as, bs := a.X+a.Y, b.X+b.Y; as != bs {
		return as < bs
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func (s *Selector) selectThresholded(candidates []Move) *Move {
	var pass []Move
	for _, m := range candidates {
		if m.SafetyScore > s.cfg.ProbabilityThreshold {
			pass = append(pass, m)
		}
	}
	if len(pass) == 0 {
		return s.selectConservative(candidates)
	}
	sort.SliceStable(pass, func(i, j int) bool { return safer(pass[i], pass[j]) })
	if len(pass) > 3 {
		pass = pass[:3]
	}
	return s.weightedPick(pass)
}

// weightedPick draws among moves with probability proportional to safety.
func (s *Selector) weightedPick(moves []Move) *Move {
	total := 0.0
	for _, m := range moves {
		total += m.SafetyScore
	}
	if total <= 0 {
		return &moves[0]
	}
	r := s.rng.Float64() * total
	for i := range moves {
		r -= moves[i].SafetyScore
		if r <= 0 {
			return &moves[i]
		}
	}
	return &moves[len(moves)-1]
}

func (s *Selector) selectCheating(candidates []Move) *Move {
	var pass []Move
	for _, m := range candidates {
		if m.Confidence >= s.cfg.CheatingConfidenceLevel {
			pass = append(pass, m)
		}
	}
	if len(pass) == 0 {
		// Never return nothing while hidden cells exist: fall back to the
		// single most confident candidate.
		best := candidates[0]
		for _, m := range candidates[1:] {
			if m.Confidence > best.Confidence || (m.Confidence == best.Confidence && safer(m, best)) {
				best = m
			}
		}
		return &best
	}
	sort.SliceStable(pass, func(i, j int) bool {
		ri, rj := pass[i].Confidence+s.patternBonus(pass[i]), pass[j].Confidence+s.patternBonus(pass[j])
		if ri != rj {
			return ri > rj
		}
		return safer(pass[i], pass[j])
	})
	if len(pass) > 3 {
		pass = pass[:3]
	}
	return &pass[s.rng.Intn(len(pass))]
}

// patternBonus biases ranking toward shapes that historically worked out.
// Static tag weights plus, when a learning store is present, a shift around
// the observed win rate of this exact tag combination.
func (s *Selector) patternBonus(m Move) float64 {
	bonus := 0.0
	for _, t := range m.Patterns {
		switch t {
		case PatternCorner:
			bonus += 0.10
		case PatternEdge:
			bonus += 0.05
		case PatternZeroAdjacent:
			bonus += 0.15
		case PatternOneTwoOne:
			bonus += 0.10
		case PatternIsolated:
			bonus -= 0.05
		}
	}
	if s.learn != nil {
		if stats, ok := s.learn.Lookup(PatternSignature(m.Patterns)); ok && stats.Total() > 0 {
			bonus += (stats.WinRate() - 0.5) * 0.2
		}
	}
	return bonus
}

func hasTag(m Move, tag PatternTag) bool {
	for _, t := range m.Patterns {
		if t == tag {
			return true
		}
	}
	return false
}
