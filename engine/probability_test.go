package engine

import (
	"math"
	"reflect"
	"testing"
)

func TestEstimateBaseRate(t *testing.T) {
	est := NewEstimator(DefaultEstimatorConfig())

	t.Run("empty board gets the global rate", func(t *testing.T) {
		g := mustGrid(t,
			".....",
			".....",
			".....",
			".....",
			".....",
		)
		moves := est.Estimate(g, 5)
		if len(moves) != 25 {
			t.Fatalf("got %d moves, want 25", len(moves))
		}
		for _, m := range moves {
			if m.MineProbability != 0.2 {
				t.Fatalf("cell (%d,%d) probability %v, want 0.2", m.X, m.Y, m.MineProbability)
			}
		}
	})

	t.Run("base rate is floored at the minimum", func(t *testing.T) {
		g := mustGrid(t,
			"....",
			"....",
			"....",
			"....",
		)
		moves := est.Estimate(g, 1) // 1/16 < 0.15
		for _, m := range moves {
			if m.MineProbability != 0.15 {
				t.Fatalf("cell (%d,%d) probability %v, want floor 0.15", m.X, m.Y, m.MineProbability)
			}
		}
	})

	t.Run("no hidden cells yields no candidates", func(t *testing.T) {
		g := mustGrid(t,
			"00",
			"00",
		)
		if moves := est.Estimate(g, 0); moves != nil {
			t.Errorf("got %v, want nil", moves)
		}
	})
}

func TestEstimateLocalConstraints(t *testing.T) {
	est := NewEstimator(DefaultEstimatorConfig())

	t.Run("most constraining neighbor wins", func(t *testing.T) {
		// (1,1) touches both the 1 (three hidden neighbors, 1/3) and the 2
		// (three hidden neighbors, 2/3); the maximum 2/3 applies.
		g := mustGrid(t,
			"1..",
			"...",
			"..2",
		)
		moves := est.Estimate(g, 3)
		m, ok := findMove(moves, 1, 1)
		if !ok {
			t.Fatal("no move for (1,1)")
		}
		if math.Abs(m.MineProbability-2.0/3.0) > 1e-9 {
			t.Errorf("probability = %v, want 2/3", m.MineProbability)
		}
		lesser, ok := findMove(moves, 1, 0)
		if !ok {
			t.Fatal("no move for (1,0)")
		}
		if math.Abs(lesser.MineProbability-1.0/3.0) > 1e-9 {
			t.Errorf("probability = %v, want 1/3", lesser.MineProbability)
		}
	})

	t.Run("satisfied constraint is floored, not zero", func(t *testing.T) {
		// The flag accounts for the 1; its local estimate for (1,1) is 0 but
		// the floor keeps partial information from reading as certainty.
		g := mustGrid(t,
			"1F",
			"..",
		)
		moves := est.Estimate(g, 1)
		m, ok := findMove(moves, 1, 1)
		if !ok {
			t.Fatal("no move for (1,1)")
		}
		if m.MineProbability != 0.15 {
			t.Errorf("probability = %v, want 0.15", m.MineProbability)
		}
	})

	t.Run("output bounded in [0,1]", func(t *testing.T) {
		g := mustGrid(t,
			"8.",
			"..",
		)
		for _, m := range est.Estimate(g, 10) {
			if m.MineProbability < 0 || m.MineProbability > 1 {
				t.Errorf("cell (%d,%d) probability %v out of range", m.X, m.Y, m.MineProbability)
			}
		}
	})
}

func TestEstimateDeterministic(t *testing.T) {
	est := NewEstimator(DefaultEstimatorConfig())
	g := mustGrid(t,
		"1..",
		"...",
		"..2",
	)
	a := est.Estimate(g, 4)
	b := est.Estimate(g, 4)
	if !reflect.DeepEqual(a, b) {
		t.Error("same input produced different estimates")
	}
}

func TestEstimateBoosted(t *testing.T) {
	est := NewEstimator(DefaultEstimatorConfig())
	// Center 1 constrains all eight hidden cells to 1/8, floored to 0.15;
	// the mean revealed-neighbor number is 1 everywhere, so the low-number
	// factor applies on top of the corner/edge discounts.
	g := mustGrid(t,
		"...",
		".1.",
		"...",
	)
	moves := est.EstimateBoosted(g, 1)

	t.Run("corner discount", func(t *testing.T) {
		m, _ := findMove(moves, 0, 0)
		want := 0.15 * 0.7 * 0.6
		if math.Abs(m.MineProbability-want) > 1e-9 {
			t.Errorf("probability = %v, want %v", m.MineProbability, want)
		}
	})

	t.Run("edge discount is exclusive of corner", func(t *testing.T) {
		m, _ := findMove(moves, 1, 0)
		want := 0.15 * 0.8 * 0.6
		if math.Abs(m.MineProbability-want) > 1e-9 {
			t.Errorf("probability = %v, want %v", m.MineProbability, want)
		}
	})

	t.Run("confidence is boosted and clamped", func(t *testing.T) {
		for _, m := range moves {
			if m.Confidence < 0 || m.Confidence > 1 {
				t.Fatalf("confidence %v out of range", m.Confidence)
			}
		}
		m, _ := findMove(moves, 0, 0)
		want := clamp01((1 - 0.15*0.7*0.6) * 1.2)
		if math.Abs(m.Confidence-want) > 1e-9 {
			t.Errorf("confidence = %v, want %v", m.Confidence, want)
		}
	})
}
