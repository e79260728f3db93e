package engine

import (
	"math/rand"
	"testing"
)

func newTestSelector(strategy Strategy, seed int64) *Selector {
	return NewSelector(SelectorConfig{
		Strategy:                strategy,
		ProbabilityThreshold:    0.7,
		CheatingConfidenceLevel: 0.85,
	}, rand.New(rand.NewSource(seed)), nil)
}

func TestSelectConservative(t *testing.T) {
	s := newTestSelector(StrategyConservative, 1)

	t.Run("empty candidates yield nil", func(t *testing.T) {
		if m := s.Select(nil); m != nil {
			t.Errorf("got %v, want nil", m)
		}
	})

	t.Run("strict maximum safety wins", func(t *testing.T) {
		moves := []Move{
			{X: 0, Y: 0, SafetyScore: 0.8},
			{X: 1, Y: 0, SafetyScore: 0.95},
			{X: 2, Y: 0, SafetyScore: 0.6},
		}
		m := s.Select(moves)
		if m.X != 1 {
			t.Errorf("picked (%d,%d), want (1,0)", m.X, m.Y)
		}
	})

	t.Run("ties break corner, then edge, then coordinate sum", func(t *testing.T) {
		moves := []Move{
			{X: 3, Y: 3, SafetyScore: 0.9},
			{X: 2, Y: 0, SafetyScore: 0.9, Patterns: []PatternTag{PatternEdge}},
			{X: 4, Y: 4, SafetyScore: 0.9, Patterns: []PatternTag{PatternCorner}},
		}
		if m := s.Select(moves); m.X != 4 || m.Y != 4 {
			t.Errorf("picked (%d,%d), want corner (4,4)", m.X, m.Y)
		}

		noCorner := moves[:2]
		if m := s.Select(noCorner); m.X != 2 || m.Y != 0 {
			t.Errorf("picked (%d,%d), want edge (2,0)", m.X, m.Y)
		}

		plain := []Move{
			{X: 3, Y: 3, SafetyScore: 0.9},
			{X: 1, Y: 2, SafetyScore: 0.9},
		}
		if m := s.Select(plain); m.X != 1 || m.Y != 2 {
			t.Errorf("picked (%d,%d), want lowest sum (1,2)", m.X, m.Y)
		}
	})

	t.Run("tied input is deterministic across runs", func(t *testing.T) {
		moves := []Move{
			{X: 2, Y: 1, SafetyScore: 0.9},
			{X: 1, Y: 2, SafetyScore: 0.9},
		}
		first := s.Select(moves)
		for i := 0; i < 10; i++ {
			if m := s.Select(moves); m.X != first.X || m.Y != first.Y {
				t.Fatal("conservative selection varied on identical input")
			}
		}
	})
}

func TestSelectThresholded(t *testing.T) {
	t.Run("falls back to conservative when nothing passes", func(t *testing.T) {
		s := newTestSelector(StrategyThresholded, 1)
		moves := []Move{
			{X: 0, Y: 0, SafetyScore: 0.5},
			{X: 1, Y: 0, SafetyScore: 0.6},
		}
		if m := s.Select(moves); m.X != 1 {
			t.Errorf("picked (%d,%d), want safest (1,0)", m.X, m.Y)
		}
	})

	t.Run("weighted pick stays within passing top 3", func(t *testing.T) {
		s := newTestSelector(StrategyThresholded, 7)
		moves := []Move{
			{X: 0, Y: 0, SafetyScore: 0.95},
			{X: 1, Y: 0, SafetyScore: 0.9},
			{X: 2, Y: 0, SafetyScore: 0.85},
			{X: 3, Y: 0, SafetyScore: 0.8},
			{X: 4, Y: 0, SafetyScore: 0.1},
		}
		for i := 0; i < 50; i++ {
			m := s.Select(moves)
			if m.X > 2 {
				t.Fatalf("picked (%d,%d), outside the top 3", m.X, m.Y)
			}
		}
	})

	t.Run("same seed reproduces the same choice", func(t *testing.T) {
		moves := []Move{
			{X: 0, Y: 0, SafetyScore: 0.95},
			{X: 1, Y: 0, SafetyScore: 0.9},
			{X: 2, Y: 0, SafetyScore: 0.85},
		}
		a := newTestSelector(StrategyThresholded, 42).Select(moves)
		b := newTestSelector(StrategyThresholded, 42).Select(moves)
		if a.X != b.X || a.Y != b.Y {
			t.Errorf("seed 42 picked (%d,%d) then (%d,%d)", a.X, a.Y, b.X, b.Y)
		}
	})
}

func TestSelectCheating(t *testing.T) {
	t.Run("falls back to highest confidence, never nil", func(t *testing.T) {
		s := newTestSelector(StrategyCheating, 1)
		moves := []Move{
			{X: 0, Y: 0, Confidence: 0.4},
			{X: 1, Y: 0, Confidence: 0.7},
			{X: 2, Y: 0, Confidence: 0.55},
		}
		m := s.Select(moves)
		if m == nil {
			t.Fatal("cheating returned nil with candidates present")
		}
		if m.X != 1 {
			t.Errorf("picked (%d,%d), want most confident (1,0)", m.X, m.Y)
		}
	})

	t.Run("uniform pick among confident top 3", func(t *testing.T) {
		s := newTestSelector(StrategyCheating, 3)
		moves := []Move{
			{X: 0, Y: 0, Confidence: 0.9},
			{X: 1, Y: 0, Confidence: 0.95},
			{X: 2, Y: 0, Confidence: 0.99},
			{X: 3, Y: 0, Confidence: 0.86},
			{X: 4, Y: 0, Confidence: 0.2},
		}
		for i := 0; i < 50; i++ {
			m := s.Select(moves)
			if m.X == 4 {
				t.Fatal("picked the low-confidence candidate")
			}
			if m.X == 3 {
				t.Fatal("picked outside the top 3")
			}
		}
	})

	t.Run("learning store biases ranking", func(t *testing.T) {
		// All four clear the gate with equal confidence, so pattern bonuses
		// alone decide the top 3. Recorded outcomes must promote the all-win
		// edge candidate into it and push the all-loss 1-2-1 candidate out.
		moves := []Move{
			{X: 0, Y: 0, Confidence: 0.9, SafetyScore: 0.9, Patterns: []PatternTag{PatternCorner}},
			{X: 3, Y: 1, Confidence: 0.9, SafetyScore: 0.9, Patterns: []PatternTag{PatternOneTwoOne}},
			{X: 2, Y: 2, Confidence: 0.9, SafetyScore: 0.9, Patterns: []PatternTag{PatternZeroAdjacent}},
			{X: 4, Y: 0, Confidence: 0.9, SafetyScore: 0.9, Patterns: []PatternTag{PatternEdge}},
		}

		store := NewMemoryStore(8)
		for i := 0; i < 10; i++ {
			store.RecordOutcome(PatternSignature([]PatternTag{PatternEdge}), true)
			store.RecordOutcome(PatternSignature([]PatternTag{PatternOneTwoOne}), false)
		}
		biased := NewSelector(SelectorConfig{
			Strategy:                StrategyCheating,
			CheatingConfidenceLevel: 0.85,
		}, rand.New(rand.NewSource(1)), store)

		sawEdge := false
		for i := 0; i < 100; i++ {
			m := biased.Select(moves)
			if hasTag(*m, PatternOneTwoOne) {
				t.Fatal("all-loss 1-2-1 candidate stayed in the top 3")
			}
			if hasTag(*m, PatternEdge) {
				sawEdge = true
			}
		}
		if !sawEdge {
			t.Error("all-win edge candidate never drawn from the top 3")
		}

		// Without the store the static weights rank edge last.
		plain := newTestSelector(StrategyCheating, 1)
		for i := 0; i < 100; i++ {
			if m := plain.Select(moves); hasTag(*m, PatternEdge) {
				t.Fatal("edge candidate made the top 3 without recorded wins")
			}
		}
	})
}

func TestParseStrategy(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Strategy
	}{
		{"conservative", StrategyConservative},
		{"thresholded", StrategyThresholded},
		{"cheating", StrategyCheating},
	} {
		got, err := ParseStrategy(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseStrategy(%q) = %v, %v", tc.in, got, err)
		}
	}
	if _, err := ParseStrategy("bogus"); err == nil {
		t.Error("ParseStrategy accepted bogus input")
	}
}
