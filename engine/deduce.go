package engine

import (
	"errors"
	"fmt"
)

// ErrStaleObservation means the deduction rules reached contradictory
// conclusions for the same cell. That only happens when the snapshot was
// internally inconsistent (partially updated DOM, mis-parsed grid); the
// caller should discard it and re-scan.
var ErrStaleObservation = errors.New("stale observation")

// FindDeductions applies the two classical zero-uncertainty rules to every
// revealed numbered cell:
//
//   - flagged neighbors == number: the remaining hidden neighbors are safe
//   - flagged + hidden neighbors == number: the hidden neighbors are mines
//
// Moves are deduplicated by coordinate. An empty result is the normal case
// when no deduction applies.
func FindDeductions(g *Grid) ([]Move, error) {
	concluded := make(map[[2]int]Action)
	var moves []Move

	for _, c := range g.Cells() {
		if !c.Revealed || c.Mine {
			continue
		}
		var hidden []Cell
		flags := 0
		for _, n := range g.Neighbors(c.X, c.Y) {
			if n.Flagged {
				flags++
			} else if !n.Revealed {
				hidden = append(hidden, n)
			}
		}
		if len(hidden) == 0 {
			continue
		}

		var action Action
		switch {
		case flags == c.Number:
			action = ActionReveal
		case flags+len(hidden) == c.Number:
			action = ActionFlag
		default:
			continue
		}

		for _, h := range hidden {
			key := [2]int{h.X, h.Y}
			if prev, ok := concluded[key]; ok {
				if prev != action {
					return nil, fmt.Errorf("cell (%d,%d) concluded both safe and mined: %w", h.X, h.Y, ErrStaleObservation)
				}
				continue
			}
			concluded[key] = action
			moves = append(moves, deducedMove(g, h, action))
		}
	}
	return moves, nil
}

func deducedMove(g *Grid, c Cell, action Action) Move {
	m := Move{
		X:          c.X,
		Y:          c.Y,
		Action:     action,
		Confidence: 1.0,
		Patterns:   DetectPatterns(g, c.X, c.Y),
	}
	if action == ActionReveal {
		m.SafetyScore = 1.0
		m.MineProbability = 0.0
	} else {
		m.SafetyScore = 0.0
		m.MineProbability = 1.0
	}
	return m
}
