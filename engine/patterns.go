package engine

import (
	"sort"
	"strings"
)

// DetectPatterns reports the local shapes at (x,y), from grid geometry and
// revealed neighbor numbers only. Corner and edge are disjoint: a cell on two
// boundaries is tagged corner, a cell on exactly one is tagged edge.
func DetectPatterns(g *Grid, x, y int) []PatternTag {
	var tags []PatternTag

	onX := x == 0 || x == g.width-1
	onY := y == 0 || y == g.height-1
	switch {
	case onX && onY:
		tags = append(tags, PatternCorner)
	case onX || onY:
		tags = append(tags, PatternEdge)
	}

	revealed := 0
	zeroAdjacent := false
	for _, n := range g.Neighbors(x, y) {
		if !n.Revealed {
			continue
		}
		revealed++
		if !n.Mine && n.Number == 0 {
			zeroAdjacent = true
		}
	}
	if revealed == 0 {
		tags = append(tags, PatternIsolated)
	}
	if zeroAdjacent {
		tags = append(tags, PatternZeroAdjacent)
	}
	if hasOneTwoOne(g, x, y) {
		tags = append(tags, PatternOneTwoOne)
	}
	return tags
}

// hasOneTwoOne looks for the classic 1-2-1 line in the row above or below, or
// the column left or right, centered on this cell's position.
func hasOneTwoOne(g *Grid, x, y int) bool {
	for _, dy := range []int{-1, 1} {
		if lineIsOneTwoOne(g, x-1, y+dy, 1, 0) {
			return true
		}
	}
	for _, dx := range []int{-1, 1} {
		if lineIsOneTwoOne(g, x+dx, y-1, 0, 1) {
			return true
		}
	}
	return false
}

func lineIsOneTwoOne(g *Grid, x, y, dx, dy int) bool {
	want := [3]int{1, 2, 1}
	for i := 0; i < 3; i++ {
		cx, cy := x+i*dx, y+i*dy
		if !g.inBounds(cx, cy) {
			return false
		}
		c := g.At(cx, cy)
		if !c.Revealed || c.Mine || c.Number != want[i] {
			return false
		}
	}
	return true
}

// PatternSignature folds a move's tags into a stable key for the learning
// store. Tags are sorted so detection order does not leak into the key.
func PatternSignature(tags []PatternTag) string {
	if len(tags) == 0 {
		return "none"
	}
	ss := make([]string, len(tags))
	for i, t := range tags {
		ss[i] = string(t)
	}
	sort.Strings(ss)
	return strings.Join(ss, "+")
}
