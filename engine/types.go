package engine

// Action is what the caller should do with the chosen cell.
type Action int

const (
	ActionReveal Action = iota
	ActionFlag
)

func (a Action) String() string {
	if a == ActionFlag {
		return "flag"
	}
	return "reveal"
}

// Status of the round as observed by the board scanner.
type Status int

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
	StatusInactive
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "inactive"
	}
}

type PatternTag string

const (
	PatternCorner       PatternTag = "corner"
	PatternEdge         PatternTag = "edge"
	PatternIsolated     PatternTag = "isolated"
	PatternZeroAdjacent PatternTag = "zero_adjacent"
	PatternOneTwoOne    PatternTag = "one_two_one"
)

// Cell is one observed grid position. Number is meaningful only when the cell
// is revealed and not a known mine. Mine is only ever true post-loss or when
// the scanner has instrumented the page.
type Cell struct {
	X, Y     int
	Revealed bool
	Flagged  bool
	Number   int
	Mine     bool
}

// Hidden reports whether the cell is neither revealed nor flagged.
func (c Cell) Hidden() bool { return !c.Revealed && !c.Flagged }

// Move is a proposed action with its scoring metadata.
type Move struct {
	X, Y            int
	Action          Action
	SafetyScore     float64
	MineProbability float64
	Patterns        []PatternTag
	Confidence      float64
}

// GameState is the per-cycle snapshot handed to the engine. The caller owns
// the Grid exclusively for the duration of the call.
type GameState struct {
	Grid       *Grid
	TotalMines int
	Status     Status
}
