package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you/minesbot/engine"
)

// parseSnapshot converts a scanner payload into an engine GameState. The
// cell-state vocabulary is the one DOM scanners emit: hidden, flagged, empty
// (a revealed zero), number_0..number_8 and mine. Anything malformed maps to
// engine.ErrInvalidGrid so callers get the re-scan signal from one place.
func parseSnapshot(snap SnapshotPayload) (engine.GameState, error) {
	var gs engine.GameState

	if snap.Width <= 0 || snap.Height <= 0 {
		return gs, fmt.Errorf("%w: dimensions %dx%d", engine.ErrInvalidGrid, snap.Width, snap.Height)
	}
	if snap.Mines < 0 || snap.Mines > snap.Width*snap.Height {
		return gs, fmt.Errorf("%w: %d mines on a %dx%d board", engine.ErrInvalidGrid, snap.Mines, snap.Width, snap.Height)
	}
	if len(snap.Cells) != snap.Width*snap.Height {
		return gs, fmt.Errorf("%w: %d cells for a %dx%d board", engine.ErrInvalidGrid, len(snap.Cells), snap.Width, snap.Height)
	}

	rows := make([][]engine.Cell, snap.Height)
	for y := range rows {
		rows[y] = make([]engine.Cell, snap.Width)
	}
	seen := make(map[[2]int]bool, len(snap.Cells))
	for _, cp := range snap.Cells {
		if cp.X < 0 || cp.X >= snap.Width || cp.Y < 0 || cp.Y >= snap.Height {
			return gs, fmt.Errorf("%w: cell (%d,%d) out of bounds", engine.ErrInvalidGrid, cp.X, cp.Y)
		}
		key := [2]int{cp.X, cp.Y}
		if seen[key] {
			return gs, fmt.Errorf("%w: duplicate cell (%d,%d)", engine.ErrInvalidGrid, cp.X, cp.Y)
		}
		seen[key] = true

		c, err := parseCellState(cp.State)
		if err != nil {
			return gs, fmt.Errorf("%w: cell (%d,%d): %v", engine.ErrInvalidGrid, cp.X, cp.Y, err)
		}
		rows[cp.Y][cp.X] = c
	}

	grid, err := engine.NewGrid(rows)
	if err != nil {
		return gs, err
	}
	status, err := parseStatus(snap.Status)
	if err != nil {
		return gs, err
	}

	gs.Grid = grid
	gs.TotalMines = snap.Mines
	gs.Status = status
	return gs, nil
}

func parseCellState(state string) (engine.Cell, error) {
	switch state {
	case "hidden":
		return engine.Cell{}, nil
	case "flagged":
		return engine.Cell{Flagged: true}, nil
	case "empty":
		return engine.Cell{Revealed: true, Number: 0}, nil
	case "mine":
		return engine.Cell{Revealed: true, Mine: true}, nil
	}
	if rest, ok := strings.CutPrefix(state, "number_"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || n > 8 {
			return engine.Cell{}, fmt.Errorf("bad number state %q", state)
		}
		return engine.Cell{Revealed: true, Number: n}, nil
	}
	return engine.Cell{}, fmt.Errorf("unknown state %q", state)
}

func parseStatus(s string) (engine.Status, error) {
	switch s {
	case "playing", "":
		return engine.StatusPlaying, nil
	case "won":
		return engine.StatusWon, nil
	case "lost":
		return engine.StatusLost, nil
	case "inactive":
		return engine.StatusInactive, nil
	}
	return engine.StatusInactive, fmt.Errorf("%w: unknown status %q", engine.ErrInvalidGrid, s)
}
