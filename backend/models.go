package main

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/you/minesbot/engine"
)

type RoundID = uuid.UUID

// Round tracks one play-through from first scan to win/loss/inactive. The
// engine itself is stateless; this is the bookkeeping around it.
type Round struct {
	ID         RoundID
	Session    string
	Strategy   string
	Width      int
	Height     int
	Mines      int
	Moves      int
	Deductions int
	Won        *bool
	Started    time.Time
	Ended      *time.Time

	// Pattern signatures of the moves played, so outcomes can be credited
	// to the learning store when the round resolves.
	signatures []string
}

func newRound(session, strategy string, snap SnapshotPayload) *Round {
	return &Round{
		ID:       uuid.New(),
		Session:  session,
		Strategy: strategy,
		Width:    snap.Width,
		Height:   snap.Height,
		Mines:    snap.Mines,
		Started:  time.Now(),
	}
}

// WebSocket message envelope shared with the board scanner.

type WSMessage struct {
	Type string          `json:"type"` // scan|move|done|stale|result|error
	Data json.RawMessage `json:"data,omitempty"`
}

func wsMessage(typ string, payload any) WSMessage {
	b, _ := json.Marshal(payload)
	return WSMessage{Type: typ, Data: b}
}

type CellPayload struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	State string `json:"state"` // hidden|flagged|empty|number_0..number_8|mine
}

type SnapshotPayload struct {
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Mines  int           `json:"mines"`
	Status string        `json:"status"` // playing|won|lost|inactive
	Cells  []CellPayload `json:"cells"`
}

type MovePayload struct {
	RoundID     string   `json:"roundId"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Action      string   `json:"action"`
	Safety      float64  `json:"safety"`
	Probability float64  `json:"probability"`
	Confidence  float64  `json:"confidence,omitempty"`
	Patterns    []string `json:"patterns,omitempty"`
	Deduced     bool     `json:"deduced"`
}

type ResultPayload struct {
	RoundID string `json:"roundId"`
	Won     bool   `json:"won"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func movePayload(roundID RoundID, m *engine.Move, deduced bool) MovePayload {
	tags := make([]string, len(m.Patterns))
	for i, t := range m.Patterns {
		tags[i] = string(t)
	}
	return MovePayload{
		RoundID:     roundID.String(),
		X:           m.X,
		Y:           m.Y,
		Action:      m.Action.String(),
		Safety:      m.SafetyScore,
		Probability: m.MineProbability,
		Confidence:  m.Confidence,
		Patterns:    tags,
		Deduced:     deduced,
	}
}
