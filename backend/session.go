package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/minesbot/engine"
)

// HandleScan runs one decision cycle: parse the snapshot, ask the engine for
// a move, and account for it. The reply is what goes back to the scanner over
// its websocket (or the /analyze response body).
func (a *App) HandleScan(session string, snap SnapshotPayload) WSMessage {
	gs, err := parseSnapshot(snap)
	if err != nil {
		log.WithFields(logrus.Fields{"session": session, "err": err}).Warn("rejected snapshot")
		return wsMessage("stale", ErrorPayload{Error: err.Error()})
	}

	round := a.Hub.Round(session)
	if gs.Status != engine.StatusPlaying {
		if round != nil {
			won := gs.Status == engine.StatusWon
			a.finishRound(round, &won)
			a.Hub.RemoveRound(session)
		}
		return wsMessage("done", ResultPayload{Won: gs.Status == engine.StatusWon})
	}

	if round == nil {
		round = newRound(session, a.Engine.Strategy().String(), snap)
		a.Hub.SetRound(session, round)
		a.Analytics.Emit("round.start", map[string]any{
			"roundId": round.ID.String(), "session": session,
			"strategy": round.Strategy, "width": round.Width,
			"height": round.Height, "mines": round.Mines,
		})
		log.WithFields(logrus.Fields{"session": session, "round": round.ID}).Info("round started")
	}

	move, err := a.Engine.ChooseMove(gs)
	if err != nil {
		if errors.Is(err, engine.ErrStaleObservation) {
			log.WithFields(logrus.Fields{"session": session, "round": round.ID}).Warn("stale observation, asking for re-scan")
			return wsMessage("stale", ErrorPayload{Error: err.Error()})
		}
		return wsMessage("error", ErrorPayload{Error: err.Error()})
	}
	if move == nil {
		return wsMessage("done", ResultPayload{RoundID: round.ID.String()})
	}

	deduced := move.Action == engine.ActionFlag || move.MineProbability == 0
	round.Moves++
	if deduced {
		round.Deductions++
	}
	round.signatures = append(round.signatures, engine.PatternSignature(move.Patterns))

	a.Analytics.Emit("move", map[string]any{
		"roundId": round.ID.String(), "session": session,
		"x": move.X, "y": move.Y, "action": move.Action.String(),
		"probability": move.MineProbability, "safety": move.SafetyScore,
		"deduced": deduced,
	})
	return wsMessage("move", movePayload(round.ID, move, deduced))
}

// HandleResult is the scanner telling us how the round ended. Scanners that
// report status through scan messages instead never send this.
func (a *App) HandleResult(session string, res ResultPayload) {
	round := a.Hub.Round(session)
	if round == nil {
		log.WithField("session", session).Warn("result for unknown round")
		return
	}
	won := res.Won
	a.finishRound(round, &won)
	a.Hub.RemoveRound(session)
	if ws := a.Hub.Conn(session); ws != nil {
		_ = ws.SafeWriteJSON(wsMessage("done", ResultPayload{RoundID: round.ID.String(), Won: res.Won}))
	}
}

func (a *App) finishRound(r *Round, won *bool) {
	now := time.Now()
	r.Ended = &now
	r.Won = won

	for _, sig := range r.signatures {
		a.Learn.RecordOutcome(sig, won != nil && *won)
	}
	go a.PersistRound(r)
	go a.PersistPatternStats()

	a.Analytics.Emit("round.end", map[string]any{
		"roundId": r.ID.String(), "session": r.Session, "strategy": r.Strategy,
		"won": won != nil && *won, "moves": r.Moves, "deductions": r.Deductions,
		"duration": time.Since(r.Started).Seconds(),
	})
	log.WithFields(logrus.Fields{
		"round": r.ID, "won": won != nil && *won,
		"moves": r.Moves, "deductions": r.Deductions,
	}).Info("round finished")
}

func decodePayload[T any](raw json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}
