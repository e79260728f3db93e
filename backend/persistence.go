package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/you/minesbot/engine"
)

type DB struct{ Pool *pgxpool.Pool }

func MustOpenDB(dsn string) *DB {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		panic(err)
	}
	return &DB{Pool: pool}
}

func (db *DB) AutoMigrate() {
	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rounds (
			id         UUID PRIMARY KEY,
			session    TEXT NOT NULL,
			strategy   TEXT NOT NULL,
			width      INT NOT NULL,
			height     INT NOT NULL,
			mines      INT NOT NULL,
			moves      INT NOT NULL DEFAULT 0,
			deductions INT NOT NULL DEFAULT 0,
			won        BOOLEAN,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			ended_at   TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);
		CREATE TABLE IF NOT EXISTS pattern_stats (
			signature  TEXT PRIMARY KEY,
			wins       INT NOT NULL DEFAULT 0,
			losses     INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		log.Warnln("migrate err:", err)
	}
}

func (a *App) PersistRound(r *Round) {
	if a.DB == nil {
		return
	}
	ctx := context.Background()
	_, err := a.DB.Pool.Exec(ctx, `
		INSERT INTO rounds (id, session, strategy, width, height, mines, moves, deductions, won, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			moves      = EXCLUDED.moves,
			deductions = EXCLUDED.deductions,
			won        = EXCLUDED.won,
			ended_at   = EXCLUDED.ended_at
	`, r.ID, r.Session, r.Strategy, r.Width, r.Height, r.Mines, r.Moves, r.Deductions, r.Won, r.Started, r.Ended)
	if err != nil {
		log.Warnln("persist round err:", err)
	}
}

// PersistPatternStats mirrors the in-memory learning store so pattern history
// survives restarts. Whole-snapshot upsert; the store is small by design.
func (a *App) PersistPatternStats() {
	if a.DB == nil {
		return
	}
	ctx := context.Background()
	for sig, s := range a.Learn.Snapshot() {
		_, err := a.DB.Pool.Exec(ctx, `
			INSERT INTO pattern_stats (signature, wins, losses, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (signature) DO UPDATE SET
				wins       = EXCLUDED.wins,
				losses     = EXCLUDED.losses,
				updated_at = EXCLUDED.updated_at
		`, sig, s.Wins, s.Losses)
		if err != nil {
			log.Warnln("persist pattern stats err:", err)
			return
		}
	}
}

// LoadPatternStats seeds the learning store from previous runs.
func (db *DB) LoadPatternStats(ctx context.Context) (map[string]engine.PatternStats, error) {
	rows, err := db.Pool.Query(ctx, `SELECT signature, wins, losses FROM pattern_stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]engine.PatternStats)
	for rows.Next() {
		var sig string
		var s engine.PatternStats
		if err := rows.Scan(&sig, &s.Wins, &s.Losses); err != nil {
			return nil, err
		}
		out[sig] = s
	}
	return out, rows.Err()
}

type RecentRoundRow struct {
	ID         string     `json:"id"`
	Session    string     `json:"session"`
	Strategy   string     `json:"strategy"`
	Mines      int        `json:"mines"`
	Moves      int        `json:"moves"`
	Deductions int        `json:"deductions"`
	Won        *bool      `json:"won,omitempty"`
	Started    time.Time  `json:"started"`
	Ended      *time.Time `json:"ended,omitempty"`
}

func (db *DB) QueryRecentRounds(ctx context.Context, limit int) ([]RecentRoundRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, session, strategy, mines, moves, deductions, won, started_at, ended_at
		FROM rounds
		ORDER BY ended_at DESC NULLS LAST, started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RecentRoundRow{}
	for rows.Next() {
		var r RecentRoundRow
		if err := rows.Scan(&r.ID, &r.Session, &r.Strategy, &r.Mines, &r.Moves, &r.Deductions, &r.Won, &r.Started, &r.Ended); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
