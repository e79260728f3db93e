package main

import "context"

type StrategyStatsRow struct {
	Strategy   string  `json:"strategy"`
	Rounds     int     `json:"rounds"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"winRate"`
	Moves      int     `json:"moves"`
	Deductions int     `json:"deductions"`
}

// QueryStats aggregates finished rounds per strategy.
func (db *DB) QueryStats(ctx context.Context) ([]StrategyStatsRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT strategy,
		       COUNT(*) AS rounds,
		       COUNT(*) FILTER (WHERE won) AS wins,
		       COALESCE(SUM(moves), 0) AS moves,
		       COALESCE(SUM(deductions), 0) AS deductions
		FROM rounds
		WHERE ended_at IS NOT NULL
		GROUP BY strategy
		ORDER BY rounds DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StrategyStatsRow{}
	for rows.Next() {
		var r StrategyStatsRow
		if err := rows.Scan(&r.Strategy, &r.Rounds, &r.Wins, &r.Moves, &r.Deductions); err != nil {
			return nil, err
		}
		if r.Rounds > 0 {
			r.WinRate = float64(r.Wins) / float64(r.Rounds)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
