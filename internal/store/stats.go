package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string        `json:"db_path"`
	DBSizeBytes int64         `json:"db_size_bytes"`
	Sessions    int           `json:"sessions"`
	Turns       int           `json:"turns"`
	Rounds      int           `json:"rounds"`
	Actions     []ActionStats `json:"actions"`
}

// ActionStats counts buyer replies per action.
type ActionStats struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Actions: []ActionStats{}}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(rounds), 0) FROM sessions`).Scan(&st.Sessions, &st.Rounds)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&st.Turns)

	rows, err := s.db.QueryContext(ctx, `
		SELECT action, COUNT(*) AS cnt
		FROM turns WHERE role = 'buyer' AND action IS NOT NULL
		GROUP BY action ORDER BY cnt DESC, action`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var a ActionStats
		if err := rows.Scan(&a.Action, &a.Count); err != nil {
			return st, err
		}
		st.Actions = append(st.Actions, a)
	}

	return st, rows.Err()
}
