package store

import (
	"context"

	"github.com/rcliao/buyer-agent/internal/session"
)

// ExportAll returns every session with its full trace, oldest first.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]session.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product, budget, rounds, created_at, last_active
		 FROM sessions ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}

	var records []session.Record
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Trace, err = s.turns(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Import stores sessions from an export. A session already present gains the
// trace entries beyond those stored; an export with a shorter trace fails.
func (s *SQLiteStore) Import(ctx context.Context, records []session.Record) (int, error) {
	imported := 0
	for i := range records {
		if err := s.Save(ctx, &records[i]); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
