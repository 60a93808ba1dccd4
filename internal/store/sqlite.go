package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/buyer-agent/internal/model"
	"github.com/rcliao/buyer-agent/internal/session"
)

// timeFormat is fixed-width UTC so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000Z"

// SQLiteStore implements session.Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newID must be called with a write transaction open; the entropy source is
// not safe for concurrent use and SQLite serialises writers.
func (s *SQLiteStore) newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		product     TEXT NOT NULL,
		budget      INTEGER NOT NULL,
		rounds      INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		last_active TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active DESC);

	CREATE TABLE IF NOT EXISTS turns (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		round       INTEGER NOT NULL,
		role        TEXT NOT NULL,
		text        TEXT NOT NULL,
		action      TEXT,
		offer_price INTEGER,
		created_at  TEXT NOT NULL,
		UNIQUE (session_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, seq);
	CREATE INDEX IF NOT EXISTS idx_turns_action ON turns(action);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*session.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, product, budget, rounds, created_at, last_active
		 FROM sessions WHERE id = ?`, id)
	r, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.Trace, err = s.turns(ctx, id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) turns(ctx context.Context, sessionID string) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, round, role, text, action, offer_price
		 FROM turns WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var e model.Entry
		var action sql.NullString
		var offer sql.NullInt64
		if err := rows.Scan(&e.Seq, &e.Round, &e.Role, &e.Text, &action, &offer); err != nil {
			return nil, err
		}
		e.Action = model.Action(action.String)
		if offer.Valid {
			p := offer.Int64
			e.OfferPrice = &p
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save upserts the session row and appends trace entries not yet stored.
func (s *SQLiteStore) Save(ctx context.Context, r *session.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, product, budget, rounds, created_at, last_active)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET rounds = excluded.rounds, last_active = excluded.last_active`,
		r.ID, r.Product, r.Budget, r.Rounds,
		r.CreatedAt.UTC().Format(timeFormat), r.LastActive.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	var stored int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM turns WHERE session_id = ?`, r.ID).Scan(&stored); err != nil {
		return fmt.Errorf("count turns: %w", err)
	}
	if stored > len(r.Trace) {
		return fmt.Errorf("trace for %s shrank from %d to %d entries", r.ID, stored, len(r.Trace))
	}

	now := time.Now().UTC()
	for _, e := range r.Trace[stored:] {
		var action *string
		if e.Action != "" {
			a := string(e.Action)
			action = &a
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO turns (id, session_id, seq, round, role, text, action, offer_price, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(now), r.ID, e.Seq, e.Round, string(e.Role), e.Text, action, e.OfferPrice,
			now.Format(timeFormat))
		if err != nil {
			return fmt.Errorf("insert turn: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLiteStore) List(ctx context.Context, p session.ListParams) ([]session.Record, error) {
	// LIMIT -1 is unbounded in SQLite.
	limit := p.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product, budget, rounds, created_at, last_active
		 FROM sessions ORDER BY last_active DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []session.Record
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_active < ?`, cutoff.UTC().Format(timeFormat))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (session.Record, error) {
	var r session.Record
	var createdAt, lastActive string

	err := row.Scan(&r.ID, &r.Product, &r.Budget, &r.Rounds, &createdAt, &lastActive)
	if err != nil {
		return r, err
	}

	r.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	r.LastActive, _ = time.Parse(timeFormat, lastActive)
	return r, nil
}
