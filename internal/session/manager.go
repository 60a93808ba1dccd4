package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/buyer-agent/internal/model"
	"github.com/rcliao/buyer-agent/internal/negotiation"
)

// DefaultTTL is how long a session may stay idle before it expires.
const DefaultTTL = time.Hour

// Request is one negotiation call from a client.
type Request struct {
	SessionID string
	Product   string
	Budget    int64
	Message   string
}

// Response is the outcome of a negotiation call.
type Response struct {
	SessionID string       `json:"session_id"`
	Round     int          `json:"round"`
	Created   bool         `json:"created"`
	Result    model.Result `json:"response"`
}

// Manager owns session lifecycle around the negotiation policy: it creates,
// restores and saves sessions, serialises calls per id and expires idle ones.
type Manager struct {
	store   Store
	ttl     time.Duration
	phrases *negotiation.Phrasebook
	locks   *keyedMutex
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets the idle expiry.
func WithTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithChooser sets the counter template chooser shared by all sessions.
// It must be safe for concurrent use when the Manager serves concurrent requests.
func WithChooser(c negotiation.Chooser) ManagerOption {
	return func(m *Manager) { m.phrases = negotiation.NewPhrasebook(c) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides how new session ids are minted.
func WithIDGenerator(f func() string) ManagerOption {
	return func(m *Manager) { m.newID = f }
}

// NewManager returns a Manager over store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:   store,
		ttl:     DefaultTTL,
		phrases: negotiation.NewPhrasebook(nil),
		locks:   newKeyedMutex(),
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// TTL returns the idle expiry.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Negotiate runs one round for the request's session, creating the session
// when the id is empty or unknown. An existing session keeps the product and
// budget it was created with.
func (m *Manager) Negotiate(ctx context.Context, req Request) (Response, error) {
	if err := negotiation.ValidateBudget(req.Budget); err != nil {
		return Response{}, err
	}

	id := req.SessionID
	if id == "" {
		id = m.newID()
	}
	unlock := m.locks.lock(id)
	defer unlock()

	now := m.now()
	rec, err := m.load(ctx, id, now)
	created := false
	var pol *negotiation.Policy
	switch {
	case errors.Is(err, ErrNotFound):
		pol, err = negotiation.New(req.Product, req.Budget, negotiation.WithPhrasebook(m.phrases))
		if err != nil {
			return Response{}, err
		}
		rec = &Record{ID: id, CreatedAt: now}
		created = true
	case err != nil:
		return Response{}, err
	default:
		pol, err = negotiation.Restore(rec.Snapshot, negotiation.WithPhrasebook(m.phrases))
		if err != nil {
			return Response{}, fmt.Errorf("restore session %s: %w", id, err)
		}
	}

	res := pol.Negotiate(req.Message)

	rec.Snapshot = pol.Snapshot()
	rec.LastActive = now
	if err := m.store.Save(ctx, rec); err != nil {
		return Response{}, fmt.Errorf("save session %s: %w", id, err)
	}

	m.logger.DebugContext(ctx, "negotiation round",
		"session_id", id, "round", pol.Rounds(), "action", res.Action, "created", created)

	return Response{SessionID: id, Round: pol.Rounds(), Created: created, Result: res}, nil
}

// load fetches a session, treating one idle past the TTL as gone.
func (m *Manager) load(ctx context.Context, id string, now time.Time) (*Record, error) {
	rec, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if m.expired(rec, now) {
		if _, err := m.store.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("expire session %s: %w", id, err)
		}
		m.logger.InfoContext(ctx, "session expired", "session_id", id, "last_active", rec.LastActive)
		return nil, ErrNotFound
	}
	return rec, nil
}

func (m *Manager) expired(r *Record, now time.Time) bool {
	return m.ttl > 0 && now.Sub(r.LastActive) > m.ttl
}

// Get returns a live session with its trace.
func (m *Manager) Get(ctx context.Context, id string) (*Record, error) {
	unlock := m.locks.lock(id)
	defer unlock()
	return m.load(ctx, id, m.now())
}

// List returns live sessions, most recently active first.
func (m *Manager) List(ctx context.Context, p ListParams) ([]Record, error) {
	recs, err := m.store.List(ctx, p)
	if err != nil {
		return nil, err
	}
	now := m.now()
	live := recs[:0]
	for _, r := range recs {
		if !m.expired(&r, now) {
			live = append(live, r)
		}
	}
	return live, nil
}

// Reset removes a session. Resetting an unknown id is not an error.
func (m *Manager) Reset(ctx context.Context, id string) (bool, error) {
	unlock := m.locks.lock(id)
	defer unlock()

	existed, err := m.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("reset session %s: %w", id, err)
	}
	if existed {
		m.logger.InfoContext(ctx, "session reset", "session_id", id)
	}
	return existed, nil
}

// Sweep removes every session idle longer than the TTL.
// A TTL of zero or less never expires anything.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	if m.ttl <= 0 {
		return 0, nil
	}
	n, err := m.store.Sweep(ctx, m.now().Add(-m.ttl))
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	if n > 0 {
		m.logger.InfoContext(ctx, "expired sessions swept", "count", n, "ttl", m.ttl)
	}
	return n, nil
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil && ctx.Err() == nil {
				m.logger.ErrorContext(ctx, "session sweep failed", "error", err)
			}
		}
	}
}
