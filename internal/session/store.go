// Package session keeps negotiation sessions between calls: storage, per-session
// serialisation and idle expiry.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/buyer-agent/internal/negotiation"
)

// ErrNotFound is returned when a session id has no stored record.
var ErrNotFound = errors.New("session not found")

// Record is a stored session.
type Record struct {
	ID string `json:"id"`
	negotiation.Snapshot
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// ListParams bounds a listing. A Limit of zero or less lists everything.
type ListParams struct {
	Limit int
}

// Store defines the session storage interface.
type Store interface {
	// Load returns the record for id, or ErrNotFound.
	Load(ctx context.Context, id string) (*Record, error)

	// Save creates or replaces the record. The trace only ever grows.
	Save(ctx context.Context, r *Record) error

	// Delete removes a session and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// List returns sessions, most recently active first, without their traces.
	List(ctx context.Context, p ListParams) ([]Record, error)

	// Sweep deletes sessions last active before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)

	// Close closes the store.
	Close() error
}
