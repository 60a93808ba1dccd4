// Package store provides the SQLite-backed session store.
package store

import "github.com/rcliao/buyer-agent/internal/session"

var _ session.Store = (*SQLiteStore)(nil)
