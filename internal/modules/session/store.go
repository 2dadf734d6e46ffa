// README: Session store contract shared by the in-memory and Redis backends.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

const (
	DefaultIdleTimeout = 30 * time.Minute
	DefaultMaxTurns    = 20
	DefaultMaxPlans    = 10
)

// Store persists sessions. Implementations return copies, so a caller's
// mutations are only visible to others after Set.
type Store interface {
	// Get returns ErrNotFound for absent or idle-expired sessions.
	Get(ctx context.Context, id string) (*Session, error)
	// Set stores s, stamping nothing; callers own LastAccess.
	Set(ctx context.Context, s *Session) error
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	// SweepExpired removes sessions idle past the timeout and reports how many.
	SweepExpired(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
}

// Stats summarises the store for the operator endpoints.
type Stats struct {
	ActiveSessions int           `json:"activeSessions"`
	IdleTimeout    time.Duration `json:"-"`
}

// Options bound the size and lifetime of stored sessions.
type Options struct {
	IdleTimeout time.Duration
	MaxTurns    int
	MaxPlans    int
	// Now overrides the clock; tests use it to simulate idleness.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	if o.MaxTurns <= 0 {
		o.MaxTurns = DefaultMaxTurns
	}
	if o.MaxPlans <= 0 {
		o.MaxPlans = DefaultMaxPlans
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) expired(s *Session, now time.Time) bool {
	return now.Sub(s.LastAccess) > o.IdleTimeout
}
