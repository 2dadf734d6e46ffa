// README: Planning quota service consumed by the planner before each generation call.
package aiusage

import (
	"context"
	"errors"
	"time"
)

// Service enforces a monthly allowance of planner calls per user.
type Service struct {
	store     *Store
	allowance int
	now       func() time.Time
}

// NewService creates a Service granting allowance plans per month (<= 0 means DefaultTokens).
func NewService(store *Store, allowance int) *Service {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &Service{store: store, allowance: allowance, now: time.Now}
}

// UseToken deducts one plan from uid's monthly allowance. A missing row is
// initialised and the deduction retried once. Returns ErrInsufficientTokens
// when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, uid string) error {
	month := s.now().Format(monthKey)
	err := s.store.UseToken(ctx, uid, s.allowance, month)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}
	if initErr := s.store.EnsureUser(ctx, uid, s.allowance, month); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, uid, s.allowance, month)
}

func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid, s.allowance, s.now().Format(monthKey))
}
