// README: Plan archive service; best-effort recording used by the dialogue engine.
package archive

import (
	"context"
	"log/slog"
	"time"
)

// Service records plans synchronously within the turn, bounded by its own
// timeout; failures are logged and never reach the caller.
type Service struct {
	store   *Store
	logger  *slog.Logger
	timeout time.Duration
}

func NewService(store *Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, timeout: 5 * time.Second}
}

// Record persists r. It detaches from the caller's cancellation so a client
// hanging up does not lose the plan.
func (s *Service) Record(ctx context.Context, r Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	id, err := s.store.Append(ctx, r)
	if err != nil {
		s.logger.Error("archive plan failed", "session", r.SessionID, "intent", r.Intent, "error", err)
		return
	}
	s.logger.Debug("archived plan", "id", id, "session", r.SessionID, "intent", r.Intent)
}

func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.ListBySession(ctx, sessionID, limit)
}
