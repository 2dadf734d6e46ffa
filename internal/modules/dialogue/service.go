// README: Dialogue engine; loads the session, runs one turn through the state machine, persists the result.
package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"trailmate/internal/metrics"
	"trailmate/internal/modules/archive"
	"trailmate/internal/modules/planner"
	"trailmate/internal/modules/session"
)

// Planner produces the answer for a complete intent and entity set.
type Planner interface {
	Plan(ctx context.Context, req planner.Request) (planner.Result, error)
}

// Archiver records completed plans; it must not block the turn on failure.
type Archiver interface {
	Record(ctx context.Context, r archive.Record)
}

type Options struct {
	Store   session.Store
	Planner Planner
	Archive Archiver
	Logger  *slog.Logger
	// MaxTurns and MaxPlans bound the session; the store enforces them too.
	MaxTurns    int
	MaxPlans    int
	IdleTimeout time.Duration
	Now         func() time.Time
	NewID       func() string
}

// Engine is the dialogue manager. Turns for different sessions may run in
// parallel; two concurrent turns for the same session are not serialized and
// the last write wins.
type Engine struct {
	store       session.Store
	planner     Planner
	archive     Archiver
	logger      *slog.Logger
	maxTurns    int
	maxPlans    int
	idleTimeout time.Duration
	now         func() time.Time
	newID       func() string
	startedAt   time.Time
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		store:       opts.Store,
		planner:     opts.Planner,
		archive:     opts.Archive,
		logger:      opts.Logger,
		maxTurns:    opts.MaxTurns,
		maxPlans:    opts.MaxPlans,
		idleTimeout: opts.IdleTimeout,
		now:         opts.Now,
		newID:       opts.NewID,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.maxTurns <= 0 {
		e.maxTurns = session.DefaultMaxTurns
	}
	if e.maxPlans <= 0 {
		e.maxPlans = session.DefaultMaxPlans
	}
	if e.idleTimeout <= 0 {
		e.idleTimeout = session.DefaultIdleTimeout
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	e.startedAt = e.now()
	return e
}

// HandleTurn processes one user message. The only error returned is
// ErrValidation; every other failure becomes a reply with Done set.
func (e *Engine) HandleTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return TurnResponse{}, ErrValidation
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.SessionID == "" {
		req.SessionID = e.newID()
	}
	now := e.now()

	sess, err := e.store.Get(ctx, req.SessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		sess = session.New(req.SessionID, now)
	case err != nil:
		e.logger.Error("load session", "session", req.SessionID, "error", err)
		metrics.ObserveTurn("", string(outcomeReset))
		return TurnResponse{SessionID: req.SessionID, Reply: ReplyInternalError, Done: true}, nil
	}

	if err := sess.Validate(); err != nil {
		return e.reset(ctx, req.SessionID, now, err), nil
	}

	hasContext := len(sess.History) > 0
	if sess.Profile == nil && len(req.Profile) > 0 {
		sess.Profile = copyProfile(req.Profile)
	}
	sess.TurnCount++
	sess.LastAccess = now

	m := newMachine(e, sess, req, now)
	if err := m.run(ctx); err != nil {
		return e.reset(ctx, req.SessionID, now, err), nil
	}

	sess.LastIntent = m.classified
	sess.AppendTurn(session.Turn{
		Role:      session.RoleAssistant,
		Text:      m.reply,
		Timestamp: now,
		Intent:    m.classified,
	}, e.maxTurns)

	if err := e.store.Set(ctx, sess); err != nil {
		e.logger.Error("save session", "session", sess.ID, "error", err)
	}

	metrics.ObserveTurn(string(m.classified), string(m.outcome))
	e.logger.Info("turn",
		"session", sess.ID,
		"turn", sess.TurnCount,
		"intent", m.classified,
		"path", m.path,
		"outcome", m.outcome,
		"pending", sess.PendingField,
	)

	return TurnResponse{
		SessionID:        sess.ID,
		Reply:            m.reply,
		Done:             m.done,
		Intent:           m.classified,
		ConversationTurn: sess.TurnCount,
		HasContext:       hasContext,
		PendingField:     sess.PendingField,
		Path:             m.path,
	}, nil
}

// reset replaces a broken session with a fresh one and reports an internal error.
func (e *Engine) reset(ctx context.Context, id string, now time.Time, cause error) TurnResponse {
	e.logger.Error("dialogue state reset", "session", id, "error", cause)
	metrics.ObserveTurn("", string(outcomeReset))

	fresh := session.New(id, now)
	if err := e.store.Set(ctx, fresh); err != nil {
		e.logger.Error("save reset session", "session", id, "error", err)
	}
	return TurnResponse{SessionID: id, Reply: ReplyInternalError, Done: true}
}

// History returns the ordered turns of a live session.
func (e *Engine) History(ctx context.Context, id string) ([]session.Turn, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(sess.History) == 0 {
		return nil, session.ErrNotFound
	}
	return sess.History, nil
}

// Clear deletes a session; clearing an unknown session is not an error.
func (e *Engine) Clear(ctx context.Context, id string) error {
	return e.store.Delete(ctx, id)
}

func (e *Engine) Info(ctx context.Context, id string) (SessionInfo, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		return SessionInfo{}, err
	}
	return SessionInfo{
		SessionID:           sess.ID,
		ConversationTurn:    sess.TurnCount,
		ConversationContext: sess.Context,
		HistoryLength:       len(sess.History),
		LastIntent:          sess.LastIntent,
		PreviousPlans:       len(sess.Plans),
		PendingField:        sess.PendingField,
	}, nil
}

func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	st, err := e.store.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	now := e.now()
	return Stats{
		ActiveSessions: st.ActiveSessions,
		MaxAgeMinutes:  e.idleTimeout.Minutes(),
		UptimeSeconds:  now.Sub(e.startedAt).Seconds(),
		Timestamp:      now,
	}, nil
}

func copyProfile(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
