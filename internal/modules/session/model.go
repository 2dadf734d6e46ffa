// README: Session model (turn history, plans, pending slot) owned by the session store.
package session

import (
	"errors"
	"fmt"
	"time"

	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation. Immutable once appended.
type Turn struct {
	Role      Role             `json:"role"`
	Text      string           `json:"text"`
	Timestamp time.Time        `json:"timestamp"`
	Intent    intent.Intent    `json:"intent,omitempty"`
	Entities  *entity.Entities `json:"entities,omitempty"`
}

// Plan is a completed planner answer, kept as the referent for follow-ups.
type Plan struct {
	Intent    intent.Intent   `json:"intent"`
	Entities  entity.Entities `json:"entities"`
	Result    string          `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}

// Session is one conversation.
type Session struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	LastAccess time.Time `json:"lastAccess"`

	// Context is the cumulative entity set carried across turns.
	Context entity.Entities `json:"context"`
	History []Turn          `json:"history"`
	Plans   []Plan          `json:"plans"`

	// PendingField is the slot last asked about; empty when nothing is pending.
	PendingField entity.Field `json:"pendingField,omitempty"`
	// ActiveIntent is the intent whose slots are being filled.
	ActiveIntent intent.Intent     `json:"activeIntent,omitempty"`
	LastIntent   intent.Intent     `json:"lastIntent,omitempty"`
	Profile      map[string]string `json:"profile,omitempty"`
	TurnCount    int               `json:"turnCount"`
}

var ErrInvalidSession = errors.New("invalid session state")

// New returns an empty session stamped with now.
func New(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, LastAccess: now}
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Context = s.Context.Clone()
	if s.History != nil {
		out.History = make([]Turn, len(s.History))
		for i, t := range s.History {
			out.History[i] = t
			if t.Entities != nil {
				e := t.Entities.Clone()
				out.History[i].Entities = &e
			}
		}
	}
	if s.Plans != nil {
		out.Plans = make([]Plan, len(s.Plans))
		for i, p := range s.Plans {
			out.Plans[i] = p
			out.Plans[i].Entities = p.Entities.Clone()
		}
	}
	if s.Profile != nil {
		out.Profile = make(map[string]string, len(s.Profile))
		for k, v := range s.Profile {
			out.Profile[k] = v
		}
	}
	return &out
}

// AppendTurn adds t and drops the oldest turns beyond maxTurns (0 = unbounded).
func (s *Session) AppendTurn(t Turn, maxTurns int) {
	s.History = append(s.History, t)
	s.History = capTail(s.History, maxTurns)
}

// AppendPlan adds p and drops the oldest plans beyond maxPlans (0 = unbounded).
func (s *Session) AppendPlan(p Plan, maxPlans int) {
	s.Plans = append(s.Plans, p)
	s.Plans = capTail(s.Plans, maxPlans)
}

// LastPlan returns the most recent completed plan.
func (s *Session) LastPlan() (Plan, bool) {
	if len(s.Plans) == 0 {
		return Plan{}, false
	}
	return s.Plans[len(s.Plans)-1], true
}

// Validate checks the structural invariants a reconstructed session must hold.
func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrInvalidSession)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSession)
	}
	if s.TurnCount < 0 {
		return fmt.Errorf("%w: negative turn count", ErrInvalidSession)
	}
	if s.PendingField != "" {
		if _, ok := entity.ParseField(string(s.PendingField)); !ok {
			return fmt.Errorf("%w: unknown pending field %q", ErrInvalidSession, s.PendingField)
		}
		if !s.ActiveIntent.IsActionable() {
			return fmt.Errorf("%w: pending field without an actionable intent", ErrInvalidSession)
		}
	}
	for i, t := range s.History {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			return fmt.Errorf("%w: turn %d has role %q", ErrInvalidSession, i, t.Role)
		}
	}
	for i, p := range s.Plans {
		if !p.Intent.IsActionable() {
			return fmt.Errorf("%w: plan %d has intent %q", ErrInvalidSession, i, p.Intent)
		}
	}
	return nil
}

// Trim enforces the history and plan caps.
func (s *Session) Trim(maxTurns, maxPlans int) {
	s.History = capTail(s.History, maxTurns)
	s.Plans = capTail(s.Plans, maxPlans)
}

func capTail[T any](items []T, max int) []T {
	if max <= 0 || len(items) <= max {
		return items
	}
	return append([]T(nil), items[len(items)-max:]...)
}
