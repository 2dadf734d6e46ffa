// README: Dialogue states, transition table and turn request/response types.
package dialogue

import (
	"encoding/json"
	"time"

	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
)

// State is a step of the per-turn state machine.
type State string

const (
	StateRouting              State = "routing"
	StateFollowUp             State = "follow_up"
	StateCheckingCompleteness State = "checking_completeness"
	StateAsking               State = "asking"
	StatePlanning             State = "planning"
	StateDone                 State = "done"
)

// AllowedTransitions defines the legal state machine edges.
var AllowedTransitions = map[State][]State{
	StateRouting:              {StateFollowUp, StateCheckingCompleteness, StateDone},
	StateFollowUp:             {StateCheckingCompleteness, StateDone},
	StateCheckingCompleteness: {StateAsking, StatePlanning, StateDone},
	StateAsking:               {StateDone},
	StatePlanning:             {StateDone},
	StateDone:                 {},
}

func CanTransition(from, to State) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TurnRequest is one inbound user message.
type TurnRequest struct {
	SessionID string
	Message   string
	Profile   map[string]string
	// UserID is a verified caller identity, if any; it keys the planning quota.
	UserID string
}

// TurnResponse is the reply to one user message.
type TurnResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
	// Done is false only when a clarifying question was asked.
	Done             bool          `json:"done"`
	Intent           intent.Intent `json:"intent,omitempty"`
	ConversationTurn int           `json:"conversationTurn"`
	HasContext       bool          `json:"hasContext"`
	PendingField     entity.Field  `json:"pendingField,omitempty"`
	Path             []State       `json:"-"`
}

// MarshalJSON always emits the intent key, as null when no intent was resolved.
func (r TurnResponse) MarshalJSON() ([]byte, error) {
	type plain TurnResponse
	out := struct {
		plain
		Intent *intent.Intent `json:"intent"`
	}{plain: plain(r)}
	if r.Intent != "" {
		in := r.Intent
		out.Intent = &in
	}
	return json.Marshal(out)
}

// SessionInfo summarises a session for the info endpoint.
type SessionInfo struct {
	SessionID           string          `json:"sessionId"`
	ConversationTurn    int             `json:"conversationTurn"`
	ConversationContext entity.Entities `json:"conversationContext"`
	HistoryLength       int             `json:"historyLength"`
	LastIntent          intent.Intent   `json:"lastIntent,omitempty"`
	PreviousPlans       int             `json:"previousPlans"`
	PendingField        entity.Field    `json:"pendingField,omitempty"`
}

// Stats is the operator view of the engine.
type Stats struct {
	ActiveSessions int       `json:"activeSessions"`
	MaxAgeMinutes  float64   `json:"maxAgeMinutes"`
	UptimeSeconds  float64   `json:"uptimeSeconds"`
	Timestamp      time.Time `json:"timestamp"`
}
