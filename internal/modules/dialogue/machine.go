// README: Per-turn state machine; routes, resolves follow-ups, checks slots, then asks or plans.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trailmate/internal/modules/archive"
	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
	"trailmate/internal/modules/planner"
	"trailmate/internal/modules/session"
)

// outcome labels a finished turn for logs and metrics.
type outcome string

const (
	outcomeAsked       outcome = "asked"
	outcomePlanned     outcome = "planned"
	outcomeFallback    outcome = "fallback"
	outcomeFollowUp    outcome = "follow_up"
	outcomeClarify     outcome = "clarify"
	outcomeUnsupported outcome = "unsupported"
	outcomeReset       outcome = "reset"
)

// machine runs one turn against a private copy of the session.
type machine struct {
	engine *Engine
	sess   *session.Session
	req    TurnRequest
	now    time.Time

	state State
	path  []State

	// classified is the intent reported back to the caller.
	classified intent.Intent
	// active is the actionable intent whose slots are being checked.
	active    intent.Intent
	extracted entity.Entities

	reply   string
	done    bool
	outcome outcome
}

func newMachine(e *Engine, sess *session.Session, req TurnRequest, now time.Time) *machine {
	return &machine{
		engine: e,
		sess:   sess,
		req:    req,
		now:    now,
		state:  StateRouting,
		path:   []State{StateRouting},
	}
}

func (m *machine) transition(to State) error {
	if !CanTransition(m.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrStateValidation, m.state, to)
	}
	m.state = to
	m.path = append(m.path, to)
	return nil
}

// run drives the machine until StateDone.
func (m *machine) run(ctx context.Context) error {
	for m.state != StateDone {
		var err error
		switch m.state {
		case StateRouting:
			err = m.route()
		case StateFollowUp:
			err = m.followUp()
		case StateCheckingCompleteness:
			err = m.checkCompleteness()
		case StateAsking:
			err = m.ask()
		case StatePlanning:
			err = m.plan(ctx)
		default:
			err = fmt.Errorf("%w: no handler for %s", ErrStateValidation, m.state)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *machine) route() error {
	text := m.req.Message

	if pending := m.sess.PendingField; pending != "" {
		m.classified = m.sess.ActiveIntent
		m.active = m.sess.ActiveIntent
		if parsed, ok := entity.ParseAnswer(pending, text); ok {
			m.extracted = parsed
			m.sess.Context = m.sess.Context.Merge(parsed)
			m.sess.PendingField = ""
		}
		m.appendUserTurn()
		return m.transition(StateCheckingCompleteness)
	}

	res := intent.Classify(text, m.sess.Context)
	m.classified = res.Intent
	m.extracted = res.Extracted
	m.appendUserTurn()

	if res.IsContinuation {
		return m.transition(StateFollowUp)
	}
	m.active = res.Intent
	m.sess.Context = res.Entities
	return m.transition(StateCheckingCompleteness)
}

func (m *machine) followUp() error {
	last, ok := m.sess.LastPlan()
	if !ok {
		m.finish(ReplyClarify, outcomeClarify)
		return m.transition(StateDone)
	}

	if m.classified == intent.Refinement {
		m.active = last.Intent
		m.sess.Context = last.Entities.Merge(m.extracted)
		return m.transition(StateCheckingCompleteness)
	}

	dest := last.Entities.Destination
	if dest == "" {
		dest = defaultDestinationName
	}
	m.finish(fmt.Sprintf(ReplyFollowUp, dest), outcomeFollowUp)
	return m.transition(StateDone)
}

func (m *machine) checkCompleteness() error {
	d := Decide(m.active, m.sess.Context)
	switch d.Action {
	case ActionAsk:
		m.sess.PendingField = d.Field
		m.sess.ActiveIntent = m.active
		return m.transition(StateAsking)
	case ActionPlan:
		return m.transition(StatePlanning)
	default:
		m.clearPending()
		m.finish(ReplyCantHelp, outcomeUnsupported)
		return m.transition(StateDone)
	}
}

func (m *machine) ask() error {
	m.reply = Question(m.sess.PendingField)
	m.done = false
	m.outcome = outcomeAsked
	return m.transition(StateDone)
}

func (m *machine) plan(ctx context.Context) error {
	m.clearPending()
	entities := m.sess.Context.Clone()

	res, err := m.engine.planner.Plan(ctx, planner.Request{
		Intent:   m.active,
		Entities: entities,
		Profile:  m.sess.Profile,
		UserID:   m.quotaUser(),
	})
	switch {
	case errors.Is(err, planner.ErrUnknownIntent):
		m.finish(ReplyCantHelp, outcomeUnsupported)
	case err != nil:
		m.engine.logger.Error("planner failed", "session", m.sess.ID, "intent", m.active, "error", err)
		m.finish(ReplyPlanningError, outcomeFallback)
	case res.Fallback:
		m.finish(res.Text, outcomeFallback)
	default:
		m.sess.AppendPlan(session.Plan{
			Intent:    m.active,
			Entities:  entities,
			Result:    res.Text,
			Timestamp: m.now,
		}, m.engine.maxPlans)
		if m.engine.archive != nil {
			m.engine.archive.Record(ctx, archive.Record{
				SessionID: m.sess.ID,
				UserID:    m.quotaUser(),
				Intent:    m.active,
				Entities:  entities,
				Result:    res.Text,
			})
		}
		m.finish(res.Text, outcomePlanned)
	}
	return m.transition(StateDone)
}

func (m *machine) finish(reply string, o outcome) {
	m.reply = reply
	m.done = true
	m.outcome = o
}

func (m *machine) clearPending() {
	m.sess.PendingField = ""
	m.sess.ActiveIntent = ""
}

// quotaUser prefers a verified caller, then the profile's user_id, then the session.
func (m *machine) quotaUser() string {
	if m.req.UserID != "" {
		return m.req.UserID
	}
	if uid := m.sess.Profile["user_id"]; uid != "" {
		return uid
	}
	return m.sess.ID
}

func (m *machine) appendUserTurn() {
	t := session.Turn{
		Role:      session.RoleUser,
		Text:      m.req.Message,
		Timestamp: m.now,
		Intent:    m.classified,
	}
	if !m.extracted.IsEmpty() {
		e := m.extracted.Clone()
		t.Entities = &e
	}
	m.sess.AppendTurn(t, m.engine.maxTurns)
}
