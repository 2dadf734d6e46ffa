// README: Planner dispatch; template lookup, quota, enrichment and one generation call with fallback.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trailmate/internal/ai"
	"trailmate/internal/metrics"
	"trailmate/internal/modules/aiusage"
	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
)

var ErrUnknownIntent = errors.New("unknown intent")

const (
	FallbackText      = "Plan unavailable right now."
	QuotaExceededText = "You've reached this month's planning limit. Please try again next month."

	DefaultTimeout = 30 * time.Second
)

// Quota is consumed once per generation attempt.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
}

type Request struct {
	Intent   intent.Intent
	Entities entity.Entities
	Profile  map[string]string
	// UserID keys the quota; empty skips it.
	UserID string
}

type Result struct {
	Text string
	// Fallback is set when Text is a canned reply rather than generated output.
	Fallback      bool
	QuotaExceeded bool
}

type Options struct {
	Templates Templates
	Model     string
	Timeout   time.Duration
	Quota     Quota
	Enrichers []Enricher
	Logger    *slog.Logger
}

type Service struct {
	gen       ai.Generator
	templates Templates
	model     string
	timeout   time.Duration
	quota     Quota
	enrichers []Enricher
	logger    *slog.Logger
}

func NewService(gen ai.Generator, opts Options) *Service {
	s := &Service{
		gen:       gen,
		templates: opts.Templates,
		model:     opts.Model,
		timeout:   opts.Timeout,
		quota:     opts.Quota,
		enrichers: opts.Enrichers,
		logger:    opts.Logger,
	}
	if s.templates == nil {
		s.templates = DefaultTemplates()
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Plan generates the answer for a complete request. The only error it returns
// is ErrUnknownIntent; generation and quota-store failures become a fallback Result.
func (s *Service) Plan(ctx context.Context, req Request) (Result, error) {
	tpl, ok := s.templates.Lookup(req.Intent)
	if !ok {
		metrics.ObservePlanner(string(req.Intent), "unknown_intent")
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownIntent, req.Intent)
	}

	if s.quota != nil && req.UserID != "" {
		err := s.quota.UseToken(ctx, req.UserID)
		switch {
		case errors.Is(err, aiusage.ErrInsufficientTokens):
			metrics.ObservePlanner(string(req.Intent), "quota_exceeded")
			s.logger.Info("planning quota exhausted", "user", req.UserID)
			return Result{Text: QuotaExceededText, Fallback: true, QuotaExceeded: true}, nil
		case err != nil:
			s.logger.Warn("quota check failed, allowing request", "user", req.UserID, "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	notes := s.enrich(ctx, tpl, req.Entities)
	payload, err := BuildPayload(req.Profile, req.Entities, notes)
	if err != nil {
		metrics.ObservePlanner(string(req.Intent), "fallback")
		s.logger.Error("build planner payload", "intent", req.Intent, "error", err)
		return Result{Text: FallbackText, Fallback: true}, nil
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, ai.GenerateRequest{
		SystemInstructions: tpl.System,
		UserPayload:        payload,
		Model:              s.model,
	})
	elapsed := time.Since(start)
	metrics.ObserveGeneration(s.gen.Provider(), elapsed)

	if err != nil {
		metrics.ObservePlanner(string(req.Intent), "fallback")
		s.logger.Error("generation failed",
			"provider", s.gen.Provider(),
			"intent", req.Intent,
			"kind", ai.KindOf(err),
			"latency_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return Result{Text: FallbackText, Fallback: true}, nil
	}

	metrics.ObservePlanner(string(req.Intent), "ok")
	s.logger.Debug("generation ok", "provider", s.gen.Provider(), "intent", req.Intent, "latency_ms", elapsed.Milliseconds())
	return Result{Text: text}, nil
}

func (s *Service) enrich(ctx context.Context, tpl Template, e entity.Entities) []string {
	var notes []string
	for _, en := range s.enrichers {
		if !tpl.wants(en.Name()) {
			continue
		}
		note, err := en.Enrich(ctx, e)
		if err != nil {
			s.logger.Warn("enrichment skipped", "source", en.Name(), "error", err)
			continue
		}
		if note != "" {
			notes = append(notes, note)
		}
	}
	return notes
}

// BuildPayload renders "Context:\n<json>" with profile keys overlaid by
// entity fields, followed by any reference notes.
func BuildPayload(profile map[string]string, e entity.Entities, notes []string) (string, error) {
	merged := make(map[string]any, len(profile)+len(entity.AllFields))
	for k, v := range profile {
		merged[k] = v
	}
	for k, v := range e.Map() {
		merged[k] = v
	}
	raw, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Context:\n")
	b.Write(raw)
	if len(notes) > 0 {
		b.WriteString("\n\nReference data:\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
