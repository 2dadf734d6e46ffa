// README: Scripted Generator double for planner and dialogue tests.
package aitest

import (
	"context"
	"sync"

	"trailmate/internal/ai"
)

// Reply is one scripted outcome.
type Reply struct {
	Text string
	Err  error
}

// Generator replays Replies in order; once exhausted it repeats the last one.
// It records every request it receives.
type Generator struct {
	mu       sync.Mutex
	replies  []Reply
	requests []ai.GenerateRequest
	// Block, when set, makes Generate wait for ctx to end.
	Block bool
}

func New(replies ...Reply) *Generator {
	return &Generator{replies: replies}
}

// Text is shorthand for a generator that always succeeds with text.
func Text(text string) *Generator {
	return New(Reply{Text: text})
}

// Failing always fails with a GenerationError of kind.
func Failing(kind ai.ErrorKind) *Generator {
	return New(Reply{Err: &ai.GenerationError{Kind: kind, Provider: "fake"}})
}

func (g *Generator) Provider() string { return "fake" }

func (g *Generator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	var r Reply
	if n := len(g.requests); len(g.replies) > 0 {
		idx := n - 1
		if idx >= len(g.replies) {
			idx = len(g.replies) - 1
		}
		r = g.replies[idx]
	}
	block := g.Block
	g.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", &ai.GenerationError{Kind: ai.KindNetwork, Provider: "fake", Err: ctx.Err()}
	}
	return r.Text, r.Err
}

// Requests returns a copy of the requests received so far.
func (g *Generator) Requests() []ai.GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ai.GenerateRequest(nil), g.requests...)
}

func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}
