// README: Benchmark cases; environment checks, scripted conversations and a chat load test.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 45 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// step is one user message and what the reply must look like.
type step struct {
	Message     string
	WantDone    bool
	WantPending string
	WantIntent  string
}

type scenario struct {
	Name  string
	Steps []step
}

var scenarios = []scenario{
	{
		Name: "packing request answered in one turn",
		Steps: []step{
			{Message: "What should I pack for hiking in Patagonia in March for 10 days?", WantDone: true, WantIntent: "packing_suggestions"},
		},
	},
	{
		Name: "destination request asks for interests",
		Steps: []step{
			{Message: "Where should I go in November, medium budget?", WantPending: "interests", WantIntent: "destination_recommendations"},
			{Message: "hiking, food", WantDone: true, WantIntent: "destination_recommendations"},
		},
	},
	{
		Name: "refinement re-plans with a cheaper budget",
		Steps: []step{
			{Message: "Where should I go in May? Planning a luxury trip and I love museums.", WantDone: true},
			{Message: "what about something cheaper", WantDone: true, WantIntent: "refinement"},
		},
	},
	{
		Name: "attractions fill slots one by one",
		Steps: []step{
			{Message: "Top things to do in Lisbon", WantPending: "trip_length_days", WantIntent: "local_attractions"},
			{Message: "not sure", WantPending: "trip_length_days"},
			{Message: "4 days", WantPending: "interests"},
			{Message: "food, history", WantDone: true},
		},
	},
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	tests := []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "DB: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				for _, t := range []string{"trip_plans", "ai_usage"} {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.do(ctx, http.MethodGet, base+"/health", nil)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: statusPass, Latency: time.Since(start)}
			},
		},
		{
			Name: "API: empty message -> 400",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, err := r.do(ctx, http.MethodPost, base+"/chat", map[string]any{"message": ""})
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusBadRequest {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "API: unknown session history -> 404",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, err := r.do(ctx, http.MethodGet, base+"/chat/"+uuid.NewString()+"/history", nil)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusNotFound {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: statusPass}
			},
		},
	}

	for _, sc := range scenarios {
		tests = append(tests, TestCase{
			Name: "Chat: " + sc.Name,
			Run:  func(ctx context.Context, r *Runner) Result { return r.runScenario(ctx, sc) },
		})
	}

	tests = append(tests,
		TestCase{
			Name: "Redis: session index populated",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				n, err := r.redis.ZCard(ctx, r.cfg.RedisPrefix+":sessions").Result()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: statusFail, Note: "no sessions indexed"}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("sessions=%d", n)}
			},
		},
		TestCase{
			Name: "Perf: concurrent first turns",
			Run:  func(ctx context.Context, r *Runner) Result { return r.perfLoad(ctx) },
		},
	)
	return tests
}

type chatResponse struct {
	SessionID    string `json:"sessionId"`
	Reply        string `json:"reply"`
	Done         bool   `json:"done"`
	Intent       string `json:"intent"`
	PendingField string `json:"pendingField"`
}

func (r *Runner) runScenario(ctx context.Context, sc scenario) Result {
	sessionID := uuid.NewString()
	start := time.Now()
	for i, st := range sc.Steps {
		status, body, err := r.do(ctx, http.MethodPost, r.cfg.BaseURL+"/chat", map[string]any{
			"message":   st.Message,
			"sessionId": sessionID,
		})
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if status != http.StatusOK {
			return Result{Status: statusFail, Note: fmt.Sprintf("step %d: status=%d", i+1, status)}
		}
		var resp chatResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Result{Status: statusFail, Note: fmt.Sprintf("step %d: %v", i+1, err)}
		}
		if resp.Done != st.WantDone {
			return Result{Status: statusFail, Note: fmt.Sprintf("step %d: done=%v reply=%q", i+1, resp.Done, resp.Reply)}
		}
		if resp.PendingField != st.WantPending {
			return Result{Status: statusFail, Note: fmt.Sprintf("step %d: pendingField=%q want %q", i+1, resp.PendingField, st.WantPending)}
		}
		if st.WantIntent != "" && resp.Intent != st.WantIntent {
			return Result{Status: statusFail, Note: fmt.Sprintf("step %d: intent=%q want %q", i+1, resp.Intent, st.WantIntent)}
		}
	}
	return Result{Status: statusPass, Latency: time.Since(start), Note: fmt.Sprintf("turns=%d", len(sc.Steps))}
}

// perfLoad sends turns that stop at a clarifying question, so no generation is involved.
func (r *Runner) perfLoad(ctx context.Context) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		mu        sync.Mutex
		latencies []time.Duration
		errCount  int
		wg        sync.WaitGroup
	)

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				start := time.Now()
				status, _, err := r.do(ctx, http.MethodPost, r.cfg.BaseURL+"/chat", map[string]any{
					"message": "What should I pack?",
				})
				elapsed := time.Since(start)
				mu.Lock()
				if err != nil || status != http.StatusOK {
					errCount++
				} else {
					latencies = append(latencies, elapsed)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(latencies) == 0 {
		return Result{Status: statusFail, Note: fmt.Sprintf("no requests completed, errors=%d", errCount)}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	rps := float64(len(latencies)) / r.cfg.Duration.Seconds()
	return Result{
		Status: statusPass,
		Note: fmt.Sprintf("rps=%.1f p50=%s p95=%s errors=%d",
			rps, percentile(latencies, 50), percentile(latencies, 95), errCount),
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := (len(sorted)*p + 99) / 100
	if idx < 1 {
		idx = 1
	}
	if idx > len(sorted) {
		idx = len(sorted)
	}
	return sorted[idx-1].Round(time.Millisecond)
}

func (r *Runner) do(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}
