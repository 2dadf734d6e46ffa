// README: Planner dispatch tests (templates, payload, fallback, quota and enrichment).
package planner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailmate/internal/ai"
	"trailmate/internal/ai/aitest"
	"trailmate/internal/maps"
	"trailmate/internal/modules/aiusage"
	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
	"trailmate/internal/weather"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubQuota struct {
	err   error
	users []string
}

func (q *stubQuota) UseToken(_ context.Context, uid string) error {
	q.users = append(q.users, uid)
	return q.err
}

type stubWeather struct {
	err error
}

func (s stubWeather) Current(_ context.Context, location string) (weather.Conditions, error) {
	if s.err != nil {
		return weather.Conditions{}, s.err
	}
	return weather.Conditions{Location: location, Country: "AR", Temperature: 8, Description: "windy"}, nil
}

type stubPlaces struct{}

func (stubPlaces) SearchAttractions(_ context.Context, destination string, _ []string) ([]maps.Place, error) {
	return []maps.Place{{Name: destination + " Castle", Rating: 4.7, Address: "Old Town"}}, nil
}

func packingRequest() Request {
	return Request{
		Intent: intent.PackingSuggestions,
		Entities: entity.Entities{
			Destination:    "Patagonia",
			TripLengthDays: 10,
			MonthOrSeason:  "March",
			Interests:      []string{"hiking"},
		},
	}
}

func TestPlanSuccess(t *testing.T) {
	gen := aitest.Text("Bring layers.")
	svc := NewService(gen, Options{Logger: quietLogger, Model: "m1"})

	res, err := svc.Plan(context.Background(), packingRequest())
	require.NoError(t, err)
	assert.Equal(t, Result{Text: "Bring layers."}, res)

	reqs := gen.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, DefaultTemplates()[intent.PackingSuggestions].System, reqs[0].SystemInstructions)
	assert.Equal(t, "m1", reqs[0].Model)
	assert.Contains(t, reqs[0].UserPayload, "Context:\n")
	assert.Contains(t, reqs[0].UserPayload, `"destination": "Patagonia"`)
	assert.Contains(t, reqs[0].UserPayload, `"trip_length_days": 10`)
}

func TestPlanFallbackOnEveryFailureKind(t *testing.T) {
	for _, kind := range []ai.ErrorKind{ai.KindNetwork, ai.KindStatus, ai.KindEmpty, ai.KindMalformed} {
		t.Run(string(kind), func(t *testing.T) {
			svc := NewService(aitest.Failing(kind), Options{Logger: quietLogger})
			res, err := svc.Plan(context.Background(), packingRequest())
			require.NoError(t, err)
			assert.Equal(t, Result{Text: FallbackText, Fallback: true}, res)
		})
	}
}

func TestPlanTimeoutFallsBack(t *testing.T) {
	gen := aitest.Text("never")
	gen.Block = true
	svc := NewService(gen, Options{Logger: quietLogger, Timeout: 20 * time.Millisecond})

	res, err := svc.Plan(context.Background(), packingRequest())
	require.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestPlanUnknownIntent(t *testing.T) {
	gen := aitest.Text("x")
	svc := NewService(gen, Options{Logger: quietLogger})

	for _, in := range []intent.Intent{intent.FollowUp, intent.Refinement, intent.Unknown} {
		_, err := svc.Plan(context.Background(), Request{Intent: in})
		assert.ErrorIs(t, err, ErrUnknownIntent)
	}
	assert.Zero(t, gen.Calls())
}

func TestPlanQuota(t *testing.T) {
	t.Run("exhausted", func(t *testing.T) {
		gen := aitest.Text("x")
		q := &stubQuota{err: aiusage.ErrInsufficientTokens}
		svc := NewService(gen, Options{Logger: quietLogger, Quota: q})

		req := packingRequest()
		req.UserID = "u1"
		res, err := svc.Plan(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, res.QuotaExceeded)
		assert.Equal(t, QuotaExceededText, res.Text)
		assert.Zero(t, gen.Calls())
		assert.Equal(t, []string{"u1"}, q.users)
	})

	t.Run("store failure allows", func(t *testing.T) {
		gen := aitest.Text("ok")
		svc := NewService(gen, Options{Logger: quietLogger, Quota: &stubQuota{err: errors.New("db down")}})
		req := packingRequest()
		req.UserID = "u1"
		res, err := svc.Plan(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Text)
	})

	t.Run("anonymous skips", func(t *testing.T) {
		q := &stubQuota{err: aiusage.ErrInsufficientTokens}
		svc := NewService(aitest.Text("ok"), Options{Logger: quietLogger, Quota: q})
		res, err := svc.Plan(context.Background(), packingRequest())
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Text)
		assert.Empty(t, q.users)
	})
}

func TestPlanEnrichment(t *testing.T) {
	gen := aitest.Text("ok")
	svc := NewService(gen, Options{
		Logger:    quietLogger,
		Enrichers: []Enricher{WeatherEnricher{Source: stubWeather{}}, PlacesEnricher{Source: stubPlaces{}}},
	})

	_, err := svc.Plan(context.Background(), packingRequest())
	require.NoError(t, err)
	payload := gen.Requests()[0].UserPayload
	assert.Contains(t, payload, "Reference data:")
	assert.Contains(t, payload, "windy")
	assert.NotContains(t, payload, "Castle", "packing does not consult places")

	_, err = svc.Plan(context.Background(), Request{
		Intent:   intent.LocalAttractions,
		Entities: entity.Entities{Destination: "Prague", TripLengthDays: 2, Interests: []string{"history"}},
	})
	require.NoError(t, err)
	assert.Contains(t, gen.Requests()[1].UserPayload, "Prague Castle")

	_, err = svc.Plan(context.Background(), Request{
		Intent:   intent.DestinationRecommendations,
		Entities: entity.Entities{MonthOrSeason: "May", Budget: entity.BudgetLow, Interests: []string{"food"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, gen.Requests()[2].UserPayload, "Reference data:")
}

func TestPlanEnrichmentFailureIgnored(t *testing.T) {
	gen := aitest.Text("ok")
	svc := NewService(gen, Options{
		Logger:    quietLogger,
		Enrichers: []Enricher{WeatherEnricher{Source: stubWeather{err: errors.New("boom")}}},
	})
	res, err := svc.Plan(context.Background(), packingRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.NotContains(t, gen.Requests()[0].UserPayload, "Reference data:")
}

func TestBuildPayloadEntitiesWinOverProfile(t *testing.T) {
	payload, err := BuildPayload(
		map[string]string{"destination": "Home", "home_city": "Austin"},
		entity.Entities{Destination: "Rome"},
		nil,
	)
	require.NoError(t, err)
	assert.Contains(t, payload, `"destination": "Rome"`)
	assert.Contains(t, payload, `"home_city": "Austin"`)
	assert.NotContains(t, payload, "Home\"")
}

func TestLoadTemplatesValidation(t *testing.T) {
	_, err := LoadTemplates([]byte("follow_up:\n  system: hi\n"))
	assert.Error(t, err)

	_, err = LoadTemplates([]byte("destination_recommendations:\n  system: hi\n"))
	assert.ErrorContains(t, err, "missing template")

	tpls := DefaultTemplates()
	assert.Len(t, tpls, 3)
	assert.Equal(t, []string{"weather", "places"}, tpls[intent.LocalAttractions].Enrich)
}
