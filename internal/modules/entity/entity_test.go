// README: Entity extraction, normalization and answer-parsing tests.
package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPackingScenario(t *testing.T) {
	got := Extract("What should I pack for hiking in Patagonia in March for 10 days?")

	assert.Equal(t, "Patagonia", got.Destination)
	assert.Equal(t, 10, got.TripLengthDays)
	assert.Equal(t, "March", got.MonthOrSeason)
	assert.Equal(t, []string{"hiking"}, got.Interests)
	assert.Empty(t, got.Budget)
}

func TestExtractDestination(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"preposition phrase", "I want to go to Canada", "Canada"},
		{"multi word", "Things to do in New York City", "New York City"},
		{"stop word cuts candidate", "a trip to Lisbon March", "Lisbon"},
		{"month only is not a place", "Where should I go in November?", ""},
		{"gazetteer fallback", "is kyoto nice?", "Kyoto"},
		{"earliest gazetteer hit", "paris or rome?", "Paris"},
		{"preposition beats gazetteer", "compare Tokyo trips, I'm going to Seoul", "Seoul"},
		{"trailing period", "We are flying to Iceland.", "Iceland"},
		{"accented letter", "Things to do in Zürich for 3 days with food", "Zürich"},
		{"accented multi word", "Packing for São Paulo in May for 4 days", "São Paulo"},
		{"nothing", "help me plan something", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text).Destination)
		})
	}
}

func TestExtractTripLength(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"5 days in Rome", 5},
		{"a 10-day trip", 10},
		{"2 weeks in Japan", 14},
		{"3 days or 2 weeks", 3},
		{"no length here", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Extract(tt.text).TripLengthDays, tt.text)
	}
}

func TestExtractMonthOrSeason(t *testing.T) {
	assert.Equal(t, "March", Extract("summer or maybe march").MonthOrSeason)
	assert.Equal(t, "Winter", Extract("a WINTER break").MonthOrSeason)
	assert.Equal(t, "May", Extract("Going in May").MonthOrSeason)
	assert.Empty(t, Extract("may I ask something").MonthOrSeason)
}

func TestExtractBudget(t *testing.T) {
	tests := []struct {
		text string
		want Budget
	}{
		{"something cheap", BudgetLow},
		{"what about something cheaper", BudgetLow},
		{"medium budget please", BudgetMedium},
		{"a luxury escape", BudgetHigh},
		{"Where in July? Budget is high, I love food", BudgetHigh},
		{"my budget: luxury", BudgetHigh},
		{"traveling on a budget", BudgetLow},
		{"a budget-friendly break", BudgetLow},
		{"what is the budget usually", ""},
		{"no money talk", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Extract(tt.text).Budget, tt.text)
	}
}

func TestExtractInterestsVocabularyOrder(t *testing.T) {
	got := Extract("I like architecture, FOOD and hiking but not startups")
	assert.Equal(t, []string{"hiking", "food", "architecture"}, got.Interests)
}

func TestNormalizeCoercion(t *testing.T) {
	got := Normalize(map[string]any{
		"destination":      "  Lisbon ",
		"trip_length_days": "7",
		"month_or_season":  "  sPRING",
		"budget":           "Luxury",
		"interests":        "food, ,Food, art",
	})

	assert.Equal(t, Entities{
		Destination:    "Lisbon",
		TripLengthDays: 7,
		MonthOrSeason:  "Spring",
		Budget:         BudgetHigh,
		Interests:      []string{"food", "art"},
	}, got)
}

func TestNormalizeDropsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"negative days", map[string]any{"trip_length_days": -3}},
		{"fractional days", map[string]any{"trip_length_days": 2.5}},
		{"non numeric days", map[string]any{"trip_length_days": "a week"}},
		{"blank destination", map[string]any{"destination": "   "}},
		{"unknown budget", map[string]any{"budget": "whatever"}},
		{"empty interests", map[string]any{"interests": []any{" ", ""}}},
		{"wrong type", map[string]any{"destination": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Normalize(tt.raw).IsEmpty())
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{"destination": " Kyoto", "trip_length_days": 4.0, "interests": []any{"Food", "food", "museums "}},
		{"month_or_season": "late summer", "budget": "mid"},
		{},
	}
	for _, raw := range inputs {
		once := Normalize(raw)
		assert.Equal(t, once, once.Normalized())
		assert.Equal(t, once, Normalize(once.Map()))
	}
}

func TestMergeNewValuesWin(t *testing.T) {
	base := Entities{Destination: "Paris", Budget: BudgetHigh, Interests: []string{"art"}}
	merged := base.Merge(Entities{Budget: BudgetLow})

	assert.Equal(t, "Paris", merged.Destination)
	assert.Equal(t, BudgetLow, merged.Budget)
	assert.Equal(t, []string{"art"}, merged.Interests)

	merged.Interests[0] = "food"
	assert.Equal(t, "art", base.Interests[0], "merge must not alias the receiver")
}

func TestIsMissing(t *testing.T) {
	e := Entities{TripLengthDays: 0, Interests: []string{" "}, Destination: "Rome"}
	assert.True(t, IsMissing(FieldTripLengthDays, e))
	assert.True(t, IsMissing(FieldInterests, e))
	assert.True(t, IsMissing(FieldBudget, e))
	assert.False(t, IsMissing(FieldDestination, e))
	assert.Equal(t, []Field{FieldDestination}, e.Present())
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		text  string
		want  Entities
		ok    bool
	}{
		{"days phrase", FieldTripLengthDays, "5 days", Entities{TripLengthDays: 5}, true},
		{"days bare", FieldTripLengthDays, "about 7", Entities{TripLengthDays: 7}, true},
		{"weeks", FieldTripLengthDays, "2 weeks", Entities{TripLengthDays: 14}, true},
		{"days zero", FieldTripLengthDays, "0", Entities{}, false},
		{"days words", FieldTripLengthDays, "a few", Entities{}, false},
		{"interests", FieldInterests, "hiking, food", Entities{Interests: []string{"hiking", "food"}}, true},
		{"budget word", FieldBudget, "cheap", Entities{Budget: BudgetLow}, true},
		{"budget phrase", FieldBudget, "something medium I guess", Entities{Budget: BudgetMedium}, true},
		{"budget unknown", FieldBudget, "no idea", Entities{}, false},
		{"budget echoes question", FieldBudget, "my budget is high", Entities{Budget: BudgetHigh}, true},
		{"budget label", FieldBudget, "budget: luxury", Entities{Budget: BudgetHigh}, true},
		{"budget word alone", FieldBudget, "budget.", Entities{Budget: BudgetLow}, true},
		{"budget phrase low", FieldBudget, "we are on a tight budget", Entities{Budget: BudgetLow}, true},
		{"month in sentence", FieldMonthOrSeason, "probably in october", Entities{MonthOrSeason: "October"}, true},
		{"free text season", FieldMonthOrSeason, "christmas", Entities{MonthOrSeason: "Christmas"}, true},
		{"destination", FieldDestination, " Lisbon. ", Entities{Destination: "Lisbon"}, true},
		{"blank", FieldDestination, "  ", Entities{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAnswer(tt.field, tt.text)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
