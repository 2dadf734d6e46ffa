// README: Slot requirements per intent, field questions and the pure ask-or-plan decision.
package dialogue

import (
	"strings"

	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
)

// Requirements lists the fields each actionable intent needs, in asking order.
var Requirements = map[intent.Intent][]entity.Field{
	intent.DestinationRecommendations: {entity.FieldMonthOrSeason, entity.FieldBudget, entity.FieldInterests},
	intent.PackingSuggestions:         {entity.FieldDestination, entity.FieldTripLengthDays, entity.FieldMonthOrSeason},
	intent.LocalAttractions:           {entity.FieldDestination, entity.FieldTripLengthDays, entity.FieldInterests},
}

var questions = map[entity.Field]string{
	entity.FieldDestination:    "Where are you going? (city/country/region)",
	entity.FieldMonthOrSeason:  "When is the trip? (month or season)",
	entity.FieldTripLengthDays: "How many days is the trip?",
	entity.FieldBudget:         "What's your budget? (low / medium / high)",
	entity.FieldInterests:      "Any interests? (comma-separated, e.g., hiking, food, museums)",
}

// formatHints are appended for numeric and list fields unless the question already carries them.
var formatHints = map[entity.Field]string{
	entity.FieldTripLengthDays: "(number of days)",
	entity.FieldInterests:      "(comma-separated)",
}

// Question returns the prompt used to ask for field.
func Question(field entity.Field) string {
	q, ok := questions[field]
	if !ok {
		return "Please provide " + strings.ReplaceAll(string(field), "_", " ") + "."
	}
	if hint, ok := formatHints[field]; ok && !strings.Contains(q, strings.Trim(hint, "()")) {
		q += " " + hint
	}
	return q
}

// Action is the outcome of the completeness check.
type Action int

const (
	ActionAsk Action = iota
	ActionPlan
	ActionUnsupported
)

// Decision says whether to ask (and for which field) or to plan.
type Decision struct {
	Action Action
	Field  entity.Field
}

// MissingFields returns the required fields of in that e lacks, in declared order.
func MissingFields(in intent.Intent, e entity.Entities) []entity.Field {
	var missing []entity.Field
	for _, f := range Requirements[in] {
		if entity.IsMissing(f, e) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Decide is a pure function of (intent, entities): ask for the first missing
// required field, or plan when none is missing.
func Decide(in intent.Intent, e entity.Entities) Decision {
	if _, ok := Requirements[in]; !ok {
		return Decision{Action: ActionUnsupported}
	}
	if missing := MissingFields(in, e); len(missing) > 0 {
		return Decision{Action: ActionAsk, Field: missing[0]}
	}
	return Decision{Action: ActionPlan}
}
