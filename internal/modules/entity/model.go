// README: Trip entity set (slots) shared by extraction, classification and slot filling.
package entity

import "strings"

// Field names a slot in the entity set. Values match the wire/JSON keys.
type Field string

const (
	FieldDestination    Field = "destination"
	FieldTripLengthDays Field = "trip_length_days"
	FieldMonthOrSeason  Field = "month_or_season"
	FieldBudget         Field = "budget"
	FieldInterests      Field = "interests"
)

// AllFields lists every slot in declaration order.
var AllFields = []Field{
	FieldDestination,
	FieldTripLengthDays,
	FieldMonthOrSeason,
	FieldBudget,
	FieldInterests,
}

// Budget is one of three canonical spending buckets.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// Entities is the structured trip information carried across turns.
// A zero value field means "absent"; a present field is always canonical.
type Entities struct {
	Destination    string   `json:"destination,omitempty"`
	TripLengthDays int      `json:"trip_length_days,omitempty"`
	MonthOrSeason  string   `json:"month_or_season,omitempty"`
	Budget         Budget   `json:"budget,omitempty"`
	Interests      []string `json:"interests,omitempty"`
}

// IsEmpty reports whether no field is present.
func (e Entities) IsEmpty() bool {
	for _, f := range AllFields {
		if !IsMissing(f, e) {
			return false
		}
	}
	return true
}

// Present returns the fields that hold a valid value, in declaration order.
func (e Entities) Present() []Field {
	var out []Field
	for _, f := range AllFields {
		if !IsMissing(f, e) {
			out = append(out, f)
		}
	}
	return out
}

// Merge returns a copy of e with every present field of over written on top.
func (e Entities) Merge(over Entities) Entities {
	out := e.Clone()
	if !IsMissing(FieldDestination, over) {
		out.Destination = over.Destination
	}
	if !IsMissing(FieldTripLengthDays, over) {
		out.TripLengthDays = over.TripLengthDays
	}
	if !IsMissing(FieldMonthOrSeason, over) {
		out.MonthOrSeason = over.MonthOrSeason
	}
	if !IsMissing(FieldBudget, over) {
		out.Budget = over.Budget
	}
	if !IsMissing(FieldInterests, over) {
		out.Interests = append([]string(nil), over.Interests...)
	}
	return out
}

// Clone returns a deep copy.
func (e Entities) Clone() Entities {
	out := e
	if e.Interests != nil {
		out.Interests = append([]string(nil), e.Interests...)
	}
	return out
}

// Map renders the present fields as a loosely typed map (planner payload, Normalize input).
func (e Entities) Map() map[string]any {
	m := make(map[string]any, len(AllFields))
	if !IsMissing(FieldDestination, e) {
		m[string(FieldDestination)] = e.Destination
	}
	if !IsMissing(FieldTripLengthDays, e) {
		m[string(FieldTripLengthDays)] = e.TripLengthDays
	}
	if !IsMissing(FieldMonthOrSeason, e) {
		m[string(FieldMonthOrSeason)] = e.MonthOrSeason
	}
	if !IsMissing(FieldBudget, e) {
		m[string(FieldBudget)] = string(e.Budget)
	}
	if !IsMissing(FieldInterests, e) {
		m[string(FieldInterests)] = append([]string(nil), e.Interests...)
	}
	return m
}

// IsMissing is the single definition of "missing" per field type:
// numeric fields need a positive value, list fields a non-empty set,
// scalar fields a non-empty trimmed string.
func IsMissing(f Field, e Entities) bool {
	switch f {
	case FieldTripLengthDays:
		return e.TripLengthDays <= 0
	case FieldInterests:
		for _, s := range e.Interests {
			if strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	case FieldDestination:
		return strings.TrimSpace(e.Destination) == ""
	case FieldMonthOrSeason:
		return strings.TrimSpace(e.MonthOrSeason) == ""
	case FieldBudget:
		return strings.TrimSpace(string(e.Budget)) == ""
	default:
		return true
	}
}

// ParseField maps a wire name to a Field.
func ParseField(name string) (Field, bool) {
	for _, f := range AllFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}
