// README: Entity normalizer; coerces raw values into canonical typed fields.
package entity

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Normalize coerces a loosely typed entity map (LLM output, JSON payloads,
// stored snapshots) into a canonical Entities value. It never fails: values
// that cannot be coerced are dropped.
func Normalize(raw map[string]any) Entities {
	var e Entities
	if v, ok := raw[string(FieldDestination)]; ok {
		e.Destination = toString(v)
	}
	if v, ok := raw[string(FieldTripLengthDays)]; ok {
		if n, ok := toPositiveInt(v); ok {
			e.TripLengthDays = n
		}
	}
	if v, ok := raw[string(FieldMonthOrSeason)]; ok {
		e.MonthOrSeason = toString(v)
	}
	if v, ok := raw[string(FieldBudget)]; ok {
		e.Budget = Budget(toString(v))
	}
	if v, ok := raw[string(FieldInterests)]; ok {
		e.Interests = toStringSet(v)
	}
	return e.Normalized()
}

// Normalized returns the canonical form of e. It is idempotent.
func (e Entities) Normalized() Entities {
	out := Entities{
		Destination:   strings.TrimSpace(e.Destination),
		MonthOrSeason: capitalize(strings.TrimSpace(e.MonthOrSeason)),
		Budget:        CanonicalBudget(string(e.Budget)),
	}
	if e.TripLengthDays > 0 {
		out.TripLengthDays = e.TripLengthDays
	}
	out.Interests = dedupe(e.Interests)
	return out
}

// CanonicalBudget buckets a budget word into low/medium/high, or "" when unknown.
func CanonicalBudget(word string) Budget {
	w := strings.ToLower(strings.TrimSpace(word))
	if b, ok := budgetWords[w]; ok {
		return b
	}
	return ""
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case Budget:
		return strings.TrimSpace(string(s))
	default:
		return ""
	}
}

func toPositiveInt(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func toStringSet(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		return strings.Split(s, ",")
	default:
		return nil
	}
}

// dedupe trims and lower-cases each entry, drops empties and repeats,
// and keeps first-seen order. Returns nil for an empty result.
func dedupe(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
