// README: Parses a direct answer to a pending slot question.
package entity

import (
	"regexp"
	"strconv"
	"strings"
)

var firstIntPattern = regexp.MustCompile(`\d+`)

// ParseAnswer interprets text as the answer to the question for field.
// ok is false when the text does not yield a valid value for that field,
// in which case the same question should be asked again.
func ParseAnswer(field Field, text string) (Entities, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entities{}, false
	}

	var e Entities
	switch field {
	case FieldDestination:
		e.Destination = strings.TrimRight(text, ".!?")
	case FieldTripLengthDays:
		e.TripLengthDays = parseDays(text)
	case FieldMonthOrSeason:
		if found := extractMonthOrSeason(text); found != "" {
			e.MonthOrSeason = found
		} else {
			e.MonthOrSeason = strings.TrimRight(text, ".!?")
		}
	case FieldBudget:
		e.Budget = CanonicalBudget(strings.TrimRight(text, ".!?"))
		if e.Budget == "" {
			e.Budget = extractBudget(text)
		}
	case FieldInterests:
		e.Interests = strings.Split(text, ",")
	default:
		return Entities{}, false
	}

	e = e.Normalized()
	if IsMissing(field, e) {
		return Entities{}, false
	}
	return e, true
}

// parseDays prefers a day/week phrase ("2 weeks" -> 14) and otherwise takes
// the first integer in the text ("about 7" -> 7). Spelled-out numbers are not parsed.
func parseDays(text string) int {
	if n := extractTripLength(text); n > 0 {
		return n
	}
	m := firstIntPattern.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
