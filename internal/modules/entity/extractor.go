// README: Rule-based entity extractor for free-text trip requests.
package entity

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	destinationPattern = regexp.MustCompile(`\b(?:[Tt]o|[Ii]n|[Ff]or)\s+(\p{Lu}[\p{L}\p{M}\d'’.\-]*(?:\s+\p{Lu}[\p{L}\p{M}\d'’.\-]*){0,3})`)
	daysPattern        = regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*(?:days?|d)\b`)
	weeksPattern       = regexp.MustCompile(`(?i)\b(\d{1,2})[\s-]*(?:weeks?|w)\b`)
	monthPattern       = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	seasonPattern      = regexp.MustCompile(`(?i)\b(spring|summer|fall|autumn|winter)\b`)
	budgetPhrase       = regexp.MustCompile(`(?i)\b(?:on an?\s+(?:tight\s+|small\s+|strict\s+)?budget|budget[\s-](?:trip|travel|friendly|option|hotel|stay|holiday|vacation)s?)\b`)
	budgetPattern      *regexp.Regexp
	interestPatterns   []*regexp.Regexp
	placePatterns      []*regexp.Regexp
)

func init() {
	words := make([]string, 0, len(budgetWords))
	for w := range budgetWords {
		if w == "budget" {
			continue
		}
		words = append(words, regexp.QuoteMeta(w))
	}
	// Longest first so "cheaper" wins over "cheap".
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	budgetPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)

	for _, w := range interestVocabulary {
		interestPatterns = append(interestPatterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	for _, p := range knownPlaces {
		placePatterns = append(placePatterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(p)+`\b`))
	}
}

// Extract pulls whatever trip fields it can find out of a free-text utterance.
// Absent fields stay zero; the result is already normalized.
func Extract(text string) Entities {
	e := Entities{
		Destination:    extractDestination(text),
		TripLengthDays: extractTripLength(text),
		MonthOrSeason:  extractMonthOrSeason(text),
		Interests:      extractInterests(text),
	}
	e.Budget = extractBudget(text)
	return e.Normalized()
}

// extractBudget prefers an explicit bucket word ("my budget is high") and
// falls back to low for phrases like "on a budget" or "budget trip".
func extractBudget(text string) Budget {
	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		return CanonicalBudget(m[1])
	}
	if budgetPhrase.MatchString(text) {
		return BudgetLow
	}
	return ""
}

func extractDestination(text string) string {
	for _, m := range destinationPattern.FindAllStringSubmatch(text, -1) {
		if dest := trimCandidate(m[1]); dest != "" {
			return dest
		}
	}
	return lookupPlace(text)
}

// trimCandidate cuts a capitalized run at its first stop word.
func trimCandidate(candidate string) string {
	var kept []string
	for _, w := range strings.Fields(candidate) {
		w = strings.TrimRight(w, ".'’-")
		if w == "" || isStopWord(w) {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// lookupPlace returns the gazetteer entry that appears earliest in text.
func lookupPlace(text string) string {
	best, bestAt := "", -1
	for i, re := range placePatterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestAt == -1 || loc[0] < bestAt {
			best, bestAt = knownPlaces[i], loc[0]
		}
	}
	return best
}

func extractTripLength(text string) int {
	if m := daysPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := weeksPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n * 7
		}
	}
	return 0
}

func extractMonthOrSeason(text string) string {
	for _, m := range monthPattern.FindAllString(text, -1) {
		// lower-case "may" is almost always the modal verb
		if m == "may" {
			continue
		}
		return m
	}
	return seasonPattern.FindString(text)
}

func extractInterests(text string) []string {
	var out []string
	for i, re := range interestPatterns {
		if re.MatchString(text) {
			out = append(out, interestVocabulary[i])
		}
	}
	return out
}
