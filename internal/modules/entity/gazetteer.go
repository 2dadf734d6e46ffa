// README: Static vocabularies used by the extractor (places, stop words, budget and interest words).
package entity

import "strings"

// knownPlaces is the gazetteer consulted when no "to/in/for <Place>" phrase is found.
var knownPlaces = []string{
	"Patagonia", "Kyoto", "Tokyo", "Osaka", "Bali", "Iceland", "Alps", "Andes",
	"Rockies", "Sahara", "Lisbon", "Porto", "Seoul", "Bangkok", "New York",
	"London", "Paris", "Rome", "Barcelona", "Amsterdam", "Berlin", "Prague",
	"Vienna", "Budapest", "Istanbul", "Tel Aviv", "Athens", "Naples", "Sicily",
	"Madeira", "Azores", "Taipei", "San Francisco", "Los Angeles", "Chicago",
	"Sydney", "Melbourne", "Queenstown", "Cusco", "Machu Picchu", "Canada",
	"Japan", "France", "Italy", "Spain", "Germany", "Netherlands", "Portugal",
}

// stopWords terminate a capitalized destination candidate ("to Lisbon in May" -> "Lisbon").
var stopWords = map[string]struct{}{
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {}, "june": {},
	"july": {}, "august": {}, "september": {}, "october": {}, "november": {}, "december": {},
	"winter": {}, "spring": {}, "summer": {}, "fall": {}, "autumn": {},
	"weekend": {}, "trip": {}, "vacation": {}, "holiday": {}, "days": {}, "weeks": {},
}

// budgetWords maps budget vocabulary to its bucket. "budget" alone counts as
// low only as a whole value; in running text it needs a budgetPhrase.
var budgetWords = map[string]Budget{
	"low":         BudgetLow,
	"budget":      BudgetLow,
	"cheap":       BudgetLow,
	"cheaper":     BudgetLow,
	"cheapest":    BudgetLow,
	"affordable":  BudgetLow,
	"inexpensive": BudgetLow,
	"mid":         BudgetMedium,
	"medium":      BudgetMedium,
	"moderate":    BudgetMedium,
	"high":        BudgetHigh,
	"luxury":      BudgetHigh,
	"luxurious":   BudgetHigh,
	"expensive":   BudgetHigh,
	"premium":     BudgetHigh,
}

// interestVocabulary is matched as whole words, in this order.
var interestVocabulary = []string{
	"hiking", "museums", "food", "beach", "culture", "history",
	"nightlife", "shopping", "nature", "adventure", "art", "architecture",
}

func isStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}
