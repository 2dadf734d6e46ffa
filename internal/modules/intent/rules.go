// README: Canonical rule table for intent and follow-up detection.
package intent

import "regexp"

var (
	followUpPattern   = regexp.MustCompile(`(?i)\b(more|what about|any other|also|additionally|instead|rather|change|better|compare|versus|vs|prefer|that|those|it|them)\b`)
	packingPattern    = regexp.MustCompile(`(?i)\b(pack|packing|bring|luggage|suitcase|what to wear|clothing|clothes|gear|items|stuff)\b`)
	attractionPattern = regexp.MustCompile(`(?i)\b(visit|visiting|attractions?|things to do|things|restaurants?|museums?|sights?|sightseeing|landmarks?)\b`)
	locationPattern   = regexp.MustCompile(`(?i)\b(in|at|around|near)\b`)
)

// rule is one topical classification rule. Rules are evaluated in slice order.
type rule struct {
	intent Intent
	match  func(text string) bool
}

// topicalRules is the single priority-ordered rule table. An utterance that
// matches none of them defaults to DestinationRecommendations.
var topicalRules = []rule{
	{
		intent: PackingSuggestions,
		match:  packingPattern.MatchString,
	},
	{
		intent: LocalAttractions,
		match: func(text string) bool {
			return attractionPattern.MatchString(text) && locationPattern.MatchString(text)
		},
	},
}

// IsFollowUpPhrase reports whether text reads like a reference to an earlier answer.
func IsFollowUpPhrase(text string) bool {
	return followUpPattern.MatchString(text)
}

func topicalIntent(text string) Intent {
	for _, r := range topicalRules {
		if r.match(text) {
			return r.intent
		}
	}
	return DestinationRecommendations
}
