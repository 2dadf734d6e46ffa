// README: Intent model (closed set of user purposes the assistant understands).
package intent

// Intent is the classified purpose of an utterance.
type Intent string

const (
	DestinationRecommendations Intent = "destination_recommendations"
	PackingSuggestions         Intent = "packing_suggestions"
	LocalAttractions           Intent = "local_attractions"
	FollowUp                   Intent = "follow_up"
	Refinement                 Intent = "refinement"
	Unknown                    Intent = "unknown"
)

// Actionable lists the intents that can be planned, in a stable order.
var Actionable = []Intent{DestinationRecommendations, PackingSuggestions, LocalAttractions}

// IsActionable reports whether i can be handed to the planner.
func (i Intent) IsActionable() bool {
	for _, a := range Actionable {
		if i == a {
			return true
		}
	}
	return false
}

// IsContinuation reports whether i refers back to an earlier plan.
func (i Intent) IsContinuation() bool {
	return i == FollowUp || i == Refinement
}

// Parse maps a stored or wire value back to an Intent; anything else is Unknown.
func Parse(s string) Intent {
	switch i := Intent(s); i {
	case DestinationRecommendations, PackingSuggestions, LocalAttractions, FollowUp, Refinement:
		return i
	default:
		return Unknown
	}
}
