// README: Deterministic intent classifier combining the rule table with entity extraction.
package intent

import "trailmate/internal/modules/entity"

// Result is the outcome of classifying one utterance.
type Result struct {
	Intent Intent `json:"intent"`
	// Entities is the conversation context with this utterance applied.
	Entities entity.Entities `json:"entities"`
	// Extracted holds only what the utterance itself supplied.
	Extracted      entity.Entities `json:"extracted"`
	IsContinuation bool            `json:"isContinuation"`
}

// Classify maps text plus the current conversation context to exactly one of
// the actionable intents, FollowUp or Refinement. It never returns Unknown.
//
// A follow-up phrase only counts when there is context to refer back to; it
// becomes a Refinement when the utterance also supplies at least one entity.
func Classify(text string, context entity.Entities) Result {
	extracted := entity.Extract(text)

	if IsFollowUpPhrase(text) && !context.IsEmpty() {
		if extracted.IsEmpty() {
			return Result{
				Intent:         FollowUp,
				Entities:       context.Clone(),
				Extracted:      extracted,
				IsContinuation: true,
			}
		}
		return Result{
			Intent:         Refinement,
			Entities:       context.Merge(extracted),
			Extracted:      extracted,
			IsContinuation: true,
		}
	}

	return Result{
		Intent:    topicalIntent(text),
		Entities:  context.Merge(extracted),
		Extracted: extracted,
	}
}
