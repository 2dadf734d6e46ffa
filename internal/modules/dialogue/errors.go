// README: Dialogue error taxonomy and the canned replies each failure resolves to.
package dialogue

import "errors"

var (
	// ErrValidation means the inbound turn was malformed; it never reaches the state machine.
	ErrValidation = errors.New("message is required")
	// ErrStateValidation means a loaded session broke its invariants or a transition was illegal.
	ErrStateValidation = errors.New("invalid dialogue state")
	// ErrClassificationAmbiguity is reserved; the classifier is total and never produces it.
	ErrClassificationAmbiguity = errors.New("ambiguous classification")
)

const (
	ReplyInternalError = "I encountered an internal error. Please try again."
	ReplyClarify       = "I'm not sure what you're referring to. Can you clarify?"
	ReplyFollowUp      = "Sure! What more would you like to know about your trip to %s?"
	ReplyCantHelp      = "I can help with destination recommendations, packing suggestions, or local attractions. What would you like?"
	ReplyPlanningError = "Something went wrong while preparing your plan."

	defaultDestinationName = "the destination"
)
