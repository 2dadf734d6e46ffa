// README: Planning quota model (monthly allowance of planner calls per user).
package aiusage

import "errors"

// ErrInsufficientTokens is returned when a user has no plans left for the current month.
var ErrInsufficientTokens = errors.New("monthly planning limit reached")

// DefaultTokens is the number of planner calls granted per month.
const DefaultTokens = 100

// monthKey formats the reset bucket stored in last_reset_month.
const monthKey = "2006-01"
