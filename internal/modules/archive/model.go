// README: Plan archive model (durable record of completed plans).
package archive

import (
	"time"

	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
)

// Record is one archived plan.
type Record struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"sessionId"`
	UserID    string          `json:"userId,omitempty"`
	Intent    intent.Intent   `json:"intent"`
	Entities  entity.Entities `json:"entities"`
	Result    string          `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}
