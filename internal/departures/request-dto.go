package departures

import (
	"time"

	"github.com/google/uuid"
)

// CreateDepartureRequest represents the request to schedule a new departure
type CreateDepartureRequest struct {
	TripID                    uuid.UUID `json:"trip_id" validate:"required"`
	StartDate                 time.Time `json:"start_date" validate:"required"`
	EndDate                   time.Time `json:"end_date" validate:"required"`
	Capacity                  int       `json:"capacity" validate:"required,min=1,max=500"`
	BasePriceCents            int64     `json:"base_price_cents" validate:"required,min=1"`
	Currency                  string    `json:"currency" validate:"omitempty,len=3"`
	DepositCents              int64     `json:"deposit_cents" validate:"min=0"`
	AllowFreeRSVP             bool      `json:"allow_free_rsvp"`
	BookingDeadline           time.Time `json:"booking_deadline"`
	RefundPolicyID            uuid.UUID `json:"refund_policy_id"`
	BalanceDueDaysBeforeStart int       `json:"balance_due_days_before_start" validate:"min=0"`
}
