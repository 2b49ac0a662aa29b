package departures

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Departure represents a dated, capacity-limited instance of a trip.
// SpotsLeft is the single serialization point for capacity: every hold and
// release goes through a conditional UPDATE on this column.
type Departure struct {
	ID                        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TripID                    uuid.UUID      `json:"trip_id" gorm:"type:uuid;not null;index"`
	StartDate                 time.Time      `json:"start_date" gorm:"not null"`
	EndDate                   time.Time      `json:"end_date" gorm:"not null"`
	Capacity                  int            `json:"capacity" gorm:"not null"`
	SpotsLeft                 int            `json:"spots_left" gorm:"not null"`
	BasePriceCents            int64          `json:"base_price_cents" gorm:"not null"`
	Currency                  string         `json:"currency" gorm:"type:varchar(3);not null;default:'EUR'"`
	DepositCents              int64          `json:"deposit_cents" gorm:"not null;default:0"`
	AllowFreeRSVP             bool           `json:"allow_free_rsvp" gorm:"not null;default:false"`
	BookingDeadline           time.Time      `json:"booking_deadline"`
	RefundPolicyID            uuid.UUID      `json:"refund_policy_id" gorm:"type:uuid"`
	BalanceDueDaysBeforeStart int            `json:"balance_due_days_before_start" gorm:"not null;default:14"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at"`
	DeletedAt                 gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for Departure model
func (Departure) TableName() string {
	return "departures"
}

// IsBookable reports whether new bookings are accepted at the given moment
func (d *Departure) IsBookable(now time.Time) bool {
	if !d.BookingDeadline.IsZero() && now.After(d.BookingDeadline) {
		return false
	}
	return d.SpotsLeft > 0
}
