package bookings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is one customer's claim on seats of a departure. Money fields are
// integer minor units. It is never deleted, only transitioned to a terminal
// status; the status column is mutated exclusively through status-conditional
// updates in the repository.
type Booking struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID            uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	TripID            uuid.UUID      `json:"trip_id" gorm:"type:uuid;not null"`
	DepartureID       uuid.UUID      `json:"departure_id" gorm:"type:uuid;not null;index"`
	Seats             int            `json:"seats" gorm:"not null"`
	Status            Status         `json:"status" gorm:"type:varchar(30);not null"`
	TotalPriceCents   int64          `json:"total_price_cents" gorm:"not null"`
	DepositPaidCents  int64          `json:"deposit_paid_cents" gorm:"not null;default:0"`
	BalanceDueCents   int64          `json:"balance_due_cents" gorm:"not null;default:0"`
	Currency          string         `json:"currency" gorm:"type:varchar(3);not null;default:'EUR'"`
	CheckoutSessionID string         `json:"checkout_session_id"`
	PaymentIntentID   string         `json:"payment_intent_id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for Booking model
func (Booking) TableName() string {
	return "bookings"
}

// SettledCents returns the amount captured so far, by status
func (b *Booking) SettledCents() int64 {
	switch b.Status {
	case StatusReservedDepositPaid:
		return b.DepositPaidCents
	case StatusPaidInFull:
		return b.TotalPriceCents
	default:
		return 0
	}
}
