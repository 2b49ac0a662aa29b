package payments

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a ledger entry
type Kind string

const (
	KindDeposit Kind = "deposit"
	KindBalance Kind = "balance"
	KindRefund  Kind = "refund"
)

// IsValid checks if the kind is a known ledger entry kind
func (k Kind) IsValid() bool {
	switch k {
	case KindDeposit, KindBalance, KindRefund:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of money movement against a booking.
// Refund amounts are negative. Entries are only ever appended; the unique
// index on (payment_intent_id, kind) makes replayed webhook deliveries no-ops.
type LedgerEntry struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookingID       uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	Kind            Kind      `json:"kind" gorm:"type:varchar(10);not null"`
	AmountCents     int64     `json:"amount_cents" gorm:"not null"`
	Currency        string    `json:"currency" gorm:"type:varchar(3);not null"`
	PaymentIntentID string    `json:"payment_intent_id" gorm:"not null"`
	Status          string    `json:"status" gorm:"type:varchar(20);not null;default:'succeeded'"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for LedgerEntry model
func (LedgerEntry) TableName() string {
	return "payments"
}
