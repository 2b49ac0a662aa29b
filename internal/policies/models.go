package policies

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefundRule grants a refund percentage when cancellation happens at least
// DaysBefore days ahead of departure.
type RefundRule struct {
	DaysBefore int `json:"days_before"`
	RefundPct  int `json:"refund_pct"`
}

// RuleSet is an ordered list of refund rules stored as JSONB
type RuleSet []RefundRule

// Value implements driver.Valuer for JSONB storage
func (r RuleSet) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB retrieval
func (r *RuleSet) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan RuleSet: expected []byte")
	}
	return json.Unmarshal(bytes, r)
}

// RefundPolicy represents a named cancellation policy attached to trips
type RefundPolicy struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string         `json:"name" gorm:"uniqueIndex;not null"`
	Rules     RuleSet        `json:"rules" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for RefundPolicy model
func (RefundPolicy) TableName() string {
	return "refund_policies"
}
