package database

import (
	"strings"

	"denchetravel/internal/bookings"
	"denchetravel/internal/departures"
	"denchetravel/internal/payments"
	"denchetravel/internal/policies"
	"denchetravel/internal/trips"
	"denchetravel/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&policies.RefundPolicy{},
		&trips.Trip{},
		&departures.Departure{},
		&bookings.Booking{},
		&payments.LedgerEntry{},
	)
}

// MigrateConstraints adds database constraints the settlement core relies on
func MigrateConstraints(db *gorm.DB) error {
	// Webhook idempotency: one ledger entry per (payment intent, kind).
	// The settlement processor's append-if-absent depends on this index.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_payments_intent_kind
		ON payments (payment_intent_id, kind);
	`).Error
	if err != nil {
		return err
	}

	// spots_left must stay within [0, capacity] even if a bug bypasses
	// the conditional update in the departures repository.
	err = db.Exec(`
		ALTER TABLE departures
		ADD CONSTRAINT chk_departures_spots_range
		CHECK (spots_left >= 0 AND spots_left <= capacity);
	`).Error
	if err != nil {
		// Constraint may already exist from a previous run
		if !isDuplicateObjectError(err) {
			return err
		}
	}

	// Booking listings by departure
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_departure_id
		ON bookings (departure_id);
	`).Error
}

func isDuplicateObjectError(err error) bool {
	// Postgres 42710: duplicate_object
	return err != nil && (strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "42710"))
}
