package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEntryNotFound = errors.New("payment ledger entry not found")

type Repository interface {
	// AppendIfAbsent inserts the entry unless one with the same
	// (payment_intent_id, kind) already exists. Returns true when the entry
	// was inserted, false when it was already present.
	AppendIfAbsent(ctx context.Context, entry *LedgerEntry) (bool, error)
	ExistsByIntentAndKind(ctx context.Context, paymentIntentID string, kind Kind) (bool, error)
	GetOriginalByIntent(ctx context.Context, paymentIntentID string) (*LedgerEntry, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]LedgerEntry, error)
	SumSettledRevenue(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AppendIfAbsent(ctx context.Context, entry *LedgerEntry) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_intent_id"}, {Name: "kind"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return false, fmt.Errorf("failed to append ledger entry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ExistsByIntentAndKind(ctx context.Context, paymentIntentID string, kind Kind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Where("payment_intent_id = ? AND kind = ?", paymentIntentID, kind).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ledger entry: %w", err)
	}
	return count > 0, nil
}

// GetOriginalByIntent resolves the payment a refund reverses
func (r *repository) GetOriginalByIntent(ctx context.Context, paymentIntentID string) (*LedgerEntry, error) {
	var entry LedgerEntry
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ? AND kind <> ?", paymentIntentID, KindRefund).
		Order("created_at ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get original payment: %w", err)
	}
	return &entry, nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// SumSettledRevenue totals succeeded non-refund entries across all bookings
func (r *repository) SumSettledRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("status = ? AND kind <> ?", "succeeded", KindRefund).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}
