package policies

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPolicyNotFound = errors.New("refund policy not found")

type Repository interface {
	Create(ctx context.Context, policy *RefundPolicy) error
	GetByID(ctx context.Context, id uuid.UUID) (*RefundPolicy, error)
	GetAll(ctx context.Context) ([]RefundPolicy, error)
	Update(ctx context.Context, policy *RefundPolicy) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, policy *RefundPolicy) error {
	if err := r.db.WithContext(ctx).Create(policy).Error; err != nil {
		return fmt.Errorf("failed to create refund policy: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*RefundPolicy, error) {
	var policy RefundPolicy
	err := r.db.WithContext(ctx).First(&policy, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get refund policy: %w", err)
	}
	return &policy, nil
}

func (r *repository) GetAll(ctx context.Context) ([]RefundPolicy, error) {
	var policies []RefundPolicy
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list refund policies: %w", err)
	}
	return policies, nil
}

func (r *repository) Update(ctx context.Context, policy *RefundPolicy) error {
	if err := r.db.WithContext(ctx).Save(policy).Error; err != nil {
		return fmt.Errorf("failed to update refund policy: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RefundPolicy{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete refund policy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPolicyNotFound
	}
	return nil
}
