package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTripNotFound = errors.New("trip not found")

type Repository interface {
	Create(ctx context.Context, trip *Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	GetBySlug(ctx context.Context, slug string) (*Trip, error)
	GetActive(ctx context.Context) ([]Trip, error)
	GetFeatured(ctx context.Context) ([]Trip, error)
	Update(ctx context.Context, trip *Trip) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, trip *Trip) error {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	var trip Trip
	err := r.db.WithContext(ctx).
		Preload("Departures").
		First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Trip, error) {
	var trip Trip
	err := r.db.WithContext(ctx).
		Preload("Departures", "start_date > NOW()").
		First(&trip, "slug = ? AND active = ?", slug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip by slug: %w", err)
	}
	return &trip, nil
}

func (r *repository) GetActive(ctx context.Context) ([]Trip, error) {
	var trips []Trip
	err := r.db.WithContext(ctx).
		Preload("Departures", "start_date > NOW()").
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

func (r *repository) GetFeatured(ctx context.Context) ([]Trip, error) {
	var trips []Trip
	err := r.db.WithContext(ctx).
		Preload("Departures", "start_date > NOW()").
		Where("active = ? AND featured = ?", true, true).
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured trips: %w", err)
	}
	return trips, nil
}

func (r *repository) Update(ctx context.Context, trip *Trip) error {
	if err := r.db.WithContext(ctx).Save(trip).Error; err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Trip{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete trip: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTripNotFound
	}
	return nil
}
