package departures

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDepartureNotFound    = errors.New("departure not found")
	ErrInsufficientCapacity = errors.New("not enough spots left on departure")
	ErrInvalidSeatCount     = errors.New("seat count must be positive")
)

type Repository interface {
	Create(ctx context.Context, departure *Departure) error
	GetByID(ctx context.Context, id uuid.UUID) (*Departure, error)
	GetByTripID(ctx context.Context, tripID uuid.UUID) ([]Departure, error)
	GetUpcoming(ctx context.Context, limit int) ([]Departure, error)
	Update(ctx context.Context, departure *Departure) error
	Reserve(ctx context.Context, id uuid.UUID, seats int) error
	Release(ctx context.Context, id uuid.UUID, seats int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, departure *Departure) error {
	if err := r.db.WithContext(ctx).Create(departure).Error; err != nil {
		return fmt.Errorf("failed to create departure: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Departure, error) {
	var departure Departure
	err := r.db.WithContext(ctx).First(&departure, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartureNotFound
		}
		return nil, fmt.Errorf("failed to get departure: %w", err)
	}
	return &departure, nil
}

func (r *repository) GetByTripID(ctx context.Context, tripID uuid.UUID) ([]Departure, error) {
	var departures []Departure
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("start_date ASC").
		Find(&departures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list departures for trip: %w", err)
	}
	return departures, nil
}

func (r *repository) GetUpcoming(ctx context.Context, limit int) ([]Departure, error) {
	var departures []Departure
	err := r.db.WithContext(ctx).
		Where("start_date > NOW()").
		Order("start_date ASC").
		Limit(limit).
		Find(&departures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming departures: %w", err)
	}
	return departures, nil
}

func (r *repository) Update(ctx context.Context, departure *Departure) error {
	if err := r.db.WithContext(ctx).Save(departure).Error; err != nil {
		return fmt.Errorf("failed to update departure: %w", err)
	}
	return nil
}

// Reserve atomically holds seats on a departure. The conditional decrement is
// the only oversell guard: when two requests race for the last spot, exactly
// one UPDATE matches the WHERE clause.
func (r *repository) Reserve(ctx context.Context, id uuid.UUID, seats int) error {
	if seats <= 0 {
		return ErrInvalidSeatCount
	}

	result := r.db.WithContext(ctx).
		Model(&Departure{}).
		Where("id = ? AND spots_left >= ?", id, seats).
		UpdateColumn("spots_left", gorm.Expr("spots_left - ?", seats))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve spots: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing departure from a sold-out one
		var count int64
		if err := r.db.WithContext(ctx).Model(&Departure{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check departure existence: %w", err)
		}
		if count == 0 {
			return ErrDepartureNotFound
		}
		return ErrInsufficientCapacity
	}

	return nil
}

// Release returns seats to a departure, clamped to capacity
func (r *repository) Release(ctx context.Context, id uuid.UUID, seats int) error {
	if seats <= 0 {
		return ErrInvalidSeatCount
	}

	result := r.db.WithContext(ctx).
		Model(&Departure{}).
		Where("id = ?", id).
		UpdateColumn("spots_left", gorm.Expr("LEAST(capacity, spots_left + ?)", seats))
	if result.Error != nil {
		return fmt.Errorf("failed to release spots: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDepartureNotFound
	}

	return nil
}
