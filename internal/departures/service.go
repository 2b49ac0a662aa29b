package departures

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidDeparture = errors.New("departure dates, capacity and pricing must be consistent")

type Service interface {
	Create(ctx context.Context, req CreateDepartureRequest) (*Departure, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Departure, error)
	GetByTripID(ctx context.Context, tripID uuid.UUID) ([]Departure, error)
	GetUpcoming(ctx context.Context, limit int) ([]Departure, error)
	Reserve(ctx context.Context, id uuid.UUID, seats int) error
	Release(ctx context.Context, id uuid.UUID, seats int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateDepartureRequest) (*Departure, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDeparture
	}
	if req.Capacity <= 0 || req.BasePriceCents <= 0 || req.DepositCents < 0 {
		return nil, ErrInvalidDeparture
	}
	if req.DepositCents > req.BasePriceCents {
		return nil, ErrInvalidDeparture
	}

	bookingDeadline := req.BookingDeadline
	if bookingDeadline.IsZero() {
		bookingDeadline = req.StartDate.Add(-24 * time.Hour)
	}

	departure := &Departure{
		TripID:                    req.TripID,
		StartDate:                 req.StartDate,
		EndDate:                   req.EndDate,
		Capacity:                  req.Capacity,
		SpotsLeft:                 req.Capacity,
		BasePriceCents:            req.BasePriceCents,
		Currency:                  req.Currency,
		DepositCents:              req.DepositCents,
		AllowFreeRSVP:             req.AllowFreeRSVP,
		BookingDeadline:           bookingDeadline,
		RefundPolicyID:            req.RefundPolicyID,
		BalanceDueDaysBeforeStart: req.BalanceDueDaysBeforeStart,
	}
	if departure.Currency == "" {
		departure.Currency = "EUR"
	}
	if departure.BalanceDueDaysBeforeStart == 0 {
		departure.BalanceDueDaysBeforeStart = 14
	}

	if err := s.repo.Create(ctx, departure); err != nil {
		return nil, err
	}
	return departure, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Departure, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByTripID(ctx context.Context, tripID uuid.UUID) ([]Departure, error) {
	return s.repo.GetByTripID(ctx, tripID)
}

func (s *service) GetUpcoming(ctx context.Context, limit int) ([]Departure, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.GetUpcoming(ctx, limit)
}

func (s *service) Reserve(ctx context.Context, id uuid.UUID, seats int) error {
	return s.repo.Reserve(ctx, id, seats)
}

func (s *service) Release(ctx context.Context, id uuid.UUID, seats int) error {
	return s.repo.Release(ctx, id, seats)
}
