package analytics

import (
	"context"

	"denchetravel/internal/departures"
)

// BookingCounter exposes the booking totals the dashboard needs
type BookingCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

// RevenueSource exposes settled ledger revenue
type RevenueSource interface {
	SumSettledRevenue(ctx context.Context) (int64, error)
}

// DepartureSource exposes upcoming departures
type DepartureSource interface {
	GetUpcoming(ctx context.Context, limit int) ([]departures.Departure, error)
}

// Dashboard is the admin console summary payload
type Dashboard struct {
	TotalBookings      int64                  `json:"total_bookings"`
	TotalRevenueCents  int64                  `json:"total_revenue_cents"`
	UpcomingDepartures []departures.Departure `json:"upcoming_departures"`
}

type Service interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	bookings   BookingCounter
	revenue    RevenueSource
	departures DepartureSource
}

func NewService(bookings BookingCounter, revenue RevenueSource, departureSource DepartureSource) Service {
	return &service{
		bookings:   bookings,
		revenue:    revenue,
		departures: departureSource,
	}
}

// GetDashboard aggregates the admin overview. Revenue is the sum of
// succeeded non-refund ledger entries, so it reflects money actually
// captured, not money promised.
func (s *service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	totalBookings, err := s.bookings.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	totalRevenue, err := s.revenue.SumSettledRevenue(ctx)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.departures.GetUpcoming(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalBookings:      totalBookings,
		TotalRevenueCents:  totalRevenue,
		UpcomingDepartures: upcoming,
	}, nil
}
