package bookings

import "github.com/google/uuid"

// CreateBookingRequest represents the storefront booking request
type CreateBookingRequest struct {
	DepartureID uuid.UUID `json:"departure_id" validate:"required"`
	Seats       int       `json:"seats" validate:"required,min=1,max=20"`
}
