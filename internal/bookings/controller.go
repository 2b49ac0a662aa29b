package bookings

import (
	"errors"
	"net/http"

	"denchetravel/internal/departures"
	"denchetravel/internal/shared/utils/response"
	"denchetravel/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// CreateBooking reserves seats and starts the payment flow
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, departures.ErrDepartureNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Departure not found", nil, nil)
		case errors.Is(err, departures.ErrInsufficientCapacity):
			response.RespondJSON(c, "error", http.StatusConflict, "Not enough spots available", nil, nil)
		case errors.Is(err, ErrBookingClosed):
			response.RespondJSON(c, "error", http.StatusConflict, "Booking deadline has passed", nil, nil)
		case errors.Is(err, ErrPaymentSessionFailed):
			response.RespondJSON(c, "error", http.StatusBadGateway, "Payment session could not be created", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", result, nil)
}

// GetBookings returns the caller's bookings, or every booking for admins
func (ctrl *Controller) GetBookings(c *gin.Context) {
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	var (
		bookings []Booking
		err      error
	)
	if ctrl.isAdmin(c) {
		bookings, err = ctrl.service.GetAllBookings(c.Request.Context())
	} else {
		bookings, err = ctrl.service.GetUserBookings(c.Request.Context(), userID)
	}
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch bookings", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings fetched successfully", bookings, nil)
}

// GetBooking returns a single booking owned by the caller
func (ctrl *Controller) GetBooking(c *gin.Context) {
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, userID, ctrl.isAdmin(c))
	if err != nil {
		ctrl.respondBookingError(c, err, "Failed to fetch booking")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking fetched successfully", booking, nil)
}

// CancelBooking handles a cancellation request
func (ctrl *Controller) CancelBooking(c *gin.Context) {
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	result, err := ctrl.service.CancelBooking(c.Request.Context(), bookingID, userID, ctrl.isAdmin(c))
	if err != nil {
		ctrl.respondBookingError(c, err, "Failed to cancel booking")
		return
	}

	message := "Booking cancelled successfully"
	if result.RefundInitiated {
		message = "Refund initiated; booking will be updated once the refund settles"
	}
	response.RespondJSON(c, "success", http.StatusOK, message, result, nil)
}

// PayBalance opens a checkout session for the outstanding balance
func (ctrl *Controller) PayBalance(c *gin.Context) {
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	result, err := ctrl.service.PayBalance(c.Request.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoBalanceDue):
			response.RespondJSON(c, "error", http.StatusConflict, "Booking has no outstanding balance", nil, nil)
		case errors.Is(err, ErrPaymentSessionFailed):
			response.RespondJSON(c, "error", http.StatusBadGateway, "Payment session could not be created", nil, nil)
		default:
			ctrl.respondBookingError(c, err, "Failed to start balance payment")
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Balance checkout session created", result, nil)
}

func (ctrl *Controller) respondBookingError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrNotBookingOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, "You do not have access to this booking", nil, nil)
	case errors.Is(err, ErrInvalidTransition):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}

func (ctrl *Controller) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	idStr, ok := raw.(string)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid user context", nil, nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid user ID in token", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

func (ctrl *Controller) isAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	if !exists {
		return false
	}
	roleStr, ok := role.(string)
	return ok && roleStr == string(users.RoleAdmin)
}
