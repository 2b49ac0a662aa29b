package departures

import (
	"errors"
	"net/http"

	"denchetravel/internal/shared/utils/response"

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

// CreateDeparture schedules a new departure for a trip (admin only)
func (ctrl *Controller) CreateDeparture(c *gin.Context) {
	var req CreateDepartureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	departure, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidDeparture) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create departure", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Departure created successfully", departure, nil)
}

// GetDeparture returns a single departure with live availability
func (ctrl *Controller) GetDeparture(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid departure ID", nil, nil)
		return
	}

	departure, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDepartureNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Departure not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch departure", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Departure fetched successfully", departure, nil)
}

// GetUpcomingDepartures returns the next departures across all trips
func (ctrl *Controller) GetUpcomingDepartures(c *gin.Context) {
	departures, err := ctrl.service.GetUpcoming(c.Request.Context(), 5)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch upcoming departures", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Upcoming departures fetched successfully", departures, nil)
}
