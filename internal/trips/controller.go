package trips

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

// GetTrips returns the active trip catalog with upcoming departures
func (ctrl *Controller) GetTrips(c *gin.Context) {
	if c.Query("featured") == "true" {
		trips, err := ctrl.service.GetFeatured(c.Request.Context())
		if err != nil {
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch trips", nil, err.Error())
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Trips fetched successfully", trips, nil)
		return
	}

	trips, err := ctrl.service.GetActive(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch trips", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trips fetched successfully", trips, nil)
}

// GetTripBySlug returns a single trip detail page payload
func (ctrl *Controller) GetTripBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Trip slug is required", nil, nil)
		return
	}

	trip, err := ctrl.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Trip not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch trip", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip fetched successfully", trip, nil)
}

// CreateTrip adds a trip to the catalog (admin only)
func (ctrl *Controller) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	trip, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.RespondJSON(c, "error", http.StatusConflict, "Trip slug already in use", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create trip", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Trip created successfully", trip, nil)
}

// UpdateTrip updates catalog content (admin only)
func (ctrl *Controller) UpdateTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid trip ID", nil, nil)
		return
	}

	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	trip, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Trip not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to update trip", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip updated successfully", trip, nil)
}

// DeleteTrip removes a trip from the catalog (admin only)
func (ctrl *Controller) DeleteTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid trip ID", nil, nil)
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Trip not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to delete trip", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip deleted successfully", nil, nil)
}
