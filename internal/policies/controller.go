package policies

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

// CreatePolicy handles refund policy creation (admin only)
func (ctrl *Controller) CreatePolicy(c *gin.Context) {
	var req CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	policy, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidRules) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create refund policy", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Refund policy created successfully", policy, nil)
}

// GetPolicies returns all refund policies
func (ctrl *Controller) GetPolicies(c *gin.Context) {
	policies, err := ctrl.service.GetAll(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch refund policies", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund policies fetched successfully", policies, nil)
}

// GetPolicy returns a single refund policy by ID
func (ctrl *Controller) GetPolicy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	policy, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Refund policy not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch refund policy", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund policy fetched successfully", policy, nil)
}

// UpdatePolicy updates a refund policy (admin only)
func (ctrl *Controller) UpdatePolicy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	policy, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPolicyNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Refund policy not found", nil, nil)
		case errors.Is(err, ErrInvalidRules):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to update refund policy", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund policy updated successfully", policy, nil)
}

// DeletePolicy removes a refund policy (admin only)
func (ctrl *Controller) DeletePolicy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Refund policy not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to delete refund policy", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund policy deleted successfully", nil, nil)
}
