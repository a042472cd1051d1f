package v1

import (
	"net/http"

	"github.com/faturado/faturado/internal/api/dto"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/service"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(
	service service.PlanService,
	log *logger.Logger,
) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log,
	}
}

// CreatePlan creates a billing plan.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPlan returns a plan by ID.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("plan ID is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPlans lists plans.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	resp, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdatePlan updates a plan's mutable fields.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("plan ID is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
