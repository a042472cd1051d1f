package v1

import (
	"io"
	"net/http"

	"github.com/faturado/faturado/internal/api/dto"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/service"
	"github.com/faturado/faturado/internal/types"
	"github.com/gin-gonic/gin"
)

type ChargeHandler struct {
	service service.ChargeService
	log     *logger.Logger
}

func NewChargeHandler(
	service service.ChargeService,
	log *logger.Logger,
) *ChargeHandler {
	return &ChargeHandler{
		service: service,
		log:     log,
	}
}

// GetCharge returns a charge by ID.
func (h *ChargeHandler) GetCharge(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("charge ID is required").
			WithHint("Charge ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetCharge(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCharges lists charges with optional filtering.
func (h *ChargeHandler) GetCharges(c *gin.Context) {
	var filter types.ChargeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListCharges(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkChargePaid settles a charge and opens the next billing cycle.
func (h *ChargeHandler) MarkChargePaid(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("charge ID is required").
			WithHint("Charge ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.MarkChargePaidRequest
	// An absent body is valid and means the charge was paid today.
	if err := c.ShouldBindJSON(&req); err != nil && !ierr.Is(err, io.EOF) {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.MarkChargePaid(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
