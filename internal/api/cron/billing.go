package cron

import (
	"net/http"
	"time"

	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/service"
	"github.com/gin-gonic/gin"
)

// BillingHandler exposes the daily billing routine as a cron endpoint so it
// can be triggered by an external scheduler as well as the built-in one.
type BillingHandler struct {
	routineService service.BillingRoutineService
	logger         *logger.Logger
}

// NewBillingHandler creates a new billing cron handler
func NewBillingHandler(
	routineService service.BillingRoutineService,
	logger *logger.Logger,
) *BillingHandler {
	return &BillingHandler{
		routineService: routineService,
		logger:         logger,
	}
}

// RunDailyRoutine ages overdue charges and dispatches due notices. An
// optional `date` query parameter (YYYY-MM-DD) runs the routine as of that
// day, which is how backfills and tests drive it.
func (h *BillingHandler) RunDailyRoutine(c *gin.Context) {
	h.logger.Infow("starting daily billing routine cron job")

	today := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("date must be in YYYY-MM-DD format").
				Mark(ierr.ErrValidation))
			return
		}
		today = parsed
	}

	summary, err := h.routineService.RunDailyRoutine(c.Request.Context(), today)
	if err != nil {
		h.logger.Errorw("daily billing routine failed",
			"error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed daily billing routine cron job")
	c.JSON(http.StatusOK, summary)
}
