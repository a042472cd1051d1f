package v1

import (
	"net/http"

	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/service"
	"github.com/faturado/faturado/internal/types"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(
	service service.NotificationService,
	log *logger.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

// GetNotification returns a notification ledger row by ID.
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("notification ID is required").
			WithHint("Notification ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetNotification(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetNotifications lists notification ledger rows.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	var filter types.NotificationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListNotifications(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
