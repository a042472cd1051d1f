package v1

import (
	"net/http"

	"github.com/faturado/faturado/internal/api/dto"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/service"
	"github.com/faturado/faturado/internal/types"
	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	service service.CustomerService
	log     *logger.Logger
}

func NewCustomerHandler(
	service service.CustomerService,
	log *logger.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		log:     log,
	}
}

// CreateCustomer registers a customer and opens their first charge.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetCustomer returns a customer by ID with their latest charge.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("customer ID is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCustomers lists customers with optional filtering.
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var filter types.CustomerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListCustomers(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeactivateCustomer manually deactivates a customer.
func (h *CustomerHandler) DeactivateCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("customer ID is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.DeactivateCustomer(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
