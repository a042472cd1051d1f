package dto

import (
	"time"

	"github.com/faturado/faturado/internal/domain/customer"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/faturado/faturado/internal/validator"
)

type CreateCustomerRequest struct {
	Name          string `json:"name" validate:"required"`
	TaxID         string `json:"tax_id" validate:"required"`
	WhatsAppPhone string `json:"whatsapp_phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	ContractStart string `json:"contract_start" validate:"required"`
	PlanID        string `json:"plan_id" validate:"required"`
}

func (r *CreateCustomerRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if _, err := r.contractStart(); err != nil {
		return ierr.WithError(err).
			WithHint("Contract start must be a date in YYYY-MM-DD format").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateCustomerRequest) contractStart() (time.Time, error) {
	return time.Parse(time.DateOnly, r.ContractStart)
}

func (r *CreateCustomerRequest) ToCustomer() *customer.Customer {
	start, _ := r.contractStart()
	return &customer.Customer{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:           r.Name,
		TaxID:          customer.NormalizeDigits(r.TaxID),
		WhatsAppPhone:  r.WhatsAppPhone,
		Email:          r.Email,
		ContractStart:  types.ToDate(start),
		CustomerStatus: types.CustomerStatusActive,
		PlanID:         r.PlanID,
		BaseModel:      types.GetDefaultBaseModel(),
	}
}

type CustomerResponse struct {
	*customer.Customer
	LatestCharge *ChargeResponse `json:"latest_charge,omitempty"`
}

type ListCustomersResponse struct {
	Items []*CustomerResponse `json:"items"`
	Total int                 `json:"total"`
}
