package dto

import (
	"github.com/faturado/faturado/internal/domain/plan"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/faturado/faturado/internal/validator"
	"github.com/shopspring/decimal"
)

type CreatePlanRequest struct {
	Name         string `json:"name" validate:"required"`
	BaseAmount   string `json:"base_amount" validate:"required"`
	PeriodMonths int    `json:"period_months" validate:"required,min=1"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(r.BaseAmount)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Base amount must be a valid decimal number").
			Mark(ierr.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("base amount must be greater than zero").
			WithHint("Please provide a positive base amount").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreatePlanRequest) ToPlan() *plan.Plan {
	amount, _ := decimal.NewFromString(r.BaseAmount)
	return &plan.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:         r.Name,
		BaseAmount:   amount,
		PeriodMonths: r.PeriodMonths,
		Active:       true,
		BaseModel:    types.GetDefaultBaseModel(),
	}
}

type UpdatePlanRequest struct {
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type PlanResponse struct {
	*plan.Plan
}

type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
	Total int             `json:"total"`
}
