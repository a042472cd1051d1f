package dto

import (
	"time"

	"github.com/faturado/faturado/internal/domain/charge"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
)

type MarkChargePaidRequest struct {
	// PaymentDate in YYYY-MM-DD form; defaults to today when omitted.
	PaymentDate string `json:"payment_date"`
}

func (r *MarkChargePaidRequest) ResolvePaymentDate() (time.Time, error) {
	if r.PaymentDate == "" {
		return types.ToDate(time.Now().UTC()), nil
	}
	parsed, err := time.Parse(time.DateOnly, r.PaymentDate)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Payment date must be in YYYY-MM-DD format").
			Mark(ierr.ErrValidation)
	}
	return types.ToDate(parsed), nil
}

type ChargeResponse struct {
	*charge.Charge
}

type ListChargesResponse struct {
	Items []*ChargeResponse `json:"items"`
	Total int               `json:"total"`
}
