package service

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	"github.com/faturado/faturado/internal/domain/plan"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ChargeService owns the charge lifecycle: creation per billing cycle,
// payment marking (with next-cycle rollover), and overdue aging with
// customer escalation.
type ChargeService interface {
	GetCharge(ctx context.Context, id string) (*dto.ChargeResponse, error)
	ListCharges(ctx context.Context, filter *types.ChargeFilter) (*dto.ListChargesResponse, error)
	MarkChargePaid(ctx context.Context, id string, req dto.MarkChargePaidRequest) (*dto.ChargeResponse, error)

	// CreateInitialCharge creates the first charge for a newly onboarded
	// customer from the customer's plan.
	CreateInitialCharge(ctx context.Context, cust *customer.Customer, today time.Time) (*charge.Charge, error)

	// AgeOverdueCharges reclassifies past-due PENDING charges as OVERDUE,
	// recomputes penalties, and blocks customers whose overdue age crossed
	// the configured threshold. Returns the number of charges that
	// transitioned on this run.
	AgeOverdueCharges(ctx context.Context, today time.Time) (int, error)
}

type chargeService struct {
	ServiceParams
}

func NewChargeService(params ServiceParams) ChargeService {
	return &chargeService{
		ServiceParams: params,
	}
}

func (s *chargeService) penaltyPolicy() charge.PenaltyPolicy {
	return charge.PenaltyPolicy{
		FinePercent:          decimal.NewFromFloat(s.Config.Billing.FinePercent),
		DailyInterestPercent: decimal.NewFromFloat(s.Config.Billing.DailyInterestPercent),
	}
}

func (s *chargeService) GetCharge(ctx context.Context, id string) (*dto.ChargeResponse, error) {
	if id == "" {
		return nil, ierr.NewError("charge ID is required").
			WithHint("Charge ID is required").
			Mark(ierr.ErrValidation)
	}

	c, err := s.ChargeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ChargeResponse{Charge: c}, nil
}

func (s *chargeService) ListCharges(ctx context.Context, filter *types.ChargeFilter) (*dto.ListChargesResponse, error) {
	if filter == nil {
		filter = types.NewChargeFilter()
	}

	charges, err := s.ChargeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(charges, func(c *charge.Charge, _ int) *dto.ChargeResponse {
		return &dto.ChargeResponse{Charge: c}
	})
	return &dto.ListChargesResponse{Items: items, Total: len(items)}, nil
}

func (s *chargeService) MarkChargePaid(ctx context.Context, id string, req dto.MarkChargePaidRequest) (*dto.ChargeResponse, error) {
	paymentDate, err := req.ResolvePaymentDate()
	if err != nil {
		return nil, err
	}

	c, err := s.ChargeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasLatest, err := s.isLatestCharge(ctx, c)
	if err != nil {
		return nil, err
	}

	if err := c.MarkPaid(paymentDate); err != nil {
		return nil, err
	}
	if err := s.ChargeRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("charge marked as paid",
		"charge_id", c.ID,
		"customer_id", c.CustomerID,
		"payment_date", paymentDate)

	// Roll the customer over to the next billing cycle. Only the active
	// (latest) charge opens a new cycle; back payments do not.
	if wasLatest {
		if err := s.createNextCycleCharge(ctx, c, paymentDate); err != nil {
			s.Logger.Errorw("failed to create next cycle charge",
				"charge_id", c.ID,
				"customer_id", c.CustomerID,
				"error", err)
			return nil, err
		}
	}

	return &dto.ChargeResponse{Charge: c}, nil
}

func (s *chargeService) isLatestCharge(ctx context.Context, c *charge.Charge) (bool, error) {
	latest, err := s.ChargeRepo.GetLatestByCustomer(ctx, c.CustomerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return latest.ID == c.ID, nil
}

func (s *chargeService) createNextCycleCharge(ctx context.Context, paid *charge.Charge, today time.Time) error {
	cust, err := s.CustomerRepo.Get(ctx, paid.CustomerID)
	if err != nil {
		return err
	}
	if cust.CustomerStatus == types.CustomerStatusInactiveManual {
		s.Logger.Infow("customer manually deactivated, not opening next cycle",
			"customer_id", cust.ID)
		return nil
	}

	p, err := s.PlanRepo.Get(ctx, cust.PlanID)
	if err != nil {
		return err
	}

	dueDate := types.NextDueDate(paid.DueDate, p.PeriodMonths, today)
	next := newCycleCharge(cust, p, dueDate)
	return s.ChargeRepo.Create(ctx, next)
}

func (s *chargeService) CreateInitialCharge(ctx context.Context, cust *customer.Customer, today time.Time) (*charge.Charge, error) {
	if cust.PlanID == "" {
		return nil, ierr.NewError("customer has no plan").
			WithHint("Customer must have a plan to be billed").
			Mark(ierr.ErrInvalidOperation)
	}

	p, err := s.PlanRepo.Get(ctx, cust.PlanID)
	if err != nil {
		return nil, err
	}

	dueDate := types.NextDueDate(cust.ContractStart, p.PeriodMonths, today)
	c := newCycleCharge(cust, p, dueDate)
	if err := s.ChargeRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created initial charge",
		"charge_id", c.ID,
		"customer_id", cust.ID,
		"due_date", c.DueDate,
		"cycle", c.CycleReference)

	return c, nil
}

func newCycleCharge(cust *customer.Customer, p *plan.Plan, dueDate time.Time) *charge.Charge {
	return &charge.Charge{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		CustomerID:       cust.ID,
		BaseAmount:       p.BaseAmount,
		PenaltyAmount:    decimal.Zero,
		TotalAmount:      p.BaseAmount,
		DueDate:          types.ToDate(dueDate),
		CycleReference:   types.CycleReference(dueDate),
		PaymentReference: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_PAYMENT_REFERENCE),
		ChargeStatus:     types.ChargeStatusPending,
		BaseModel:        types.GetDefaultBaseModel(),
	}
}

func (s *chargeService) AgeOverdueCharges(ctx context.Context, today time.Time) (int, error) {
	filter := types.NewChargeFilter().
		WithStatuses(types.ChargeStatusPending, types.ChargeStatusOverdue)

	charges, err := s.ChargeRepo.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	policy := s.penaltyPolicy()
	aged := 0
	for _, c := range charges {
		before := c.PenaltyAmount
		transitioned := c.AgeOverdue(today, policy)
		if transitioned || !before.Equal(c.PenaltyAmount) {
			if err := s.ChargeRepo.Update(ctx, c); err != nil {
				s.Logger.Errorw("failed to persist aged charge",
					"charge_id", c.ID,
					"error", err)
				continue
			}
		}
		if transitioned {
			aged++
		}

		if err := s.escalateCustomerIfBlocked(ctx, c, today); err != nil {
			s.Logger.Errorw("failed to escalate customer",
				"charge_id", c.ID,
				"customer_id", c.CustomerID,
				"error", err)
		}
	}

	return aged, nil
}

// escalateCustomerIfBlocked moves the owning customer to INACTIVE_OVERDUE
// once the charge's overdue age crosses the block threshold. Fires only on
// the crossing; an already blocked customer is left untouched.
func (s *chargeService) escalateCustomerIfBlocked(ctx context.Context, c *charge.Charge, today time.Time) error {
	if !c.IsOverdue() || c.DaysOverdue(today) < s.Config.Billing.BlockThresholdDays {
		return nil
	}

	cust, err := s.CustomerRepo.Get(ctx, c.CustomerID)
	if err != nil {
		return err
	}
	if cust.CustomerStatus != types.CustomerStatusActive {
		return nil
	}

	cust.CustomerStatus = types.CustomerStatusInactiveOverdue
	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return err
	}

	s.Logger.Warnw("customer blocked for overdue charge",
		"customer_id", cust.ID,
		"charge_id", c.ID,
		"days_overdue", c.DaysOverdue(today))
	return nil
}
