package service

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/customer"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/samber/lo"
)

// CustomerService manages customer onboarding and status.
type CustomerService interface {
	// CreateCustomer persists the customer and, as a side effect, creates
	// exactly one initial charge from the customer's plan.
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error)
	// DeactivateCustomer is the administrator-driven transition to
	// INACTIVE_MANUAL.
	DeactivateCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust := req.ToCustomer()
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, cust); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, cust.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ierr.NewError("plan is not active").
			WithHintf("Plan %s does not accept new customers", p.Name).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}

	chargeService := NewChargeService(s.ServiceParams)
	initial, err := chargeService.CreateInitialCharge(ctx, cust, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created customer with initial charge",
		"customer_id", cust.ID,
		"charge_id", initial.ID)

	return &dto.CustomerResponse{
		Customer:     cust,
		LatestCharge: &dto.ChargeResponse{Charge: initial},
	}, nil
}

// checkUniqueness rejects duplicate tax ids, emails and phones before
// anything is persisted.
func (s *customerService) checkUniqueness(ctx context.Context, cust *customer.Customer) error {
	existing, err := s.CustomerRepo.GetByTaxID(ctx, cust.TaxID)
	if err != nil && !ierr.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return ierr.NewError("tax id already registered").
			WithHint("A customer with this tax id already exists").
			WithReportableDetails(map[string]any{"tax_id": cust.TaxID}).
			Mark(ierr.ErrAlreadyExists)
	}

	if cust.HasEmail() {
		matches, err := s.CustomerRepo.List(ctx, &types.CustomerFilter{Email: cust.Email})
		if err != nil {
			return err
		}
		if len(matches) > 0 {
			return ierr.NewError("email already registered").
				WithHint("A customer with this email already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	if cust.HasWhatsApp() {
		matches, err := s.CustomerRepo.List(ctx, &types.CustomerFilter{Phone: cust.NormalizedPhone()})
		if err != nil {
			return err
		}
		if len(matches) > 0 {
			return ierr.NewError("whatsapp phone already registered").
				WithHint("A customer with this phone already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if id == "" {
		return nil, ierr.NewError("customer ID is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.CustomerResponse{Customer: cust}
	latest, err := s.ChargeRepo.GetLatestByCustomer(ctx, id)
	if err == nil {
		resp.LatestCharge = &dto.ChargeResponse{Charge: latest}
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}
	return resp, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error) {
	if filter == nil {
		filter = &types.CustomerFilter{}
	}

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
		return &dto.CustomerResponse{Customer: c}
	})
	return &dto.ListCustomersResponse{Items: items, Total: len(items)}, nil
}

func (s *customerService) DeactivateCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if cust.CustomerStatus == types.CustomerStatusInactiveManual {
		return &dto.CustomerResponse{Customer: cust}, nil
	}

	cust.CustomerStatus = types.CustomerStatusInactiveManual
	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	s.Logger.Infow("customer manually deactivated", "customer_id", cust.ID)
	return &dto.CustomerResponse{Customer: cust}, nil
}
