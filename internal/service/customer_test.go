package service

import (
	"testing"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/plan"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/testutil"
	"github.com/faturado/faturado/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
	params  ServiceParams
	plan    *plan.Plan
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		PlanRepo:         stores.PlanRepo,
		CustomerRepo:     stores.CustomerRepo,
		ChargeRepo:       stores.ChargeRepo,
		NotificationRepo: stores.NotificationRepo,
		Dispatcher:       s.GetDispatcher(),
	}
	s.service = NewCustomerService(s.params)

	s.plan = &plan.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:         "Plano Mensal",
		BaseAmount:   decimal.RequireFromString("150.00"),
		PeriodMonths: 1,
		Active:       true,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	s.NoError(s.params.PlanRepo.Create(s.GetContext(), s.plan))
}

func (s *CustomerServiceSuite) createRequest() dto.CreateCustomerRequest {
	return dto.CreateCustomerRequest{
		Name:          "Maria Silva",
		TaxID:         "123.456.789-01",
		WhatsAppPhone: "+55 21 98765-4321",
		Email:         "maria@example.com",
		ContractStart: "2025-01-05",
		PlanID:        s.plan.ID,
	}
}

func (s *CustomerServiceSuite) TestCreateCustomerCreatesExactlyOneCharge() {
	resp, err := s.service.CreateCustomer(s.GetContext(), s.createRequest())
	s.NoError(err)
	s.Equal(types.CustomerStatusActive, resp.CustomerStatus)
	// Tax id is stored normalized to digits.
	s.Equal("12345678901", resp.TaxID)
	s.NotNil(resp.LatestCharge)
	s.Equal(types.ChargeStatusPending, resp.LatestCharge.ChargeStatus)
	s.True(resp.LatestCharge.BaseAmount.Equal(s.plan.BaseAmount))

	charges, err := s.params.ChargeRepo.List(s.GetContext(), &types.ChargeFilter{CustomerID: resp.ID})
	s.NoError(err)
	s.Len(charges, 1)
}

func (s *CustomerServiceSuite) TestCreateCustomerDuplicateTaxID() {
	_, err := s.service.CreateCustomer(s.GetContext(), s.createRequest())
	s.NoError(err)

	// Same tax id with different punctuation is still a duplicate.
	req := s.createRequest()
	req.TaxID = "12345678901"
	req.Email = "other@example.com"
	req.WhatsAppPhone = "+55 11 91111-2222"
	_, err = s.service.CreateCustomer(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *CustomerServiceSuite) TestCreateCustomerDuplicateEmail() {
	_, err := s.service.CreateCustomer(s.GetContext(), s.createRequest())
	s.NoError(err)

	req := s.createRequest()
	req.TaxID = "987.654.321-00"
	req.WhatsAppPhone = "+55 11 91111-2222"
	_, err = s.service.CreateCustomer(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *CustomerServiceSuite) TestCreateCustomerDuplicatePhone() {
	_, err := s.service.CreateCustomer(s.GetContext(), s.createRequest())
	s.NoError(err)

	req := s.createRequest()
	req.TaxID = "987.654.321-00"
	req.Email = "other@example.com"
	req.WhatsAppPhone = "5521987654321" // same digits, different formatting
	_, err = s.service.CreateCustomer(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *CustomerServiceSuite) TestCreateCustomerRequiresReachableChannel() {
	req := s.createRequest()
	req.Email = ""
	req.WhatsAppPhone = ""
	_, err := s.service.CreateCustomer(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestCreateCustomerRejectsInactivePlan() {
	s.plan.Active = false
	s.NoError(s.params.PlanRepo.Update(s.GetContext(), s.plan))

	_, err := s.service.CreateCustomer(s.GetContext(), s.createRequest())
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *CustomerServiceSuite) TestCreateCustomerBadContractStart() {
	req := s.createRequest()
	req.ContractStart = "05/01/2025"
	_, err := s.service.CreateCustomer(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestDeactivateCustomer() {
	resp, err := s.service.CreateCustomer(s.GetContext(), s.createRequest())
	s.NoError(err)

	got, err := s.service.DeactivateCustomer(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.CustomerStatusInactiveManual, got.CustomerStatus)

	// Deactivating again is a no-op.
	got, err = s.service.DeactivateCustomer(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.CustomerStatusInactiveManual, got.CustomerStatus)
}

func (s *CustomerServiceSuite) TestGetCustomerWithLatestCharge() {
	created, err := s.service.CreateCustomer(s.GetContext(), s.createRequest())
	s.NoError(err)

	got, err := s.service.GetCustomer(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, got.ID)
	s.NotNil(got.LatestCharge)
	s.Equal(created.LatestCharge.ID, got.LatestCharge.ID)
}
