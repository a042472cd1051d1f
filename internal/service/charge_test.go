package service

import (
	"testing"
	"time"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	"github.com/faturado/faturado/internal/domain/plan"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/testutil"
	"github.com/faturado/faturado/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ChargeServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ChargeService
	params  ServiceParams
}

func TestChargeService(t *testing.T) {
	suite.Run(t, new(ChargeServiceSuite))
}

func (s *ChargeServiceSuite) SetupTest() {
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
	s.service = NewChargeService(s.params)
}

func (s *ChargeServiceSuite) setupPlan(amount string, periodMonths int) *plan.Plan {
	p := &plan.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:         "Plano Mensal",
		BaseAmount:   decimal.RequireFromString(amount),
		PeriodMonths: periodMonths,
		Active:       true,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	s.NoError(s.params.PlanRepo.Create(s.GetContext(), p))
	return p
}

func (s *ChargeServiceSuite) setupCustomer(p *plan.Plan) *customer.Customer {
	cust := &customer.Customer{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:           "Maria Silva",
		TaxID:          "12345678901",
		WhatsAppPhone:  "+55 21 98765-4321",
		Email:          "maria@example.com",
		ContractStart:  date("2025-01-05"),
		CustomerStatus: types.CustomerStatusActive,
		PlanID:         p.ID,
		BaseModel:      types.GetDefaultBaseModel(),
	}
	s.NoError(s.params.CustomerRepo.Create(s.GetContext(), cust))
	return cust
}

func (s *ChargeServiceSuite) setupCharge(cust *customer.Customer, amount string, dueDate time.Time, status types.ChargeStatus) *charge.Charge {
	base := decimal.RequireFromString(amount)
	c := &charge.Charge{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		CustomerID:       cust.ID,
		BaseAmount:       base,
		PenaltyAmount:    decimal.Zero,
		TotalAmount:      base,
		DueDate:          types.ToDate(dueDate),
		CycleReference:   types.CycleReference(dueDate),
		PaymentReference: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_PAYMENT_REFERENCE),
		ChargeStatus:     status,
		BaseModel:        types.GetDefaultBaseModel(),
	}
	s.NoError(s.params.ChargeRepo.Create(s.GetContext(), c))
	return c
}

func (s *ChargeServiceSuite) TestCreateInitialCharge() {
	p := s.setupPlan("150.00", 1)
	cust := s.setupCustomer(p)

	c, err := s.service.CreateInitialCharge(s.GetContext(), cust, date("2025-01-10"))
	s.NoError(err)
	s.Equal(types.ChargeStatusPending, c.ChargeStatus)
	s.True(c.BaseAmount.Equal(decimal.RequireFromString("150.00")))
	s.True(c.TotalAmount.Equal(c.BaseAmount))
	// Contract started 2025-01-05 on a monthly plan; the first due date is
	// one period later and strictly after the onboarding day.
	s.Equal(date("2025-02-05"), c.DueDate)
	s.Equal("2025-02", c.CycleReference)
	s.NotEmpty(c.PaymentReference)
}

func (s *ChargeServiceSuite) TestAgeOverdueChargesTransitionsAndPenalty() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	c := s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusPending)

	today := date("2025-01-25") // 5 days overdue
	aged, err := s.service.AgeOverdueCharges(s.GetContext(), today)
	s.NoError(err)
	s.Equal(1, aged)

	got, err := s.params.ChargeRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.ChargeStatusOverdue, got.ChargeStatus)
	// penalty = 100 * (2.0 + 0.033*5) / 100 = 2.165 -> 2.17 rounded
	s.True(got.PenaltyAmount.Equal(decimal.RequireFromString("2.17")), "penalty was %s", got.PenaltyAmount)
	s.True(got.TotalAmount.Equal(got.BaseAmount.Add(got.PenaltyAmount)))
}

func (s *ChargeServiceSuite) TestAgeOverdueChargesIdempotentForSameDay() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	c := s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusPending)

	today := date("2025-01-25")
	aged, err := s.service.AgeOverdueCharges(s.GetContext(), today)
	s.NoError(err)
	s.Equal(1, aged)

	first, err := s.params.ChargeRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)

	// Second run on the same day transitions nothing and leaves amounts
	// unchanged.
	aged, err = s.service.AgeOverdueCharges(s.GetContext(), today)
	s.NoError(err)
	s.Equal(0, aged)

	second, err := s.params.ChargeRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.True(first.PenaltyAmount.Equal(second.PenaltyAmount))
	s.True(first.TotalAmount.Equal(second.TotalAmount))
}

func (s *ChargeServiceSuite) TestAgeOverdueRecomputesPenaltyFromBase() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	c := s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusPending)

	_, err := s.service.AgeOverdueCharges(s.GetContext(), date("2025-01-25"))
	s.NoError(err)

	// Later run recomputes from base, it does not accumulate on the
	// previous total.
	_, err = s.service.AgeOverdueCharges(s.GetContext(), date("2025-01-27"))
	s.NoError(err)

	got, err := s.params.ChargeRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	// penalty = 100 * (2.0 + 0.033*7) / 100 = 2.231 -> 2.23
	s.True(got.PenaltyAmount.Equal(decimal.RequireFromString("2.23")), "penalty was %s", got.PenaltyAmount)
}

func (s *ChargeServiceSuite) TestAgeOverdueBlocksCustomerAtThreshold() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusPending)

	_, err := s.service.AgeOverdueCharges(s.GetContext(), date("2025-01-25"))
	s.NoError(err)
	got, err := s.params.CustomerRepo.Get(s.GetContext(), cust.ID)
	s.NoError(err)
	s.Equal(types.CustomerStatusActive, got.CustomerStatus)

	// Threshold is 10 days.
	_, err = s.service.AgeOverdueCharges(s.GetContext(), date("2025-01-30"))
	s.NoError(err)
	got, err = s.params.CustomerRepo.Get(s.GetContext(), cust.ID)
	s.NoError(err)
	s.Equal(types.CustomerStatusInactiveOverdue, got.CustomerStatus)
}

func (s *ChargeServiceSuite) TestMarkChargePaidClearsPenaltyAndOpensNextCycle() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	c := s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusPending)

	_, err := s.service.AgeOverdueCharges(s.GetContext(), date("2025-01-25"))
	s.NoError(err)

	resp, err := s.service.MarkChargePaid(s.GetContext(), c.ID, dto.MarkChargePaidRequest{PaymentDate: "2025-01-25"})
	s.NoError(err)
	s.Equal(types.ChargeStatusPaid, resp.ChargeStatus)
	s.True(resp.PenaltyAmount.IsZero())
	s.True(resp.TotalAmount.Equal(resp.BaseAmount))
	s.NotNil(resp.PaymentDate)
	s.Equal(date("2025-01-25"), *resp.PaymentDate)

	// Paying the latest charge opens the next cycle.
	latest, err := s.params.ChargeRepo.GetLatestByCustomer(s.GetContext(), cust.ID)
	s.NoError(err)
	s.NotEqual(c.ID, latest.ID)
	s.Equal(types.ChargeStatusPending, latest.ChargeStatus)
	s.Equal(date("2025-02-20"), latest.DueDate)
	s.True(latest.DueDate.After(date("2025-01-25")))
}

func (s *ChargeServiceSuite) TestMarkChargePaidTwiceFails() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	c := s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusPending)

	_, err := s.service.MarkChargePaid(s.GetContext(), c.ID, dto.MarkChargePaidRequest{PaymentDate: "2025-01-19"})
	s.NoError(err)

	_, err = s.service.MarkChargePaid(s.GetContext(), c.ID, dto.MarkChargePaidRequest{PaymentDate: "2025-01-20"})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	// The charge is unchanged by the failed attempt.
	got, err := s.params.ChargeRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.ChargeStatusPaid, got.ChargeStatus)
	s.Equal(date("2025-01-19"), *got.PaymentDate)
}

func (s *ChargeServiceSuite) TestMarkPaidBackChargeDoesNotOpenCycle() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	old := s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusOverdue)
	s.setupCharge(cust, "100.00", date("2025-02-20"), types.ChargeStatusPending)

	before, err := s.params.ChargeRepo.List(s.GetContext(), nil)
	s.NoError(err)

	_, err = s.service.MarkChargePaid(s.GetContext(), old.ID, dto.MarkChargePaidRequest{PaymentDate: "2025-02-25"})
	s.NoError(err)

	// Settling a back charge must not create a new cycle.
	after, err := s.params.ChargeRepo.List(s.GetContext(), nil)
	s.NoError(err)
	s.Len(after, len(before))
}

func (s *ChargeServiceSuite) TestMarkPaidManuallyDeactivatedCustomerNoNextCycle() {
	p := s.setupPlan("100.00", 1)
	cust := s.setupCustomer(p)
	c := s.setupCharge(cust, "100.00", date("2025-01-20"), types.ChargeStatusPending)

	cust.CustomerStatus = types.CustomerStatusInactiveManual
	s.NoError(s.params.CustomerRepo.Update(s.GetContext(), cust))

	_, err := s.service.MarkChargePaid(s.GetContext(), c.ID, dto.MarkChargePaidRequest{PaymentDate: "2025-01-19"})
	s.NoError(err)

	charges, err := s.params.ChargeRepo.List(s.GetContext(), &types.ChargeFilter{CustomerID: cust.ID})
	s.NoError(err)
	s.Len(charges, 1)
}

func (s *ChargeServiceSuite) TestGetChargeNotFound() {
	_, err := s.service.GetCharge(s.GetContext(), "chrg_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
