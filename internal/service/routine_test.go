package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	"github.com/faturado/faturado/internal/domain/plan"
	"github.com/faturado/faturado/internal/testutil"
	"github.com/faturado/faturado/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BillingRoutineSuite struct {
	testutil.BaseServiceTestSuite
	service BillingRoutineService
	params  ServiceParams
}

func TestBillingRoutine(t *testing.T) {
	suite.Run(t, new(BillingRoutineSuite))
}

func (s *BillingRoutineSuite) SetupTest() {
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
	s.service = NewBillingRoutineService(s.params)
}

func (s *BillingRoutineSuite) setupBilledCustomer(email, phone string, dueDate time.Time, status types.ChargeStatus) (*customer.Customer, *charge.Charge) {
	p := &plan.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:         "Plano Mensal",
		BaseAmount:   decimal.RequireFromString("150.00"),
		PeriodMonths: 1,
		Active:       true,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	s.NoError(s.params.PlanRepo.Create(s.GetContext(), p))

	cust := &customer.Customer{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:           "Maria Silva",
		TaxID:          types.GenerateUUID(),
		WhatsAppPhone:  phone,
		Email:          email,
		ContractStart:  date("2024-12-20"),
		CustomerStatus: types.CustomerStatusActive,
		PlanID:         p.ID,
		BaseModel:      types.GetDefaultBaseModel(),
	}
	s.NoError(s.params.CustomerRepo.Create(s.GetContext(), cust))

	base := decimal.RequireFromString("150.00")
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
	return cust, c
}

func (s *BillingRoutineSuite) listNotifications() []*ListedNotification {
	items, err := s.params.NotificationRepo.List(s.GetContext(), nil)
	s.NoError(err)
	out := make([]*ListedNotification, len(items))
	for i, n := range items {
		out[i] = &ListedNotification{
			RuleType:   n.RuleType,
			Channel:    n.Channel,
			SendStatus: n.SendStatus,
			Reason:     n.FailureReason,
		}
	}
	return out
}

// ListedNotification is a compact projection for assertions.
type ListedNotification struct {
	RuleType   string
	Channel    types.Channel
	SendStatus types.DeliveryStatus
	Reason     string
}

func (s *BillingRoutineSuite) TestReminderGoesOutOnBothChannels() {
	s.setupBilledCustomer("maria@example.com", "5521987654321", date("2025-01-20"), types.ChargeStatusPending)

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Equal(0, summary.ChargesAged)
	s.Equal(1, summary.Eligible)
	s.Equal(2, summary.Sent)
	s.Equal(0, summary.Failed)
	s.Equal(0, summary.Skipped)

	notifications := s.listNotifications()
	s.Len(notifications, 2)
	for _, n := range notifications {
		s.Equal("Lembrete (D-3)", n.RuleType)
		s.Equal(types.DeliveryStatusSent, n.SendStatus)
	}

	s.Len(s.GetEmailSender().Messages(), 1)
	s.Len(s.GetWhatsAppSender().Messages(), 1)
}

func (s *BillingRoutineSuite) TestSameDayRerunSendsNothing() {
	s.setupBilledCustomer("maria@example.com", "5521987654321", date("2025-01-20"), types.ChargeStatusPending)

	_, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Len(s.listNotifications(), 2)

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Equal(1, summary.Eligible)
	s.Equal(0, summary.Sent)
	s.Equal(2, summary.Skipped)

	// No new ledger rows and no new deliveries.
	s.Len(s.listNotifications(), 2)
	s.Len(s.GetEmailSender().Messages(), 1)
	s.Len(s.GetWhatsAppSender().Messages(), 1)
}

func (s *BillingRoutineSuite) TestKillSwitchLeavesNoLedgerTrace() {
	s.setupBilledCustomer("maria@example.com", "5521987654321", date("2025-01-20"), types.ChargeStatusPending)
	s.GetWhatsAppSender().SetEnabled(false)

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Equal(1, summary.Sent)
	s.Equal(1, summary.Skipped)

	notifications := s.listNotifications()
	s.Len(notifications, 1)
	s.Equal(types.ChannelEmail, notifications[0].Channel)

	// Re-enabling the channel lets the same notice go out on a later run
	// of the same day.
	s.GetWhatsAppSender().SetEnabled(true)
	summary, err = s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Equal(1, summary.Sent)
	s.Equal(1, summary.Skipped) // email deduped

	notifications = s.listNotifications()
	s.Len(notifications, 2)
}

func (s *BillingRoutineSuite) TestCustomerWithoutEmailOnlyGetsWhatsApp() {
	s.setupBilledCustomer("", "5521987654321", date("2025-01-20"), types.ChargeStatusPending)

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Equal(1, summary.Sent)
	s.Equal(0, summary.Skipped)
	s.Equal(0, summary.Failed)

	notifications := s.listNotifications()
	s.Len(notifications, 1)
	s.Equal(types.ChannelWhatsApp, notifications[0].Channel)
	s.Empty(s.GetEmailSender().Messages())
}

func (s *BillingRoutineSuite) TestFailedSendIsRecordedWithReason() {
	s.setupBilledCustomer("maria@example.com", "", date("2025-01-20"), types.ChargeStatusPending)
	s.GetEmailSender().Err = errors.New("smtp unreachable")

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Equal(0, summary.Sent)
	s.Equal(1, summary.Failed)

	notifications := s.listNotifications()
	s.Len(notifications, 1)
	s.Equal(types.DeliveryStatusFailed, notifications[0].SendStatus)
	s.Contains(notifications[0].Reason, "smtp unreachable")
}

func (s *BillingRoutineSuite) TestRoutineAgesChargeAndSendsFirstOverdueNotice() {
	_, c := s.setupBilledCustomer("maria@example.com", "", date("2025-01-20"), types.ChargeStatusPending)

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-21"))
	s.NoError(err)
	s.Equal(1, summary.ChargesAged)
	s.Equal(1, summary.Eligible)
	s.Equal(1, summary.Sent)

	got, err := s.params.ChargeRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.ChargeStatusOverdue, got.ChargeStatus)

	notifications := s.listNotifications()
	s.Len(notifications, 1)
	s.Equal("Atraso (D+1)", notifications[0].RuleType)
}

func (s *BillingRoutineSuite) TestOverlappingRunsDoNotDoubleSend() {
	s.setupBilledCustomer("maria@example.com", "", date("2025-01-20"), types.ChargeStatusPending)
	// A slow transport widens the window between the dedup lookup and the
	// delivery, which is exactly where a double-send would sneak in.
	s.GetEmailSender().Delay = 100 * time.Millisecond

	summaries := make([]*dto.BatchSummary, 2)
	var wg sync.WaitGroup
	for i := range summaries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
			s.NoError(err)
			summaries[i] = summary
		}(i)
	}
	wg.Wait()

	// The ledger key is claimed before the transport is contacted, so one
	// run owns the delivery and the other loses the race and skips.
	s.Equal(1, summaries[0].Sent+summaries[1].Sent)
	s.Equal(1, summaries[0].Skipped+summaries[1].Skipped)
	s.Len(s.GetEmailSender().Messages(), 1)

	notifications := s.listNotifications()
	s.Len(notifications, 1)
	s.Equal(types.DeliveryStatusSent, notifications[0].SendStatus)
}

func (s *BillingRoutineSuite) TestQuietDayDoesNothing() {
	s.setupBilledCustomer("maria@example.com", "5521987654321", date("2025-01-20"), types.ChargeStatusPending)

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-10"))
	s.NoError(err)
	s.Equal(0, summary.Eligible)
	s.Equal(0, summary.Sent)
	s.Empty(s.listNotifications())
}

func (s *BillingRoutineSuite) TestPaidChargeGetsNoNotice() {
	_, c := s.setupBilledCustomer("maria@example.com", "", date("2025-01-20"), types.ChargeStatusPending)
	s.NoError(c.MarkPaid(date("2025-01-15")))
	s.NoError(s.params.ChargeRepo.Update(s.GetContext(), c))

	summary, err := s.service.RunDailyRoutine(s.GetContext(), date("2025-01-17"))
	s.NoError(err)
	s.Equal(0, summary.Eligible)
	s.Empty(s.listNotifications())
}
