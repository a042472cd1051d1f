package testutil

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	"github.com/faturado/faturado/internal/domain/notification"
	"github.com/faturado/faturado/internal/domain/plan"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/notify"
	"github.com/faturado/faturado/internal/types"
	"github.com/faturado/faturado/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PlanRepo         plan.Repository
	CustomerRepo     customer.Repository
	ChargeRepo       charge.Repository
	NotificationRepo notification.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx            context.Context
	stores         Stores
	logger         *logger.Logger
	config         *config.Configuration
	emailSender    *MockSender
	whatsappSender *MockSender
	dispatcher     *notify.Dispatcher
	now            time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.now = time.Now().UTC()
	s.setupStores()

	s.emailSender = NewMockSender(types.ChannelEmail)
	s.whatsappSender = NewMockSender(types.ChannelWhatsApp)
	s.dispatcher = notify.NewDispatcher(s.logger, time.Second, s.emailSender, s.whatsappSender)
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PlanRepo:         NewInMemoryPlanStore(),
		CustomerRepo:     NewInMemoryCustomerStore(),
		ChargeRepo:       NewInMemoryChargeStore(),
		NotificationRepo: NewInMemoryNotificationStore(),
	}
}

// ClearStores resets all the stores to their initial state
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
	s.stores.CustomerRepo.(*InMemoryCustomerStore).Clear()
	s.stores.ChargeRepo.(*InMemoryChargeStore).Clear()
	s.stores.NotificationRepo.(*InMemoryNotificationStore).Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetDispatcher() *notify.Dispatcher {
	return s.dispatcher
}

func (s *BaseServiceTestSuite) GetEmailSender() *MockSender {
	return s.emailSender
}

func (s *BaseServiceTestSuite) GetWhatsAppSender() *MockSender {
	return s.whatsappSender
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
