package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	"github.com/faturado/faturado/internal/domain/plan"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/rest/middleware"
	"github.com/faturado/faturado/internal/service"
	"github.com/faturado/faturado/internal/testutil"
	"github.com/faturado/faturado/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChargeTestRouter(t *testing.T) (*gin.Engine, service.ServiceParams) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)

	params := service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		PlanRepo:         testutil.NewInMemoryPlanStore(),
		CustomerRepo:     testutil.NewInMemoryCustomerStore(),
		ChargeRepo:       testutil.NewInMemoryChargeStore(),
		NotificationRepo: testutil.NewInMemoryNotificationStore(),
	}

	handler := NewChargeHandler(service.NewChargeService(params), log)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/v1/charges/:id/pay", handler.MarkChargePaid)
	return r, params
}

func seedPendingCharge(t *testing.T, params service.ServiceParams) *charge.Charge {
	t.Helper()
	ctx := context.Background()

	p := &plan.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:         "Plano Mensal",
		BaseAmount:   decimal.RequireFromString("150.00"),
		PeriodMonths: 1,
		Active:       true,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	require.NoError(t, params.PlanRepo.Create(ctx, p))

	cust := &customer.Customer{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:           "Maria Silva",
		TaxID:          types.GenerateUUID(),
		Email:          "maria@example.com",
		CustomerStatus: types.CustomerStatusActive,
		PlanID:         p.ID,
		BaseModel:      types.GetDefaultBaseModel(),
	}
	require.NoError(t, params.CustomerRepo.Create(ctx, cust))

	base := decimal.RequireFromString("150.00")
	c := &charge.Charge{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		CustomerID:       cust.ID,
		BaseAmount:       base,
		PenaltyAmount:    decimal.Zero,
		TotalAmount:      base,
		DueDate:          types.ToDate(types.GetDefaultBaseModel().CreatedAt),
		CycleReference:   types.CycleReference(types.GetDefaultBaseModel().CreatedAt),
		PaymentReference: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_PAYMENT_REFERENCE),
		ChargeStatus:     types.ChargeStatusPending,
		BaseModel:        types.GetDefaultBaseModel(),
	}
	require.NoError(t, params.ChargeRepo.Create(ctx, c))
	return c
}

func TestMarkChargePaidWithoutBody(t *testing.T) {
	r, params := newChargeTestRouter(t)
	c := seedPendingCharge(t, params)

	// No request body at all; the payment date defaults to today.
	req := httptest.NewRequest(http.MethodPost, "/v1/charges/"+c.ID+"/pay", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	got, err := params.ChargeRepo.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ChargeStatusPaid, got.ChargeStatus)
	assert.NotNil(t, got.PaymentDate)
}

func TestMarkChargePaidMalformedBody(t *testing.T) {
	r, params := newChargeTestRouter(t)
	c := seedPendingCharge(t, params)

	req := httptest.NewRequest(http.MethodPost, "/v1/charges/"+c.ID+"/pay", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	got, err := params.ChargeRepo.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ChargeStatusPending, got.ChargeStatus)
}
