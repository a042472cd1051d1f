package service

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/notify"
	"github.com/faturado/faturado/internal/types"
)

// BillingRoutineService runs the daily billing pass: age overdue charges,
// match open charges against the dunning cadence, and dispatch notices on
// every enabled channel, recording each attempt in the ledger.
type BillingRoutineService interface {
	RunDailyRoutine(ctx context.Context, today time.Time) (*dto.BatchSummary, error)
}

type billingRoutineService struct {
	ServiceParams
	chargeService       ChargeService
	notificationService NotificationService
	builder             MessageBuilder
}

func NewBillingRoutineService(params ServiceParams) BillingRoutineService {
	return &billingRoutineService{
		ServiceParams:       params,
		chargeService:       NewChargeService(params),
		notificationService: NewNotificationService(params),
		builder:             NewMessageBuilder(),
	}
}

func (s *billingRoutineService) cadencePolicy() CadencePolicy {
	return CadencePolicy{
		ReminderLeadDays:       s.Config.Billing.ReminderLeadDays,
		EscalationIntervalDays: s.Config.Billing.EscalationIntervalDays,
	}
}

// RunDailyRoutine is idempotent for a given date: the ledger's dedup key
// means a re-run on the same day sends nothing new. Per-charge failures are
// logged and counted but never abort the batch.
func (s *billingRoutineService) RunDailyRoutine(ctx context.Context, today time.Time) (*dto.BatchSummary, error) {
	today = types.ToDate(today)
	summary := &dto.BatchSummary{RunDate: today}

	aged, err := s.chargeService.AgeOverdueCharges(ctx, today)
	if err != nil {
		return nil, err
	}
	summary.ChargesAged = aged

	filter := types.NewChargeFilter().
		WithStatuses(types.ChargeStatusPending, types.ChargeStatusOverdue)
	charges, err := s.ChargeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	policy := s.cadencePolicy()
	for _, c := range charges {
		match, ok := ApplicableRule(today, c.DueDate, c.ChargeStatus, policy)
		if !ok {
			continue
		}
		summary.Eligible++

		cust, err := s.CustomerRepo.Get(ctx, c.CustomerID)
		if err != nil {
			s.Logger.Errorw("failed to load customer for notice",
				"charge_id", c.ID,
				"customer_id", c.CustomerID,
				"error", err)
			summary.Failed++
			continue
		}

		for _, channel := range []types.Channel{types.ChannelEmail, types.ChannelWhatsApp} {
			s.notifyOnChannel(ctx, summary, match, channel, cust, c, today)
		}
	}

	s.Logger.Infow("daily billing routine finished",
		"run_date", today,
		"charges_aged", summary.ChargesAged,
		"eligible", summary.Eligible,
		"sent", summary.Sent,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	return summary, nil
}

func (s *billingRoutineService) notifyOnChannel(ctx context.Context, summary *dto.BatchSummary, match CadenceMatch, channel types.Channel, cust *customer.Customer, chg *charge.Charge, today time.Time) {
	recipient := recipientFor(channel, cust)
	if recipient == "" {
		// Customer has no address on this channel; nothing to attempt.
		return
	}

	// A disabled channel leaves no ledger trace, so flipping the switch
	// back on lets the same notice go out on a later run.
	if !s.Dispatcher.ChannelEnabled(channel) {
		summary.Skipped++
		return
	}

	label := match.Label()
	exists, err := s.notificationService.AlreadyNotified(ctx, chg.ID, label, channel, today)
	if err != nil {
		s.Logger.Errorw("ledger lookup failed",
			"charge_id", chg.ID,
			"rule", label,
			"channel", channel,
			"error", err)
		summary.Failed++
		return
	}
	if exists {
		summary.Skipped++
		return
	}

	content, err := s.builder.Render(match, channel, cust, chg, today)
	if err != nil {
		s.Logger.Errorw("failed to render notice",
			"charge_id", chg.ID,
			"rule", label,
			"channel", channel,
			"error", err)
		summary.Failed++
		return
	}

	// Claim the ledger key before touching the transport. The unique key is
	// the only mutual exclusion between overlapping runs: whoever inserts
	// first owns the send, the loser skips without contacting the customer.
	claimed, err := s.notificationService.Claim(ctx, chg.ID, label, channel, content, today)
	if err != nil {
		if ierr.IsAlreadyExists(err) {
			summary.Skipped++
			return
		}
		s.Logger.Errorw("failed to claim notification",
			"charge_id", chg.ID,
			"rule", label,
			"channel", channel,
			"error", err)
		summary.Failed++
		return
	}

	outcome := s.Dispatcher.Send(ctx, channel, recipient, content)
	if err := s.notificationService.Finalize(ctx, claimed, outcome); err != nil {
		s.Logger.Errorw("failed to record notification outcome",
			"notification_id", claimed.ID,
			"charge_id", chg.ID,
			"rule", label,
			"channel", channel,
			"error", err)
	}

	switch outcome.State {
	case notify.OutcomeSent:
		summary.Sent++
	case notify.OutcomeFailed:
		summary.Failed++
	case notify.OutcomeSkipped:
		summary.Skipped++
	}
}

func recipientFor(channel types.Channel, cust *customer.Customer) string {
	switch channel {
	case types.ChannelEmail:
		if cust.HasEmail() {
			return cust.Email
		}
	case types.ChannelWhatsApp:
		if cust.HasWhatsApp() {
			return cust.NormalizedPhone()
		}
	}
	return ""
}
