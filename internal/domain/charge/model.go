package charge

import (
	"time"

	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/shopspring/decimal"
)

// Charge is one billable obligation for a customer for one billing cycle.
// Charges are never deleted, only transitioned; they are the audit trail
// for billing history.
type Charge struct {
	// ID is the unique identifier for the charge
	ID string `db:"id" json:"id"`

	// CustomerID references the owning customer
	CustomerID string `db:"customer_id" json:"customer_id"`

	// BaseAmount is the plan amount for the cycle
	BaseAmount decimal.Decimal `db:"base_amount" json:"base_amount"`

	// PenaltyAmount is the fine-and-interest component computed by overdue
	// aging. Always recomputed from BaseAmount, never accumulated.
	PenaltyAmount decimal.Decimal `db:"penalty_amount" json:"penalty_amount"`

	// TotalAmount is BaseAmount + PenaltyAmount
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`

	// DueDate is the calendar date the charge falls due
	DueDate time.Time `db:"due_date" json:"due_date"`

	// PaymentDate is set iff the charge is PAID
	PaymentDate *time.Time `db:"payment_date" json:"payment_date,omitempty"`

	// CycleReference is the human label for the billing period, e.g. "2025-12"
	CycleReference string `db:"cycle_reference" json:"cycle_reference"`

	// PaymentReference is the short code customers quote when paying
	PaymentReference string `db:"payment_reference" json:"payment_reference"`

	// ChargeStatus tracks the charge lifecycle
	ChargeStatus types.ChargeStatus `db:"charge_status" json:"charge_status"`

	types.BaseModel
}

// PenaltyPolicy is the injectable overdue-penalty curve: a flat fine
// percentage plus a daily interest percentage, both applied to the base
// amount.
type PenaltyPolicy struct {
	FinePercent          decimal.Decimal
	DailyInterestPercent decimal.Decimal
}

// Penalty computes the fine-and-interest amount for the given base amount
// and days overdue, rounded to cents.
func (p PenaltyPolicy) Penalty(base decimal.Decimal, daysOverdue int) decimal.Decimal {
	if daysOverdue <= 0 {
		return decimal.Zero
	}
	pct := p.FinePercent.Add(p.DailyInterestPercent.Mul(decimal.NewFromInt(int64(daysOverdue))))
	return base.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}

func (c *Charge) IsPending() bool {
	return c.ChargeStatus == types.ChargeStatusPending
}

func (c *Charge) IsPaid() bool {
	return c.ChargeStatus == types.ChargeStatusPaid
}

func (c *Charge) IsOverdue() bool {
	return c.ChargeStatus == types.ChargeStatusOverdue
}

// DaysOverdue returns how many days past due the charge is at `today`,
// or 0 when the charge is settled or not yet due.
func (c *Charge) DaysOverdue(today time.Time) int {
	if c.ChargeStatus.IsTerminal() {
		return 0
	}
	days := types.DaysBetween(c.DueDate, today)
	if days < 0 {
		return 0
	}
	return days
}

// AgeOverdue transitions a PENDING charge past its due date to OVERDUE and
// recomputes the penalty component from the base amount under the given
// policy. Idempotent: re-applying with the same `today` yields the same
// amounts. Returns true when the PENDING -> OVERDUE transition happened on
// this call.
func (c *Charge) AgeOverdue(today time.Time, policy PenaltyPolicy) bool {
	transitioned := false
	if c.IsPending() && types.ToDate(c.DueDate).Before(types.ToDate(today)) {
		c.ChargeStatus = types.ChargeStatusOverdue
		transitioned = true
	}
	if c.IsOverdue() {
		c.PenaltyAmount = policy.Penalty(c.BaseAmount, c.DaysOverdue(today))
		c.TotalAmount = c.BaseAmount.Add(c.PenaltyAmount)
	}
	return transitioned
}

// MarkPaid settles the charge. Valid only from PENDING or OVERDUE; a settled
// or cancelled charge is left unchanged and an invalid operation error is
// returned. Payment clears the penalty component.
func (c *Charge) MarkPaid(paymentDate time.Time) error {
	if c.ChargeStatus.IsTerminal() {
		return ierr.NewError("charge is already settled").
			WithHintf("Charge %s cannot be paid from status %s", c.ID, c.ChargeStatus).
			WithReportableDetails(map[string]any{
				"charge_id": c.ID,
				"status":    c.ChargeStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	paid := types.ToDate(paymentDate)
	c.ChargeStatus = types.ChargeStatusPaid
	c.PaymentDate = &paid
	c.PenaltyAmount = decimal.Zero
	c.TotalAmount = c.BaseAmount
	return nil
}

// Cancel voids the charge. Valid only from PENDING or OVERDUE.
func (c *Charge) Cancel() error {
	if c.ChargeStatus.IsTerminal() {
		return ierr.NewError("charge is already settled").
			WithHintf("Charge %s cannot be cancelled from status %s", c.ID, c.ChargeStatus).
			Mark(ierr.ErrInvalidOperation)
	}
	c.ChargeStatus = types.ChargeStatusCancelled
	return nil
}
