package plan

import (
	"github.com/faturado/faturado/internal/types"
	"github.com/shopspring/decimal"
)

// Plan represents a recurring service plan. Once a plan is referenced by a
// charge it is immutable except for the Active flag; plans are never hard
// deleted while referenced.
type Plan struct {
	// ID is the unique identifier for the plan
	ID string `db:"id" json:"id"`

	// Name is the display name of the plan
	Name string `db:"name" json:"name"`

	// BaseAmount is the recurring amount billed per cycle
	BaseAmount decimal.Decimal `db:"base_amount" json:"base_amount"`

	// PeriodMonths is the billing periodicity in months
	PeriodMonths int `db:"period_months" json:"period_months"`

	// Active controls whether new customers may subscribe to the plan
	Active bool `db:"active" json:"active"`

	types.BaseModel
}

// TotalWithPenalty returns the amount due for one cycle including a penalty
// component.
func (p *Plan) TotalWithPenalty(penalty decimal.Decimal) decimal.Decimal {
	return p.BaseAmount.Add(penalty)
}
