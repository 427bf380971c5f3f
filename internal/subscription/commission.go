package subscription

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNoCommissionBand = errors.New("no commission band matches budget")

// Commission returns the amount the plan deducts from a quotation budget.
//
// For a fixed plan that is budget minus the plan's discount value. For a tiered
// plan the first band containing the budget wins and the result is budget
// minus the band's commission.
func Commission(plan *Plan, budget decimal.Decimal) (decimal.Decimal, error) {
	if plan == nil {
		return decimal.Zero, errors.New("commission: nil plan")
	}

	switch plan.DiscountType {
	case DiscountFixed:
		return budget.Sub(plan.DiscountValue), nil
	case DiscountTiered:
		for _, b := range plan.Bands {
			if budget.LessThan(b.MinValue) {
				continue
			}
			if b.MaxValue != nil && budget.GreaterThan(*b.MaxValue) {
				continue
			}
			return budget.Sub(b.Commission), nil
		}
		return decimal.Zero, fmt.Errorf("plan %s, budget %s: %w", plan.Name, budget, ErrNoCommissionBand)
	default:
		return decimal.Zero, fmt.Errorf("commission: unknown discount type %q", plan.DiscountType)
	}
}

// Payout is what the provider is credited for a settled quotation.
func Payout(plan *Plan, budget decimal.Decimal) (decimal.Decimal, error) {
	c, err := Commission(plan, budget)
	if err != nil {
		return decimal.Zero, err
	}
	return budget.Sub(c), nil
}
