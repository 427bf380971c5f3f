package promotion

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"servicehub/internal/apperr"
)

var hundred = decimal.NewFromInt(100)

// Apply computes the discounted price of budget for userID.
func Apply(g *Grant, userID uuid.UUID, budget decimal.Decimal) (Applied, error) {
	if g == nil || g.State != StatePending || g.UserID != userID {
		return Applied{}, apperr.ErrPromotionNotFound
	}

	var discount decimal.Decimal
	switch g.Type {
	case TypePercentage:
		discount = budget.Mul(g.Discount).Div(hundred)
	case TypeMoney:
		discount = g.Discount
	default:
		return Applied{}, apperr.ErrPromotionNotFound
	}

	return Applied{
		Discount:   discount,
		FinalPrice: budget.Sub(discount),
		Consume:    budget.GreaterThan(g.Discount),
	}, nil
}
