package promotion

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type Type string
type State string

const (
	TypePercentage Type = "percentage"
	TypeMoney      Type = "money"

	StatePending State = "pending"
	StateUsed    State = "used"
)

// Grant is a promotion issued to one user. It can be redeemed once.
type Grant struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	PromotionID uuid.UUID       `db:"promotion_id" json:"promotion_id"`
	Discount    decimal.Decimal `db:"discount" json:"discount"`
	Type        Type            `db:"promotion_type" json:"promotion_type"`
	State       State           `db:"state" json:"state"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type Applied struct {
	Discount   decimal.Decimal
	FinalPrice decimal.Decimal
	// Consume is false when the grant covers the whole budget; such a grant is not spent.
	Consume bool
}
