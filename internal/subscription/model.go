package subscription

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type DiscountType string
type Status string

const (
	DiscountFixed  DiscountType = "fixed"
	DiscountTiered DiscountType = "tiered"

	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "cancelled"
)

// Plan определяет комиссию платформы и выдачу кредитов для провайдера.
type Plan struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	DiscountType   DiscountType    `db:"discount_type" json:"discount_type"`
	DiscountValue  decimal.Decimal `db:"discount_value" json:"discount_value"`
	CreditsPerJob  int             `db:"credits_per_job" json:"credits_per_job"`
	RollOverCredit bool            `db:"roll_over_credit" json:"roll_over_credit"`
	Price          decimal.Decimal `db:"price" json:"price"`
	DurationDays   int             `db:"duration_days" json:"duration_days"`
	IsDefault      bool            `db:"is_default" json:"is_default"`

	Bands []Band `db:"-" json:"bands,omitempty"`
}

// Band is one row of a tiered plan. A nil MaxValue is unbounded.
type Band struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	PlanID     uuid.UUID        `db:"plan_id" json:"plan_id"`
	MinValue   decimal.Decimal  `db:"min_value" json:"min_value"`
	MaxValue   *decimal.Decimal `db:"max_value" json:"max_value,omitempty"`
	Commission decimal.Decimal  `db:"commission" json:"commission"`
}

type Subscription struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	PlanID     uuid.UUID `db:"plan_id" json:"plan_id"`
	Status     Status    `db:"status" json:"status"`
	ValidFrom  time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil time.Time `db:"valid_until" json:"valid_until"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
