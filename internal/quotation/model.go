package quotation

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type State string

const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
)

type Quotation struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	JobID             uuid.UUID       `db:"job_id" json:"job_id"`
	ServiceProviderID uuid.UUID       `db:"service_provider_id" json:"service_provider_id"`
	Budget            decimal.Decimal `db:"budget" json:"budget"`
	Cover             string          `db:"cover" json:"cover"`
	Date              time.Time       `db:"date" json:"date"`
	State             State           `db:"state" json:"state"`
	ReadByClient      bool            `db:"read_by_client" json:"read_by_client"`
	RejectReasonID    *uuid.UUID      `db:"reject_reason_id" json:"reject_reason_id,omitempty"`
	RejectDescription string          `db:"reject_description" json:"reject_description,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

type SubmitInput struct {
	JobID             uuid.UUID
	ServiceProviderID uuid.UUID
	Budget            decimal.Decimal
	Cover             string
	Date              time.Time
}

type AcceptInput struct {
	JobID       uuid.UUID
	QuotationID uuid.UUID
	ClientID    uuid.UUID
	PromotionID *uuid.UUID
}

type RejectInput struct {
	JobID       uuid.UUID
	QuotationID uuid.UUID
	ClientID    uuid.UUID
	ReasonID    uuid.UUID
	Description string
}
