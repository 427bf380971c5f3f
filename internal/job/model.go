package job

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type State string
type QuotationState string
type ViewState string

const (
	StateOpen   State = "open"
	StateBooked State = "booked"
	StateClosed State = "closed"

	QuotationOpenToQuote QuotationState = "open_to_quote"
	QuotationQuoted      QuotationState = "quoted"

	ViewPublic  ViewState = "public"
	ViewPrivate ViewState = "private"
)

const MaxImages = 6

type Job struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	ClientID          uuid.UUID       `db:"client_id" json:"client_id"`
	ServiceID         uuid.UUID       `db:"service_id" json:"service_id"`
	CategoryID        *uuid.UUID      `db:"category_id" json:"category_id,omitempty"`
	AddressID         *uuid.UUID      `db:"address_id" json:"address_id,omitempty"`
	Title             string          `db:"title" json:"title"`
	Description       string          `db:"description" json:"description"`
	Price             decimal.Decimal `db:"price" json:"price"`
	State             State           `db:"state" json:"state"`
	QuotationState    QuotationState  `db:"quotation_state" json:"quotation_state"`
	ViewState         ViewState       `db:"view_state" json:"view_state"`
	CancelReasonID    *uuid.UUID      `db:"cancel_reason_id" json:"cancel_reason_id,omitempty"`
	CancelDescription string          `db:"cancel_description" json:"cancel_description,omitempty"`
	Images            pq.StringArray  `db:"images" json:"images"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

type PostInput struct {
	ClientID    uuid.UUID
	ServiceID   uuid.UUID
	CategoryID  *uuid.UUID
	AddressID   *uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	ViewState   ViewState
	Images      []string
}

type CancelInput struct {
	JobID       uuid.UUID
	ClientID    uuid.UUID
	ReasonID    uuid.UUID
	Description string
}
