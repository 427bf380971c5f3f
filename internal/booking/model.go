package booking

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type State string
type RequestWorkState string

const (
	StatePending   State = "pending"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateExpired   State = "expired"
	StateDispute   State = "dispute"
)

const (
	WorkUpcoming            RequestWorkState = "upcoming"
	WorkRequestStart        RequestWorkState = "request_start"
	WorkRequestStartDenied  RequestWorkState = "request_start_denied"
	WorkRunning             RequestWorkState = "running"
	WorkRequestFinish       RequestWorkState = "request_finish"
	WorkRequestFinishDenied RequestWorkState = "request_finish_denied"
	WorkCompleted           RequestWorkState = "completed"
	WorkDispute             RequestWorkState = "dispute"
)

type Booking struct {
	ID                  uuid.UUID        `db:"id" json:"id"`
	JobID               uuid.UUID        `db:"job_id" json:"job_id"`
	QuotationID         uuid.UUID        `db:"quotation_id" json:"quotation_id"`
	ClientID            uuid.UUID        `db:"client_id" json:"client_id"`
	ServiceProviderID   uuid.UUID        `db:"service_provider_id" json:"service_provider_id"`
	ConversationID      uuid.UUID        `db:"conversation_id" json:"conversation_id"`
	State               State            `db:"state" json:"state"`
	RequestWorkState    RequestWorkState `db:"request_work_state" json:"request_work_state"`
	FinalPrice          decimal.Decimal  `db:"final_price" json:"final_price"`
	TotalTryingToStart  int              `db:"total_trying_to_start" json:"total_trying_to_start"`
	TotalTryingToFinish int              `db:"total_trying_to_finish" json:"total_trying_to_finish"`
	ClientReviewed      bool             `db:"client_reviewed" json:"client_reviewed"`
	ProviderReviewed    bool             `db:"provider_reviewed" json:"provider_reviewed"`
	ClientRating        *int             `db:"client_rating" json:"client_rating,omitempty"`
	ProviderRating      *int             `db:"provider_rating" json:"provider_rating,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`
}

// Conversation is the chat thread opened for an engagement.
type Conversation struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	BookingID         *uuid.UUID `db:"booking_id" json:"booking_id,omitempty"`
	ClientID          uuid.UUID  `db:"client_id" json:"client_id"`
	ServiceProviderID uuid.UUID  `db:"service_provider_id" json:"service_provider_id"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

type CreateInput struct {
	JobID             uuid.UUID
	QuotationID       uuid.UUID
	ClientID          uuid.UUID
	ServiceProviderID uuid.UUID
	FinalPrice        decimal.Decimal
}

// RequestCounts is how many of a user's bookings wait on a start or finish reply.
type RequestCounts struct {
	RequestStart  int `json:"request_start"`
	RequestFinish int `json:"request_finish"`
}

func (b *Booking) IsParty(userID uuid.UUID) bool {
	return b.ClientID == userID || b.ServiceProviderID == userID
}

// Counterparty returns the other side of the booking.
func (b *Booking) Counterparty(userID uuid.UUID) uuid.UUID {
	if userID == b.ClientID {
		return b.ServiceProviderID
	}
	return b.ClientID
}
