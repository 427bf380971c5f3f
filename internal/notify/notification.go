package notify

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

type Kind string

const (
	KindNewQuotation      Kind = "new_quotation"
	KindQuotationRejected Kind = "quotation_rejected"
	KindJobAccepted       Kind = "job_accepted"
	KindRequestStart      Kind = "request_start"
	KindRequestFinish     Kind = "request_finish"
	KindStartAccepted     Kind = "start_accepted"
	KindStartDenied       Kind = "start_denied"
	KindFinishAccepted    Kind = "finish_accepted"
	KindFinishDenied      Kind = "finish_denied"
	KindDisputeOpened     Kind = "dispute_opened"
)

// Notification is addressed to one user and delivered both as a push message and a socket event.
type Notification struct {
	Kind      Kind                   `json:"kind"`
	UserID    uuid.UUID              `json:"user_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Tries     int                    `json:"tries"`
	CreatedAt time.Time              `json:"created_at"`
}

// Notifier never fails the caller; delivery problems are logged by the implementation.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}
