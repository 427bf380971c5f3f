package dispute

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusRejected Status = "rejected"
)

type FileDispute struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BookingID   uuid.UUID `db:"booking_id" json:"booking_id"`
	OpenedBy    uuid.UUID `db:"opened_by" json:"opened_by"`
	ReasonID    uuid.UUID `db:"reason_id" json:"reason_id"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type OpenInput struct {
	BookingID   uuid.UUID
	CallerID    uuid.UUID
	ReasonID    uuid.UUID
	Description string
}
