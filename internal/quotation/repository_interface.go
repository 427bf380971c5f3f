package quotation

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type Repository interface {
	Create(ctx context.Context, q *Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	HasPending(ctx context.Context, jobID, providerID uuid.UUID) (bool, error)
	MarkAccepted(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id, reasonID uuid.UUID, description string) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Quotation, error)
}
