package job

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type Repository interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	MarkQuoted(ctx context.Context, id uuid.UUID) error
	MarkBooked(ctx context.Context, id uuid.UUID) error
	Close(ctx context.Context, id, reasonID uuid.UUID, description string) error
	ListByClient(ctx context.Context, clientID uuid.UUID, state State) ([]Job, error)
}
