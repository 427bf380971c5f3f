package promotion

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Grant, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	ListPending(ctx context.Context, userID uuid.UUID) ([]Grant, error)
}
