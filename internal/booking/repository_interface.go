package booking

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	CreateConversation(ctx context.Context, c *Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)
	SaveProgress(ctx context.Context, b *Booking) error
	CountByRequestState(ctx context.Context, clientID uuid.UUID) (RequestCounts, error)
	ListByUser(ctx context.Context, userID uuid.UUID, state RequestWorkState) ([]Booking, error)
	MarkDisputed(ctx context.Context, id uuid.UUID) error
	SaveReview(ctx context.Context, id uuid.UUID, byClient bool, rating int) error
}
