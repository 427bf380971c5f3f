package subscription

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

type Repository interface {
	GetDefaultPlan(ctx context.Context) (*Plan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	GetActiveForProvider(ctx context.Context, providerID uuid.UUID) (*Subscription, error)
	CreateSubscription(ctx context.Context, providerID, planID uuid.UUID, validFrom, validUntil time.Time) (*Subscription, error)
	ExpireActive(ctx context.Context, providerID uuid.UUID) error
}
