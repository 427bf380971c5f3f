package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/apperr"
	"servicehub/internal/db"
)

const planColumns = `id, name, discount_type, discount_value, credits_per_job, roll_over_credit, price, duration_days, is_default`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetDefaultPlan(ctx context.Context) (*Plan, error) {
	return r.getPlan(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE is_default LIMIT 1`)
}

func (r *repository) GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return r.getPlan(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id)
}

func (r *repository) getPlan(ctx context.Context, query string, args ...interface{}) (*Plan, error) {
	conn := db.Conn(ctx, r.db)

	p := &Plan{}
	err := conn.GetContext(ctx, p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("subscription plan")
	}
	if err != nil {
		return nil, err
	}

	if p.DiscountType == DiscountTiered {
		p.Bands, err = r.bands(ctx, conn, p.ID)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (r *repository) bands(ctx context.Context, conn db.Executor, planID uuid.UUID) ([]Band, error) {
	bands := []Band{}
	err := conn.SelectContext(ctx, &bands, `
		SELECT id, plan_id, min_value, max_value, commission
		FROM discount_commissions
		WHERE plan_id = $1
		ORDER BY min_value
	`, planID)
	return bands, err
}

func (r *repository) ListPlans(ctx context.Context) ([]Plan, error) {
	conn := db.Conn(ctx, r.db)

	plans := []Plan{}
	if err := conn.SelectContext(ctx, &plans, `SELECT `+planColumns+` FROM subscription_plans ORDER BY price`); err != nil {
		return nil, err
	}

	for i := range plans {
		if plans[i].DiscountType != DiscountTiered {
			continue
		}
		b, err := r.bands(ctx, conn, plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].Bands = b
	}
	return plans, nil
}

func (r *repository) GetActiveForProvider(ctx context.Context, providerID uuid.UUID) (*Subscription, error) {
	sub := &Subscription{}
	err := db.Conn(ctx, r.db).GetContext(ctx, sub, `
		SELECT id, provider_id, plan_id, status, valid_from, valid_until, created_at
		FROM provider_subscriptions
		WHERE provider_id = $1
		  AND status = 'active'
		  AND valid_from <= NOW()
		  AND valid_until >= NOW()
		ORDER BY valid_until DESC
		LIMIT 1
	`, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("subscription")
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) CreateSubscription(ctx context.Context, providerID, planID uuid.UUID, validFrom, validUntil time.Time) (*Subscription, error) {
	sub := &Subscription{}
	err := db.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO provider_subscriptions (id, provider_id, plan_id, status, valid_from, valid_until)
		VALUES ($1, $2, $3, 'active', $4, $5)
		RETURNING id, provider_id, plan_id, status, valid_from, valid_until, created_at
	`, uuid.Must(uuid.NewV4()), providerID, planID, validFrom, validUntil).StructScan(sub)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) ExpireActive(ctx context.Context, providerID uuid.UUID) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE provider_subscriptions
		SET status = 'expired'
		WHERE provider_id = $1 AND status = 'active'
	`, providerID)
	return err
}
