package promotion

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/apperr"
	"servicehub/internal/db"
)

const grantColumns = `id, user_id, promotion_id, discount, promotion_type, state, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Grant, error) {
	g := &Grant{}
	err := db.Conn(ctx, r.db).GetContext(ctx, g, `SELECT `+grantColumns+` FROM user_promotions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrPromotionNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// MarkUsed fails with PromotionNotFound if the grant was already redeemed.
func (r *repository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE user_promotions SET state = 'used' WHERE id = $1 AND state = 'pending'`, id)
	if err != nil {
		return err
	}
	ok, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrPromotionNotFound
	}
	return nil
}

func (r *repository) ListPending(ctx context.Context, userID uuid.UUID) ([]Grant, error) {
	grants := []Grant{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &grants,
		`SELECT `+grantColumns+` FROM user_promotions WHERE user_id = $1 AND state = 'pending' ORDER BY created_at DESC`, userID)
	return grants, err
}
