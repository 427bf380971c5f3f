package quotation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/apperr"
	"servicehub/internal/db"
)

const (
	quotationColumns = `id, job_id, service_provider_id, budget, cover, date, state, read_by_client,
		reject_reason_id, reject_description, created_at, updated_at`

	onePendingIndex = "quotations_one_pending_idx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, q *Quotation) error {
	err := db.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO quotations (id, job_id, service_provider_id, budget, cover, date, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, q.ID, q.JobID, q.ServiceProviderID, q.Budget, q.Cover, q.Date, q.State).Scan(&q.CreatedAt, &q.UpdatedAt)
	if db.IsUniqueViolation(err, onePendingIndex) {
		return apperr.ErrHavePendingQuotation
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	q := &Quotation{}
	err := db.Conn(ctx, r.db).GetContext(ctx, q, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("quotation")
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *repository) HasPending(ctx context.Context, jobID, providerID uuid.UUID) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS (
			SELECT 1 FROM quotations
			WHERE job_id = $1 AND service_provider_id = $2 AND state = 'pending'
		)
	`, jobID, providerID)
}

func (r *repository) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE quotations
		SET state = 'accepted', updated_at = NOW()
		WHERE id = $1 AND state = 'pending'
	`, id)
	if err != nil {
		return err
	}
	return requirePending(res, id)
}

func (r *repository) Reject(ctx context.Context, id, reasonID uuid.UUID, description string) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE quotations
		SET state = 'rejected', reject_reason_id = $2, reject_description = $3, updated_at = NOW()
		WHERE id = $1 AND state = 'pending'
	`, id, reasonID, description)
	if err != nil {
		return err
	}
	return requirePending(res, id)
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE quotations SET read_by_client = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	ok, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("quotation")
	}
	return nil
}

func (r *repository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]Quotation, error) {
	quotations := []Quotation{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &quotations,
		`SELECT `+quotationColumns+` FROM quotations WHERE job_id = $1 ORDER BY created_at`, jobID)
	return quotations, err
}

func requirePending(res sql.Result, id uuid.UUID) error {
	ok, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidState("quotation %s is no longer pending", id)
	}
	return nil
}
