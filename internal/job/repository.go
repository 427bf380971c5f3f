package job

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/apperr"
	"servicehub/internal/db"
)

var jobColumns = []string{
	"id", "client_id", "service_id", "category_id", "address_id", "title", "description", "price",
	"state", "quotation_state", "view_state", "cancel_reason_id", "cancel_description", "images",
	"created_at", "updated_at",
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, j *Job) error {
	return db.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO jobs (id, client_id, service_id, category_id, address_id, title, description, price, state, quotation_state, view_state, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, j.ID, j.ClientID, j.ServiceID, j.CategoryID, j.AddressID, j.Title, j.Description, j.Price,
		j.State, j.QuotationState, j.ViewState, j.Images,
	).Scan(&j.CreatedAt, &j.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	query, args, err := sq.Select(jobColumns...).
		From("jobs").
		Where("id = ?", id).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	j := &Job{}
	err = db.Conn(ctx, r.db).GetContext(ctx, j, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("job")
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// MarkQuoted never regresses quotation_state, so a second call is a no-op.
func (r *repository) MarkQuoted(ctx context.Context, id uuid.UUID) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE jobs
		SET quotation_state = 'quoted', updated_at = NOW()
		WHERE id = $1 AND quotation_state = 'open_to_quote'
	`, id)
	return err
}

func (r *repository) MarkBooked(ctx context.Context, id uuid.UUID) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE jobs
		SET state = 'booked', updated_at = NOW()
		WHERE id = $1 AND state = 'open'
	`, id)
	if err != nil {
		return err
	}
	return requireSwapped(res, "job %s is no longer open", id)
}

func (r *repository) Close(ctx context.Context, id, reasonID uuid.UUID, description string) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE jobs
		SET state = 'closed', cancel_reason_id = $2, cancel_description = $3, updated_at = NOW()
		WHERE id = $1 AND state = 'open'
	`, id, reasonID, description)
	if err != nil {
		return err
	}
	return requireSwapped(res, "job %s is no longer open", id)
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID, state State) ([]Job, error) {
	stmt := sq.Select(jobColumns...).
		From("jobs").
		Where("client_id = ?", clientID).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)
	if state != "" {
		stmt = stmt.Where(sq.Eq{"state": string(state)})
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	jobs := []Job{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, err
	}
	return jobs, nil
}

func requireSwapped(res sql.Result, format string, args ...interface{}) error {
	ok, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidState(format, args...)
	}
	return nil
}
