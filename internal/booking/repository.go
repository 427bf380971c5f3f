package booking

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

const bookingColumns = `id, job_id, quotation_id, client_id, service_provider_id, conversation_id, state,
	request_work_state, final_price, total_trying_to_start, total_trying_to_finish,
	client_reviewed, provider_reviewed, client_rating, provider_rating, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	return db.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO bookings (id, job_id, quotation_id, client_id, service_provider_id, conversation_id, state, request_work_state, final_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, b.ID, b.JobID, b.QuotationID, b.ClientID, b.ServiceProviderID, b.ConversationID,
		b.State, b.RequestWorkState, b.FinalPrice,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *repository) CreateConversation(ctx context.Context, c *Conversation) error {
	return db.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO conversations (id, booking_id, client_id, service_provider_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, c.ID, c.BookingID, c.ClientID, c.ServiceProviderID).Scan(&c.CreatedAt)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, id uuid.UUID) (*Booking, error) {
	b := &Booking{}
	err := db.Conn(ctx, r.db).GetContext(ctx, b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repository) SaveProgress(ctx context.Context, b *Booking) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE bookings
		SET state = $2,
		    request_work_state = $3,
		    total_trying_to_start = $4,
		    total_trying_to_finish = $5,
		    conversation_id = $6,
		    updated_at = NOW()
		WHERE id = $1
	`, b.ID, b.State, b.RequestWorkState, b.TotalTryingToStart, b.TotalTryingToFinish, b.ConversationID)
	return err
}

func (r *repository) CountByRequestState(ctx context.Context, clientID uuid.UUID) (RequestCounts, error) {
	query, args, err := sq.Select("request_work_state", "COUNT(*) AS total").
		From("bookings").
		Where("client_id = ?", clientID).
		Where(sq.Eq{"request_work_state": []string{string(WorkRequestStart), string(WorkRequestFinish)}}).
		GroupBy("request_work_state").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return RequestCounts{}, err
	}

	var rows []struct {
		State RequestWorkState `db:"request_work_state"`
		Total int              `db:"total"`
	}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return RequestCounts{}, err
	}

	var counts RequestCounts
	for _, row := range rows {
		switch row.State {
		case WorkRequestStart:
			counts.RequestStart = row.Total
		case WorkRequestFinish:
			counts.RequestFinish = row.Total
		}
	}
	return counts, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, state RequestWorkState) ([]Booking, error) {
	stmt := sq.Select(bookingColumns).
		From("bookings").
		Where("(client_id = ? OR service_provider_id = ?)", userID, userID).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)
	if state != "" {
		stmt = stmt.Where(sq.Eq{"request_work_state": string(state)})
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	bookings := []Booking{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

// MarkDisputed forces the dispute state regardless of where the booking is.
func (r *repository) MarkDisputed(ctx context.Context, id uuid.UUID) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE bookings
		SET state = 'dispute', request_work_state = 'dispute', updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	ok, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("booking")
	}
	return nil
}

func (r *repository) SaveReview(ctx context.Context, id uuid.UUID, byClient bool, rating int) error {
	query := `
		UPDATE bookings
		SET client_reviewed = TRUE, client_rating = $2, updated_at = NOW()
		WHERE id = $1 AND state = 'completed' AND NOT client_reviewed
	`
	if !byClient {
		query = `
		UPDATE bookings
		SET provider_reviewed = TRUE, provider_rating = $2, updated_at = NOW()
		WHERE id = $1 AND state = 'completed' AND NOT provider_reviewed
	`
	}

	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query, id, rating)
	if err != nil {
		return err
	}
	ok, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidState("booking %s cannot be reviewed", id)
	}
	return nil
}
