package dispute

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/db"
)

type Repository interface {
	Create(ctx context.Context, d *FileDispute) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]FileDispute, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *FileDispute) error {
	return db.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO file_disputes (id, booking_id, opened_by, reason_id, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, d.ID, d.BookingID, d.OpenedBy, d.ReasonID, d.Description, d.Status).Scan(&d.CreatedAt)
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]FileDispute, error) {
	disputes := []FileDispute{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &disputes, `
		SELECT id, booking_id, opened_by, reason_id, description, status, created_at
		FROM file_disputes
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`, bookingID)
	return disputes, err
}
