package dispute

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"servicehub/internal/apperr"
	"servicehub/internal/booking"
	"servicehub/internal/db"
	"servicehub/internal/logger"
	"servicehub/internal/metrics"
	"servicehub/internal/notify"
)

// Bookings is the part of the booking store a dispute touches.
type Bookings interface {
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	MarkDisputed(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	Open(ctx context.Context, in OpenInput) (*FileDispute, error)
	ListForBooking(ctx context.Context, bookingID, callerID uuid.UUID) ([]FileDispute, error)
}

type service struct {
	repo     Repository
	bookings Bookings
	notifier notify.Notifier
	tx       db.TxManager
}

func NewService(repo Repository, bookings Bookings, notifier notify.Notifier, tx db.TxManager) Service {
	return &service{repo: repo, bookings: bookings, notifier: notifier, tx: tx}
}

// Open files a dispute and moves the booking into dispute from any state, completed included.
func (s *service) Open(ctx context.Context, in OpenInput) (*FileDispute, error) {
	var (
		b *booking.Booking
		d *FileDispute
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.bookings.GetByIDForUpdate(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if !b.IsParty(in.CallerID) {
			return apperr.NotFound("booking")
		}

		d = &FileDispute{
			ID:          uuid.Must(uuid.NewV4()),
			BookingID:   b.ID,
			OpenedBy:    in.CallerID,
			ReasonID:    in.ReasonID,
			Description: in.Description,
			Status:      StatusPending,
		}
		if err := s.repo.Create(ctx, d); err != nil {
			return err
		}
		return s.bookings.MarkDisputed(ctx, b.ID)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordDispute()
	logger.Info("dispute opened", "booking_id", b.ID, "dispute_id", d.ID, "opened_by", in.CallerID)

	s.notifier.Notify(ctx, notify.Notification{
		Kind:   notify.KindDisputeOpened,
		UserID: b.Counterparty(in.CallerID),
		Data: map[string]interface{}{
			"booking_id": b.ID.String(),
			"dispute_id": d.ID.String(),
		},
	})
	return d, nil
}

func (s *service) ListForBooking(ctx context.Context, bookingID, callerID uuid.UUID) ([]FileDispute, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(callerID) {
		return nil, apperr.NotFound("booking")
	}
	return s.repo.ListByBooking(ctx, bookingID)
}
