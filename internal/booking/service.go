package booking

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"servicehub/internal/apperr"
	"servicehub/internal/db"
	"servicehub/internal/logger"
	"servicehub/internal/metrics"
	"servicehub/internal/notify"
)

type Service interface {
	CreateForQuotation(ctx context.Context, in CreateInput) (*Booking, error)
	SendRequestToStart(ctx context.Context, bookingID, providerID uuid.UUID) (*Booking, error)
	SendRequestToFinish(ctx context.Context, bookingID, providerID uuid.UUID) (*Booking, error)
	AcceptToStart(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error)
	DenyToStart(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error)
	AcceptToFinish(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error)
	DenyToFinish(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error)
	Get(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID, state RequestWorkState) ([]Booking, error)
	Review(ctx context.Context, bookingID, reviewerID uuid.UUID, rating int) error
}

type service struct {
	repo     Repository
	notifier notify.Notifier
	tx       db.TxManager
}

func NewService(repo Repository, notifier notify.Notifier, tx db.TxManager) Service {
	return &service{repo: repo, notifier: notifier, tx: tx}
}

// CreateForQuotation opens the conversation and the booking for an accepted quotation.
// It joins the caller's transaction when there is one.
func (s *service) CreateForQuotation(ctx context.Context, in CreateInput) (*Booking, error) {
	b := &Booking{
		ID:                uuid.Must(uuid.NewV4()),
		JobID:             in.JobID,
		QuotationID:       in.QuotationID,
		ClientID:          in.ClientID,
		ServiceProviderID: in.ServiceProviderID,
		State:             StatePending,
		RequestWorkState:  WorkUpcoming,
		FinalPrice:        in.FinalPrice,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		conv, err := s.openConversation(ctx, b)
		if err != nil {
			return err
		}
		b.ConversationID = conv.ID
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) openConversation(ctx context.Context, b *Booking) (*Conversation, error) {
	conv := &Conversation{
		ID:                uuid.Must(uuid.NewV4()),
		BookingID:         &b.ID,
		ClientID:          b.ClientID,
		ServiceProviderID: b.ServiceProviderID,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *service) SendRequestToStart(ctx context.Context, bookingID, providerID uuid.UUID) (*Booking, error) {
	return s.progress(ctx, bookingID, providerID, ActionRequestStart)
}

func (s *service) SendRequestToFinish(ctx context.Context, bookingID, providerID uuid.UUID) (*Booking, error) {
	return s.progress(ctx, bookingID, providerID, ActionRequestFinish)
}

func (s *service) AcceptToStart(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error) {
	return s.progress(ctx, bookingID, clientID, ActionAcceptStart)
}

func (s *service) DenyToStart(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error) {
	return s.progress(ctx, bookingID, clientID, ActionDenyStart)
}

func (s *service) AcceptToFinish(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error) {
	return s.progress(ctx, bookingID, clientID, ActionAcceptFinish)
}

func (s *service) DenyToFinish(ctx context.Context, bookingID, clientID uuid.UUID) (*Booking, error) {
	return s.progress(ctx, bookingID, clientID, ActionDenyFinish)
}

var notifications = map[Action]notify.Kind{
	ActionRequestStart:  notify.KindRequestStart,
	ActionRequestFinish: notify.KindRequestFinish,
	ActionAcceptStart:   notify.KindStartAccepted,
	ActionDenyStart:     notify.KindStartDenied,
	ActionAcceptFinish:  notify.KindFinishAccepted,
	ActionDenyFinish:    notify.KindFinishDenied,
}

func (s *service) progress(ctx context.Context, bookingID, callerID uuid.UUID, a Action) (*Booking, error) {
	var (
		b       *Booking
		changed bool
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		party := b.ClientID
		if a.ByProvider() {
			party = b.ServiceProviderID
		}
		if party != callerID {
			return apperr.NotFound("booking")
		}

		changed, err = Apply(b, a)
		if err != nil || !changed {
			return err
		}

		if a == ActionAcceptFinish {
			conv, err := s.openConversation(ctx, b)
			if err != nil {
				return err
			}
			b.ConversationID = conv.ID
		}
		return s.repo.SaveProgress(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return b, nil
	}

	metrics.RecordBookingTransition(string(a))
	logger.Info("booking progressed", "booking_id", b.ID, "action", a, "request_work_state", b.RequestWorkState)

	data := map[string]interface{}{
		"booking_id":         b.ID.String(),
		"request_work_state": string(b.RequestWorkState),
	}
	if a.ByProvider() {
		counts, err := s.repo.CountByRequestState(ctx, b.ClientID)
		if err != nil {
			logger.Error("count pending requests", "client_id", b.ClientID, "error", err)
		} else {
			data["request_start_count"] = counts.RequestStart
			data["request_finish_count"] = counts.RequestFinish
		}
	}

	s.notifier.Notify(ctx, notify.Notification{
		Kind:   notifications[a],
		UserID: b.Counterparty(callerID),
		Data:   data,
	})
	return b, nil
}

func (s *service) Get(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(userID) {
		return nil, apperr.NotFound("booking")
	}
	return b, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, state RequestWorkState) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID, state)
}

// Review records the reviewer's rating once per side of a completed booking.
func (s *service) Review(ctx context.Context, bookingID, reviewerID uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}

	b, err := s.Get(ctx, bookingID, reviewerID)
	if err != nil {
		return err
	}
	if b.State != StateCompleted {
		return apperr.InvalidState("booking %s is %s", b.ID, b.State)
	}
	return s.repo.SaveReview(ctx, b.ID, reviewerID == b.ClientID, rating)
}
