package quotation

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"servicehub/internal/apperr"
	"servicehub/internal/booking"
	"servicehub/internal/db"
	"servicehub/internal/job"
	"servicehub/internal/logger"
	"servicehub/internal/metrics"
	"servicehub/internal/notify"
	"servicehub/internal/promotion"
	"servicehub/internal/subscription"
	"servicehub/internal/wallet"
)

// Jobs is the part of the job store the quotation workflow needs.
type Jobs interface {
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	MarkQuoted(ctx context.Context, id uuid.UUID) error
	MarkBooked(ctx context.Context, id uuid.UUID) error
}

type Ledger interface {
	Get(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)
	Debit(ctx context.Context, e wallet.Entry) (*wallet.Transaction, error)
	Credit(ctx context.Context, e wallet.Entry) (*wallet.Transaction, error)
	DebitCredits(ctx context.Context, credits int, e wallet.Entry) (*wallet.Transaction, error)
}

type Promotions interface {
	Get(ctx context.Context, id uuid.UUID) (*promotion.Grant, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// PlanResolver returns the plan a provider is billed under.
type PlanResolver interface {
	ActivePlan(ctx context.Context, providerID uuid.UUID) (*subscription.Plan, error)
}

type BookingCreator interface {
	CreateForQuotation(ctx context.Context, in booking.CreateInput) (*booking.Booking, error)
}

type Service interface {
	Submit(ctx context.Context, in SubmitInput) (*Quotation, error)
	Accept(ctx context.Context, in AcceptInput) (*booking.Booking, error)
	Reject(ctx context.Context, in RejectInput) error
	MarkRead(ctx context.Context, quotationID uuid.UUID) error
	ListForJob(ctx context.Context, jobID uuid.UUID) ([]Quotation, error)
}

type service struct {
	repo       Repository
	jobs       Jobs
	ledger     Ledger
	promotions Promotions
	plans      PlanResolver
	bookings   BookingCreator
	notifier   notify.Notifier
	tx         db.TxManager
	creditCost int
}

func NewService(
	repo Repository,
	jobs Jobs,
	ledger Ledger,
	promotions Promotions,
	plans PlanResolver,
	bookings BookingCreator,
	notifier notify.Notifier,
	tx db.TxManager,
	creditCost int,
) Service {
	return &service{
		repo:       repo,
		jobs:       jobs,
		ledger:     ledger,
		promotions: promotions,
		plans:      plans,
		bookings:   bookings,
		notifier:   notifier,
		tx:         tx,
		creditCost: creditCost,
	}
}

func (s *service) Submit(ctx context.Context, in SubmitInput) (*Quotation, error) {
	if !in.Budget.IsPositive() {
		return nil, apperr.Validation("budget must be positive")
	}
	if !in.Budget.Equal(in.Budget.Round(2)) {
		return nil, apperr.Validation("budget must have at most two decimal places")
	}

	var (
		j *job.Job
		q *Quotation
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		j, err = s.jobs.GetByID(ctx, in.JobID)
		if err != nil {
			return err
		}
		if j.State != job.StateOpen {
			return apperr.InvalidState("job %s is %s", j.ID, j.State)
		}

		w, err := s.ledger.Get(ctx, in.ServiceProviderID)
		if err != nil {
			return err
		}

		pending, err := s.repo.HasPending(ctx, in.JobID, in.ServiceProviderID)
		if err != nil {
			return err
		}
		if pending {
			return apperr.ErrHavePendingQuotation
		}
		if w.CreditBalance < s.creditCost {
			return apperr.ErrInsufficientCredit
		}

		_, err = s.ledger.DebitCredits(ctx, s.creditCost, wallet.Entry{
			UserID: in.ServiceProviderID,
			Amount: decimal.Zero,
			Type:   wallet.TypeDiscountCredit,
			Status: wallet.StatusCompleted,
			Description: wallet.Description{
				EN: "Quotation submitted",
				AR: "تم تقديم عرض سعر",
			},
			JobID: &in.JobID,
		})
		if err != nil {
			return err
		}

		if err := s.jobs.MarkQuoted(ctx, in.JobID); err != nil {
			return err
		}

		q = &Quotation{
			ID:                uuid.Must(uuid.NewV4()),
			JobID:             in.JobID,
			ServiceProviderID: in.ServiceProviderID,
			Budget:            in.Budget,
			Cover:             in.Cover,
			Date:              in.Date,
			State:             StatePending,
		}
		return s.repo.Create(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordQuotation(string(StatePending))
	logger.Info("quotation submitted", "quotation_id", q.ID, "job_id", q.JobID, "provider_id", q.ServiceProviderID)

	s.notifier.Notify(ctx, notify.Notification{
		Kind:   notify.KindNewQuotation,
		UserID: j.ClientID,
		Data: map[string]interface{}{
			"job_id":       q.JobID.String(),
			"quotation_id": q.ID.String(),
			"budget":       q.Budget.String(),
		},
	})
	return q, nil
}

func (s *service) Reject(ctx context.Context, in RejectInput) error {
	var q *Quotation

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		q, _, err = s.load(ctx, in.JobID, in.QuotationID, in.ClientID)
		if err != nil {
			return err
		}
		if q.State != StatePending {
			return apperr.InvalidState("quotation %s is %s", q.ID, q.State)
		}
		return s.repo.Reject(ctx, q.ID, in.ReasonID, in.Description)
	})
	if err != nil {
		return err
	}

	metrics.RecordQuotation(string(StateRejected))
	logger.Info("quotation rejected", "quotation_id", q.ID, "job_id", q.JobID)

	s.notifier.Notify(ctx, notify.Notification{
		Kind:   notify.KindQuotationRejected,
		UserID: q.ServiceProviderID,
		Data: map[string]interface{}{
			"job_id":       q.JobID.String(),
			"quotation_id": q.ID.String(),
		},
	})
	return nil
}

func (s *service) MarkRead(ctx context.Context, quotationID uuid.UUID) error {
	return s.repo.MarkRead(ctx, quotationID)
}

func (s *service) ListForJob(ctx context.Context, jobID uuid.UUID) ([]Quotation, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.repo.ListByJob(ctx, jobID)
}

// load resolves a quotation on a job owned by clientID. Any mismatch reads as not found.
func (s *service) load(ctx context.Context, jobID, quotationID, clientID uuid.UUID) (*Quotation, *job.Job, error) {
	q, err := s.repo.GetByID(ctx, quotationID)
	if err != nil {
		return nil, nil, err
	}
	if q.JobID != jobID {
		return nil, nil, apperr.NotFound("quotation")
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if j.ClientID != clientID {
		return nil, nil, apperr.NotFound("job")
	}
	return q, j, nil
}
