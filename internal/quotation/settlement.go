package quotation

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"servicehub/internal/apperr"
	"servicehub/internal/booking"
	"servicehub/internal/job"
	"servicehub/internal/logger"
	"servicehub/internal/metrics"
	"servicehub/internal/notify"
	"servicehub/internal/promotion"
	"servicehub/internal/subscription"
	"servicehub/internal/wallet"
)

// Accept books the quotation and settles both wallets. Either every write lands or none does.
func (s *service) Accept(ctx context.Context, in AcceptInput) (*booking.Booking, error) {
	var (
		q      *Quotation
		b      *booking.Booking
		charge decimal.Decimal
		payout decimal.Decimal
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var (
			j   *job.Job
			err error
		)
		q, j, err = s.load(ctx, in.JobID, in.QuotationID, in.ClientID)
		if err != nil {
			return err
		}
		if q.State != StatePending {
			return apperr.InvalidState("quotation %s is %s", q.ID, q.State)
		}
		if j.State != job.StateOpen {
			return apperr.InvalidState("job %s is %s", j.ID, j.State)
		}

		client, err := s.ledger.GetForUpdate(ctx, in.ClientID)
		if err != nil {
			return err
		}

		var promotionID *uuid.UUID
		if in.PromotionID != nil {
			grant, err := s.promotions.Get(ctx, *in.PromotionID)
			if err != nil {
				return err
			}
			applied, err := promotion.Apply(grant, in.ClientID, q.Budget)
			if err != nil {
				return err
			}
			if applied.FinalPrice.IsPositive() && client.Balance.LessThan(applied.FinalPrice) {
				return apperr.ErrInsufficientBalance
			}

			charge = decimal.Zero
			if applied.Consume {
				charge = decimal.Max(applied.FinalPrice, decimal.Zero)
				if err := s.promotions.MarkUsed(ctx, grant.ID); err != nil {
					return err
				}
			}
			promotionID = &grant.PromotionID
		} else {
			if !client.Balance.IsPositive() || client.Balance.LessThan(q.Budget) {
				return apperr.ErrInsufficientBalance
			}
			charge = q.Budget
		}

		_, err = s.ledger.Debit(ctx, wallet.Entry{
			UserID: in.ClientID,
			Amount: charge,
			Type:   wallet.TypeServicePayment,
			Status: wallet.StatusPending,
			Description: wallet.Description{
				EN: "Service payment",
				AR: "دفع مقابل الخدمة",
			},
			JobID:       &q.JobID,
			PromotionID: promotionID,
		})
		if err != nil {
			return err
		}

		if err := s.repo.MarkAccepted(ctx, q.ID); err != nil {
			return err
		}
		if err := s.jobs.MarkBooked(ctx, q.JobID); err != nil {
			return err
		}

		b, err = s.bookings.CreateForQuotation(ctx, booking.CreateInput{
			JobID:             q.JobID,
			QuotationID:       q.ID,
			ClientID:          in.ClientID,
			ServiceProviderID: q.ServiceProviderID,
			FinalPrice:        q.Budget,
		})
		if err != nil {
			return err
		}

		payout, err = s.providerPayout(ctx, q)
		if err != nil {
			return err
		}

		if _, err := s.ledger.Get(ctx, q.ServiceProviderID); err != nil {
			return err
		}
		_, err = s.ledger.Credit(ctx, wallet.Entry{
			UserID: q.ServiceProviderID,
			Amount: payout,
			Type:   wallet.TypeServiceSalary,
			Status: wallet.StatusPending,
			Description: wallet.Description{
				EN: "Service salary",
				AR: "أجر الخدمة",
			},
			JobID: &q.JobID,
		})
		return err
	})
	if err != nil {
		metrics.RecordSettlement(string(apperr.KindOf(err)))
		return nil, err
	}

	metrics.RecordSettlement("ok")
	metrics.RecordQuotation(string(StateAccepted))
	logger.Info("quotation accepted",
		"quotation_id", q.ID,
		"job_id", q.JobID,
		"booking_id", b.ID,
		"charged", charge.String(),
		"payout", payout.String(),
	)

	s.notifier.Notify(ctx, notify.Notification{
		Kind:   notify.KindJobAccepted,
		UserID: q.ServiceProviderID,
		Data: map[string]interface{}{
			"job_id":       q.JobID.String(),
			"quotation_id": q.ID.String(),
			"booking_id":   b.ID.String(),
		},
	})
	return b, nil
}

func (s *service) providerPayout(ctx context.Context, q *Quotation) (decimal.Decimal, error) {
	plan, err := s.plans.ActivePlan(ctx, q.ServiceProviderID)
	if err != nil {
		return decimal.Zero, err
	}
	payout, err := subscription.Payout(plan, q.Budget)
	if errors.Is(err, subscription.ErrNoCommissionBand) {
		return decimal.Zero, apperr.Wrap(err, apperr.KindInvalidState, "provider plan has no commission band for this budget")
	}
	return payout, err
}
