package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"servicehub/internal/apperr"
	"servicehub/internal/db"
	"servicehub/internal/logger"
	"servicehub/internal/metrics"
	"servicehub/internal/wallet"
)

type Service interface {
	// ActivePlan falls back to the default plan when the provider has no active subscription.
	ActivePlan(ctx context.Context, providerID uuid.UUID) (*Plan, error)
	Subscribe(ctx context.Context, providerID, planID uuid.UUID) (*Subscription, error)
	ListPlans(ctx context.Context) ([]Plan, error)
}

type service struct {
	repo       Repository
	walletRepo wallet.Repository
	tx         db.TxManager
}

func NewService(repo Repository, walletRepo wallet.Repository, tx db.TxManager) Service {
	return &service{repo: repo, walletRepo: walletRepo, tx: tx}
}

func (s *service) ActivePlan(ctx context.Context, providerID uuid.UUID) (*Plan, error) {
	sub, err := s.repo.GetActiveForProvider(ctx, providerID)
	if errors.Is(err, apperr.ErrNotFound) {
		return s.repo.GetDefaultPlan(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetPlan(ctx, sub.PlanID)
}

func (s *service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.repo.ListPlans(ctx)
}

// Subscribe charges the plan price, replaces the active subscription and
// grants the plan's credits. Unused credits are dropped unless the plan rolls them over.
func (s *service) Subscribe(ctx context.Context, providerID, planID uuid.UUID) (*Subscription, error) {
	var (
		plan *Plan
		sub  *Subscription
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		plan, err = s.repo.GetPlan(ctx, planID)
		if err != nil {
			return err
		}

		if plan.Price.IsPositive() {
			_, err = s.walletRepo.Debit(ctx, wallet.Entry{
				UserID: providerID,
				Amount: plan.Price,
				Type:   wallet.TypeSubscriptionPayment,
				Status: wallet.StatusCompleted,
				Description: wallet.Description{
					EN: "Subscription " + plan.Name,
					AR: "اشتراك " + plan.Name,
				},
			})
			if err != nil {
				return err
			}
		}

		if !plan.RollOverCredit {
			w, err := s.walletRepo.GetOrCreate(ctx, providerID)
			if err != nil {
				return err
			}
			if w.CreditBalance > 0 {
				_, err = s.walletRepo.DebitCredits(ctx, w.CreditBalance, wallet.Entry{
					UserID: providerID,
					Type:   wallet.TypeDiscountCredit,
					Status: wallet.StatusCancelled,
					Description: wallet.Description{
						EN: "Unused credits expired",
						AR: "انتهاء صلاحية الرصيد غير المستخدم",
					},
				})
				if err != nil {
					return err
				}
			}
		}

		if plan.CreditsPerJob > 0 {
			_, err = s.walletRepo.CreditCredits(ctx, plan.CreditsPerJob, wallet.Entry{
				UserID: providerID,
				Type:   wallet.TypePurchaseCredit,
				Status: wallet.StatusCompleted,
				Description: wallet.Description{
					EN: "Plan credits",
					AR: "رصيد الباقة",
				},
			})
			if err != nil {
				return err
			}
		}

		if err := s.repo.ExpireActive(ctx, providerID); err != nil {
			return err
		}

		now := time.Now()
		sub, err = s.repo.CreateSubscription(ctx, providerID, planID, now, now.AddDate(0, 0, plan.DurationDays))
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("provider subscribed", "provider_id", providerID, "plan", plan.Name)
	metrics.RecordSubscription(plan.Name)
	return sub, nil
}
