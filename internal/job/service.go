package job

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"servicehub/internal/apperr"
	"servicehub/internal/logger"
)

type Service interface {
	Post(ctx context.Context, in PostInput) (*Job, error)
	Cancel(ctx context.Context, in CancelInput) error
	Get(ctx context.Context, id uuid.UUID) (*Job, error)
	ListMine(ctx context.Context, clientID uuid.UUID, state State) ([]Job, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Post(ctx context.Context, in PostInput) (*Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if !in.Price.IsPositive() {
		return nil, apperr.Validation("price must be positive")
	}
	if len(in.Images) > MaxImages {
		return nil, apperr.Validation("a job holds at most 6 images")
	}
	if in.ViewState == "" {
		in.ViewState = ViewPublic
	}
	if in.ViewState != ViewPublic && in.ViewState != ViewPrivate {
		return nil, apperr.Validation("unknown view state " + string(in.ViewState))
	}

	j := &Job{
		ID:             uuid.Must(uuid.NewV4()),
		ClientID:       in.ClientID,
		ServiceID:      in.ServiceID,
		CategoryID:     in.CategoryID,
		AddressID:      in.AddressID,
		Title:          in.Title,
		Description:    in.Description,
		Price:          in.Price,
		State:          StateOpen,
		QuotationState: QuotationOpenToQuote,
		ViewState:      in.ViewState,
		Images:         append([]string{}, in.Images...),
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Cancel closes an open job owned by the caller. Booked and closed jobs cannot be cancelled.
func (s *service) Cancel(ctx context.Context, in CancelInput) error {
	j, err := s.repo.GetByID(ctx, in.JobID)
	if err != nil {
		return err
	}
	if j.ClientID != in.ClientID {
		return apperr.NotFound("job")
	}
	if j.State != StateOpen {
		return apperr.InvalidState("job %s is %s", j.ID, j.State)
	}

	if err := s.repo.Close(ctx, j.ID, in.ReasonID, in.Description); err != nil {
		return err
	}

	logger.Info("job cancelled", "job_id", j.ID, "reason_id", in.ReasonID)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context, clientID uuid.UUID, state State) ([]Job, error) {
	return s.repo.ListByClient(ctx, clientID, state)
}
