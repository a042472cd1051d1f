package testutil

import (
	"context"

	"github.com/faturado/faturado/internal/domain/plan"
	ierr "github.com/faturado/faturado/internal/errors"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

// NewInMemoryPlanStore creates a new in-memory plan store
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

func copyPlan(p *plan.Plan) *plan.Plan {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			WithHint("Plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyPlan(p))
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHint("Plan not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) List(ctx context.Context) ([]*plan.Plan, error) {
	plans, err := s.InMemoryStore.List(ctx, nil, nil, func(i, j *plan.Plan) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	out := make([]*plan.Plan, len(plans))
	for i, p := range plans {
		out[i] = copyPlan(p)
	}
	return out, nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			WithHint("Plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, p.ID, copyPlan(p)); err != nil {
		return ierr.NewError("plan not found").
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
