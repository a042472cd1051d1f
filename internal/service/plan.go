package service

import (
	"context"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/plan"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/samber/lo"
)

// PlanService manages service plans.
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context) (*dto.ListPlansResponse, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams: params,
	}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan()
	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created plan",
		"plan_id", p.ID,
		"name", p.Name,
		"period_months", p.PeriodMonths)

	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if id == "" {
		return nil, ierr.NewError("plan ID is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) ListPlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	plans, err := s.PlanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
		return &dto.PlanResponse{Plan: p}
	})
	return &dto.ListPlansResponse{Items: items, Total: len(items)}, nil
}

func (s *planService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PlanResponse{Plan: p}, nil
}
