package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
	"github.com/substream-labs/ms-go-recurring-payments/app/factory"
	"github.com/substream-labs/ms-go-recurring-payments/app/repository"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
)

// ActivityLimit caps every activity listing at the ten most recent entries.
const ActivityLimit = 10

type billingPlanRepository interface {
	Create(ctx context.Context, plan *entity.BillingPlan) error
	FindByID(ctx context.Context, id string) (*entity.BillingPlan, error)
	ListByCreator(ctx context.Context, creatorAddress string) ([]*entity.BillingPlan, error)
	ListIDsByCreator(ctx context.Context, creatorAddress string) ([]string, error)
}

type planSubscriptionRepository interface {
	Create(ctx context.Context, planSubscription *entity.PlanSubscription) error
	ListByPlanIDs(ctx context.Context, planIDs []string) ([]*entity.PlanSubscription, error)
}

type activityRepository interface {
	Append(ctx context.Context, entry *entity.ActivityEntry) error
	ListRecent(ctx context.Context, limit int) ([]*entity.ActivityEntry, error)
	ListRecentByPlanIDs(ctx context.Context, planIDs []string, limit int) ([]*entity.ActivityEntry, error)
}

type PlanService struct {
	planRepo     billingPlanRepository
	planSubRepo  planSubscriptionRepository
	activityRepo activityRepository
	logger       logrus.FieldLogger
}

func NewPlanService(
	planRepo billingPlanRepository,
	planSubRepo planSubscriptionRepository,
	activityRepo activityRepository,
) *PlanService {
	return &PlanService{
		planRepo:     planRepo,
		planSubRepo:  planSubRepo,
		activityRepo: activityRepo,
		logger:       factory.NewModuleLogger("plan-service"),
	}
}

func (s *PlanService) CreatePlan(ctx context.Context, req *types.CreatePlanRequest) (*entity.BillingPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	now := time.Now().UTC()
	plan := &entity.BillingPlan{
		ID:             uuid.NewString(),
		CreatorAddress: req.CreatorAddress,
		Name:           req.Name,
		Metadata:       req.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrPlanAlreadyExists) {
			return nil, fmt.Errorf("%w: plan already exists", ErrInvalidRequest)
		}
		return nil, err
	}

	s.appendActivity(ctx, plan.ID, entity.ActivityActionPlanCreated, req.CreatorAddress)

	return plan, nil
}

func (s *PlanService) ListPlans(ctx context.Context, req *types.ListPlansRequest) ([]*entity.BillingPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	return s.planRepo.ListByCreator(ctx, req.CreatorAddress)
}

func (s *PlanService) AddSubscriber(ctx context.Context, req *types.AddPlanSubscriberRequest) (*entity.PlanSubscription, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	plan, err := s.planRepo.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}

	planSubscription := &entity.PlanSubscription{
		PlanID:            plan.ID,
		SubscriberAddress: req.SubscriberAddress,
		IsActive:          true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.planSubRepo.Create(ctx, planSubscription); err != nil {
		return nil, err
	}

	s.appendActivity(ctx, plan.ID, entity.ActivityActionSubscriberJoined, req.SubscriberAddress)

	return planSubscription, nil
}

// ListActivity returns the most recent entries, newest first, capped at
// ActivityLimit. With a creator filter, a creator owning zero plans gets an
// empty result without touching the activity table.
func (s *PlanService) ListActivity(ctx context.Context, req *types.ListActivityRequest) ([]*entity.ActivityEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	if req.CreatorAddress == "" {
		return s.activityRepo.ListRecent(ctx, ActivityLimit)
	}

	planIDs, err := s.planRepo.ListIDsByCreator(ctx, req.CreatorAddress)
	if err != nil {
		return nil, err
	}
	if len(planIDs) == 0 {
		return []*entity.ActivityEntry{}, nil
	}

	return s.activityRepo.ListRecentByPlanIDs(ctx, planIDs, ActivityLimit)
}

func (s *PlanService) ListClients(ctx context.Context, req *types.ListClientsRequest) ([]*ClientSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	planIDs, err := s.planRepo.ListIDsByCreator(ctx, req.CreatorAddress)
	if err != nil {
		return nil, err
	}
	if len(planIDs) == 0 {
		return []*ClientSummary{}, nil
	}

	rows, err := s.planSubRepo.ListByPlanIDs(ctx, planIDs)
	if err != nil {
		return nil, err
	}

	return AggregateClients(rows), nil
}

// Activity is an audit trail: append failures are logged, never allowed to
// fail the operation that already committed.
func (s *PlanService) appendActivity(ctx context.Context, planID, action, detail string) {
	entry := &entity.ActivityEntry{
		PlanID:    planID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("plan_id", planID).Warn("Failed to append activity")
	}
}
