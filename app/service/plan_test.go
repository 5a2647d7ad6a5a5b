package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
)

type mockPlanRepo struct {
	createFn      func(ctx context.Context, plan *entity.BillingPlan) error
	findByIDFn    func(ctx context.Context, id string) (*entity.BillingPlan, error)
	listByCreator func(ctx context.Context, creatorAddress string) ([]*entity.BillingPlan, error)
	listIDsFn     func(ctx context.Context, creatorAddress string) ([]string, error)
	listIDsCalled int
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *entity.BillingPlan) error {
	if m.createFn != nil {
		return m.createFn(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepo) FindByID(ctx context.Context, id string) (*entity.BillingPlan, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepo) ListByCreator(ctx context.Context, creatorAddress string) ([]*entity.BillingPlan, error) {
	if m.listByCreator != nil {
		return m.listByCreator(ctx, creatorAddress)
	}
	return nil, nil
}

func (m *mockPlanRepo) ListIDsByCreator(ctx context.Context, creatorAddress string) ([]string, error) {
	m.listIDsCalled++
	if m.listIDsFn != nil {
		return m.listIDsFn(ctx, creatorAddress)
	}
	return nil, nil
}

type mockPlanSubRepo struct {
	createFn      func(ctx context.Context, planSubscription *entity.PlanSubscription) error
	listByPlanIDs func(ctx context.Context, planIDs []string) ([]*entity.PlanSubscription, error)
}

func (m *mockPlanSubRepo) Create(ctx context.Context, planSubscription *entity.PlanSubscription) error {
	if m.createFn != nil {
		return m.createFn(ctx, planSubscription)
	}
	return nil
}

func (m *mockPlanSubRepo) ListByPlanIDs(ctx context.Context, planIDs []string) ([]*entity.PlanSubscription, error) {
	if m.listByPlanIDs != nil {
		return m.listByPlanIDs(ctx, planIDs)
	}
	return nil, nil
}

type mockActivityRepo struct {
	appended        []*entity.ActivityEntry
	recent          []*entity.ActivityEntry
	recentByPlans   []*entity.ActivityEntry
	listRecentCalls int
	listByPlanCalls int
}

func (m *mockActivityRepo) Append(_ context.Context, entry *entity.ActivityEntry) error {
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockActivityRepo) ListRecent(_ context.Context, _ int) ([]*entity.ActivityEntry, error) {
	m.listRecentCalls++
	return m.recent, nil
}

func (m *mockActivityRepo) ListRecentByPlanIDs(_ context.Context, _ []string, _ int) ([]*entity.ActivityEntry, error) {
	m.listByPlanCalls++
	return m.recentByPlans, nil
}

func TestCreatePlanAppendsActivity(t *testing.T) {
	planRepo := &mockPlanRepo{}
	activity := &mockActivityRepo{}
	svc := NewPlanService(planRepo, &mockPlanSubRepo{}, activity)

	plan, err := svc.CreatePlan(context.Background(), &types.CreatePlanRequest{
		CreatorAddress: "0xccc",
		Name:           "Starter",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if plan.ID == "" {
		t.Fatal("expected generated plan id")
	}
	if len(activity.appended) != 1 || activity.appended[0].Action != entity.ActivityActionPlanCreated {
		t.Fatalf("expected plan_created activity, got %+v", activity.appended)
	}
	if activity.appended[0].PlanID != plan.ID {
		t.Fatal("activity must reference the created plan")
	}
}

func TestCreatePlanValidation(t *testing.T) {
	svc := NewPlanService(&mockPlanRepo{}, &mockPlanSubRepo{}, &mockActivityRepo{})

	if _, err := svc.CreatePlan(context.Background(), &types.CreatePlanRequest{Name: "x"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := svc.CreatePlan(context.Background(), &types.CreatePlanRequest{CreatorAddress: "0xc"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestAddSubscriberToMissingPlan(t *testing.T) {
	svc := NewPlanService(&mockPlanRepo{}, &mockPlanSubRepo{}, &mockActivityRepo{})

	_, err := svc.AddSubscriber(context.Background(), &types.AddPlanSubscriberRequest{
		PlanID:            "nope",
		SubscriberAddress: "0xaaa",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddSubscriber(t *testing.T) {
	planRepo := &mockPlanRepo{findByIDFn: func(_ context.Context, id string) (*entity.BillingPlan, error) {
		return &entity.BillingPlan{ID: id, CreatorAddress: "0xccc"}, nil
	}}
	activity := &mockActivityRepo{}
	svc := NewPlanService(planRepo, &mockPlanSubRepo{}, activity)

	sub, err := svc.AddSubscriber(context.Background(), &types.AddPlanSubscriberRequest{
		PlanID:            "plan-1",
		SubscriberAddress: "0xaaa",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !sub.IsActive {
		t.Fatal("new plan subscription should start active")
	}
	if sub.LastPaymentAt != nil {
		t.Fatal("new plan subscription should have no payment yet")
	}
	if len(activity.appended) != 1 || activity.appended[0].Action != entity.ActivityActionSubscriberJoined {
		t.Fatalf("expected subscriber_joined activity, got %+v", activity.appended)
	}
}

func TestListActivityUnfiltered(t *testing.T) {
	activity := &mockActivityRepo{recent: []*entity.ActivityEntry{{ID: 1}}}
	svc := NewPlanService(&mockPlanRepo{}, &mockPlanSubRepo{}, activity)

	items, err := svc.ListActivity(context.Background(), &types.ListActivityRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || activity.listRecentCalls != 1 {
		t.Fatalf("expected one global listing, got %d items, %d calls", len(items), activity.listRecentCalls)
	}
}

func TestListActivityCreatorWithoutPlansShortCircuits(t *testing.T) {
	planRepo := &mockPlanRepo{listIDsFn: func(context.Context, string) ([]string, error) {
		return []string{}, nil
	}}
	activity := &mockActivityRepo{}
	svc := NewPlanService(planRepo, &mockPlanSubRepo{}, activity)

	items, err := svc.ListActivity(context.Background(), &types.ListActivityRequest{CreatorAddress: "0xccc"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %d", len(items))
	}
	if activity.listRecentCalls != 0 || activity.listByPlanCalls != 0 {
		t.Fatal("no activity query may run for a creator without plans")
	}
}

func TestListActivityFiltersByOwnedPlans(t *testing.T) {
	planRepo := &mockPlanRepo{listIDsFn: func(context.Context, string) ([]string, error) {
		return []string{"plan-1", "plan-2"}, nil
	}}
	activity := &mockActivityRepo{recentByPlans: []*entity.ActivityEntry{{ID: 7, PlanID: "plan-1"}}}
	svc := NewPlanService(planRepo, &mockPlanSubRepo{}, activity)

	items, err := svc.ListActivity(context.Background(), &types.ListActivityRequest{CreatorAddress: "0xccc"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || activity.listByPlanCalls != 1 {
		t.Fatalf("expected plan-scoped listing, got %d items, %d calls", len(items), activity.listByPlanCalls)
	}
}

func TestListClients(t *testing.T) {
	now := time.Now().UTC()
	planRepo := &mockPlanRepo{listIDsFn: func(context.Context, string) ([]string, error) {
		return []string{"plan-1"}, nil
	}}
	planSubs := &mockPlanSubRepo{listByPlanIDs: func(context.Context, []string) ([]*entity.PlanSubscription, error) {
		return []*entity.PlanSubscription{
			{SubscriberAddress: "0xaaa", IsActive: true, CreatedAt: now},
			{SubscriberAddress: "0xaaa", IsActive: false, CreatedAt: now.Add(time.Hour)},
		}, nil
	}}
	svc := NewPlanService(planRepo, planSubs, &mockActivityRepo{})

	clients, err := svc.ListClients(context.Background(), &types.ListClientsRequest{CreatorAddress: "0xccc"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(clients) != 1 || clients[0].SubscriptionCount != 2 {
		t.Fatalf("unexpected aggregation: %+v", clients)
	}
}

func TestListClientsRequiresCreator(t *testing.T) {
	svc := NewPlanService(&mockPlanRepo{}, &mockPlanSubRepo{}, &mockActivityRepo{})

	if _, err := svc.ListClients(context.Background(), &types.ListClientsRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
