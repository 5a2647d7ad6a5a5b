package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
)

var ErrPlanAlreadyExists = errors.New("billing plan already exists")

type BillingPlanRepository struct {
	db DBTX
}

func NewBillingPlanRepository(db DBTX) *BillingPlanRepository {
	return &BillingPlanRepository{db: db}
}

func (r *BillingPlanRepository) Create(ctx context.Context, plan *entity.BillingPlan) error {
	query := `
		INSERT INTO billing_plans (id, creator_address, name, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.CreatorAddress,
		plan.Name,
		plan.Metadata,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPlanAlreadyExists
		}
		return err
	}

	return nil
}

func (r *BillingPlanRepository) FindByID(ctx context.Context, id string) (*entity.BillingPlan, error) {
	query := `
		SELECT id, creator_address, name, metadata, created_at, updated_at
		FROM billing_plans
		WHERE id = ?
	`

	item := &entity.BillingPlan{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.CreatorAddress,
		&item.Name,
		&item.Metadata,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *BillingPlanRepository) ListByCreator(ctx context.Context, creatorAddress string) ([]*entity.BillingPlan, error) {
	query := `
		SELECT id, creator_address, name, metadata, created_at, updated_at
		FROM billing_plans
		WHERE creator_address = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, creatorAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.BillingPlan, 0)
	for rows.Next() {
		item := &entity.BillingPlan{}
		if err := rows.Scan(&item.ID, &item.CreatorAddress, &item.Name, &item.Metadata, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *BillingPlanRepository) ListIDsByCreator(ctx context.Context, creatorAddress string) ([]string, error) {
	query := `
		SELECT id
		FROM billing_plans
		WHERE creator_address = ?
	`

	rows, err := r.db.QueryContext(ctx, query, creatorAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

type PlanSubscriptionRepository struct {
	db DBTX
}

func NewPlanSubscriptionRepository(db DBTX) *PlanSubscriptionRepository {
	return &PlanSubscriptionRepository{db: db}
}

func (r *PlanSubscriptionRepository) Create(ctx context.Context, planSubscription *entity.PlanSubscription) error {
	query := `
		INSERT INTO plan_subscriptions (plan_id, subscriber_address, is_active, created_at, last_payment_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		planSubscription.PlanID,
		planSubscription.SubscriberAddress,
		planSubscription.IsActive,
		planSubscription.CreatedAt,
		nullableTimeValue(planSubscription.LastPaymentAt),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	planSubscription.ID = uint64(id)
	return nil
}

func (r *PlanSubscriptionRepository) ListByPlanIDs(ctx context.Context, planIDs []string) ([]*entity.PlanSubscription, error) {
	if len(planIDs) == 0 {
		return []*entity.PlanSubscription{}, nil
	}

	query := `
		SELECT id, plan_id, subscriber_address, is_active, created_at, last_payment_at
		FROM plan_subscriptions
		WHERE plan_id IN (` + placeholders(len(planIDs)) + `)
		ORDER BY created_at ASC
	`

	args := make([]interface{}, 0, len(planIDs))
	for _, id := range planIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.PlanSubscription, 0)
	for rows.Next() {
		item := &entity.PlanSubscription{}
		var lastPayment sql.NullTime
		if err := rows.Scan(&item.ID, &item.PlanID, &item.SubscriberAddress, &item.IsActive, &item.CreatedAt, &lastPayment); err != nil {
			return nil, err
		}
		if lastPayment.Valid {
			item.LastPaymentAt = &lastPayment.Time
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// RecordPayment stamps last_payment_at on the subscriber's rows under plans
// owned by the paid recipient. Affecting zero rows is not an error: a direct
// subscription need not correspond to any plan membership.
func (r *PlanSubscriptionRepository) RecordPayment(ctx context.Context, subscriberAddress, creatorAddress string, paidAt time.Time) error {
	query := `
		UPDATE plan_subscriptions ps
		JOIN billing_plans bp ON bp.id = ps.plan_id
		SET ps.is_active = 1, ps.last_payment_at = ?
		WHERE ps.subscriber_address = ? AND bp.creator_address = ?
	`

	_, err := r.db.ExecContext(ctx, query, paidAt, subscriberAddress, creatorAddress)
	return err
}
