package repository

import (
	"context"

	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
)

type ActivityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, entry *entity.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (plan_id, action, detail, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, entry.PlanID, entry.Action, entry.Detail, entry.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = uint64(id)
	return nil
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]*entity.ActivityEntry, error) {
	query := `
		SELECT id, plan_id, action, detail, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	return r.listByQuery(ctx, query, limit)
}

func (r *ActivityRepository) ListRecentByPlanIDs(ctx context.Context, planIDs []string, limit int) ([]*entity.ActivityEntry, error) {
	if len(planIDs) == 0 {
		return []*entity.ActivityEntry{}, nil
	}

	query := `
		SELECT id, plan_id, action, detail, created_at
		FROM activity_log
		WHERE plan_id IN (` + placeholders(len(planIDs)) + `)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	args := make([]interface{}, 0, len(planIDs)+1)
	for _, id := range planIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	return r.listByQuery(ctx, query, args...)
}

func (r *ActivityRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]*entity.ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.ActivityEntry, 0)
	for rows.Next() {
		item := &entity.ActivityEntry{}
		if err := rows.Scan(&item.ID, &item.PlanID, &item.Action, &item.Detail, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
