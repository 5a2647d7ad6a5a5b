package repository

import (
	"context"
	"errors"
	"time"

	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
)

var (
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
)

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, subscriber_address, recipient_address, token_amount, token_symbol,
			frequency, next_payment_at, status, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		subscription.ID,
		subscription.SubscriberAddress,
		subscription.RecipientAddress,
		subscription.TokenAmount,
		subscription.TokenSymbol,
		subscription.Frequency,
		subscription.NextPaymentAt,
		subscription.Status,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSubscriptionAlreadyExists
		}
		return err
	}

	return nil
}

// UpdateStatus filters on both id and subscriber in one statement, so a wrong
// owner and a missing row are indistinguishable: both affect zero rows and map
// to ErrSubscriptionNotFound.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id, subscriberAddress, status string, updatedAt time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = ?, updated_at = ?
		WHERE id = ? AND subscriber_address = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, updatedAt, id, subscriberAddress)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// AdvanceSchedule moves next_payment_at forward after a successful charge. The
// guard on the current value keeps the instant monotonic even if two batch
// runs overlap.
func (r *SubscriptionRepository) AdvanceSchedule(ctx context.Context, id string, nextPaymentAt, updatedAt time.Time) error {
	query := `
		UPDATE subscriptions
		SET next_payment_at = ?, updated_at = ?
		WHERE id = ? AND next_payment_at < ?
	`

	result, err := r.db.ExecContext(ctx, query, nextPaymentAt, updatedAt, id, nextPaymentAt)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberAddress string) ([]*entity.Subscription, error) {
	query := `
		SELECT id, subscriber_address, recipient_address, token_amount, token_symbol,
		       frequency, next_payment_at, status, created_at, updated_at
		FROM subscriptions
		WHERE subscriber_address = ?
		ORDER BY created_at DESC
	`

	return r.listByQuery(ctx, query, subscriberAddress)
}

func (r *SubscriptionRepository) ListDue(ctx context.Context, now time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT id, subscriber_address, recipient_address, token_amount, token_symbol,
		       frequency, next_payment_at, status, created_at, updated_at
		FROM subscriptions
		WHERE status = ? AND next_payment_at <= ?
		ORDER BY next_payment_at ASC
	`

	return r.listByQuery(ctx, query, entity.SubscriptionStatusActive, now)
}

func (r *SubscriptionRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]*entity.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Subscription, 0)
	for rows.Next() {
		item := &entity.Subscription{}
		if err := rows.Scan(
			&item.ID,
			&item.SubscriberAddress,
			&item.RecipientAddress,
			&item.TokenAmount,
			&item.TokenSymbol,
			&item.Frequency,
			&item.NextPaymentAt,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
