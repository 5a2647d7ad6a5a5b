package entity

import "time"

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled"
)

type Subscription struct {
	ID                string
	SubscriberAddress string
	RecipientAddress  string
	TokenAmount       int64
	TokenSymbol       string
	Frequency         string
	NextPaymentAt     time.Time
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
