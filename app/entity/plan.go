package entity

import "time"

type BillingPlan struct {
	ID             string
	CreatorAddress string
	Name           string
	Metadata       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PlanSubscription links a subscriber address to a billing plan. The same
// address may appear under any number of plans.
type PlanSubscription struct {
	ID                uint64
	PlanID            string
	SubscriberAddress string
	IsActive          bool
	CreatedAt         time.Time
	LastPaymentAt     *time.Time
}
