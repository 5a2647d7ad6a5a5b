package entity

import "time"

const (
	ActivityActionPlanCreated      = "plan_created"
	ActivityActionSubscriberJoined = "subscriber_joined"
	ActivityActionPaymentRecorded  = "payment_recorded"
)

// ActivityEntry is an append-only audit row; entries are never updated or
// deleted after insert.
type ActivityEntry struct {
	ID        uint64
	PlanID    string
	Action    string
	Detail    string
	CreatedAt time.Time
}
