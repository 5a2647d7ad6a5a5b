package service

import (
	"time"

	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
)

const (
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
)

// ClientSummary is a derived per-subscriber rollup; it is computed on read and
// never persisted.
type ClientSummary struct {
	SubscriberAddress string
	SubscriptionCount int
	Status            string
	JoinedAt          time.Time
	LastPaymentAt     *time.Time
}

// AggregateClients folds plan-subscription rows into one summary per
// subscriber address. Count, earliest join and latest payment are commutative
// over input order; status latches to active as soon as any row is active and
// never reverts within a pass. Output keeps first-seen order.
func AggregateClients(rows []*entity.PlanSubscription) []*ClientSummary {
	byAddress := make(map[string]*ClientSummary, len(rows))
	ordered := make([]*ClientSummary, 0, len(rows))

	for _, row := range rows {
		summary, seen := byAddress[row.SubscriberAddress]
		if !seen {
			summary = &ClientSummary{
				SubscriberAddress: row.SubscriberAddress,
				SubscriptionCount: 1,
				Status:            ClientStatusInactive,
				JoinedAt:          row.CreatedAt,
				LastPaymentAt:     row.LastPaymentAt,
			}
			if row.IsActive {
				summary.Status = ClientStatusActive
			}
			byAddress[row.SubscriberAddress] = summary
			ordered = append(ordered, summary)
			continue
		}

		summary.SubscriptionCount++
		if row.CreatedAt.Before(summary.JoinedAt) {
			summary.JoinedAt = row.CreatedAt
		}
		if row.LastPaymentAt != nil {
			if summary.LastPaymentAt == nil || row.LastPaymentAt.After(*summary.LastPaymentAt) {
				summary.LastPaymentAt = row.LastPaymentAt
			}
		}
		if row.IsActive {
			summary.Status = ClientStatusActive
		}
	}

	return ordered
}
