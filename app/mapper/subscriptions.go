package mapper

import (
	"time"

	"github.com/substream-labs/ms-go-recurring-payments/app/entitlement"
	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
	"github.com/substream-labs/ms-go-recurring-payments/app/service"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
)

func SubscriptionToResponse(item *entity.Subscription) *types.Subscription {
	if item == nil {
		return nil
	}

	return &types.Subscription{
		ID:               item.ID,
		UserAddress:      item.SubscriberAddress,
		RecipientAddress: item.RecipientAddress,
		TokenAmount:      item.TokenAmount,
		TokenSymbol:      item.TokenSymbol,
		Frequency:        item.Frequency,
		NextPaymentAt:    item.NextPaymentAt.UTC().Format(time.RFC3339),
		Status:           item.Status,
		CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func SubscriptionsToResponse(items []*entity.Subscription) []*types.Subscription {
	result := make([]*types.Subscription, 0, len(items))
	for _, item := range items {
		result = append(result, SubscriptionToResponse(item))
	}
	return result
}

func BillingPlanToResponse(item *entity.BillingPlan) *types.BillingPlan {
	if item == nil {
		return nil
	}

	return &types.BillingPlan{
		ID:             item.ID,
		CreatorAddress: item.CreatorAddress,
		Name:           item.Name,
		Metadata:       item.Metadata,
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func BillingPlansToResponse(items []*entity.BillingPlan) []*types.BillingPlan {
	result := make([]*types.BillingPlan, 0, len(items))
	for _, item := range items {
		result = append(result, BillingPlanToResponse(item))
	}
	return result
}

func PlanSubscriptionToResponse(item *entity.PlanSubscription) *types.PlanSubscriber {
	if item == nil {
		return nil
	}

	return &types.PlanSubscriber{
		ID:                item.ID,
		PlanID:            item.PlanID,
		SubscriberAddress: item.SubscriberAddress,
		IsActive:          item.IsActive,
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		LastPaymentAt:     formatTime(item.LastPaymentAt),
	}
}

func ActivityEntryToResponse(item *entity.ActivityEntry) *types.ActivityEntry {
	if item == nil {
		return nil
	}

	return &types.ActivityEntry{
		ID:        item.ID,
		PlanID:    item.PlanID,
		Action:    item.Action,
		Detail:    item.Detail,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ActivityEntriesToResponse(items []*entity.ActivityEntry) []*types.ActivityEntry {
	result := make([]*types.ActivityEntry, 0, len(items))
	for _, item := range items {
		result = append(result, ActivityEntryToResponse(item))
	}
	return result
}

func ClientSummaryToResponse(item *service.ClientSummary) *types.ClientSummary {
	if item == nil {
		return nil
	}

	return &types.ClientSummary{
		SubscriberAddress: item.SubscriberAddress,
		SubscriptionCount: item.SubscriptionCount,
		Status:            item.Status,
		JoinedAt:          item.JoinedAt.UTC().Format(time.RFC3339),
		LastPaymentAt:     formatTime(item.LastPaymentAt),
	}
}

func ClientSummariesToResponse(items []*service.ClientSummary) []*types.ClientSummary {
	result := make([]*types.ClientSummary, 0, len(items))
	for _, item := range items {
		result = append(result, ClientSummaryToResponse(item))
	}
	return result
}

// SnapshotToResponse folds the static tier limits into the chain snapshot so
// clients get one self-contained entitlement document.
func SnapshotToResponse(item *entitlement.Snapshot) *types.Entitlement {
	if item == nil {
		return nil
	}

	limits := entitlement.LimitsFor(item.Tier)
	expiresAt := ""
	if !item.ExpiresAt.IsZero() {
		expiresAt = item.ExpiresAt.UTC().Format(time.RFC3339)
	}

	return &types.Entitlement{
		Address:          item.Address,
		Tier:             string(item.Tier),
		Active:           item.Active,
		ExpiresAt:        expiresAt,
		DaysRemaining:    item.DaysRemaining,
		MaxSubscriptions: limits.MaxSubscriptions,
		MaxClients:       limits.MaxClients,
		Features:         limits.Features,
		FetchedAt:        item.FetchedAt.UTC().Format(time.RFC3339),
	}
}

func formatTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
