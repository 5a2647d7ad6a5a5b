package entitlement

type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Unlimited marks a quota with no upper bound.
const Unlimited = -1

type LimitKind string

const (
	LimitSubscriptions LimitKind = "subscriptions"
	LimitClients       LimitKind = "clients"
)

type Limits struct {
	MaxSubscriptions int
	MaxClients       int
	Features         []string
}

// The table is process-wide immutable configuration; changing a tier's limits
// means shipping a new build.
var limitsByTier = map[Tier]Limits{
	TierFree: {
		MaxSubscriptions: 3,
		MaxClients:       5,
		Features:         []string{"basic_billing"},
	},
	TierPro: {
		MaxSubscriptions: 50,
		MaxClients:       100,
		Features:         []string{"basic_billing", "activity_log", "client_reports"},
	},
	TierEnterprise: {
		MaxSubscriptions: Unlimited,
		MaxClients:       Unlimited,
		Features:         []string{"basic_billing", "activity_log", "client_reports", "priority_support", "custom_contracts"},
	},
}

// LimitsFor is total over the tier domain; unknown tiers fall back to free.
func LimitsFor(tier Tier) Limits {
	if limits, ok := limitsByTier[tier]; ok {
		return limits
	}
	return limitsByTier[TierFree]
}

func CanAccessFeature(tier Tier, feature string) bool {
	for _, f := range LimitsFor(tier).Features {
		if f == feature {
			return true
		}
	}
	return false
}

func HasReachedLimit(tier Tier, currentCount int, kind LimitKind) bool {
	limits := LimitsFor(tier)

	var limit int
	switch kind {
	case LimitSubscriptions:
		limit = limits.MaxSubscriptions
	case LimitClients:
		limit = limits.MaxClients
	default:
		return false
	}

	if limit == Unlimited {
		return false
	}
	return currentCount >= limit
}
