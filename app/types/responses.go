package types

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Subscription struct {
	ID               string `json:"id"`
	UserAddress      string `json:"user_address"`
	RecipientAddress string `json:"recipient_address"`
	TokenAmount      int64  `json:"token_amount"`
	TokenSymbol      string `json:"token_symbol"`
	Frequency        string `json:"frequency"`
	NextPaymentAt    string `json:"next_payment_at"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type SubscriptionEnvelopeResponse struct {
	Subscription *Subscription `json:"subscription"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []*Subscription `json:"subscriptions"`
}

type ActivityEntry struct {
	ID        uint64 `json:"id"`
	PlanID    string `json:"plan_id"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListActivityResponse struct {
	Activities []*ActivityEntry `json:"activities"`
}

type ClientSummary struct {
	SubscriberAddress string `json:"subscriber_address"`
	SubscriptionCount int    `json:"subscription_count"`
	Status            string `json:"status"`
	JoinedAt          string `json:"joined_at"`
	LastPaymentAt     string `json:"last_payment_at,omitempty"`
}

type ListClientsResponse struct {
	Clients []*ClientSummary `json:"clients"`
}

type BillingPlan struct {
	ID             string `json:"id"`
	CreatorAddress string `json:"creator_address"`
	Name           string `json:"name"`
	Metadata       string `json:"metadata,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type PlanEnvelopeResponse struct {
	Plan *BillingPlan `json:"plan"`
}

type ListPlansResponse struct {
	Plans []*BillingPlan `json:"plans"`
}

type PlanSubscriber struct {
	ID                uint64 `json:"id"`
	PlanID            string `json:"plan_id"`
	SubscriberAddress string `json:"subscriber_address"`
	IsActive          bool   `json:"is_active"`
	CreatedAt         string `json:"created_at"`
	LastPaymentAt     string `json:"last_payment_at,omitempty"`
}

type PlanSubscriberEnvelopeResponse struct {
	PlanSubscriber *PlanSubscriber `json:"plan_subscriber"`
}

type Entitlement struct {
	Address          string   `json:"address"`
	Tier             string   `json:"tier"`
	Active           bool     `json:"active"`
	ExpiresAt        string   `json:"expires_at,omitempty"`
	DaysRemaining    int64    `json:"days_remaining"`
	MaxSubscriptions int      `json:"max_subscriptions"`
	MaxClients       int      `json:"max_clients"`
	Features         []string `json:"features"`
	FetchedAt        string   `json:"fetched_at"`
}

type EntitlementEnvelopeResponse struct {
	Entitlement *Entitlement `json:"entitlement"`
}

type CheckoutResponse struct {
	TxHash      string       `json:"tx_hash"`
	TotalCost   string       `json:"total_cost"`
	Entitlement *Entitlement `json:"entitlement"`
}
