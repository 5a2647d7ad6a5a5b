package entitlement

import (
	"context"
	"strings"
	"time"
)

// Snapshot is a wholesale read of one address's on-chain plan state. The chain
// is the source of truth: snapshots are replaced on every refresh, never
// mutated incrementally.
type Snapshot struct {
	Address       string
	Tier          Tier
	Active        bool
	ExpiresAt     time.Time
	DaysRemaining int64
	FetchedAt     time.Time
}

type ledgerReader interface {
	IsActive(ctx context.Context, address string) (bool, error)
	Expiry(ctx context.Context, address string) (time.Time, error)
	DaysRemaining(ctx context.Context, address string) (int64, error)
}

type Resolver struct {
	ledger     ledgerReader
	enterprise map[string]struct{}
}

func NewResolver(ledger ledgerReader, enterpriseAddresses []string) *Resolver {
	enterprise := make(map[string]struct{}, len(enterpriseAddresses))
	for _, addr := range enterpriseAddresses {
		enterprise[strings.ToLower(addr)] = struct{}{}
	}
	return &Resolver{ledger: ledger, enterprise: enterprise}
}

// Refresh re-reads the address's plan state from the ledger. The chain only
// carries an active boolean, so inactive maps to free and active to pro;
// enterprise is granted to allowlisted addresses provisioned through config.
func (r *Resolver) Refresh(ctx context.Context, address string) (*Snapshot, error) {
	address = strings.ToLower(strings.TrimSpace(address))

	active, err := r.ledger.IsActive(ctx, address)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Address:   address,
		Tier:      TierFree,
		Active:    active,
		FetchedAt: time.Now().UTC(),
	}
	if !active {
		return snapshot, nil
	}

	expiry, err := r.ledger.Expiry(ctx, address)
	if err != nil {
		return nil, err
	}
	days, err := r.ledger.DaysRemaining(ctx, address)
	if err != nil {
		return nil, err
	}

	snapshot.ExpiresAt = expiry
	snapshot.DaysRemaining = days
	snapshot.Tier = TierPro
	if _, ok := r.enterprise[address]; ok {
		snapshot.Tier = TierEnterprise
	}

	return snapshot, nil
}
