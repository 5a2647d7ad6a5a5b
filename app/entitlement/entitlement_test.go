package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimitsForUnknownTierFallsBackToFree(t *testing.T) {
	got := LimitsFor(Tier("platinum"))
	want := LimitsFor(TierFree)
	if got.MaxSubscriptions != want.MaxSubscriptions || got.MaxClients != want.MaxClients {
		t.Fatalf("unknown tier did not fall back to free: %+v", got)
	}
}

func TestCanAccessFeature(t *testing.T) {
	if !CanAccessFeature(TierFree, "basic_billing") {
		t.Fatal("free should have basic_billing")
	}
	if CanAccessFeature(TierFree, "client_reports") {
		t.Fatal("free should not have client_reports")
	}
	if !CanAccessFeature(TierPro, "client_reports") {
		t.Fatal("pro should have client_reports")
	}
	if !CanAccessFeature(TierEnterprise, "priority_support") {
		t.Fatal("enterprise should have priority_support")
	}
}

func TestHasReachedLimit(t *testing.T) {
	proLimit := LimitsFor(TierPro).MaxSubscriptions

	if HasReachedLimit(TierPro, proLimit-1, LimitSubscriptions) {
		t.Fatal("below limit should not be reached")
	}
	if !HasReachedLimit(TierPro, proLimit, LimitSubscriptions) {
		t.Fatal("at limit should be reached")
	}
	if !HasReachedLimit(TierPro, proLimit+1, LimitSubscriptions) {
		t.Fatal("above limit should be reached")
	}
	if HasReachedLimit(TierPro, 10, LimitKind("projects")) {
		t.Fatal("unknown kind should never be reached")
	}
}

func TestHasReachedLimitUnlimited(t *testing.T) {
	for _, n := range []int{0, 1, 1000, 1 << 30} {
		if HasReachedLimit(TierEnterprise, n, LimitSubscriptions) {
			t.Fatalf("unlimited tier reported reached at %d", n)
		}
		if HasReachedLimit(TierEnterprise, n, LimitClients) {
			t.Fatalf("unlimited tier reported reached at %d clients", n)
		}
	}
}

type fakeLedgerReader struct {
	active    bool
	activeErr error
	expiry    time.Time
	days      int64
	reads     int
}

func (f *fakeLedgerReader) IsActive(context.Context, string) (bool, error) {
	f.reads++
	return f.active, f.activeErr
}

func (f *fakeLedgerReader) Expiry(context.Context, string) (time.Time, error) {
	f.reads++
	return f.expiry, nil
}

func (f *fakeLedgerReader) DaysRemaining(context.Context, string) (int64, error) {
	f.reads++
	return f.days, nil
}

func TestRefreshInactiveMapsToFree(t *testing.T) {
	resolver := NewResolver(&fakeLedgerReader{active: false}, nil)

	snapshot, err := resolver.Refresh(context.Background(), "0xAbC")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot.Tier != TierFree || snapshot.Active {
		t.Fatalf("expected inactive free snapshot, got %+v", snapshot)
	}
	if snapshot.Address != "0xabc" {
		t.Fatalf("address not lowercased: %s", snapshot.Address)
	}
	if snapshot.FetchedAt.IsZero() {
		t.Fatal("expected FetchedAt to be stamped")
	}
}

func TestRefreshActiveMapsToPro(t *testing.T) {
	expiry := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	resolver := NewResolver(&fakeLedgerReader{active: true, expiry: expiry, days: 30}, nil)

	snapshot, err := resolver.Refresh(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot.Tier != TierPro || !snapshot.Active {
		t.Fatalf("expected active pro snapshot, got %+v", snapshot)
	}
	if !snapshot.ExpiresAt.Equal(expiry) || snapshot.DaysRemaining != 30 {
		t.Fatalf("expiry state not carried: %+v", snapshot)
	}
}

func TestRefreshEnterpriseAllowlist(t *testing.T) {
	resolver := NewResolver(&fakeLedgerReader{active: true}, []string{"0xABC"})

	snapshot, err := resolver.Refresh(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot.Tier != TierEnterprise {
		t.Fatalf("expected enterprise tier, got %s", snapshot.Tier)
	}
}

func TestRefreshPropagatesLedgerError(t *testing.T) {
	wantErr := errors.New("rpc down")
	resolver := NewResolver(&fakeLedgerReader{activeErr: wantErr}, nil)

	if _, err := resolver.Refresh(context.Background(), "0xabc"); !errors.Is(err, wantErr) {
		t.Fatalf("expected ledger error, got %v", err)
	}
}
