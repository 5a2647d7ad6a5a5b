package service

import (
	"context"
	"fmt"
	"math/big"

	"github.com/substream-labs/ms-go-recurring-payments/app/entitlement"
	"github.com/substream-labs/ms-go-recurring-payments/app/ledger"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
	"github.com/substream-labs/ms-go-recurring-payments/config"
	"golang.org/x/sync/singleflight"
)

type checkoutLedger interface {
	PricePerMonth(ctx context.Context) (*big.Int, error)
	BalanceOf(ctx context.Context, address string) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender string) (*big.Int, error)
	Approve(ctx context.Context, spender string, amount *big.Int) (ledger.Tx, error)
	Subscribe(ctx context.Context, months uint64) (ledger.Tx, error)
}

type snapshotResolver interface {
	Refresh(ctx context.Context, address string) (*entitlement.Snapshot, error)
}

type CheckoutResult struct {
	TxHash    string
	TotalCost *big.Int
	Snapshot  *entitlement.Snapshot
}

// CheckoutService runs the payment authorization workflow: quote the price,
// check the balance, raise the allowance if short, submit the subscribe
// transaction and wait for inclusion, then refresh the entitlement snapshot.
// Stages are strictly ordered; the two mutating calls each block on
// confirmation before the next stage starts.
type CheckoutService struct {
	ledger   checkoutLedger
	resolver snapshotResolver
	cfg      config.LedgerConfig
	group    singleflight.Group
}

func NewCheckoutService(checkoutLedger checkoutLedger, resolver snapshotResolver, cfg config.LedgerConfig) *CheckoutService {
	return &CheckoutService{
		ledger:   checkoutLedger,
		resolver: resolver,
		cfg:      cfg,
	}
}

// Subscribe serializes workflows per wallet: concurrent attempts for the same
// identity collapse into a single execution and share its outcome.
func (s *CheckoutService) Subscribe(ctx context.Context, req *types.CheckoutRequest) (*CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	if s.cfg.WalletAddress == "" || s.cfg.ContractAddress == "" {
		return nil, fmt.Errorf("%w: wallet and contract addresses must be set", ErrNotConfigured)
	}

	value, err, _ := s.group.Do(s.cfg.WalletAddress, func() (interface{}, error) {
		return s.runWorkflow(ctx, req.Months)
	})
	if err != nil {
		return nil, err
	}
	return value.(*CheckoutResult), nil
}

func (s *CheckoutService) runWorkflow(ctx context.Context, months uint64) (*CheckoutResult, error) {
	// Monetary math stays in big.Int end to end; no floating point.
	price, err := s.ledger.PricePerMonth(ctx)
	if err != nil {
		return nil, err
	}
	totalCost := new(big.Int).Mul(price, new(big.Int).SetUint64(months))

	balance, err := s.ledger.BalanceOf(ctx, s.cfg.WalletAddress)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(totalCost) < 0 {
		return nil, fmt.Errorf("%w: balance %s below total cost %s", ErrInsufficientFunds, balance, totalCost)
	}

	allowance, err := s.ledger.Allowance(ctx, s.cfg.WalletAddress, s.cfg.ContractAddress)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(totalCost) < 0 {
		approveTx, err := s.ledger.Approve(ctx, s.cfg.ContractAddress, totalCost)
		if err != nil {
			return nil, fmt.Errorf("%w: approve rejected: %s", ErrAuthorizationDenied, err.Error())
		}
		if err := approveTx.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: approve failed: %s", ErrAuthorizationDenied, err.Error())
		}
	}

	subscribeTx, err := s.ledger.Subscribe(ctx, months)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe rejected: %s", ErrAuthorizationDenied, err.Error())
	}
	if err := subscribeTx.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: subscribe failed: %s", ErrAuthorizationDenied, err.Error())
	}

	// Success is only reported after re-reading chain state; the tier is
	// never set optimistically ahead of confirmation.
	snapshot, err := s.resolver.Refresh(ctx, s.cfg.WalletAddress)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		TxHash:    subscribeTx.Hash(),
		TotalCost: totalCost,
		Snapshot:  snapshot,
	}, nil
}
