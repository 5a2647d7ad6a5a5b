package ledger

import (
	"context"
	"math/big"
	"time"
)

// Tx is a submitted transaction handle. Wait blocks until the transaction is
// included in a block and returns an error if it reverted; broadcast alone is
// never treated as success.
type Tx interface {
	Hash() string
	Wait(ctx context.Context) error
}

// Ledger is the on-chain collaborator: the subscription contract plus the
// payment token. Reads are side-effect free; Approve, Subscribe and Charge
// submit transactions.
type Ledger interface {
	IsActive(ctx context.Context, address string) (bool, error)
	Expiry(ctx context.Context, address string) (time.Time, error)
	DaysRemaining(ctx context.Context, address string) (int64, error)
	PricePerMonth(ctx context.Context) (*big.Int, error)
	BalanceOf(ctx context.Context, address string) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender string) (*big.Int, error)
	Approve(ctx context.Context, spender string, amount *big.Int) (Tx, error)
	Subscribe(ctx context.Context, months uint64) (Tx, error)
	Charge(ctx context.Context, from, to string, amount *big.Int) (Tx, error)
}
