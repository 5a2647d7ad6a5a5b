package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/substream-labs/ms-go-recurring-payments/config"
)

// Client talks to an EVM node over JSON-RPC. Write calls go through
// eth_sendTransaction, so the configured wallet must be an account the node
// holds and has unlocked.
type Client struct {
	rpc          *rpcClient
	contract     string
	token        string
	wallet       string
	pollInterval time.Duration
}

func NewClient(cfg config.LedgerConfig) *Client {
	poll := cfg.ConfirmPollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &Client{
		rpc:          newRPCClient(cfg.RPCURL),
		contract:     cfg.ContractAddress,
		token:        cfg.TokenAddress,
		wallet:       cfg.WalletAddress,
		pollInterval: poll,
	}
}

func (c *Client) IsActive(ctx context.Context, address string) (bool, error) {
	word, err := addressWord(address)
	if err != nil {
		return false, err
	}
	result, err := c.ethCall(ctx, c.contract, encodeCall("isActive(address)", word))
	if err != nil {
		return false, err
	}
	return decodeBool(result)
}

func (c *Client) Expiry(ctx context.Context, address string) (time.Time, error) {
	word, err := addressWord(address)
	if err != nil {
		return time.Time{}, err
	}
	result, err := c.ethCall(ctx, c.contract, encodeCall("getExpiry(address)", word))
	if err != nil {
		return time.Time{}, err
	}
	value, err := decodeUint(result)
	if err != nil {
		return time.Time{}, err
	}
	if value.Sign() == 0 {
		return time.Time{}, nil
	}
	return time.Unix(value.Int64(), 0).UTC(), nil
}

func (c *Client) DaysRemaining(ctx context.Context, address string) (int64, error) {
	word, err := addressWord(address)
	if err != nil {
		return 0, err
	}
	result, err := c.ethCall(ctx, c.contract, encodeCall("getDaysRemaining(address)", word))
	if err != nil {
		return 0, err
	}
	value, err := decodeUint(result)
	if err != nil {
		return 0, err
	}
	return value.Int64(), nil
}

func (c *Client) PricePerMonth(ctx context.Context) (*big.Int, error) {
	result, err := c.ethCall(ctx, c.contract, encodeCall("pricePerMonth()"))
	if err != nil {
		return nil, err
	}
	return decodeUint(result)
}

func (c *Client) BalanceOf(ctx context.Context, address string) (*big.Int, error) {
	word, err := addressWord(address)
	if err != nil {
		return nil, err
	}
	result, err := c.ethCall(ctx, c.token, encodeCall("balanceOf(address)", word))
	if err != nil {
		return nil, err
	}
	return decodeUint(result)
}

func (c *Client) Allowance(ctx context.Context, owner, spender string) (*big.Int, error) {
	ownerWord, err := addressWord(owner)
	if err != nil {
		return nil, err
	}
	spenderWord, err := addressWord(spender)
	if err != nil {
		return nil, err
	}
	result, err := c.ethCall(ctx, c.token, encodeCall("allowance(address,address)", ownerWord, spenderWord))
	if err != nil {
		return nil, err
	}
	return decodeUint(result)
}

func (c *Client) Approve(ctx context.Context, spender string, amount *big.Int) (Tx, error) {
	spenderWord, err := addressWord(spender)
	if err != nil {
		return nil, err
	}
	amountWord, err := uintWord(amount)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, c.token, encodeCall("approve(address,uint256)", spenderWord, amountWord))
}

func (c *Client) Subscribe(ctx context.Context, months uint64) (Tx, error) {
	monthsWord, err := uintWord(new(big.Int).SetUint64(months))
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, c.contract, encodeCall("subscribe(uint256)", monthsWord))
}

func (c *Client) Charge(ctx context.Context, from, to string, amount *big.Int) (Tx, error) {
	fromWord, err := addressWord(from)
	if err != nil {
		return nil, err
	}
	toWord, err := addressWord(to)
	if err != nil {
		return nil, err
	}
	amountWord, err := uintWord(amount)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, c.token, encodeCall("transferFrom(address,address,uint256)", fromWord, toWord, amountWord))
}

func (c *Client) ethCall(ctx context.Context, to, data string) (string, error) {
	params := []any{
		map[string]string{"to": to, "data": data},
		"latest",
	}
	var result string
	if err := c.rpc.call(ctx, "eth_call", params, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (c *Client) sendTransaction(ctx context.Context, to, data string) (Tx, error) {
	params := []any{
		map[string]string{"from": c.wallet, "to": to, "data": data},
	}
	var hash string
	if err := c.rpc.call(ctx, "eth_sendTransaction", params, &hash); err != nil {
		return nil, err
	}
	return &pendingTx{hash: hash, rpc: c.rpc, pollInterval: c.pollInterval}, nil
}

type txReceipt struct {
	Status string `json:"status"`
}

type pendingTx struct {
	hash         string
	rpc          *rpcClient
	pollInterval time.Duration
}

func (t *pendingTx) Hash() string {
	return t.hash
}

// Wait polls for the transaction receipt until the transaction is included.
// It returns an error for reverted transactions and on context cancellation;
// there is no internal deadline.
func (t *pendingTx) Wait(ctx context.Context) error {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *txReceipt
		if err := t.rpc.call(ctx, "eth_getTransactionReceipt", []any{t.hash}, &receipt); err != nil {
			return err
		}
		if receipt != nil {
			if receipt.Status == "0x1" {
				return nil
			}
			return fmt.Errorf("transaction %s reverted", t.hash)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
