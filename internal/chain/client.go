// Package chain adapts the Solana JSON-RPC surface to the narrow set of
// operations the pipeline needs, so everything above it can be exercised
// against fakes.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrAccountNotFound reports a read of an address with no account behind it.
var ErrAccountNotFound = errors.New("account not found")

// Blockhash is a recent blockhash with its expiry height.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// SimulationResult is the outcome of simulating a draft transaction. Err is
// empty when the transaction would succeed.
type SimulationResult struct {
	Err           string
	Logs          []string
	UnitsConsumed uint64
	ReturnData    []byte
}

func (r *SimulationResult) Success() bool { return r.Err == "" }

// SignatureStatus is one poll of a broadcast signature.
type SignatureStatus struct {
	Found         bool
	Confirmations uint64
	Finalized     bool
	Err           string
}

// RPC is the ledger-network collaborator. *Client implements it against a
// real endpoint; tests substitute fakes.
type RPC interface {
	LatestBlockhash(ctx context.Context) (Blockhash, error)
	Simulate(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error)
	// Broadcast transmits an already-signed payload exactly once; the caller
	// owns retries and re-broadcasts.
	Broadcast(ctx context.Context, signed []byte) (solana.Signature, error)
	SignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error)
	RecentPriorityFees(ctx context.Context, accounts []solana.PublicKey) ([]uint64, error)
	AccountInfo(ctx context.Context, key solana.PublicKey) ([]byte, error)
	MultipleAccounts(ctx context.Context, keys []solana.PublicKey) ([][]byte, error)
}

// Client wraps a solana-go RPC client.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
}

// New builds a Client for the given endpoint.
func New(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint), commitment: rpc.CommitmentConfirmed}
}

func (c *Client) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	res, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return Blockhash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return Blockhash{
		Hash:                 res.Value.Blockhash,
		LastValidBlockHeight: res.Value.LastValidBlockHeight,
	}, nil
}

func (c *Client) Simulate(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error) {
	opts := rpc.SimulateTransactionOpts{
		SigVerify:              false,
		Commitment:             rpc.CommitmentProcessed,
		ReplaceRecentBlockhash: true,
	}
	result, err := c.rpc.SimulateTransactionWithOpts(ctx, tx, &opts)
	if err != nil {
		return nil, fmt.Errorf("simulate transaction: %w", err)
	}

	out := &SimulationResult{Logs: result.Value.Logs}
	if result.Value.Err != nil {
		out.Err = fmt.Sprintf("%v", result.Value.Err)
	}
	if result.Value.UnitsConsumed != nil {
		out.UnitsConsumed = *result.Value.UnitsConsumed
	}
	return out, nil
}

func (c *Client) Broadcast(ctx context.Context, signed []byte) (solana.Signature, error) {
	// Preflight already happened through the fee estimator's simulation;
	// MaxRetries=0 keeps the node from re-broadcasting on its own, the
	// submission engine owns that loop.
	zero := uint(0)
	sig, err := c.rpc.SendRawTransactionWithOpts(ctx, signed, rpc.TransactionOpts{
		SkipPreflight: true,
		MaxRetries:    &zero,
	})
	if err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

func (c *Client) SignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error) {
	result, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, err
	}
	if len(result.Value) == 0 || result.Value[0] == nil {
		return &SignatureStatus{}, nil
	}
	status := result.Value[0]
	out := &SignatureStatus{
		Found:     true,
		Finalized: status.ConfirmationStatus == rpc.ConfirmationStatusFinalized,
	}
	if status.Confirmations != nil {
		out.Confirmations = *status.Confirmations
	}
	if status.Err != nil {
		out.Err = fmt.Sprintf("%v", status.Err)
	}
	return out, nil
}

func (c *Client) RecentPriorityFees(ctx context.Context, accounts []solana.PublicKey) ([]uint64, error) {
	recent, err := c.rpc.GetRecentPrioritizationFees(ctx, accounts)
	if err != nil {
		return nil, err
	}
	fees := make([]uint64, 0, len(recent))
	for _, fee := range recent {
		if fee.PrioritizationFee > 0 {
			fees = append(fees, fee.PrioritizationFee)
		}
	}
	return fees, nil
}

func (c *Client) AccountInfo(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, key, &rpc.GetAccountInfoOpts{Commitment: c.commitment})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", key, err)
	}
	if res == nil || res.Value == nil {
		return nil, ErrAccountNotFound
	}
	return res.Value.Data.GetBinary(), nil
}

func (c *Client) MultipleAccounts(ctx context.Context, keys []solana.PublicKey) ([][]byte, error) {
	res, err := c.rpc.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{Commitment: c.commitment})
	if err != nil {
		return nil, fmt.Errorf("get multiple accounts: %w", err)
	}
	out := make([][]byte, len(res.Value))
	for i, acc := range res.Value {
		if acc == nil {
			continue
		}
		out[i] = acc.Data.GetBinary()
	}
	return out, nil
}
