package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

type blockhashRPC struct {
	calls int
	next  Blockhash
	err   error
}

func (f *blockhashRPC) LatestBlockhash(context.Context) (Blockhash, error) {
	f.calls++
	if f.err != nil {
		return Blockhash{}, f.err
	}
	return f.next, nil
}

func (f *blockhashRPC) Simulate(context.Context, *solana.Transaction) (*SimulationResult, error) {
	return nil, nil
}

func (f *blockhashRPC) Broadcast(context.Context, []byte) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func (f *blockhashRPC) SignatureStatus(context.Context, solana.Signature) (*SignatureStatus, error) {
	return nil, nil
}

func (f *blockhashRPC) RecentPriorityFees(context.Context, []solana.PublicKey) ([]uint64, error) {
	return nil, nil
}

func (f *blockhashRPC) AccountInfo(context.Context, solana.PublicKey) ([]byte, error) {
	return nil, ErrAccountNotFound
}

func (f *blockhashRPC) MultipleAccounts(context.Context, []solana.PublicKey) ([][]byte, error) {
	return nil, nil
}

func TestBlockhashCacheReusesWithinTTL(t *testing.T) {
	rpc := &blockhashRPC{next: Blockhash{Hash: solana.Hash{1}, LastValidBlockHeight: 42}}
	cache := NewBlockhashCache(rpc)

	first, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if first != second {
		t.Fatal("cached value changed within TTL")
	}
	if rpc.calls != 1 {
		t.Fatalf("rpc calls = %d, want 1", rpc.calls)
	}
}

func TestBlockhashCacheFallsBackToStaleOnError(t *testing.T) {
	rpc := &blockhashRPC{next: Blockhash{Hash: solana.Hash{2}, LastValidBlockHeight: 7}}
	cache := NewBlockhashCache(rpc)

	seeded, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("seed get: %v", err)
	}

	// Force the cached entry past its TTL, then make the RPC fail.
	cache.mu.Lock()
	cache.current.updatedAt = cache.current.updatedAt.Add(-2 * blockhashTTL)
	cache.mu.Unlock()
	rpc.err = errors.New("rpc unreachable")

	stale, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("stale get: %v", err)
	}
	if stale != seeded {
		t.Fatal("expected stale cached blockhash on refresh failure")
	}
}

func TestBlockhashCacheErrorsWithNothingCached(t *testing.T) {
	rpc := &blockhashRPC{err: errors.New("rpc unreachable")}
	cache := NewBlockhashCache(rpc)

	if _, err := cache.Get(context.Background()); err == nil {
		t.Fatal("expected error with empty cache")
	}
}
