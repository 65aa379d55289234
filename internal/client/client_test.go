package client

import (
	"bytes"
	"context"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/anchor"
	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/config"
	"github.com/fape-labs/adrena-client/internal/domain"
	"github.com/fape-labs/adrena-client/internal/price"
	"github.com/fape-labs/adrena-client/internal/submit"
)

// ledgerRPC serves canned account bytes by address.
type ledgerRPC struct {
	accounts map[solana.PublicKey][]byte
}

func (f *ledgerRPC) LatestBlockhash(context.Context) (chain.Blockhash, error) {
	return chain.Blockhash{}, nil
}

func (f *ledgerRPC) Simulate(context.Context, *solana.Transaction) (*chain.SimulationResult, error) {
	return &chain.SimulationResult{UnitsConsumed: 1}, nil
}

func (f *ledgerRPC) Broadcast(context.Context, []byte) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func (f *ledgerRPC) SignatureStatus(context.Context, solana.Signature) (*chain.SignatureStatus, error) {
	return &chain.SignatureStatus{}, nil
}

func (f *ledgerRPC) RecentPriorityFees(context.Context, []solana.PublicKey) ([]uint64, error) {
	return nil, nil
}

func (f *ledgerRPC) AccountInfo(_ context.Context, key solana.PublicKey) ([]byte, error) {
	if data, found := f.accounts[key]; found {
		return data, nil
	}
	return nil, chain.ErrAccountNotFound
}

func (f *ledgerRPC) MultipleAccounts(_ context.Context, keys []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, key := range keys {
		out[i] = f.accounts[key]
	}
	return out, nil
}

func testClient(t *testing.T, rpc chain.RPC) *Client {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	rpcCfg := &config.RPCConfig{
		Cluster:   "devnet",
		RPCUrl:    "http://unused.invalid",
		ProgramID: solana.MustPublicKeyFromBase58("13gDzEXCdocbj8iAiqrZ3jd2LsmcxhBq5Pgi3qM6oWE"),
		PoolName:  "main-pool",
	}
	subCfg := &config.SubmitConfig{FeeTier: "medium"}
	return New(rpc, rpcCfg, subCfg, submit.NewKeypairSigner(key), price.NewService("http://unused.invalid"))
}

func encodeUserProfile(t *testing.T, owner solana.PublicKey, nickname string, createdAt int64) []byte {
	t.Helper()
	disc := anchor.AccountDiscriminator("UserProfile")
	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	payload := struct {
		Owner         solana.PublicKey
		Nickname      string
		CreatedAt     int64
		SwapCount     uint64
		SwapVolumeUsd uint64
		LongStats     [6]uint64
		ShortStats    [6]uint64
	}{Owner: owner, Nickname: nickname, CreatedAt: createdAt}
	if err := bin.NewBorshEncoder(buf).Encode(payload); err != nil {
		t.Fatalf("encode profile: %v", err)
	}
	return buf.Bytes()
}

func TestUserProfileNotFoundIsAbsentButValid(t *testing.T) {
	cli := testClient(t, &ledgerRPC{accounts: map[solana.PublicKey][]byte{}})

	loaded, err := cli.UserProfile(context.Background(), cli.PublicKey())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.State != domain.AbsentButValid {
		t.Fatalf("state = %v, want AbsentButValid", loaded.State)
	}
}

func TestUserProfileZeroTimestampIsAbsentButValid(t *testing.T) {
	rpc := &ledgerRPC{accounts: map[solana.PublicKey][]byte{}}
	cli := testClient(t, rpc)

	// Place an uninitialized profile at the derived address.
	owner := cli.PublicKey()
	address := profileAddress(cli, owner)
	rpc.accounts[address] = encodeUserProfile(t, owner, "", 0)

	loaded, err := cli.UserProfile(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.State != domain.AbsentButValid {
		t.Fatalf("state = %v, want AbsentButValid for zero creation timestamp", loaded.State)
	}
}

func TestUserProfilePresent(t *testing.T) {
	rpc := &ledgerRPC{accounts: map[solana.PublicKey][]byte{}}
	cli := testClient(t, rpc)

	owner := cli.PublicKey()
	address := profileAddress(cli, owner)
	rpc.accounts[address] = encodeUserProfile(t, owner, "degen", 1_700_000_000)

	loaded, err := cli.UserProfile(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.State != domain.Present {
		t.Fatalf("state = %v, want Present", loaded.State)
	}
	if loaded.Value.Nickname != "degen" {
		t.Fatalf("nickname = %q, want degen", loaded.Value.Nickname)
	}
}

func TestPositionsRequireLoadedPool(t *testing.T) {
	cli := testClient(t, &ledgerRPC{accounts: map[solana.PublicKey][]byte{}})

	if _, err := cli.Positions(context.Background(), cli.PublicKey()); err == nil {
		t.Fatal("expected error before LoadPool")
	}
}

func profileAddress(cli *Client, owner solana.PublicKey) solana.PublicKey {
	address, _ := cli.registry.UserProfile(owner)
	return address
}
