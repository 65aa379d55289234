package accounts

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/domain"
	"github.com/fape-labs/adrena-client/internal/metrics"
)

func testOwner() solana.PublicKey {
	return solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
}

func TestDerivationIsDeterministic(t *testing.T) {
	a := NewRegistry(common.AdrenaProgramID)
	b := NewRegistry(common.AdrenaProgramID)

	for i := 0; i < 3; i++ {
		addrA, bumpA := a.Cortex()
		addrB, bumpB := b.Cortex()
		if !addrA.Equals(addrB) || bumpA != bumpB {
			t.Fatalf("cortex derivation diverged: %s/%d vs %s/%d", addrA, bumpA, addrB, bumpB)
		}
	}

	poolA, _ := a.Pool("main-pool")
	poolB, _ := b.Pool("main-pool")
	if !poolA.Equals(poolB) {
		t.Fatalf("pool derivation diverged: %s vs %s", poolA, poolB)
	}
}

func TestDerivationVariesWithInputs(t *testing.T) {
	r := NewRegistry(common.AdrenaProgramID)

	main, _ := r.Pool("main-pool")
	other, _ := r.Pool("other-pool")
	if main.Equals(other) {
		t.Fatal("different pool names derived the same address")
	}

	otherProgram := NewRegistry(solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))
	mainOther, _ := otherProgram.Pool("main-pool")
	if main.Equals(mainOther) {
		t.Fatal("different program IDs derived the same address")
	}
}

func TestPositionSidesDeriveDistinctAddresses(t *testing.T) {
	r := NewRegistry(common.AdrenaProgramID)
	pool, _ := r.Pool("main-pool")
	custody, _ := r.Custody(pool, common.WSOLMint)

	long, _ := r.Position(testOwner(), pool, custody, domain.SideLong)
	short, _ := r.Position(testOwner(), pool, custody, domain.SideShort)
	if long.Equals(short) {
		t.Fatal("long and short positions derived the same address")
	}

	// Memoized second call returns the identical value.
	long2, _ := r.Position(testOwner(), pool, custody, domain.SideLong)
	if !long.Equals(long2) {
		t.Fatalf("memoized derivation changed: %s vs %s", long, long2)
	}
}

func TestATADerivesUnderATAProgram(t *testing.T) {
	r := NewRegistry(common.AdrenaProgramID)

	got, _ := r.ATA(testOwner(), common.WSOLMint)
	want, _, err := solana.FindAssociatedTokenAddress(testOwner(), common.WSOLMint)
	if err != nil {
		t.Fatalf("reference derivation failed: %v", err)
	}
	if !got.Equals(want) {
		t.Fatalf("ATA mismatch: got %s want %s", got, want)
	}
}

func TestDerivationCacheGaugeCountsFirstInsertOnly(t *testing.T) {
	r := NewRegistry(common.AdrenaProgramID)
	before := testutil.ToFloat64(metrics.DerivationCacheSize)

	r.Cortex()
	r.Cortex()
	r.ATA(testOwner(), common.WSOLMint)
	r.ATA(testOwner(), common.WSOLMint)

	if got := testutil.ToFloat64(metrics.DerivationCacheSize) - before; got != 2 {
		t.Fatalf("cache gauge grew by %v, want 2 for two distinct derivations", got)
	}
}
