package builder

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/accounts"
	"github.com/fape-labs/adrena-client/internal/anchor"
	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/domain"
	"github.com/fape-labs/adrena-client/internal/economics"
)

// accountlessRPC reports every account as missing, so ATA bootstrap always
// produces a creation pre-instruction.
type accountlessRPC struct{}

func (accountlessRPC) LatestBlockhash(context.Context) (chain.Blockhash, error) {
	return chain.Blockhash{}, nil
}
func (accountlessRPC) Simulate(context.Context, *solana.Transaction) (*chain.SimulationResult, error) {
	return &chain.SimulationResult{}, nil
}
func (accountlessRPC) Broadcast(context.Context, []byte) (solana.Signature, error) {
	return solana.Signature{}, nil
}
func (accountlessRPC) SignatureStatus(context.Context, solana.Signature) (*chain.SignatureStatus, error) {
	return &chain.SignatureStatus{}, nil
}
func (accountlessRPC) RecentPriorityFees(context.Context, []solana.PublicKey) ([]uint64, error) {
	return nil, nil
}
func (accountlessRPC) AccountInfo(context.Context, solana.PublicKey) ([]byte, error) {
	return nil, chain.ErrAccountNotFound
}
func (accountlessRPC) MultipleAccounts(context.Context, []solana.PublicKey) ([][]byte, error) {
	return nil, nil
}

var (
	usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	owner    = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	oracleA  = solana.MustPublicKeyFromBase58("H6ARHf6YXhGYeQfUzQNGk6rDNnLBQKrenN712K4AQJEG")
	oracleB  = solana.MustPublicKeyFromBase58("Gnt27xtC473ZT2Mw5u8wZ68Z3gULkSTb5DuxJy7eJotD")
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	registry := accounts.NewRegistry(common.AdrenaProgramID)
	resolver := accounts.NewResolver(registry, accountlessRPC{})

	poolAddress, _ := registry.Pool("main-pool")
	solCustody, _ := registry.Custody(poolAddress, common.WSOLMint)
	usdcCustody, _ := registry.Custody(poolAddress, usdcMint)
	solVault, _ := registry.CustodyTokenAccount(poolAddress, common.WSOLMint)
	usdcVault, _ := registry.CustodyTokenAccount(poolAddress, usdcMint)

	pool := &domain.Pool{Address: poolAddress, Name: "main-pool"}
	pool.Custodies[0] = solCustody
	pool.Custodies[1] = usdcCustody

	resolver.SetSnapshot(pool, []*domain.Custody{
		{Address: solCustody, Pool: poolAddress, Mint: common.WSOLMint, TokenAccount: solVault, Decimals: 9, Oracle: oracleA},
		{Address: usdcCustody, Pool: poolAddress, Mint: usdcMint, TokenAccount: usdcVault, Decimals: 6, IsStable: true, Oracle: oracleB},
	})
	return New(resolver)
}

func TestOpenLongScenario(t *testing.T) {
	b := testBuilder(t)

	// 100.0 human units of a 6-decimal collateral.
	collateral, err := economics.HumanStringToNative("100.0", 6)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	if collateral != 100_000_000 {
		t.Fatalf("collateral = %d, want 100000000", collateral)
	}
	// Leverage 5.0 in program units.
	leverage, err := economics.HumanStringToNative("5.0", 4)
	if err != nil {
		t.Fatalf("leverage conversion: %v", err)
	}
	if leverage != 50_000 {
		t.Fatalf("leverage = %d, want 50000", leverage)
	}

	built, err := b.OpenPosition(context.Background(), &OpenPositionParams{
		Owner:          owner,
		Mint:           common.WSOLMint,
		CollateralMint: usdcMint,
		Side:           domain.SideLong,
		Price:          1_000_000_000_000, // 100.0 at 10 decimals
		Collateral:     collateral,
		Leverage:       leverage,
	})
	if err != nil {
		t.Fatalf("OpenPosition: %v", err)
	}

	// Collateral account does not exist yet: exactly one bootstrap
	// pre-instruction, then the operation.
	if len(built.Pre) != 1 {
		t.Fatalf("pre-instructions = %d, want 1 (ATA bootstrap)", len(built.Pre))
	}
	if !built.Pre[0].ProgramID().Equals(common.ATAProgramID) {
		t.Fatalf("pre[0] program = %s, want ATA program", built.Pre[0].ProgramID())
	}
	flat := built.Flatten()
	if len(flat) != 2 {
		t.Fatalf("flattened = %d instructions, want 2", len(flat))
	}
	if !flat[1].ProgramID().Equals(common.AdrenaProgramID) {
		t.Fatalf("operation program = %s, want perpetuals program", flat[1].ProgramID())
	}

	data, err := built.Instruction.Data()
	if err != nil {
		t.Fatalf("instruction data: %v", err)
	}
	disc := anchor.InstructionDiscriminator("open_position")
	for i := range disc {
		if data[i] != disc[i] {
			t.Fatal("instruction data does not start with the open_position discriminator")
		}
	}

	// Long open pays up: price shifted +0.3% to 100.3.
	gotPrice := binary.LittleEndian.Uint64(data[8:16])
	if want := uint64(1_003_000_000_000); gotPrice != want {
		t.Fatalf("slippage-adjusted price = %d, want %d", gotPrice, want)
	}
}

func TestOpenShortAppliesNegativeSlippage(t *testing.T) {
	b := testBuilder(t)

	built, err := b.OpenPosition(context.Background(), &OpenPositionParams{
		Owner:          owner,
		Mint:           common.WSOLMint,
		CollateralMint: usdcMint,
		Side:           domain.SideShort,
		Price:          1_000_000_000_000,
		Collateral:     1_000_000,
		Leverage:       20_000,
	})
	if err != nil {
		t.Fatalf("OpenPosition: %v", err)
	}

	data, err := built.Instruction.Data()
	if err != nil {
		t.Fatalf("instruction data: %v", err)
	}
	gotPrice := binary.LittleEndian.Uint64(data[8:16])
	if want := uint64(997_000_000_000); gotPrice != want {
		t.Fatalf("short open price = %d, want %d (-0.3%%)", gotPrice, want)
	}
}

func TestOpenPositionRejectsUnknownMint(t *testing.T) {
	b := testBuilder(t)
	unknown := solana.MustPublicKeyFromBase58("4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R")

	_, err := b.OpenPosition(context.Background(), &OpenPositionParams{
		Owner:          owner,
		Mint:           unknown,
		CollateralMint: usdcMint,
		Side:           domain.SideLong,
		Price:          1,
		Collateral:     1,
		Leverage:       10_000,
	})
	if err == nil {
		t.Fatal("expected error for mint with no custody")
	}
}

func TestClosePositionInvertsSlippage(t *testing.T) {
	b := testBuilder(t)

	built, err := b.ClosePosition(context.Background(), &ClosePositionParams{
		Owner:          owner,
		Mint:           common.WSOLMint,
		CollateralMint: usdcMint,
		Side:           domain.SideLong,
		Price:          1_000_000_000_000,
	})
	if err != nil {
		t.Fatalf("ClosePosition: %v", err)
	}

	data, err := built.Instruction.Data()
	if err != nil {
		t.Fatalf("instruction data: %v", err)
	}
	// A long exits by selling: the floor sits 0.3% below the oracle price.
	gotPrice := binary.LittleEndian.Uint64(data[8:16])
	if want := uint64(997_000_000_000); gotPrice != want {
		t.Fatalf("long close price = %d, want %d", gotPrice, want)
	}
}

func TestAddLiquidityCarriesRemainingAccountsInPoolOrder(t *testing.T) {
	b := testBuilder(t)

	built, err := b.AddLiquidity(context.Background(), &AddLiquidityParams{
		Owner:          owner,
		Mint:           usdcMint,
		AmountIn:       1_000_000,
		MinLpAmountOut: 1,
	})
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	registry := accounts.NewRegistry(common.AdrenaProgramID)
	poolAddress, _ := registry.Pool("main-pool")
	solCustody, _ := registry.Custody(poolAddress, common.WSOLMint)
	usdcCustody, _ := registry.Custody(poolAddress, usdcMint)

	metas := built.Instruction.Accounts()
	// Remaining accounts trail the fixed frame: custodies first in pool
	// order, then their oracles in the same order.
	tail := metas[len(metas)-4:]
	if !tail[0].PublicKey.Equals(solCustody) || !tail[1].PublicKey.Equals(usdcCustody) {
		t.Fatalf("custody order = [%s %s], want pool order [%s %s]",
			tail[0].PublicKey, tail[1].PublicKey, solCustody, usdcCustody)
	}
	if !tail[2].PublicKey.Equals(oracleA) || !tail[3].PublicKey.Equals(oracleB) {
		t.Fatalf("oracle order = [%s %s], want [%s %s]",
			tail[2].PublicKey, tail[3].PublicKey, oracleA, oracleB)
	}
}

func TestSwapRejectsSameMint(t *testing.T) {
	b := testBuilder(t)
	_, err := b.Swap(context.Background(), &SwapParams{
		Owner:    owner,
		MintIn:   usdcMint,
		MintOut:  usdcMint,
		AmountIn: 1,
	})
	if err == nil {
		t.Fatal("expected error for identical mints")
	}
}

func TestWSOLCollateralWrapsAndUnwraps(t *testing.T) {
	b := testBuilder(t)

	built, err := b.OpenPosition(context.Background(), &OpenPositionParams{
		Owner:          owner,
		Mint:           common.WSOLMint,
		CollateralMint: common.WSOLMint,
		Side:           domain.SideLong,
		Price:          1_000_000_000_000,
		Collateral:     2_000_000_000,
		Leverage:       30_000,
	})
	if err != nil {
		t.Fatalf("OpenPosition: %v", err)
	}

	// Wrap = create ATA + transfer lamports + sync native.
	if len(built.Pre) != 3 {
		t.Fatalf("pre-instructions = %d, want 3 (create, transfer, sync)", len(built.Pre))
	}
	if !built.Pre[0].ProgramID().Equals(common.ATAProgramID) {
		t.Fatal("wrap must start with ATA creation")
	}
	if !built.Pre[2].ProgramID().Equals(common.TokenProgramID) {
		t.Fatal("wrap must end with a token-program sync")
	}
	// Unwrap = close account back to the owner.
	if len(built.Post) != 1 || !built.Post[0].ProgramID().Equals(common.TokenProgramID) {
		t.Fatalf("post-instructions = %d, want a single close", len(built.Post))
	}
}
