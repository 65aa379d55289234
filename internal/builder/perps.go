package builder

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/domain"
	"github.com/fape-labs/adrena-client/internal/txerror"
)

// OpenPositionParams describe a new leveraged position. Amounts are native
// integer units; Price carries PriceDecimals and is the pre-slippage oracle
// price. Leverage is scaled so 1x = 10_000.
type OpenPositionParams struct {
	Owner          solana.PublicKey
	Mint           solana.PublicKey // traded asset
	CollateralMint solana.PublicKey
	Side           domain.Side
	Price          uint64
	Collateral     uint64
	Leverage       uint64
	// SlippageBps overrides the default 30 bps tolerance when non-zero.
	SlippageBps int64
	// Optional trigger prices registered with the position at open.
	StopLossPrice   *uint64
	TakeProfitPrice *uint64
}

type openPositionArgs struct {
	Price           uint64
	Collateral      uint64
	Leverage        uint64
	Side            uint8
	StopLossPrice   *uint64 `bin:"optional"`
	TakeProfitPrice *uint64 `bin:"optional"`
}

// OpenPosition builds an open_position instruction. Slippage sign convention:
// a long buys, so the worst acceptable price sits above the oracle price
// (+bps); a short sells, so it sits below (-bps).
func (b *Builder) OpenPosition(ctx context.Context, params *OpenPositionParams) (*Built, error) {
	if params.Side != domain.SideLong && params.Side != domain.SideShort {
		return nil, txerror.Configuration(fmt.Sprintf("open position: invalid side %v", params.Side))
	}
	principal, err := b.resolver.TradeAccountsForMint(params.Mint)
	if err != nil {
		return nil, err
	}
	collateral, err := b.resolver.TradeAccountsForMint(params.CollateralMint)
	if err != nil {
		return nil, err
	}
	pool, err := b.resolver.Pool()
	if err != nil {
		return nil, err
	}

	built := &Built{}
	var fundingAccount solana.PublicKey
	if params.CollateralMint.Equals(common.WSOLMint) {
		fundingAccount, err = b.wrapSol(ctx, params.Owner, params.Collateral, &built.Pre)
		if err != nil {
			return nil, err
		}
		if err := unwrapSol(fundingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	} else {
		fundingAccount, err = b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.CollateralMint, &built.Pre)
		if err != nil {
			return nil, err
		}
	}

	bps := params.SlippageBps
	if bps == 0 {
		bps = defaultSlippageBps
	}
	if params.Side == domain.SideShort {
		bps = -bps
	}

	position, _ := b.registry.Position(params.Owner, pool.Address, principal.Custody, params.Side)
	transferAuthority, _ := b.registry.TransferAuthority()
	cortex, _ := b.registry.Cortex()

	data, err := encodeInstruction("open_position", &openPositionArgs{
		Price:           applySlippage(params.Price, bps),
		Collateral:      params.Collateral,
		Leverage:        params.Leverage,
		Side:            uint8(params.Side),
		StopLossPrice:   params.StopLossPrice,
		TakeProfitPrice: params.TakeProfitPrice,
	})
	if err != nil {
		return nil, err
	}

	built.Instruction = solana.NewInstruction(b.programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(params.Owner, true, true),
		solana.NewAccountMeta(fundingAccount, true, false),
		solana.NewAccountMeta(transferAuthority, false, false),
		solana.NewAccountMeta(cortex, false, false),
		solana.NewAccountMeta(pool.Address, true, false),
		solana.NewAccountMeta(position, true, false),
		solana.NewAccountMeta(principal.Custody, true, false),
		solana.NewAccountMeta(principal.Oracle, false, false),
		solana.NewAccountMeta(collateral.Custody, true, false),
		solana.NewAccountMeta(collateral.Oracle, false, false),
		solana.NewAccountMeta(collateral.TokenAccount, true, false),
		solana.NewAccountMeta(common.SystemProgramID, false, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}, data)
	return built, nil
}

// CollateralParams adjust an open position's backing without changing size.
type CollateralParams struct {
	Owner          solana.PublicKey
	Mint           solana.PublicKey
	CollateralMint solana.PublicKey
	Side           domain.Side
	// Amount is native collateral units for add, USD (UsdDecimals) for
	// remove, matching the program's argument conventions.
	Amount uint64
}

type addCollateralArgs struct {
	Collateral uint64
}

func (b *Builder) AddCollateral(ctx context.Context, params *CollateralParams) (*Built, error) {
	accounts, err := b.positionAccounts(params.Owner, params.Mint, params.CollateralMint, params.Side)
	if err != nil {
		return nil, err
	}

	built := &Built{}
	var fundingAccount solana.PublicKey
	if params.CollateralMint.Equals(common.WSOLMint) {
		fundingAccount, err = b.wrapSol(ctx, params.Owner, params.Amount, &built.Pre)
		if err != nil {
			return nil, err
		}
		if err := unwrapSol(fundingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	} else {
		fundingAccount, err = b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.CollateralMint, &built.Pre)
		if err != nil {
			return nil, err
		}
	}

	data, err := encodeInstruction("add_collateral", &addCollateralArgs{Collateral: params.Amount})
	if err != nil {
		return nil, err
	}
	built.Instruction = solana.NewInstruction(b.programID, accounts.metas(fundingAccount), data)
	return built, nil
}

type removeCollateralArgs struct {
	CollateralUsd uint64
}

func (b *Builder) RemoveCollateral(ctx context.Context, params *CollateralParams) (*Built, error) {
	accounts, err := b.positionAccounts(params.Owner, params.Mint, params.CollateralMint, params.Side)
	if err != nil {
		return nil, err
	}

	built := &Built{}
	receivingAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.CollateralMint, &built.Pre)
	if err != nil {
		return nil, err
	}
	if params.CollateralMint.Equals(common.WSOLMint) {
		if err := unwrapSol(receivingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	}

	data, err := encodeInstruction("remove_collateral", &removeCollateralArgs{CollateralUsd: params.Amount})
	if err != nil {
		return nil, err
	}
	built.Instruction = solana.NewInstruction(b.programID, accounts.metas(receivingAccount), data)
	return built, nil
}

// ClosePositionParams close the whole position at no worse than the given
// price.
type ClosePositionParams struct {
	Owner          solana.PublicKey
	Mint           solana.PublicKey
	CollateralMint solana.PublicKey
	Side           domain.Side
	Price          uint64
	SlippageBps    int64
}

type closePositionArgs struct {
	Price uint64
}

// ClosePosition builds a close_position instruction. Closing inverts the
// open-side slippage sign: a long exits by selling (price floor, -bps), a
// short exits by buying (price ceiling, +bps).
func (b *Builder) ClosePosition(ctx context.Context, params *ClosePositionParams) (*Built, error) {
	accounts, err := b.positionAccounts(params.Owner, params.Mint, params.CollateralMint, params.Side)
	if err != nil {
		return nil, err
	}

	built := &Built{}
	receivingAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.CollateralMint, &built.Pre)
	if err != nil {
		return nil, err
	}
	if params.CollateralMint.Equals(common.WSOLMint) {
		if err := unwrapSol(receivingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	}

	bps := params.SlippageBps
	if bps == 0 {
		bps = defaultSlippageBps
	}
	if params.Side == domain.SideLong {
		bps = -bps
	}

	data, err := encodeInstruction("close_position", &closePositionArgs{Price: applySlippage(params.Price, bps)})
	if err != nil {
		return nil, err
	}
	built.Instruction = solana.NewInstruction(b.programID, accounts.metas(receivingAccount), data)
	return built, nil
}

// positionAccountSet is the shared account frame of the collateral and close
// builders.
type positionAccountSet struct {
	owner             solana.PublicKey
	transferAuthority solana.PublicKey
	cortex            solana.PublicKey
	pool              solana.PublicKey
	position          solana.PublicKey
	custody           solana.PublicKey
	custodyOracle     solana.PublicKey
	collateralCustody solana.PublicKey
	collateralOracle  solana.PublicKey
	collateralVault   solana.PublicKey
}

func (s *positionAccountSet) metas(userTokenAccount solana.PublicKey) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(s.owner, true, true),
		solana.NewAccountMeta(userTokenAccount, true, false),
		solana.NewAccountMeta(s.transferAuthority, false, false),
		solana.NewAccountMeta(s.cortex, false, false),
		solana.NewAccountMeta(s.pool, true, false),
		solana.NewAccountMeta(s.position, true, false),
		solana.NewAccountMeta(s.custody, true, false),
		solana.NewAccountMeta(s.custodyOracle, false, false),
		solana.NewAccountMeta(s.collateralCustody, true, false),
		solana.NewAccountMeta(s.collateralOracle, false, false),
		solana.NewAccountMeta(s.collateralVault, true, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}
}

func (b *Builder) positionAccounts(owner, mint, collateralMint solana.PublicKey, side domain.Side) (*positionAccountSet, error) {
	if side != domain.SideLong && side != domain.SideShort {
		return nil, txerror.Configuration(fmt.Sprintf("invalid side %v", side))
	}
	principal, err := b.resolver.TradeAccountsForMint(mint)
	if err != nil {
		return nil, err
	}
	collateral, err := b.resolver.TradeAccountsForMint(collateralMint)
	if err != nil {
		return nil, err
	}
	pool, err := b.resolver.Pool()
	if err != nil {
		return nil, err
	}
	position, _ := b.registry.Position(owner, pool.Address, principal.Custody, side)
	transferAuthority, _ := b.registry.TransferAuthority()
	cortex, _ := b.registry.Cortex()

	return &positionAccountSet{
		owner:             owner,
		transferAuthority: transferAuthority,
		cortex:            cortex,
		pool:              pool.Address,
		position:          position,
		custody:           principal.Custody,
		custodyOracle:     principal.Oracle,
		collateralCustody: collateral.Custody,
		collateralOracle:  collateral.Oracle,
		collateralVault:   collateral.TokenAccount,
	}, nil
}
