package builder

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/common"
)

// AddLiquidityParams deposit AmountIn of Mint into the pool in exchange for
// at least MinLpAmountOut LP tokens.
type AddLiquidityParams struct {
	Owner          solana.PublicKey
	Mint           solana.PublicKey
	AmountIn       uint64
	MinLpAmountOut uint64
}

type addLiquidityArgs struct {
	AmountIn       uint64
	MinLpAmountOut uint64
}

// AddLiquidity builds an add_liquidity instruction. The pool reprices every
// custody while minting, so the full custody/oracle list rides along as
// remaining accounts in canonical pool order.
func (b *Builder) AddLiquidity(ctx context.Context, params *AddLiquidityParams) (*Built, error) {
	custody, err := b.resolver.TradeAccountsForMint(params.Mint)
	if err != nil {
		return nil, err
	}
	pool, err := b.resolver.Pool()
	if err != nil {
		return nil, err
	}
	remaining, err := b.remainingAccounts()
	if err != nil {
		return nil, err
	}

	built := &Built{}
	var fundingAccount solana.PublicKey
	if params.Mint.Equals(common.WSOLMint) {
		fundingAccount, err = b.wrapSol(ctx, params.Owner, params.AmountIn, &built.Pre)
		if err != nil {
			return nil, err
		}
		if err := unwrapSol(fundingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	} else {
		fundingAccount, err = b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.Mint, &built.Pre)
		if err != nil {
			return nil, err
		}
	}

	lpTokenMint, _ := b.registry.LpTokenMint(pool.Address)
	lpTokenAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, lpTokenMint, &built.Pre)
	if err != nil {
		return nil, err
	}

	transferAuthority, _ := b.registry.TransferAuthority()
	cortex, _ := b.registry.Cortex()

	data, err := encodeInstruction("add_liquidity", &addLiquidityArgs{
		AmountIn:       params.AmountIn,
		MinLpAmountOut: params.MinLpAmountOut,
	})
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(params.Owner, true, true),
		solana.NewAccountMeta(fundingAccount, true, false),
		solana.NewAccountMeta(lpTokenAccount, true, false),
		solana.NewAccountMeta(transferAuthority, false, false),
		solana.NewAccountMeta(cortex, false, false),
		solana.NewAccountMeta(pool.Address, true, false),
		solana.NewAccountMeta(custody.Custody, true, false),
		solana.NewAccountMeta(custody.Oracle, false, false),
		solana.NewAccountMeta(custody.TokenAccount, true, false),
		solana.NewAccountMeta(lpTokenMint, true, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}
	metas = append(metas, remaining...)

	built.Instruction = solana.NewInstruction(b.programID, metas, data)
	return built, nil
}

// RemoveLiquidityParams redeem LpAmountIn LP tokens for at least
// MinAmountOut of Mint.
type RemoveLiquidityParams struct {
	Owner        solana.PublicKey
	Mint         solana.PublicKey
	LpAmountIn   uint64
	MinAmountOut uint64
}

type removeLiquidityArgs struct {
	LpAmountIn   uint64
	MinAmountOut uint64
}

func (b *Builder) RemoveLiquidity(ctx context.Context, params *RemoveLiquidityParams) (*Built, error) {
	custody, err := b.resolver.TradeAccountsForMint(params.Mint)
	if err != nil {
		return nil, err
	}
	pool, err := b.resolver.Pool()
	if err != nil {
		return nil, err
	}
	remaining, err := b.remainingAccounts()
	if err != nil {
		return nil, err
	}

	built := &Built{}
	receivingAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.Mint, &built.Pre)
	if err != nil {
		return nil, err
	}
	if params.Mint.Equals(common.WSOLMint) {
		if err := unwrapSol(receivingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	}

	lpTokenMint, _ := b.registry.LpTokenMint(pool.Address)
	lpTokenAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, lpTokenMint, &built.Pre)
	if err != nil {
		return nil, err
	}

	transferAuthority, _ := b.registry.TransferAuthority()
	cortex, _ := b.registry.Cortex()

	data, err := encodeInstruction("remove_liquidity", &removeLiquidityArgs{
		LpAmountIn:   params.LpAmountIn,
		MinAmountOut: params.MinAmountOut,
	})
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(params.Owner, true, true),
		solana.NewAccountMeta(receivingAccount, true, false),
		solana.NewAccountMeta(lpTokenAccount, true, false),
		solana.NewAccountMeta(transferAuthority, false, false),
		solana.NewAccountMeta(cortex, false, false),
		solana.NewAccountMeta(pool.Address, true, false),
		solana.NewAccountMeta(custody.Custody, true, false),
		solana.NewAccountMeta(custody.Oracle, false, false),
		solana.NewAccountMeta(custody.TokenAccount, true, false),
		solana.NewAccountMeta(lpTokenMint, true, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}
	metas = append(metas, remaining...)

	built.Instruction = solana.NewInstruction(b.programID, metas, data)
	return built, nil
}
