package builder

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/txerror"
)

// SwapParams exchange AmountIn of MintIn for at least MinAmountOut of
// MintOut through the pool's custodies.
type SwapParams struct {
	Owner        solana.PublicKey
	MintIn       solana.PublicKey
	MintOut      solana.PublicKey
	AmountIn     uint64
	MinAmountOut uint64
}

type swapArgs struct {
	AmountIn     uint64
	MinAmountOut uint64
}

func (b *Builder) Swap(ctx context.Context, params *SwapParams) (*Built, error) {
	if params.MintIn.Equals(params.MintOut) {
		return nil, txerror.Configuration("swap: identical input and output mints")
	}
	dispensing, err := b.resolver.TradeAccountsForMint(params.MintOut)
	if err != nil {
		return nil, err
	}
	receiving, err := b.resolver.TradeAccountsForMint(params.MintIn)
	if err != nil {
		return nil, err
	}
	pool, err := b.resolver.Pool()
	if err != nil {
		return nil, err
	}

	built := &Built{}
	var fundingAccount solana.PublicKey
	if params.MintIn.Equals(common.WSOLMint) {
		fundingAccount, err = b.wrapSol(ctx, params.Owner, params.AmountIn, &built.Pre)
		if err != nil {
			return nil, err
		}
		if err := unwrapSol(fundingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	} else {
		fundingAccount, err = b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.MintIn, &built.Pre)
		if err != nil {
			return nil, err
		}
	}

	receivingAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.MintOut, &built.Pre)
	if err != nil {
		return nil, err
	}
	if params.MintOut.Equals(common.WSOLMint) && !params.MintIn.Equals(common.WSOLMint) {
		if err := unwrapSol(receivingAccount, params.Owner, &built.Post); err != nil {
			return nil, err
		}
	}

	transferAuthority, _ := b.registry.TransferAuthority()
	cortex, _ := b.registry.Cortex()

	data, err := encodeInstruction("swap", &swapArgs{
		AmountIn:     params.AmountIn,
		MinAmountOut: params.MinAmountOut,
	})
	if err != nil {
		return nil, err
	}

	built.Instruction = solana.NewInstruction(b.programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(params.Owner, true, true),
		solana.NewAccountMeta(fundingAccount, true, false),
		solana.NewAccountMeta(receivingAccount, true, false),
		solana.NewAccountMeta(transferAuthority, false, false),
		solana.NewAccountMeta(cortex, false, false),
		solana.NewAccountMeta(pool.Address, true, false),
		solana.NewAccountMeta(receiving.Custody, true, false),
		solana.NewAccountMeta(receiving.Oracle, false, false),
		solana.NewAccountMeta(receiving.TokenAccount, true, false),
		solana.NewAccountMeta(dispensing.Custody, true, false),
		solana.NewAccountMeta(dispensing.Oracle, false, false),
		solana.NewAccountMeta(dispensing.TokenAccount, true, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}, data)
	return built, nil
}
