package builder

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/fape-labs/adrena-client/internal/common"
)

// wrapSol prepends the instructions that fund the owner's wrapped-SOL token
// account with native lamports: idempotent ATA creation, a system transfer
// and a sync. Returns the funded account address.
func (b *Builder) wrapSol(ctx context.Context, owner solana.PublicKey, lamports uint64, pre *[]solana.Instruction) (solana.PublicKey, error) {
	ata, err := b.resolver.EnsureTokenAccount(ctx, owner, owner, common.WSOLMint, pre)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("wrap sol: %w", err)
	}
	*pre = append(*pre,
		system.NewTransferInstruction(lamports, owner, ata).Build(),
		newSyncNativeInstruction(ata),
	)
	return ata, nil
}

// unwrapSol appends the close that returns the wrapped account's lamports to
// the owner once the operation has consumed or produced them.
func unwrapSol(ata, owner solana.PublicKey, post *[]solana.Instruction) error {
	closeIx, err := token.NewCloseAccountInstructionBuilder().
		SetAccount(ata).
		SetDestinationAccount(owner).
		SetOwnerAccount(owner).
		ValidateAndBuild()
	if err != nil {
		return fmt.Errorf("unwrap sol: %w", err)
	}
	*post = append(*post, closeIx)
	return nil
}

// newSyncNativeInstruction syncs a wrapped-SOL token account's balance with
// its lamports (token program instruction 17).
func newSyncNativeInstruction(account solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		common.TokenProgramID,
		solana.AccountMetaSlice{solana.NewAccountMeta(account, true, false)},
		[]byte{17},
	)
}
