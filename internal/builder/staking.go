package builder

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/common"
)

// stakingAccountSet is the shared frame of the staking builders, keyed by
// which token is staked (governance or LP).
type stakingAccountSet struct {
	owner             solana.PublicKey
	userStaking       solana.PublicKey
	staking           solana.PublicKey
	stakedVault       solana.PublicKey
	rewardVault       solana.PublicKey
	transferAuthority solana.PublicKey
	cortex            solana.PublicKey
}

func (b *Builder) stakingAccounts(owner, stakedMint solana.PublicKey) *stakingAccountSet {
	staking, _ := b.registry.Staking(stakedMint)
	stakedVault, _ := b.registry.StakingStakedVault(staking)
	rewardVault, _ := b.registry.StakingRewardVault(staking)
	userStaking, _ := b.registry.UserStaking(owner)
	transferAuthority, _ := b.registry.TransferAuthority()
	cortex, _ := b.registry.Cortex()

	return &stakingAccountSet{
		owner:             owner,
		userStaking:       userStaking,
		staking:           staking,
		stakedVault:       stakedVault,
		rewardVault:       rewardVault,
		transferAuthority: transferAuthority,
		cortex:            cortex,
	}
}

// AddLockedStakeParams lock Amount of StakedMint for LockedDays, earning the
// duration class's reward multiplier.
type AddLockedStakeParams struct {
	Owner      solana.PublicKey
	StakedMint solana.PublicKey
	Amount     uint64
	LockedDays uint32
}

type addLockedStakeArgs struct {
	Amount     uint64
	LockedDays uint32
}

func (b *Builder) AddLockedStake(ctx context.Context, params *AddLockedStakeParams) (*Built, error) {
	set := b.stakingAccounts(params.Owner, params.StakedMint)

	built := &Built{}
	fundingAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.StakedMint, &built.Pre)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction("add_locked_stake", &addLockedStakeArgs{
		Amount:     params.Amount,
		LockedDays: params.LockedDays,
	})
	if err != nil {
		return nil, err
	}

	built.Instruction = solana.NewInstruction(b.programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(set.owner, true, true),
		solana.NewAccountMeta(fundingAccount, true, false),
		solana.NewAccountMeta(set.userStaking, true, false),
		solana.NewAccountMeta(set.staking, true, false),
		solana.NewAccountMeta(set.stakedVault, true, false),
		solana.NewAccountMeta(set.rewardVault, true, false),
		solana.NewAccountMeta(set.transferAuthority, false, false),
		solana.NewAccountMeta(set.cortex, false, false),
		solana.NewAccountMeta(common.SystemProgramID, false, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}, data)
	return built, nil
}

// RemoveLockedStakeParams break the locked stake at LockedStakeIndex. Before
// the stake's end time the program levies the early-exit fee on principal.
type RemoveLockedStakeParams struct {
	Owner            solana.PublicKey
	StakedMint       solana.PublicKey
	LockedStakeIndex uint32
}

type removeLockedStakeArgs struct {
	LockedStakeIndex uint32
}

func (b *Builder) RemoveLockedStake(ctx context.Context, params *RemoveLockedStakeParams) (*Built, error) {
	set := b.stakingAccounts(params.Owner, params.StakedMint)

	built := &Built{}
	receivingAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.StakedMint, &built.Pre)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction("remove_locked_stake", &removeLockedStakeArgs{
		LockedStakeIndex: params.LockedStakeIndex,
	})
	if err != nil {
		return nil, err
	}

	built.Instruction = solana.NewInstruction(b.programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(set.owner, true, true),
		solana.NewAccountMeta(receivingAccount, true, false),
		solana.NewAccountMeta(set.userStaking, true, false),
		solana.NewAccountMeta(set.staking, true, false),
		solana.NewAccountMeta(set.stakedVault, true, false),
		solana.NewAccountMeta(set.rewardVault, true, false),
		solana.NewAccountMeta(set.transferAuthority, false, false),
		solana.NewAccountMeta(set.cortex, false, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}, data)
	return built, nil
}

// ClaimStakesParams collect accrued rewards across all of the owner's stakes
// for one staked token. RewardMint is the token rewards pay out in.
type ClaimStakesParams struct {
	Owner      solana.PublicKey
	StakedMint solana.PublicKey
	RewardMint solana.PublicKey
}

func (b *Builder) ClaimStakes(ctx context.Context, params *ClaimStakesParams) (*Built, error) {
	set := b.stakingAccounts(params.Owner, params.StakedMint)
	lmTokenMint, _ := b.registry.LmTokenMint()

	built := &Built{}
	rewardAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, params.RewardMint, &built.Pre)
	if err != nil {
		return nil, err
	}
	lmTokenAccount, err := b.resolver.EnsureTokenAccount(ctx, params.Owner, params.Owner, lmTokenMint, &built.Pre)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction("claim_stakes", nil)
	if err != nil {
		return nil, err
	}

	built.Instruction = solana.NewInstruction(b.programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(set.owner, true, true),
		solana.NewAccountMeta(rewardAccount, true, false),
		solana.NewAccountMeta(lmTokenAccount, true, false),
		solana.NewAccountMeta(set.userStaking, true, false),
		solana.NewAccountMeta(set.staking, true, false),
		solana.NewAccountMeta(set.rewardVault, true, false),
		solana.NewAccountMeta(lmTokenMint, true, false),
		solana.NewAccountMeta(set.transferAuthority, false, false),
		solana.NewAccountMeta(set.cortex, false, false),
		solana.NewAccountMeta(common.TokenProgramID, false, false),
	}, data)
	return built, nil
}
