package domain

import "github.com/gagliardetto/solana-go"

// MaxLockedStakes is the fixed size of the locked-stake list on UserStaking.
const MaxLockedStakes = 32

// LockedStake is a time-locked staking sub-deposit. Removing it before
// EndTime costs an early-exit fee whose rate decays linearly with remaining
// lock time (see economics.EarlyExitFeeRate).
type LockedStake struct {
	Amount       uint64
	StakeTime    int64
	ClaimTime    int64
	EndTime      int64
	LockDuration int64 // seconds

	// RewardMultiplier class, bps: 10_000 = 1x.
	RewardMultiplier   uint64
	LmRewardMultiplier uint64

	Resolved bool
}

// Active reports whether the slot holds a live stake.
func (ls *LockedStake) Active() bool {
	return ls.Amount > 0 && !ls.Resolved
}

// UserStaking is one wallet's stake principal plus locked sub-stakes.
type UserStaking struct {
	Address solana.PublicKey
	Owner   solana.PublicKey

	LiquidStakeAmount uint64
	LockedStakes      [MaxLockedStakes]LockedStake
}

// ActiveLockedStakes returns live locked stakes in slot order.
func (us *UserStaking) ActiveLockedStakes() []LockedStake {
	out := make([]LockedStake, 0, MaxLockedStakes)
	for _, ls := range us.LockedStakes {
		if ls.Active() {
			out = append(out, ls)
		}
	}
	return out
}
