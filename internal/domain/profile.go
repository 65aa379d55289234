package domain

import "github.com/gagliardetto/solana-go"

// TradeStats aggregates one side's trading statistics for a profile.
type TradeStats struct {
	OpenedCount     uint64
	LiquidatedCount uint64
	OpeningSizeUsd  uint64
	ProfitsUsd      uint64
	LossesUsd       uint64
	FeePaidUsd      uint64
}

// UserProfile is a wallet's aggregated trading record. It is created lazily
// on first trade: CreatedAt == 0 means the account exists but was never
// initialized, which callers must treat as AbsentButValid rather than an
// error.
type UserProfile struct {
	Address solana.PublicKey
	Owner   solana.PublicKey

	Nickname  string
	CreatedAt int64

	SwapCount     uint64
	SwapVolumeUsd uint64

	LongStats  TradeStats
	ShortStats TradeStats
}

// Initialized reports whether the profile was ever written by a trade.
func (up *UserProfile) Initialized() bool {
	return up.CreatedAt != 0
}
