package domain

import "github.com/gagliardetto/solana-go"

// PricingParams bound what the program accepts when opening or modifying
// exposure against a custody.
type PricingParams struct {
	UseEma                            bool
	TradeSpreadLong                   uint64 // bps
	TradeSpreadShort                  uint64 // bps
	MinInitialLeverage                uint32 // leverage decimals (1x = 10_000)
	MaxInitialLeverage                uint32
	MaxLeverage                       uint32
	MaxPositionLockedUsd              uint64
	MaxCumulativeShortPositionSizeUsd uint64
}

// BorrowRateState is the custody's cumulative borrow-interest accumulator.
// CumulativeInterest carries RateDecimals precision.
type BorrowRateState struct {
	CurrentRate        uint64 // per-hour rate, RateDecimals
	LastUpdate         int64  // unix seconds
	CumulativeInterest U128   // RateDecimals
}

// AssetRatios are the pool-allocation bounds for one custody, in bps.
type AssetRatios struct {
	Target uint64
	Min    uint64
	Max    uint64
}

// CollectedFees aggregates protocol fee revenue per operation family, in USD
// native units.
type CollectedFees struct {
	SwapUsd            uint64
	AddLiquidityUsd    uint64
	RemoveLiquidityUsd uint64
	OpenPositionUsd    uint64
	ClosePositionUsd   uint64
	LiquidationUsd     uint64
	BorrowUsd          uint64
}

// Assets tracks the custody's reserve. Invariant: Owned >= Locked.
type Assets struct {
	Collateral uint64
	Owned      uint64
	Locked     uint64
}

// Custody is a venue's per-asset reserve record.
type Custody struct {
	Address solana.PublicKey

	Pool         solana.PublicKey
	Mint         solana.PublicKey
	TokenAccount solana.PublicKey
	Decimals     uint8
	IsStable     bool

	Oracle  solana.PublicKey
	Pricing PricingParams
	Ratios  AssetRatios

	Assets        Assets
	CollectedFees CollectedFees
	BorrowRate    BorrowRateState

	VolumeUsd uint64
}

// MaxLeverage returns the custody's leverage ceiling in leverage decimals
// (1x = 10_000).
func (c *Custody) MaxLeverage() uint64 {
	return uint64(c.Pricing.MaxLeverage)
}
