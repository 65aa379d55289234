package domain

import "github.com/gagliardetto/solana-go"

// Position is one user's leveraged exposure: one asset, one side, one
// collateral asset. Its address derives from (owner, pool, custody, side), so
// at most one open long and one open short exist per (owner, custody).
type Position struct {
	Address solana.PublicKey

	Owner             solana.PublicKey
	Pool              solana.PublicKey
	Custody           solana.PublicKey
	CollateralCustody solana.PublicKey

	Side Side

	OpenTime   int64
	UpdateTime int64

	// Price carries PriceDecimals; USD amounts carry UsdDecimals.
	Price         uint64
	SizeUsd       uint64
	CollateralUsd uint64
	// Native units of the collateral custody's token.
	CollateralAmount uint64
	LockedAmount     uint64

	UnrealizedInterestUsd uint64
	ExitFeeUsd            uint64
	LiquidationFeeUsd     uint64

	CumulativeInterestSnapshot U128

	// Optional triggers; zero means unset.
	StopLossPrice   uint64
	TakeProfitPrice uint64
}

// InitialLeverage returns sizeUsd/collateralUsd in leverage decimals
// (1x = 10_000), truncated.
func (p *Position) InitialLeverage() uint64 {
	if p.CollateralUsd == 0 {
		return 0
	}
	return p.SizeUsd * 10_000 / p.CollateralUsd
}
