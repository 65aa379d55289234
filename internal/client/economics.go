package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fape-labs/adrena-client/internal/domain"
	"github.com/fape-labs/adrena-client/internal/economics"
)

// PositionSummary is the off-chain economics view of an open position at a
// given mark price. All USD amounts carry UsdDecimals, prices PriceDecimals.
type PositionSummary struct {
	Leverage         uint64
	BorrowFeeUsd     uint64
	Pnl              economics.PnlUsd
	LiquidationPrice uint64
	BreakEvenPrice   uint64
}

// PositionSummary evaluates a position against markPrice as of now. The
// custody comes from the session pool snapshot, so LoadPool must have run.
func (c *Client) PositionSummary(position *domain.Position, markPrice uint64) (*PositionSummary, error) {
	custody, err := c.resolver.CustodyByAddress(position.Custody)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	borrowFee := economics.BorrowFeeUsd(custody, position, now)
	pnl := economics.Pnl(position, custody, markPrice, now)

	return &PositionSummary{
		Leverage:         economics.Leverage(position.SizeUsd, position.CollateralUsd),
		BorrowFeeUsd:     borrowFee,
		Pnl:              pnl,
		LiquidationPrice: economics.LiquidationPrice(position, custody, now),
		BreakEvenPrice: economics.BreakEvenPrice(
			position.Side, position.Price, position.ExitFeeUsd, borrowFee, position.SizeUsd),
	}, nil
}

// StakeExitPreview reports the fee a locked stake would pay if broken now.
type StakeExitPreview struct {
	FeeRate   decimal.Decimal
	FeeAmount uint64
	NetAmount uint64
}

// StakeExitPreview prices breaking a locked stake at the current clock.
func (c *Client) StakeExitPreview(stake *domain.LockedStake) *StakeExitPreview {
	now := time.Now().Unix()
	fee := economics.EarlyExitFeeAmount(stake, now)
	return &StakeExitPreview{
		FeeRate:   economics.EarlyExitFeeRate(stake, now),
		FeeAmount: fee,
		NetAmount: stake.Amount - fee,
	}
}
