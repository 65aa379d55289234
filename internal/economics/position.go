package economics

import (
	"github.com/holiman/uint256"

	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/domain"
)

// LeverageDecimals scale leverage values: 1x = 10_000.
const LeveragePower = 10_000

const secondsPerHour = 3600

// Leverage returns sizeUsd/collateralUsd in leverage units, truncated.
func Leverage(sizeUsd, collateralUsd uint64) uint64 {
	if collateralUsd == 0 {
		return 0
	}
	out, err := mulDiv(sizeUsd, LeveragePower, collateralUsd)
	if err != nil {
		return ^uint64(0)
	}
	return out
}

// BorrowFeeUsd reconstructs the custody's cumulative interest accumulator,
// projects the increment accrued since the custody's last update, subtracts
// the position's stored snapshot (floored at zero) and adds the interest the
// position has already realized. Result carries UsdDecimals.
func BorrowFeeUsd(custody *domain.Custody, position *domain.Position, now int64) uint64 {
	cumulative := custody.BorrowRate.CumulativeInterest.Big()

	if now > custody.BorrowRate.LastUpdate {
		elapsed := uint64(now - custody.BorrowRate.LastUpdate)
		increment := mulDivU256(new(uint256.Int).SetUint64(elapsed), custody.BorrowRate.CurrentRate, secondsPerHour)
		cumulative.Add(cumulative, increment)
	}

	snapshot := position.CumulativeInterestSnapshot.Big()

	delta := new(uint256.Int)
	if cumulative.Gt(snapshot) {
		delta.Sub(cumulative, snapshot)
	}

	fee := new(uint256.Int).Mul(delta, new(uint256.Int).SetUint64(position.SizeUsd))
	fee.Div(fee, ratePower)

	return saturatingU64(fee) + position.UnrealizedInterestUsd
}

// PnlUsd is a position's unrealized outcome at one exit price. Exactly one of
// Profit/Loss is non-zero (both zero at break-even).
type PnlUsd struct {
	Profit uint64
	Loss   uint64
	// BorrowFee and ExitFee are the amounts already netted out of the result.
	BorrowFee uint64
	ExitFee   uint64
}

// Pnl computes the signed price move per side, scales it by size/entry and
// nets out exit plus borrow fees. Once the position has existed past its open
// timestamp, profit is capped at the USD value of the collateral the pool has
// economically locked for it.
func Pnl(position *domain.Position, custody *domain.Custody, exitPrice uint64, now int64) PnlUsd {
	out := PnlUsd{
		BorrowFee: BorrowFeeUsd(custody, position, now),
		ExitFee:   position.ExitFeeUsd,
	}
	if position.Price == 0 || position.SizeUsd == 0 {
		out.Loss = out.BorrowFee + out.ExitFee
		return out
	}
	totalFees := out.BorrowFee + out.ExitFee

	var priceGain bool
	var diff uint64
	if exitPrice >= position.Price {
		diff = exitPrice - position.Price
		priceGain = position.Side == domain.SideLong
	} else {
		diff = position.Price - exitPrice
		priceGain = position.Side == domain.SideShort
	}

	moveUsd, err := mulDiv(position.SizeUsd, diff, position.Price)
	if err != nil {
		moveUsd = ^uint64(0)
	}

	if priceGain {
		if moveUsd >= totalFees {
			profit := moveUsd - totalFees
			if max := maxProfitUsd(position, custody, exitPrice, now); profit > max {
				profit = max
			}
			out.Profit = profit
		} else {
			out.Loss = totalFees - moveUsd
		}
		return out
	}

	out.Loss = moveUsd + totalFees
	return out
}

// maxProfitUsd values the collateral locked for the position at the exit
// price. Before the open timestamp has passed (same-slot reads) there is no
// cap.
func maxProfitUsd(position *domain.Position, custody *domain.Custody, exitPrice uint64, now int64) uint64 {
	if now <= position.OpenTime {
		return ^uint64(0)
	}
	return TokenToUsd(position.LockedAmount, exitPrice, custody.Decimals)
}

// TokenToUsd converts native token units at a PriceDecimals price into
// UsdDecimals, truncating.
func TokenToUsd(amount, price uint64, tokenDecimals uint8) uint64 {
	num := new(uint256.Int).Mul(new(uint256.Int).SetUint64(amount), new(uint256.Int).SetUint64(price))
	// amount(10^d) * price(10^10) -> usd(10^6): divide by 10^(d+10-6)
	shift := int(tokenDecimals) + common.PriceDecimals - common.UsdDecimals
	num.Div(num, pow10(shift))
	return saturatingU64(num)
}

// UsdToToken converts UsdDecimals into native token units at a PriceDecimals
// price, truncating.
func UsdToToken(usd, price uint64, tokenDecimals uint8) uint64 {
	if price == 0 {
		return 0
	}
	num := new(uint256.Int).Mul(new(uint256.Int).SetUint64(usd), pow10(int(tokenDecimals)+common.PriceDecimals-common.UsdDecimals))
	num.Div(num, new(uint256.Int).SetUint64(price))
	return saturatingU64(num)
}

func pow10(n int) *uint256.Int {
	out := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := 0; i < n; i++ {
		out.Mul(out, ten)
	}
	return out
}

// LiquidationPrice solves for the price at which the position's collateral
// exactly covers size/maxLeverage plus liquidation and borrow fees. For a
// long the price rises above entry when the max loss exceeds the margin and
// falls below it otherwise; shorts mirror the sign. Result carries
// PriceDecimals.
func LiquidationPrice(position *domain.Position, custody *domain.Custody, now int64) uint64 {
	if position.SizeUsd == 0 || position.Price == 0 {
		return 0
	}

	maxLossUsd, err := mulDiv(position.SizeUsd, LeveragePower, custody.MaxLeverage())
	if err != nil {
		return 0
	}
	maxLossUsd += position.LiquidationFeeUsd + BorrowFeeUsd(custody, position, now)

	marginUsd := position.CollateralUsd

	var deficit uint64
	lossExceedsMargin := maxLossUsd >= marginUsd
	if lossExceedsMargin {
		deficit = maxLossUsd - marginUsd
	} else {
		deficit = marginUsd - maxLossUsd
	}

	shiftPrice, err := mulDiv(deficit, position.Price, position.SizeUsd)
	if err != nil {
		return 0
	}

	// Long: liq = entry + (maxLoss-margin)*entry/size. Short: mirrored.
	up := lossExceedsMargin
	if position.Side == domain.SideShort {
		up = !up
	}
	if up {
		return position.Price + shiftPrice
	}
	if shiftPrice >= position.Price {
		return 0
	}
	return position.Price - shiftPrice
}

// BreakEvenPrice is the exit price at which accumulated fees are exactly
// recovered: entry*(1 + fees/size) for longs, entry*(1 - fees/size) for
// shorts. Result carries the entry price's decimals.
func BreakEvenPrice(side domain.Side, entryPrice, exitFeeUsd, interestUsd, sizeUsd uint64) uint64 {
	if sizeUsd == 0 {
		return entryPrice
	}
	fees := exitFeeUsd + interestUsd

	var num uint64
	if side == domain.SideLong {
		num = sizeUsd + fees
	} else {
		if fees >= sizeUsd {
			return 0
		}
		num = sizeUsd - fees
	}
	out, err := mulDiv(entryPrice, num, sizeUsd)
	if err != nil {
		return 0
	}
	return out
}
