package economics

import (
	"github.com/shopspring/decimal"

	"github.com/fape-labs/adrena-client/internal/domain"
)

var (
	earlyExitFeeFloor = decimal.NewFromFloat(0.15)
	earlyExitFeeSpan  = decimal.NewFromFloat(0.25)
	earlyExitFeeCap   = earlyExitFeeFloor.Add(earlyExitFeeSpan)
)

// EarlyExitFeeRate prices breaking a locked stake before maturity as a share
// of the staked amount. The rate decays linearly from the cap at lock start
// to the floor at maturity and is clamped to [0.15, 0.40] against clock skew
// on either end.
func EarlyExitFeeRate(stake *domain.LockedStake, now int64) decimal.Decimal {
	if stake.LockDuration == 0 {
		return earlyExitFeeFloor
	}

	endTime := stake.EndTime
	remaining := endTime - now
	if remaining <= 0 {
		return earlyExitFeeFloor
	}

	progress := decimal.NewFromInt(remaining).Div(decimal.NewFromInt(stake.LockDuration))
	if progress.GreaterThan(decimal.NewFromInt(1)) {
		progress = decimal.NewFromInt(1)
	}

	rate := earlyExitFeeFloor.Add(earlyExitFeeSpan.Mul(progress))
	if rate.GreaterThan(earlyExitFeeCap) {
		return earlyExitFeeCap
	}
	if rate.LessThan(earlyExitFeeFloor) {
		return earlyExitFeeFloor
	}
	return rate
}

// EarlyExitFeeAmount applies EarlyExitFeeRate to the staked amount in native
// units, truncating.
func EarlyExitFeeAmount(stake *domain.LockedStake, now int64) uint64 {
	fee := decimal.NewFromInt(int64(stake.Amount)).Mul(EarlyExitFeeRate(stake, now)).Truncate(0)
	if !fee.IsPositive() {
		return 0
	}
	out := fee.BigInt()
	if !out.IsUint64() {
		return ^uint64(0)
	}
	return out.Uint64()
}
