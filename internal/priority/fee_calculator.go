// Package priority sizes the compute budget for a draft transaction:
// a unit ceiling from simulation and a microlamport rate from recent
// network fees.
package priority

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/metrics"
)

// Urgency selects how aggressively the fee rate chases recent network fees.
type Urgency uint8

const (
	// UrgencyMedium uses p75 - normal operations
	UrgencyMedium Urgency = iota
	// UrgencyHigh uses p90 - time-sensitive operations
	UrgencyHigh
	// UrgencyUltra uses p99 - liquidation-adjacent operations
	UrgencyUltra
)

func ParseUrgency(s string) Urgency {
	switch s {
	case "high":
		return UrgencyHigh
	case "ultra":
		return UrgencyUltra
	default:
		return UrgencyMedium
	}
}

// FallbackFees are flat rates used when the fee sample is unavailable or
// empty (microlamports per compute unit).
var FallbackFees = map[Urgency]uint64{
	UrgencyMedium: 10_000,
	UrgencyHigh:   100_000,
	UrgencyUltra:  1_000_000,
}

// minFeePerCU is the floor applied to sampled rates.
const minFeePerCU = 100

// FeeCalculator derives a priority fee rate from recently paid fees on the
// accounts a transaction touches.
type FeeCalculator struct {
	rpc chain.RPC
}

func NewFeeCalculator(rpc chain.RPC) *FeeCalculator {
	return &FeeCalculator{rpc: rpc}
}

// FeeResult holds the chosen rate and how it was derived.
type FeeResult struct {
	FeePerCU    uint64 // microlamports per compute unit
	Urgency     Urgency
	Percentile  int
	SampleCount int
}

// OptimalFee samples recent prioritization fees for the given accounts and
// returns the percentile matching the urgency tier. Sampling failures fall
// back to the flat rate for the tier rather than failing the pipeline.
func (f *FeeCalculator) OptimalFee(ctx context.Context, urgency Urgency, accounts []solana.PublicKey) *FeeResult {
	percentile := percentileForUrgency(urgency)

	fees, err := f.rpc.RecentPriorityFees(ctx, accounts)
	if err != nil {
		log.Warn().Err(err).Msg("recent priority fees unavailable, using fallback rate")
		metrics.FeeSampleFallbacks.Inc()
		return &FeeResult{FeePerCU: FallbackFees[urgency], Urgency: urgency, Percentile: percentile}
	}
	if len(fees) == 0 {
		metrics.FeeSampleFallbacks.Inc()
		return &FeeResult{FeePerCU: FallbackFees[urgency], Urgency: urgency, Percentile: percentile}
	}

	sort.Slice(fees, func(i, j int) bool { return fees[i] < fees[j] })

	feePerCU := Percentile(fees, percentile)
	if feePerCU < minFeePerCU {
		feePerCU = minFeePerCU
	}

	return &FeeResult{
		FeePerCU:    feePerCU,
		Urgency:     urgency,
		Percentile:  percentile,
		SampleCount: len(fees),
	}
}

func percentileForUrgency(urgency Urgency) int {
	switch urgency {
	case UrgencyHigh:
		return 90
	case UrgencyUltra:
		return 99
	default:
		return 75
	}
}

// Percentile returns the value at the given percentile of a sorted sample,
// linearly interpolating between neighbors.
func Percentile(sorted []uint64, percentile int) uint64 {
	if len(sorted) == 0 {
		return 0
	}
	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 100 {
		return sorted[len(sorted)-1]
	}

	k := float64(percentile) / 100.0 * float64(len(sorted)-1)
	f := int(k)
	c := f + 1
	if c >= len(sorted) {
		c = len(sorted) - 1
	}

	d := k - float64(f)
	return uint64(float64(sorted[f])*(1-d) + float64(sorted[c])*d)
}

// TotalFeeLamports is the full priority fee paid at a given unit ceiling.
func (r *FeeResult) TotalFeeLamports(computeUnits uint32) uint64 {
	return r.FeePerCU * uint64(computeUnits) / 1_000_000
}
