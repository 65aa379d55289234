package priority

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/chain"
)

const (
	// computeUnitBuffer pads the simulated consumption against slot-to-slot
	// variance.
	computeUnitBuffer = 1.05
	// perSignerUnits covers signature verification for each signer beyond
	// what simulation observed.
	perSignerUnits  = 300
	MaxComputeUnits = 1_400_000
)

var ErrNoUnitsConsumed = errors.New("simulation returned no units consumed")

// SimulationError carries the program logs of a rejected simulation so the
// failure can be translated into a domain error upstream.
type SimulationError struct {
	Reason string
	Logs   []string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("transaction simulation failed: %s", e.Reason)
}

// CUEstimator sizes the compute unit ceiling by simulating the draft
// transaction.
type CUEstimator struct {
	rpc chain.RPC
}

func NewCUEstimator(rpc chain.RPC) *CUEstimator {
	return &CUEstimator{rpc: rpc}
}

// CUEstimate holds the measured consumption and the padded ceiling.
type CUEstimate struct {
	UnitsConsumed   uint64
	UnitsWithBuffer uint32
	SimulationLogs  []string
}

// EstimateCU simulates the transaction and returns consumed units padded by
// the buffer plus per-signer overhead. A failed simulation is a hard error:
// a transaction that does not simulate must never be broadcast.
func (e *CUEstimator) EstimateCU(ctx context.Context, tx *solana.Transaction) (*CUEstimate, error) {
	result, err := e.rpc.Simulate(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("simulate for unit estimate: %w", err)
	}
	if !result.Success() {
		return nil, &SimulationError{Reason: result.Err, Logs: result.Logs}
	}
	if result.UnitsConsumed == 0 {
		return nil, ErrNoUnitsConsumed
	}

	units := uint64(float64(result.UnitsConsumed)*computeUnitBuffer) + uint64(len(tx.Signatures))*perSignerUnits
	if units > MaxComputeUnits {
		units = MaxComputeUnits
	}

	return &CUEstimate{
		UnitsConsumed:   result.UnitsConsumed,
		UnitsWithBuffer: uint32(units),
		SimulationLogs:  result.Logs,
	}, nil
}
