package priority

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"

	"github.com/fape-labs/adrena-client/internal/chain"
)

// Service combines unit estimation and fee sampling into the compute budget
// for one transaction.
type Service struct {
	cuEstimator   *CUEstimator
	feeCalculator *FeeCalculator

	// maxFeeLamports caps the total priority fee; 0 means uncapped.
	maxFeeLamports uint64
}

func NewService(rpc chain.RPC, maxFeeLamports uint64) *Service {
	return &Service{
		cuEstimator:    NewCUEstimator(rpc),
		feeCalculator:  NewFeeCalculator(rpc),
		maxFeeLamports: maxFeeLamports,
	}
}

// Budget is the computed priority settings for a transaction.
type Budget struct {
	ComputeUnits     uint32 // unit ceiling
	FeePerCU         uint64 // microlamports per compute unit
	TotalFeeLamports uint64
	Urgency          Urgency
}

// EstimateBudget simulates the draft, samples fees on its writable accounts
// and returns the budget. When the total fee would exceed the configured cap
// the rate is clamped down so the ceiling stays honest; the unit limit is
// never reduced to fit the cap.
func (s *Service) EstimateBudget(ctx context.Context, tx *solana.Transaction, urgency Urgency) (*Budget, error) {
	cu, err := s.cuEstimator.EstimateCU(ctx, tx)
	if err != nil {
		return nil, err
	}

	fee := s.feeCalculator.OptimalFee(ctx, urgency, writableAccounts(tx))

	feePerCU := fee.FeePerCU
	if s.maxFeeLamports > 0 {
		maxRate := s.maxFeeLamports * 1_000_000 / uint64(cu.UnitsWithBuffer)
		if feePerCU > maxRate {
			feePerCU = maxRate
		}
	}

	return &Budget{
		ComputeUnits:     cu.UnitsWithBuffer,
		FeePerCU:         feePerCU,
		TotalFeeLamports: feePerCU * uint64(cu.UnitsWithBuffer) / 1_000_000,
		Urgency:          urgency,
	}, nil
}

// Instructions renders the budget as compute-budget program instructions,
// placed ahead of everything else in the transaction.
func (b *Budget) Instructions() ([]solana.Instruction, error) {
	limitIx, err := computebudget.NewSetComputeUnitLimitInstruction(b.ComputeUnits).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("build compute unit limit: %w", err)
	}
	priceIx, err := computebudget.NewSetComputeUnitPriceInstruction(b.FeePerCU).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("build compute unit price: %w", err)
	}
	return []solana.Instruction{limitIx, priceIx}, nil
}

// writableAccounts lists the writable keys of a transaction, capped at 8 for
// RPC efficiency.
func writableAccounts(tx *solana.Transaction) []solana.PublicKey {
	accounts := make([]solana.PublicKey, 0, 8)
	for _, key := range tx.Message.AccountKeys {
		if writable, err := tx.Message.IsWritable(key); err == nil && writable {
			accounts = append(accounts, key)
			if len(accounts) == 8 {
				break
			}
		}
	}
	return accounts
}
