package priority

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/metrics"
)

type fakeRPC struct {
	fees    []uint64
	feesErr error

	simResult *chain.SimulationResult
	simErr    error
}

func (f *fakeRPC) LatestBlockhash(context.Context) (chain.Blockhash, error) {
	return chain.Blockhash{}, nil
}

func (f *fakeRPC) Simulate(context.Context, *solana.Transaction) (*chain.SimulationResult, error) {
	return f.simResult, f.simErr
}

func (f *fakeRPC) Broadcast(context.Context, []byte) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func (f *fakeRPC) SignatureStatus(context.Context, solana.Signature) (*chain.SignatureStatus, error) {
	return &chain.SignatureStatus{}, nil
}

func (f *fakeRPC) RecentPriorityFees(context.Context, []solana.PublicKey) ([]uint64, error) {
	return f.fees, f.feesErr
}

func (f *fakeRPC) AccountInfo(context.Context, solana.PublicKey) ([]byte, error) {
	return nil, chain.ErrAccountNotFound
}

func (f *fakeRPC) MultipleAccounts(context.Context, []solana.PublicKey) ([][]byte, error) {
	return nil, nil
}

func emptyTransaction(t *testing.T) *solana.Transaction {
	t.Helper()
	payer := solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	memo := solana.NewInstruction(
		solana.MemoProgramID,
		solana.AccountMetaSlice{solana.NewAccountMeta(payer, false, true)},
		[]byte("x"),
	)
	tx, err := solana.NewTransaction([]solana.Instruction{memo}, solana.Hash{}, solana.TransactionPayer(payer))
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	tx.Signatures = make([]solana.Signature, 1)
	return tx
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []uint64{100, 200, 300, 400, 500}

	tests := []struct {
		name       string
		percentile int
		want       uint64
	}{
		{name: "p0 is min", percentile: 0, want: 100},
		{name: "p100 is max", percentile: 100, want: 500},
		{name: "p50 is median", percentile: 50, want: 300},
		{name: "p75 interpolates", percentile: 75, want: 400},
		{name: "p90 interpolates between neighbors", percentile: 90, want: 460},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(sorted, tt.percentile); got != tt.want {
				t.Errorf("Percentile(%d) = %d, want %d", tt.percentile, got, tt.want)
			}
		})
	}
}

func TestOptimalFeeFallsBackOnError(t *testing.T) {
	calc := NewFeeCalculator(&fakeRPC{feesErr: errors.New("rpc down")})
	before := testutil.ToFloat64(metrics.FeeSampleFallbacks)

	result := calc.OptimalFee(context.Background(), UrgencyHigh, nil)
	if result.FeePerCU != FallbackFees[UrgencyHigh] {
		t.Fatalf("FeePerCU = %d, want fallback %d", result.FeePerCU, FallbackFees[UrgencyHigh])
	}
	if result.SampleCount != 0 {
		t.Fatalf("SampleCount = %d, want 0", result.SampleCount)
	}
	if got := testutil.ToFloat64(metrics.FeeSampleFallbacks) - before; got != 1 {
		t.Fatalf("fallback counter grew by %v, want 1", got)
	}
}

func TestOptimalFeeFallsBackOnEmptySample(t *testing.T) {
	calc := NewFeeCalculator(&fakeRPC{fees: nil})
	before := testutil.ToFloat64(metrics.FeeSampleFallbacks)

	result := calc.OptimalFee(context.Background(), UrgencyUltra, nil)
	if result.FeePerCU != FallbackFees[UrgencyUltra] {
		t.Fatalf("FeePerCU = %d, want fallback %d", result.FeePerCU, FallbackFees[UrgencyUltra])
	}
	if got := testutil.ToFloat64(metrics.FeeSampleFallbacks) - before; got != 1 {
		t.Fatalf("fallback counter grew by %v, want 1", got)
	}
}

func TestEstimateCUFailsOnRejectedSimulation(t *testing.T) {
	rpc := &fakeRPC{simResult: &chain.SimulationResult{
		Err:  "custom program error: 0x1780",
		Logs: []string{"Program log: Error"},
	}}
	estimator := NewCUEstimator(rpc)

	_, err := estimator.EstimateCU(context.Background(), emptyTransaction(t))
	if err == nil {
		t.Fatal("expected error for rejected simulation")
	}
	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if len(simErr.Logs) == 0 {
		t.Fatal("simulation logs were dropped")
	}
}

func TestEstimateCUAppliesBuffer(t *testing.T) {
	rpc := &fakeRPC{simResult: &chain.SimulationResult{UnitsConsumed: 100_000}}
	estimator := NewCUEstimator(rpc)

	result, err := estimator.EstimateCU(context.Background(), emptyTransaction(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100_000 * 1.05 + one signer's overhead.
	want := uint32(105_000 + perSignerUnits)
	if result.UnitsWithBuffer != want {
		t.Fatalf("UnitsWithBuffer = %d, want %d", result.UnitsWithBuffer, want)
	}
}

func TestFeeCapClampsRateDownward(t *testing.T) {
	rpc := &fakeRPC{
		simResult: &chain.SimulationResult{UnitsConsumed: 200_000},
		fees:      []uint64{1_000_000, 1_000_000, 1_000_000},
	}

	const maxFeeLamports = 10_000
	svc := NewService(rpc, maxFeeLamports)

	budget, err := svc.EstimateBudget(context.Background(), emptyTransaction(t), UrgencyUltra)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if budget.TotalFeeLamports > maxFeeLamports {
		t.Fatalf("total fee %d exceeds cap %d", budget.TotalFeeLamports, maxFeeLamports)
	}
	if budget.FeePerCU >= 1_000_000 {
		t.Fatalf("rate %d was not clamped", budget.FeePerCU)
	}
	// The unit ceiling is never reduced to fit the cap.
	if budget.ComputeUnits < 210_000 {
		t.Fatalf("compute ceiling %d was reduced", budget.ComputeUnits)
	}
}

func TestFeeCapLeavesSmallFeesAlone(t *testing.T) {
	rpc := &fakeRPC{
		simResult: &chain.SimulationResult{UnitsConsumed: 100_000},
		fees:      []uint64{500, 500, 500},
	}
	svc := NewService(rpc, 1_000_000)

	budget, err := svc.EstimateBudget(context.Background(), emptyTransaction(t), UrgencyMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if budget.FeePerCU != 500 {
		t.Fatalf("FeePerCU = %d, want 500 untouched", budget.FeePerCU)
	}
}
