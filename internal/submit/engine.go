// Package submit drives one signed transaction from draft to a terminal
// outcome: confirmed, expired or rejected.
package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/config"
	"github.com/fape-labs/adrena-client/internal/metrics"
	"github.com/fape-labs/adrena-client/internal/priority"
	"github.com/fape-labs/adrena-client/internal/txerror"
)

// Stage is one step of a submission's lifecycle.
type Stage uint8

const (
	StageBuilt Stage = iota
	StageFeeEstimated
	StageSigned
	StageBroadcast
	StageConfirmed
	StageExpired
	StageRejected
)

func (s Stage) String() string {
	switch s {
	case StageBuilt:
		return "built"
	case StageFeeEstimated:
		return "fee_estimated"
	case StageSigned:
		return "signed"
	case StageBroadcast:
		return "broadcast"
	case StageConfirmed:
		return "confirmed"
	case StageExpired:
		return "expired"
	case StageRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// StageEvent is emitted as the submission advances. Signature is set from
// the broadcast stage onward; Err only on a terminal failure.
type StageEvent struct {
	Stage     Stage
	Signature solana.Signature
	Err       *txerror.DomainError
}

// Signer is the external signing collaborator. Sign fills the transaction's
// signature slots and may refuse, which is terminal for the submission.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(ctx context.Context, tx *solana.Transaction) error
}

// Request is one transaction to drive to a terminal state. Instructions are
// already in their final relative order; the engine prepends the compute
// budget pair.
type Request struct {
	Operation    string
	Instructions []solana.Instruction
	Signer       Signer
	Urgency      priority.Urgency
	// Progress receives stage events when non-nil. Sends never block; a
	// slow consumer misses events rather than stalling the submission.
	Progress chan<- StageEvent
}

// Engine runs the submission state machine.
type Engine struct {
	rpc         chain.RPC
	blockhashes *chain.BlockhashCache
	fees        *priority.Service
	cfg         *config.SubmitConfig
}

func NewEngine(rpc chain.RPC, blockhashes *chain.BlockhashCache, fees *priority.Service, cfg *config.SubmitConfig) *Engine {
	return &Engine{rpc: rpc, blockhashes: blockhashes, fees: fees, cfg: cfg}
}

// Submit drives the request to CONFIRMED, EXPIRED or REJECTED. Cancelling
// the context aborts only before broadcast; once the payload is on the wire
// the engine runs to a terminal state regardless, because the transaction
// may land anyway.
func (e *Engine) Submit(ctx context.Context, req *Request) (solana.Signature, error) {
	started := time.Now()
	metrics.SubmissionsStarted.WithLabelValues(req.Operation).Inc()
	emit(req, StageEvent{Stage: StageBuilt})

	sig, err := e.run(ctx, req)
	outcome := StageConfirmed
	if err != nil {
		domain := txerror.Translate(err)
		if domain.Kind == txerror.KindExpired {
			outcome = StageExpired
		} else {
			outcome = StageRejected
		}
		emit(req, StageEvent{Stage: outcome, Signature: sig, Err: domain})
		metrics.SubmissionOutcomes.WithLabelValues(req.Operation, outcome.String()).Inc()
		metrics.SubmissionDuration.WithLabelValues(req.Operation).Observe(time.Since(started).Seconds())
		return sig, domain
	}

	emit(req, StageEvent{Stage: StageConfirmed, Signature: sig})
	metrics.SubmissionOutcomes.WithLabelValues(req.Operation, outcome.String()).Inc()
	metrics.SubmissionDuration.WithLabelValues(req.Operation).Observe(time.Since(started).Seconds())
	return sig, nil
}

func (e *Engine) run(ctx context.Context, req *Request) (solana.Signature, error) {
	payer := req.Signer.PublicKey()

	// Fee estimation simulates against a draft carrying a real blockhash.
	draft, err := e.buildTransaction(ctx, req.Instructions, payer)
	if err != nil {
		return solana.Signature{}, err
	}
	budget, err := e.fees.EstimateBudget(ctx, draft, req.Urgency)
	if err != nil {
		metrics.SimulationRejections.Inc()
		return solana.Signature{}, err
	}
	metrics.PriorityFeePerCU.Observe(float64(budget.FeePerCU))
	metrics.ComputeUnitCeiling.Observe(float64(budget.ComputeUnits))
	emit(req, StageEvent{Stage: StageFeeEstimated})

	budgetIxs, err := budget.Instructions()
	if err != nil {
		return solana.Signature{}, err
	}
	finalIxs := append(budgetIxs, req.Instructions...)

	// Signing gets a fresh blockhash so the expiry window starts now.
	blockhash, err := e.rpc.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("blockhash for signing: %w", err)
	}
	tx, err := solana.NewTransaction(finalIxs, blockhash.Hash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("assemble transaction: %w", err)
	}
	if err := req.Signer.Sign(ctx, tx); err != nil {
		return solana.Signature{}, txerror.UserDeclined(err)
	}
	emit(req, StageEvent{Stage: StageSigned})

	signed, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("serialize signed transaction: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return solana.Signature{}, fmt.Errorf("cancelled before broadcast: %w", err)
	}

	sig, err := e.broadcastWithRetry(ctx, signed)
	if err != nil {
		return solana.Signature{}, err
	}
	emit(req, StageEvent{Stage: StageBroadcast, Signature: sig})

	// Past this point cancellation is ignored: the payload is on the wire.
	confirmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.ConfirmTimeout)
	defer cancel()

	if err := e.awaitConfirmation(confirmCtx, sig, signed); err != nil {
		return sig, err
	}
	return sig, nil
}

func (e *Engine) buildTransaction(ctx context.Context, ixs []solana.Instruction, payer solana.PublicKey) (*solana.Transaction, error) {
	blockhash, err := e.blockhashes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("blockhash for draft: %w", err)
	}
	tx, err := solana.NewTransaction(ixs, blockhash.Hash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("assemble draft transaction: %w", err)
	}
	// Placeholder signature slots so simulation sizes the payload correctly.
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx, nil
}

// broadcastWithRetry sends the signed payload, retrying transient
// transmission errors with a short fixed delay up to the configured attempt
// count. Exhausting retries without ever reaching the network surfaces a
// terminal expiry.
func (e *Engine) broadcastWithRetry(ctx context.Context, signed []byte) (solana.Signature, error) {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxTransientRetries; attempt++ {
		sig, err := e.rpc.Broadcast(ctx, signed)
		if err == nil {
			return sig, nil
		}
		domain := txerror.Translate(err)
		if !domain.Retryable() {
			return solana.Signature{}, domain
		}
		lastErr = domain
		metrics.TransientRetries.Inc()
		log.Debug().Err(err).Int("attempt", attempt+1).Msg("transient broadcast error, retrying")

		select {
		case <-ctx.Done():
			return solana.Signature{}, txerror.Expired("", "cancelled during broadcast retries")
		case <-time.After(e.cfg.TransientRetryDelay):
		}
	}
	return solana.Signature{}, txerror.Expired("", fmt.Sprintf("broadcast retries exhausted: %v", lastErr))
}

// awaitConfirmation polls the signature on a fixed interval until it reaches
// the confirmation depth threshold or the deadline passes. Every poll that
// has not confirmed yet re-broadcasts the identical signed payload; the
// signature cannot change because the bytes never do.
func (e *Engine) awaitConfirmation(ctx context.Context, sig solana.Signature, signed []byte) error {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	transientPolls := 0
	for {
		select {
		case <-ctx.Done():
			return txerror.Expired(sig.String(), "confirmation deadline elapsed")
		case <-ticker.C:
		}

		status, err := e.rpc.SignatureStatus(ctx, sig)
		if err != nil {
			transientPolls++
			metrics.TransientRetries.Inc()
			if transientPolls > e.cfg.MaxTransientRetries {
				return txerror.Expired(sig.String(), fmt.Sprintf("status polling failed repeatedly: %v", err))
			}
			continue
		}
		transientPolls = 0

		if status.Found && status.Err != "" {
			return txerror.Translate(fmt.Errorf("transaction failed on chain: %s", status.Err))
		}
		if status.Finalized || status.Confirmations > uint64(e.cfg.MinConfirmations) {
			return nil
		}

		// Not confirmed yet: push the same bytes again in case the first
		// transmission was dropped.
		if _, err := e.rpc.Broadcast(ctx, signed); err == nil {
			metrics.Rebroadcasts.Inc()
		}
	}
}

func emit(req *Request, event StageEvent) {
	if req.Progress == nil {
		return
	}
	select {
	case req.Progress <- event:
	default:
	}
}
