package config

import (
	"fmt"
	"strconv"
	"time"
)

// SubmitConfig carries priority-fee and confirmation tunables for the
// transaction pipeline.
type SubmitConfig struct {
	// FeeTier is one of medium/high/ultra.
	FeeTier string
	// MaxPriorityFeeLamports caps rate*computeCeiling; 0 means uncapped.
	MaxPriorityFeeLamports uint64

	PollInterval        time.Duration
	ConfirmTimeout      time.Duration
	MinConfirmations    uint64
	TransientRetryDelay time.Duration
	MaxTransientRetries int
}

func (sc *SubmitConfig) Load() error {
	sc.FeeTier = getEnvOrDefault("FEE_TIER", "medium")

	if raw := getEnvOrDefault("MAX_PRIORITY_FEE_LAMPORTS", ""); raw != "" {
		cap, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_PRIORITY_FEE_LAMPORTS %q: %w", raw, err)
		}
		sc.MaxPriorityFeeLamports = cap
	}

	sc.PollInterval = 500 * time.Millisecond
	sc.ConfirmTimeout = 30 * time.Second
	sc.MinConfirmations = 10
	sc.TransientRetryDelay = 50 * time.Millisecond
	sc.MaxTransientRetries = 10
	return sc.Validate()
}

func (sc *SubmitConfig) Validate() error {
	switch sc.FeeTier {
	case "medium", "high", "ultra":
	default:
		return fmt.Errorf("invalid FEE_TIER %q (expected medium|high|ultra)", sc.FeeTier)
	}
	return nil
}
