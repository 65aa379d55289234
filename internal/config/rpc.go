package config

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/common"
)

type RPCConfig struct {
	Cluster   string
	RPCUrl    string
	ProgramID solana.PublicKey
	// PoolName selects the trading venue; the pool PDA is derived from it.
	PoolName string
}

func (r *RPCConfig) Load() error {
	r.Cluster = getEnvOrDefault("CLUSTER", "mainnet-beta")
	r.RPCUrl = getEnvOrDefault("RPC_URL", "")
	r.PoolName = getEnvOrDefault("POOL_NAME", "main-pool")

	r.ProgramID = common.AdrenaProgramID
	if raw := getEnvOrDefault("PROGRAM_ID", ""); raw != "" {
		pk, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return fmt.Errorf("invalid PROGRAM_ID %q: %w", raw, err)
		}
		r.ProgramID = pk
	}
	return r.Validate()
}

func (r *RPCConfig) Validate() error {
	if r.RPCUrl == "" {
		return errors.New("invalid rpc config: RPC_URL is required")
	}
	return nil
}
