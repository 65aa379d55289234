// Package common contains program constants and variables shared across services
package common

import "github.com/gagliardetto/solana-go"

var (
	// AdrenaProgramID is the deployed perpetuals program
	AdrenaProgramID = solana.MustPublicKeyFromBase58("13gDzEXCdocbj8iAiqrZ3jd2LsmcxhBq5Pgi3qM6oWE")

	TokenProgramID  = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	ATAProgramID    = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SystemProgramID = solana.SystemProgramID

	// WSOLMint is the wrapped-SOL mint; native-SOL collateral is wrapped through it
	WSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	// DefaultAddress marks unused slots in fixed-size on-chain account lists
	DefaultAddress = solana.SystemProgramID
)

// PDA seeds used by the perpetuals program.
const (
	CortexSeed             = "cortex"
	PoolSeed               = "pool"
	CustodySeed            = "custody"
	CustodyTokenSeed       = "custody_token_account"
	PositionSeed           = "position"
	StakingSeed            = "staking"
	UserStakingSeed        = "user_staking"
	StakingStakedVaultSeed = "staking_staked_token_vault"
	StakingRewardVaultSeed = "staking_reward_token_vault"
	UserProfileSeed        = "user_profile"
	LpTokenMintSeed        = "lp_token_mint"
	LmTokenMintSeed        = "lm_token_mint"
	TransferAuthoritySeed  = "transfer_authority"
)

// Fixed-point decimal counts used by the program.
const (
	PriceDecimals = 10
	UsdDecimals   = 6
	RateDecimals  = 9
	LpDecimals    = 6
	BpsPower      = 10_000
)
