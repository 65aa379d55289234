package anchor

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/domain"
)

var (
	Account_Custody     = AccountDiscriminator("Custody")
	Account_Pool        = AccountDiscriminator("Pool")
	Account_Position    = AccountDiscriminator("Position")
	Account_UserStaking = AccountDiscriminator("UserStaking")
	Account_UserProfile = AccountDiscriminator("UserProfile")
)

var ErrDiscriminatorMismatch = errors.New("account discriminator mismatch")

func checkDiscriminator(data []byte, want [8]byte, name string) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%s payload too short: %d bytes", name, len(data))
	}
	if !bytes.Equal(data[:8], want[:]) {
		return nil, fmt.Errorf("%w: not a %s account", ErrDiscriminatorMismatch, name)
	}
	return data[8:], nil
}

// On-chain field order. Layout structs are decode targets only; callers get
// domain types.

type custodyLayout struct {
	Pool         solana.PublicKey
	Mint         solana.PublicKey
	TokenAccount solana.PublicKey
	Decimals     uint8
	IsStable     bool
	Oracle       solana.PublicKey

	Pricing struct {
		UseEma                            bool
		TradeSpreadLong                   uint64
		TradeSpreadShort                  uint64
		MinInitialLeverage                uint32
		MaxInitialLeverage                uint32
		MaxLeverage                       uint32
		MaxPositionLockedUsd              uint64
		MaxCumulativeShortPositionSizeUsd uint64
	}

	Ratios struct {
		Target uint64
		Min    uint64
		Max    uint64
	}

	Assets struct {
		Collateral uint64
		Owned      uint64
		Locked     uint64
	}

	CollectedFees struct {
		SwapUsd            uint64
		AddLiquidityUsd    uint64
		RemoveLiquidityUsd uint64
		OpenPositionUsd    uint64
		ClosePositionUsd   uint64
		LiquidationUsd     uint64
		BorrowUsd          uint64
	}

	BorrowRate struct {
		CurrentRate        uint64
		LastUpdate         int64
		CumulativeInterest domain.U128
	}

	VolumeUsd uint64
}

// ParseCustody decodes a Custody account.
func ParseCustody(address solana.PublicKey, data []byte) (*domain.Custody, error) {
	payload, err := checkDiscriminator(data, Account_Custody, "Custody")
	if err != nil {
		return nil, err
	}
	var raw custodyLayout
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode Custody %s: %w", address, err)
	}
	return &domain.Custody{
		Address:      address,
		Pool:         raw.Pool,
		Mint:         raw.Mint,
		TokenAccount: raw.TokenAccount,
		Decimals:     raw.Decimals,
		IsStable:     raw.IsStable,
		Oracle:       raw.Oracle,
		Pricing: domain.PricingParams{
			UseEma:                            raw.Pricing.UseEma,
			TradeSpreadLong:                   raw.Pricing.TradeSpreadLong,
			TradeSpreadShort:                  raw.Pricing.TradeSpreadShort,
			MinInitialLeverage:                raw.Pricing.MinInitialLeverage,
			MaxInitialLeverage:                raw.Pricing.MaxInitialLeverage,
			MaxLeverage:                       raw.Pricing.MaxLeverage,
			MaxPositionLockedUsd:              raw.Pricing.MaxPositionLockedUsd,
			MaxCumulativeShortPositionSizeUsd: raw.Pricing.MaxCumulativeShortPositionSizeUsd,
		},
		Ratios: domain.AssetRatios{Target: raw.Ratios.Target, Min: raw.Ratios.Min, Max: raw.Ratios.Max},
		Assets: domain.Assets{Collateral: raw.Assets.Collateral, Owned: raw.Assets.Owned, Locked: raw.Assets.Locked},
		CollectedFees: domain.CollectedFees{
			SwapUsd:            raw.CollectedFees.SwapUsd,
			AddLiquidityUsd:    raw.CollectedFees.AddLiquidityUsd,
			RemoveLiquidityUsd: raw.CollectedFees.RemoveLiquidityUsd,
			OpenPositionUsd:    raw.CollectedFees.OpenPositionUsd,
			ClosePositionUsd:   raw.CollectedFees.ClosePositionUsd,
			LiquidationUsd:     raw.CollectedFees.LiquidationUsd,
			BorrowUsd:          raw.CollectedFees.BorrowUsd,
		},
		BorrowRate: domain.BorrowRateState{
			CurrentRate:        raw.BorrowRate.CurrentRate,
			LastUpdate:         raw.BorrowRate.LastUpdate,
			CumulativeInterest: raw.BorrowRate.CumulativeInterest,
		},
		VolumeUsd: raw.VolumeUsd,
	}, nil
}

type poolLayout struct {
	Name           string
	Custodies      [domain.MaxPoolCustodies]solana.PublicKey
	Ratios         [domain.MaxPoolCustodies]struct{ Target, Min, Max uint64 }
	AumUsd         domain.U128
	LpTokenMint    solana.PublicKey
	TotalVolumeUsd uint64
	TotalFeesUsd   uint64
}

// ParsePool decodes a Pool account.
func ParsePool(address solana.PublicKey, data []byte) (*domain.Pool, error) {
	payload, err := checkDiscriminator(data, Account_Pool, "Pool")
	if err != nil {
		return nil, err
	}
	var raw poolLayout
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode Pool %s: %w", address, err)
	}
	pool := &domain.Pool{
		Address:        address,
		Name:           raw.Name,
		Custodies:      raw.Custodies,
		AumUsd:         raw.AumUsd,
		LpTokenMint:    raw.LpTokenMint,
		TotalVolumeUsd: raw.TotalVolumeUsd,
		TotalFeesUsd:   raw.TotalFeesUsd,
	}
	for i := range raw.Ratios {
		pool.Ratios[i] = domain.AssetRatios{Target: raw.Ratios[i].Target, Min: raw.Ratios[i].Min, Max: raw.Ratios[i].Max}
	}
	return pool, nil
}

type positionLayout struct {
	Owner             solana.PublicKey
	Pool              solana.PublicKey
	Custody           solana.PublicKey
	CollateralCustody solana.PublicKey
	Side              uint8
	OpenTime          int64
	UpdateTime        int64
	Price             uint64
	SizeUsd           uint64
	CollateralUsd     uint64
	CollateralAmount  uint64
	LockedAmount      uint64

	UnrealizedInterestUsd uint64
	ExitFeeUsd            uint64
	LiquidationFeeUsd     uint64

	CumulativeInterestSnapshot domain.U128

	StopLossPrice   uint64
	TakeProfitPrice uint64
}

// ParsePosition decodes a Position account.
func ParsePosition(address solana.PublicKey, data []byte) (*domain.Position, error) {
	payload, err := checkDiscriminator(data, Account_Position, "Position")
	if err != nil {
		return nil, err
	}
	var raw positionLayout
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode Position %s: %w", address, err)
	}
	return &domain.Position{
		Address:                    address,
		Owner:                      raw.Owner,
		Pool:                       raw.Pool,
		Custody:                    raw.Custody,
		CollateralCustody:          raw.CollateralCustody,
		Side:                       domain.Side(raw.Side),
		OpenTime:                   raw.OpenTime,
		UpdateTime:                 raw.UpdateTime,
		Price:                      raw.Price,
		SizeUsd:                    raw.SizeUsd,
		CollateralUsd:              raw.CollateralUsd,
		CollateralAmount:           raw.CollateralAmount,
		LockedAmount:               raw.LockedAmount,
		UnrealizedInterestUsd:      raw.UnrealizedInterestUsd,
		ExitFeeUsd:                 raw.ExitFeeUsd,
		LiquidationFeeUsd:          raw.LiquidationFeeUsd,
		CumulativeInterestSnapshot: raw.CumulativeInterestSnapshot,
		StopLossPrice:              raw.StopLossPrice,
		TakeProfitPrice:            raw.TakeProfitPrice,
	}, nil
}

type userStakingLayout struct {
	Owner             solana.PublicKey
	LiquidStakeAmount uint64
	LockedStakes      [domain.MaxLockedStakes]struct {
		Amount             uint64
		StakeTime          int64
		ClaimTime          int64
		EndTime            int64
		LockDuration       int64
		RewardMultiplier   uint64
		LmRewardMultiplier uint64
		Resolved           bool
	}
}

// ParseUserStaking decodes a UserStaking account.
func ParseUserStaking(address solana.PublicKey, data []byte) (*domain.UserStaking, error) {
	payload, err := checkDiscriminator(data, Account_UserStaking, "UserStaking")
	if err != nil {
		return nil, err
	}
	var raw userStakingLayout
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode UserStaking %s: %w", address, err)
	}
	us := &domain.UserStaking{
		Address:           address,
		Owner:             raw.Owner,
		LiquidStakeAmount: raw.LiquidStakeAmount,
	}
	for i, ls := range raw.LockedStakes {
		us.LockedStakes[i] = domain.LockedStake{
			Amount:             ls.Amount,
			StakeTime:          ls.StakeTime,
			ClaimTime:          ls.ClaimTime,
			EndTime:            ls.EndTime,
			LockDuration:       ls.LockDuration,
			RewardMultiplier:   ls.RewardMultiplier,
			LmRewardMultiplier: ls.LmRewardMultiplier,
			Resolved:           ls.Resolved,
		}
	}
	return us, nil
}

type userProfileLayout struct {
	Owner     solana.PublicKey
	Nickname  string
	CreatedAt int64

	SwapCount     uint64
	SwapVolumeUsd uint64

	LongStats  tradeStatsLayout
	ShortStats tradeStatsLayout
}

type tradeStatsLayout struct {
	OpenedCount     uint64
	LiquidatedCount uint64
	OpeningSizeUsd  uint64
	ProfitsUsd      uint64
	LossesUsd       uint64
	FeePaidUsd      uint64
}

// ParseUserProfile decodes a UserProfile account.
func ParseUserProfile(address solana.PublicKey, data []byte) (*domain.UserProfile, error) {
	payload, err := checkDiscriminator(data, Account_UserProfile, "UserProfile")
	if err != nil {
		return nil, err
	}
	var raw userProfileLayout
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode UserProfile %s: %w", address, err)
	}
	return &domain.UserProfile{
		Address:       address,
		Owner:         raw.Owner,
		Nickname:      raw.Nickname,
		CreatedAt:     raw.CreatedAt,
		SwapCount:     raw.SwapCount,
		SwapVolumeUsd: raw.SwapVolumeUsd,
		LongStats:     domain.TradeStats(raw.LongStats),
		ShortStats:    domain.TradeStats(raw.ShortStats),
	}, nil
}
