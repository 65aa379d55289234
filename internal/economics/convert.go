package economics

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// HumanToNative converts a human-readable amount to native integer units,
// floor(value * 10^decimals). Fractional dust beyond the token's precision is
// truncated, never rounded up: rounding up could spend more than the user
// typed.
func HumanToNative(value decimal.Decimal, decimals uint8) (uint64, error) {
	if value.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", value)
	}
	scaled := value.Shift(int32(decimals)).Truncate(0)
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("amount %s overflows native units at %d decimals", value, decimals)
	}
	return bi.Uint64(), nil
}

// HumanStringToNative parses a decimal string and converts it.
func HumanStringToNative(value string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return HumanToNative(d, decimals)
}

// NativeToHuman converts native integer units back to a human-readable
// decimal, value * 10^-decimals. Exact for every integer input.
func NativeToHuman(value uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(value), -int32(decimals))
}
