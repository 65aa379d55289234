// Package economics mirrors the on-chain position arithmetic so read paths
// can display the same numbers the program computes, without a round-trip.
// Everything is fixed-point; integer division truncates toward zero exactly
// like the program's math.
package economics

import (
	"errors"

	"github.com/holiman/uint256"
)

var ErrDivisionByZero = errors.New("division by zero")

// 10^RateDecimals as a uint256 constant.
var ratePower = uint256.NewInt(1_000_000_000)

// mulDiv computes a*b/d over 256 bits, floored. The wide intermediate keeps
// sizeUsd*price products from overflowing 64 bits.
func mulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	out := new(uint256.Int).Mul(new(uint256.Int).SetUint64(a), new(uint256.Int).SetUint64(b))
	out.Div(out, new(uint256.Int).SetUint64(d))
	if !out.IsUint64() {
		return 0, errors.New("mulDiv overflow")
	}
	return out.Uint64(), nil
}

// mulDivU256 is mulDiv with a wide numerator term.
func mulDivU256(a *uint256.Int, b, d uint64) *uint256.Int {
	out := new(uint256.Int).Mul(a, new(uint256.Int).SetUint64(b))
	return out.Div(out, new(uint256.Int).SetUint64(d))
}

func saturatingU64(v *uint256.Int) uint64 {
	if !v.IsUint64() {
		return ^uint64(0)
	}
	return v.Uint64()
}
