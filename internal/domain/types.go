// Package domain holds the on-chain account model mirrored by this client.
package domain

import (
	"github.com/holiman/uint256"
)

// Side of a leveraged position.
type Side uint8

const (
	SideNone Side = iota
	SideLong
	SideShort
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "long"
	case SideShort:
		return "short"
	default:
		return "none"
	}
}

// U128 is a 128-bit on-chain accumulator split into two little-endian u64
// halves, combined as High*2^64 + Low.
type U128 struct {
	Low  uint64
	High uint64
}

// Big reconstructs the accumulator value.
func (u U128) Big() *uint256.Int {
	v := new(uint256.Int).SetUint64(u.High)
	v.Lsh(v, 64)
	return v.Add(v, new(uint256.Int).SetUint64(u.Low))
}

// U128From builds the split representation from a 256-bit value. Values above
// 2^128-1 are the caller's bug; only the low 128 bits are kept.
func U128From(v *uint256.Int) U128 {
	return U128{Low: v[0], High: v[1]}
}

// LoadState distinguishes "not fetched yet" from "fetched and legitimately
// absent" for accounts that are created lazily on-chain.
type LoadState uint8

const (
	NotLoaded LoadState = iota
	AbsentButValid
	Present
)

// Loaded wraps a lazily-created account read.
type Loaded[T any] struct {
	State LoadState
	Value T
}
