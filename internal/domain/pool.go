package domain

import "github.com/gagliardetto/solana-go"

// MaxPoolCustodies is the fixed size of the on-chain custody list; unused
// slots hold the sentinel default address.
const MaxPoolCustodies = 8

// Pool aggregates all custodies for one trading venue. The custody list order
// is canonical: it is the order used when assembling remaining accounts for
// multi-custody instructions.
type Pool struct {
	Address solana.PublicKey
	Name    string

	Custodies [MaxPoolCustodies]solana.PublicKey
	Ratios    [MaxPoolCustodies]AssetRatios

	AumUsd U128

	LpTokenMint solana.PublicKey

	// Aggregate venue statistics, USD native units.
	TotalVolumeUsd uint64
	TotalFeesUsd   uint64
}

// CustodyList returns the populated custody addresses in canonical order.
func (p *Pool) CustodyList() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, MaxPoolCustodies)
	for _, c := range p.Custodies {
		if c.Equals(solana.SystemProgramID) || c.IsZero() {
			continue
		}
		out = append(out, c)
	}
	return out
}
