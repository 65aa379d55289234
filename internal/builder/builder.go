// Package builder assembles unsigned program instructions, one pure builder
// per operation. Builders resolve every account they need up front and fail
// with a structured error when a custody or token mapping is missing; they
// never substitute defaults.
package builder

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/accounts"
	"github.com/fape-labs/adrena-client/internal/anchor"
	"github.com/fape-labs/adrena-client/internal/common"
)

// Built is one operation's instruction bundle. Final transaction order is
// [compute budget] -> Pre -> Instruction -> Post; the compute budget pair is
// prepended later by the submission engine.
type Built struct {
	Pre         []solana.Instruction
	Instruction solana.Instruction
	Post        []solana.Instruction
}

// Flatten returns Pre, the operation and Post in submission order.
func (b *Built) Flatten() []solana.Instruction {
	out := make([]solana.Instruction, 0, len(b.Pre)+1+len(b.Post))
	out = append(out, b.Pre...)
	out = append(out, b.Instruction)
	out = append(out, b.Post...)
	return out
}

// Builder constructs instructions against one loaded pool snapshot.
type Builder struct {
	resolver  *accounts.Resolver
	registry  *accounts.Registry
	programID solana.PublicKey
}

func New(resolver *accounts.Resolver) *Builder {
	registry := resolver.Registry()
	return &Builder{
		resolver:  resolver,
		registry:  registry,
		programID: registry.ProgramID(),
	}
}

// encodeInstruction renders discriminator + borsh-encoded args.
func encodeInstruction(method string, args interface{}) ([]byte, error) {
	disc := anchor.InstructionDiscriminator(method)
	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	if args != nil {
		if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
			return nil, fmt.Errorf("encode %s args: %w", method, err)
		}
	}
	return buf.Bytes(), nil
}

// defaultSlippageBps is the price tolerance applied when the caller does not
// supply one: 30 bps (0.3%).
const defaultSlippageBps = 30

// applySlippage shifts a price by bps. The sign convention is fixed at each
// call site: opening a long pays up (+), opening a short receives down (-),
// and closing inverts the open-side sign.
func applySlippage(price uint64, bps int64) uint64 {
	if bps >= 0 {
		return price + price*uint64(bps)/common.BpsPower
	}
	down := price * uint64(-bps) / common.BpsPower
	if down >= price {
		return 0
	}
	return price - down
}

// remainingAccounts lists every live custody and its oracle in canonical
// pool order, the layout multi-custody instructions expect.
func (b *Builder) remainingAccounts() ([]*solana.AccountMeta, error) {
	custodies, err := b.resolver.OrderedCustodies()
	if err != nil {
		return nil, err
	}
	metas := make([]*solana.AccountMeta, 0, len(custodies)*2)
	for _, custody := range custodies {
		metas = append(metas, solana.NewAccountMeta(custody.Address, false, false))
	}
	for _, custody := range custodies {
		metas = append(metas, solana.NewAccountMeta(custody.Oracle, false, false))
	}
	return metas, nil
}
