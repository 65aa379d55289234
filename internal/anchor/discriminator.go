// Package anchor implements the Anchor account/instruction conventions the
// perpetuals program uses: 8-byte discriminators, borsh account layouts and
// the custom error table.
package anchor

import "crypto/sha256"

// InstructionDiscriminator returns the 8-byte method discriminator for a
// global instruction, sha256("global:<name>")[0:8].
func InstructionDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

// AccountDiscriminator returns the 8-byte account discriminator,
// sha256("account:<Name>")[0:8].
func AccountDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}
