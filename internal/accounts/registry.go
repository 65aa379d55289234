// Package accounts derives and resolves every address a program instruction
// needs, without network round-trips.
package accounts

import (
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/domain"
	"github.com/fape-labs/adrena-client/internal/metrics"
)

type derived struct {
	address solana.PublicKey
	bump    uint8
}

type custodyKey struct {
	pool solana.PublicKey
	mint solana.PublicKey
}

type positionKey struct {
	owner   solana.PublicKey
	pool    solana.PublicKey
	custody solana.PublicKey
	side    domain.Side
}

type ownerKey struct {
	owner solana.PublicKey
}

type ataKey struct {
	wallet solana.PublicKey
	mint   solana.PublicKey
}

// Registry derives program addresses deterministically and memoizes them.
// Derivation is a pure function of immutable inputs, so entries are cached for
// the lifetime of the client and never invalidated.
type Registry struct {
	programID solana.PublicKey

	mu           sync.RWMutex
	custodies    map[custodyKey]derived
	custodyToken map[custodyKey]derived
	positions    map[positionKey]derived
	userStaking  map[ownerKey]derived
	userProfiles map[ownerKey]derived
	atas         map[ataKey]derived
	named        map[string]derived
}

func NewRegistry(programID solana.PublicKey) *Registry {
	return &Registry{
		programID:    programID,
		custodies:    make(map[custodyKey]derived),
		custodyToken: make(map[custodyKey]derived),
		positions:    make(map[positionKey]derived),
		userStaking:  make(map[ownerKey]derived),
		userProfiles: make(map[ownerKey]derived),
		atas:         make(map[ataKey]derived),
		named:        make(map[string]derived),
	}
}

func (r *Registry) ProgramID() solana.PublicKey { return r.programID }

func derive(seeds [][]byte, programID solana.PublicKey) derived {
	// FindProgramAddress is total over valid seeds: it walks bump values
	// internally until it leaves the ed25519 curve. Failure would mean no
	// bump exists, which does not happen for well-formed seed sets.
	pk, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic("derive program address: " + err.Error())
	}
	return derived{address: pk, bump: bump}
}

func cachedDerive[K comparable](r *Registry, cache map[K]derived, key K, seeds func() [][]byte) (solana.PublicKey, uint8) {
	r.mu.RLock()
	if d, ok := cache[key]; ok {
		r.mu.RUnlock()
		return d.address, d.bump
	}
	r.mu.RUnlock()

	d := derive(seeds(), r.programID)

	r.mu.Lock()
	if _, ok := cache[key]; !ok {
		cache[key] = d
		metrics.DerivationCacheSize.Inc()
	}
	r.mu.Unlock()

	return d.address, d.bump
}

func (r *Registry) namedPDA(name string, seeds ...[]byte) (solana.PublicKey, uint8) {
	return cachedDerive(r, r.named, name, func() [][]byte { return seeds })
}

// Cortex is the program's singleton config account.
func (r *Registry) Cortex() (solana.PublicKey, uint8) {
	return r.namedPDA("cortex", []byte(common.CortexSeed))
}

// TransferAuthority signs vault transfers on the program's behalf.
func (r *Registry) TransferAuthority() (solana.PublicKey, uint8) {
	return r.namedPDA("transfer_authority", []byte(common.TransferAuthoritySeed))
}

// Pool derives the pool account for a venue name.
func (r *Registry) Pool(name string) (solana.PublicKey, uint8) {
	return r.namedPDA("pool:"+name, []byte(common.PoolSeed), []byte(name))
}

// LpTokenMint derives the pool's LP token mint.
func (r *Registry) LpTokenMint(pool solana.PublicKey) (solana.PublicKey, uint8) {
	return r.namedPDA("lp_token_mint:"+pool.String(), []byte(common.LpTokenMintSeed), pool.Bytes())
}

// LmTokenMint derives the protocol governance token mint.
func (r *Registry) LmTokenMint() (solana.PublicKey, uint8) {
	return r.namedPDA("lm_token_mint", []byte(common.LmTokenMintSeed))
}

// Staking derives the staking account for one staked token mint.
func (r *Registry) Staking(stakedTokenMint solana.PublicKey) (solana.PublicKey, uint8) {
	return r.namedPDA("staking:"+stakedTokenMint.String(), []byte(common.StakingSeed), stakedTokenMint.Bytes())
}

// StakingStakedVault derives the vault holding staked principal.
func (r *Registry) StakingStakedVault(staking solana.PublicKey) (solana.PublicKey, uint8) {
	return r.namedPDA("staking_staked_vault:"+staking.String(), []byte(common.StakingStakedVaultSeed), staking.Bytes())
}

// StakingRewardVault derives the vault rewards are paid from.
func (r *Registry) StakingRewardVault(staking solana.PublicKey) (solana.PublicKey, uint8) {
	return r.namedPDA("staking_reward_vault:"+staking.String(), []byte(common.StakingRewardVaultSeed), staking.Bytes())
}

// Custody derives the custody account for a mint inside a pool.
func (r *Registry) Custody(pool, mint solana.PublicKey) (solana.PublicKey, uint8) {
	return cachedDerive(r, r.custodies, custodyKey{pool: pool, mint: mint}, func() [][]byte {
		return [][]byte{[]byte(common.CustodySeed), pool.Bytes(), mint.Bytes()}
	})
}

// CustodyTokenAccount derives the custody's token vault.
func (r *Registry) CustodyTokenAccount(pool, mint solana.PublicKey) (solana.PublicKey, uint8) {
	return cachedDerive(r, r.custodyToken, custodyKey{pool: pool, mint: mint}, func() [][]byte {
		return [][]byte{[]byte(common.CustodyTokenSeed), pool.Bytes(), mint.Bytes()}
	})
}

// Position derives the position address for (owner, pool, custody, side).
// The side byte is part of the seed set, which is what limits a wallet to one
// open long and one open short per custody.
func (r *Registry) Position(owner, pool, custody solana.PublicKey, side domain.Side) (solana.PublicKey, uint8) {
	return cachedDerive(r, r.positions, positionKey{owner: owner, pool: pool, custody: custody, side: side}, func() [][]byte {
		return [][]byte{[]byte(common.PositionSeed), owner.Bytes(), pool.Bytes(), custody.Bytes(), {byte(side)}}
	})
}

// UserStaking derives a wallet's staking account.
func (r *Registry) UserStaking(owner solana.PublicKey) (solana.PublicKey, uint8) {
	return cachedDerive(r, r.userStaking, ownerKey{owner: owner}, func() [][]byte {
		return [][]byte{[]byte(common.UserStakingSeed), owner.Bytes()}
	})
}

// UserProfile derives a wallet's profile account.
func (r *Registry) UserProfile(owner solana.PublicKey) (solana.PublicKey, uint8) {
	return cachedDerive(r, r.userProfiles, ownerKey{owner: owner}, func() [][]byte {
		return [][]byte{[]byte(common.UserProfileSeed), owner.Bytes()}
	})
}

// ATA derives the associated token account for (wallet, mint). Unlike the
// PDAs above it lives under the associated-token program.
func (r *Registry) ATA(wallet, mint solana.PublicKey) (solana.PublicKey, uint8) {
	key := ataKey{wallet: wallet, mint: mint}

	r.mu.RLock()
	if d, ok := r.atas[key]; ok {
		r.mu.RUnlock()
		return d.address, d.bump
	}
	r.mu.RUnlock()

	d := derive([][]byte{wallet.Bytes(), common.TokenProgramID.Bytes(), mint.Bytes()}, common.ATAProgramID)

	r.mu.Lock()
	if _, ok := r.atas[key]; !ok {
		r.atas[key] = d
		metrics.DerivationCacheSize.Inc()
	}
	r.mu.Unlock()

	return d.address, d.bump
}
