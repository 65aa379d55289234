package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/domain"
)

var (
	// ErrCustodyNotFound means the mint has no custody in the loaded pool
	// snapshot. That is a caller configuration error, never retried.
	ErrCustodyNotFound = errors.New("no custody for mint in loaded pool")
	// ErrPoolNotLoaded means no pool snapshot has been set yet.
	ErrPoolNotLoaded = errors.New("pool snapshot not loaded")
)

// TradeAccounts is the per-custody address set an instruction references.
type TradeAccounts struct {
	Custody      solana.PublicKey
	TokenAccount solana.PublicKey
	Oracle       solana.PublicKey
}

// Resolver maps logical entities (mints, position sides) onto the concrete
// addresses and cached custody snapshots instructions need. The pool snapshot
// is set per session and refreshed on demand only.
type Resolver struct {
	registry *Registry
	rpc      chain.RPC

	mu        sync.RWMutex
	pool      *domain.Pool
	byAddress map[solana.PublicKey]*domain.Custody
	byMint    map[solana.PublicKey]*domain.Custody
}

func NewResolver(registry *Registry, rpc chain.RPC) *Resolver {
	return &Resolver{
		registry:  registry,
		rpc:       rpc,
		byAddress: make(map[solana.PublicKey]*domain.Custody),
		byMint:    make(map[solana.PublicKey]*domain.Custody),
	}
}

func (r *Resolver) Registry() *Registry { return r.registry }

// SetSnapshot installs a freshly fetched pool and its custodies.
func (r *Resolver) SetSnapshot(pool *domain.Pool, custodies []*domain.Custody) {
	byAddress := make(map[solana.PublicKey]*domain.Custody, len(custodies))
	byMint := make(map[solana.PublicKey]*domain.Custody, len(custodies))
	for _, c := range custodies {
		byAddress[c.Address] = c
		byMint[c.Mint] = c
	}

	r.mu.Lock()
	r.pool = pool
	r.byAddress = byAddress
	r.byMint = byMint
	r.mu.Unlock()
}

// Pool returns the loaded pool snapshot.
func (r *Resolver) Pool() (*domain.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pool == nil {
		return nil, ErrPoolNotLoaded
	}
	return r.pool, nil
}

// CustodyByMint resolves the custody backing a mint.
func (r *Resolver) CustodyByMint(mint solana.PublicKey) (*domain.Custody, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pool == nil {
		return nil, ErrPoolNotLoaded
	}
	c, ok := r.byMint[mint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustodyNotFound, mint)
	}
	return c, nil
}

// CustodyByAddress resolves a custody by its account address.
func (r *Resolver) CustodyByAddress(address solana.PublicKey) (*domain.Custody, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pool == nil {
		return nil, ErrPoolNotLoaded
	}
	c, ok := r.byAddress[address]
	if !ok {
		return nil, fmt.Errorf("%w: custody %s", ErrCustodyNotFound, address)
	}
	return c, nil
}

// OrderedCustodies returns loaded custodies in the pool's canonical list
// order, the order multi-custody instructions expect as remaining accounts.
func (r *Resolver) OrderedCustodies() ([]*domain.Custody, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pool == nil {
		return nil, ErrPoolNotLoaded
	}
	out := make([]*domain.Custody, 0, len(r.byAddress))
	for _, addr := range r.pool.CustodyList() {
		c, ok := r.byAddress[addr]
		if !ok {
			return nil, fmt.Errorf("%w: custody %s listed in pool but not loaded", ErrCustodyNotFound, addr)
		}
		out = append(out, c)
	}
	return out, nil
}

// TradeAccountsForMint resolves the address triplet instructions reference
// for one custody.
func (r *Resolver) TradeAccountsForMint(mint solana.PublicKey) (TradeAccounts, error) {
	c, err := r.CustodyByMint(mint)
	if err != nil {
		return TradeAccounts{}, err
	}
	return TradeAccounts{
		Custody:      c.Address,
		TokenAccount: c.TokenAccount,
		Oracle:       c.Oracle,
	}, nil
}

// EnsureTokenAccount derives the owner's ATA for mint, checks its existence
// with one network read, and appends an idempotent creation instruction to
// pre when absent. The idempotent variant means a concurrent creation by
// someone else cannot fail the transaction.
func (r *Resolver) EnsureTokenAccount(ctx context.Context, payer, owner, mint solana.PublicKey, pre *[]solana.Instruction) (solana.PublicKey, error) {
	ata, _ := r.registry.ATA(owner, mint)

	_, err := r.rpc.AccountInfo(ctx, ata)
	if err == nil {
		return ata, nil
	}
	if !errors.Is(err, chain.ErrAccountNotFound) {
		return solana.PublicKey{}, fmt.Errorf("check token account %s: %w", ata, err)
	}

	*pre = append(*pre, NewCreateATAInstruction(payer, owner, mint, ata))
	return ata, nil
}

// NewCreateATAInstruction builds the associated-token program's
// CreateIdempotent instruction (discriminator 1).
func NewCreateATAInstruction(payer, owner, mint, ata solana.PublicKey) solana.Instruction {
	return &createATAInstruction{payer: payer, ata: ata, owner: owner, mint: mint}
}

type createATAInstruction struct {
	payer solana.PublicKey
	ata   solana.PublicKey
	owner solana.PublicKey
	mint  solana.PublicKey
}

func (i *createATAInstruction) ProgramID() solana.PublicKey {
	return common.ATAProgramID
}

func (i *createATAInstruction) Accounts() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: i.payer, IsSigner: true, IsWritable: true},
		{PublicKey: i.ata, IsSigner: false, IsWritable: true},
		{PublicKey: i.owner, IsSigner: false, IsWritable: false},
		{PublicKey: i.mint, IsSigner: false, IsWritable: false},
		{PublicKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
	}
}

func (i *createATAInstruction) Data() ([]byte, error) {
	return []byte{1}, nil
}
