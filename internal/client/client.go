// Package client is the public face of the pipeline: it owns the pool
// session snapshot, the fresh per-query account reads and the operations
// that run build -> estimate -> sign -> submit -> confirm.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fape-labs/adrena-client/internal/accounts"
	"github.com/fape-labs/adrena-client/internal/anchor"
	"github.com/fape-labs/adrena-client/internal/builder"
	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/config"
	"github.com/fape-labs/adrena-client/internal/domain"
	"github.com/fape-labs/adrena-client/internal/metrics"
	"github.com/fape-labs/adrena-client/internal/price"
	"github.com/fape-labs/adrena-client/internal/priority"
	"github.com/fape-labs/adrena-client/internal/submit"
)

// Client drives one program deployment and one pool. It is safe for
// concurrent use; independent operations run independently, but racing two
// mutating operations against the same position is the caller's mistake.
type Client struct {
	rpc      chain.RPC
	registry *accounts.Registry
	resolver *accounts.Resolver
	builder  *builder.Builder
	engine   *submit.Engine
	signer   submit.Signer
	prices   *price.Service
	urgency  priority.Urgency
	poolName string

	// Progress receives submission stage events when non-nil.
	Progress chan<- submit.StageEvent
}

func New(rpc chain.RPC, rpcCfg *config.RPCConfig, subCfg *config.SubmitConfig, signer submit.Signer, prices *price.Service) *Client {
	registry := accounts.NewRegistry(rpcCfg.ProgramID)
	resolver := accounts.NewResolver(registry, rpc)
	blockhashes := chain.NewBlockhashCache(rpc)
	fees := priority.NewService(rpc, subCfg.MaxPriorityFeeLamports)

	return &Client{
		rpc:      rpc,
		registry: registry,
		resolver: resolver,
		builder:  builder.New(resolver),
		engine:   submit.NewEngine(rpc, blockhashes, fees, subCfg),
		signer:   signer,
		prices:   prices,
		urgency:  priority.ParseUrgency(subCfg.FeeTier),
		poolName: rpcCfg.PoolName,
	}
}

// PublicKey is the wallet every operation signs and pays with.
func (c *Client) PublicKey() solana.PublicKey {
	return c.signer.PublicKey()
}

// LoadPool fetches the pool account and all of its custodies and installs
// them as the session snapshot. Called once at startup and again on demand;
// the snapshot does not refresh itself.
func (c *Client) LoadPool(ctx context.Context) error {
	poolAddress, _ := c.registry.Pool(c.poolName)

	data, err := c.rpc.AccountInfo(ctx, poolAddress)
	if err != nil {
		return fmt.Errorf("load pool %s: %w", c.poolName, err)
	}
	metrics.AccountReads.WithLabelValues("pool").Inc()

	pool, err := anchor.ParsePool(poolAddress, data)
	if err != nil {
		return fmt.Errorf("load pool %s: %w", c.poolName, err)
	}

	custodyAddresses := pool.CustodyList()
	raws, err := c.rpc.MultipleAccounts(ctx, custodyAddresses)
	if err != nil {
		return fmt.Errorf("load custodies: %w", err)
	}
	metrics.AccountReads.WithLabelValues("custody").Inc()

	custodies := make([]*domain.Custody, 0, len(custodyAddresses))
	for i, raw := range raws {
		if raw == nil {
			return fmt.Errorf("load custodies: %s missing on chain", custodyAddresses[i])
		}
		custody, err := anchor.ParseCustody(custodyAddresses[i], raw)
		if err != nil {
			return fmt.Errorf("load custody %s: %w", custodyAddresses[i], err)
		}
		custodies = append(custodies, custody)
	}

	c.resolver.SetSnapshot(pool, custodies)
	log.Info().
		Str("pool", c.poolName).
		Int("custodies", len(custodies)).
		Msg("pool snapshot loaded")
	return nil
}

// RefreshPool re-reads the snapshot. Alias kept so call sites say what they
// mean.
func (c *Client) RefreshPool(ctx context.Context) error { return c.LoadPool(ctx) }

// Pool returns the current snapshot.
func (c *Client) Pool() (*domain.Pool, error) { return c.resolver.Pool() }

// AumUsd is the pool's assets under management from the snapshot,
// UsdDecimals precision.
func (c *Client) AumUsd() (uint64, error) {
	pool, err := c.resolver.Pool()
	if err != nil {
		return 0, err
	}
	big := pool.AumUsd.Big()
	if !big.IsUint64() {
		return ^uint64(0), nil
	}
	return big.Uint64(), nil
}

// Positions reads every open position the owner holds in the pool, both
// sides of every custody. Positions mutate on every trade, so this is a
// fresh read each call.
func (c *Client) Positions(ctx context.Context, owner solana.PublicKey) ([]*domain.Position, error) {
	custodies, err := c.resolver.OrderedCustodies()
	if err != nil {
		return nil, err
	}
	pool, err := c.resolver.Pool()
	if err != nil {
		return nil, err
	}

	addresses := make([]solana.PublicKey, 0, len(custodies)*2)
	for _, custody := range custodies {
		long, _ := c.registry.Position(owner, pool.Address, custody.Address, domain.SideLong)
		short, _ := c.registry.Position(owner, pool.Address, custody.Address, domain.SideShort)
		addresses = append(addresses, long, short)
	}

	raws, err := c.rpc.MultipleAccounts(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	metrics.AccountReads.WithLabelValues("position").Inc()

	positions := make([]*domain.Position, 0, 4)
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		position, err := anchor.ParsePosition(addresses[i], raw)
		if err != nil {
			return nil, fmt.Errorf("parse position %s: %w", addresses[i], err)
		}
		positions = append(positions, position)
	}
	return positions, nil
}

// Position reads one position fresh. Absent-but-valid means the owner holds
// no position on that custody and side.
func (c *Client) Position(ctx context.Context, owner, mint solana.PublicKey, side domain.Side) (domain.Loaded[*domain.Position], error) {
	custody, err := c.resolver.CustodyByMint(mint)
	if err != nil {
		return domain.Loaded[*domain.Position]{}, err
	}
	pool, err := c.resolver.Pool()
	if err != nil {
		return domain.Loaded[*domain.Position]{}, err
	}
	address, _ := c.registry.Position(owner, pool.Address, custody.Address, side)

	data, err := c.rpc.AccountInfo(ctx, address)
	if errors.Is(err, chain.ErrAccountNotFound) {
		return domain.Loaded[*domain.Position]{State: domain.AbsentButValid}, nil
	}
	if err != nil {
		return domain.Loaded[*domain.Position]{}, fmt.Errorf("read position: %w", err)
	}
	metrics.AccountReads.WithLabelValues("position").Inc()

	position, err := anchor.ParsePosition(address, data)
	if err != nil {
		return domain.Loaded[*domain.Position]{}, err
	}
	return domain.Loaded[*domain.Position]{State: domain.Present, Value: position}, nil
}

// UserProfile reads the owner's profile. A profile is created lazily on
// first trade; a zero creation timestamp is reported as absent-but-valid
// even when the account bytes exist.
func (c *Client) UserProfile(ctx context.Context, owner solana.PublicKey) (domain.Loaded[*domain.UserProfile], error) {
	address, _ := c.registry.UserProfile(owner)

	data, err := c.rpc.AccountInfo(ctx, address)
	if errors.Is(err, chain.ErrAccountNotFound) {
		return domain.Loaded[*domain.UserProfile]{State: domain.AbsentButValid}, nil
	}
	if err != nil {
		return domain.Loaded[*domain.UserProfile]{}, fmt.Errorf("read profile: %w", err)
	}
	metrics.AccountReads.WithLabelValues("profile").Inc()

	profile, err := anchor.ParseUserProfile(address, data)
	if err != nil {
		return domain.Loaded[*domain.UserProfile]{}, err
	}
	if !profile.Initialized() {
		return domain.Loaded[*domain.UserProfile]{State: domain.AbsentButValid}, nil
	}
	return domain.Loaded[*domain.UserProfile]{State: domain.Present, Value: profile}, nil
}

// UserStaking reads the owner's staking account fresh.
func (c *Client) UserStaking(ctx context.Context, owner solana.PublicKey) (domain.Loaded[*domain.UserStaking], error) {
	address, _ := c.registry.UserStaking(owner)

	data, err := c.rpc.AccountInfo(ctx, address)
	if errors.Is(err, chain.ErrAccountNotFound) {
		return domain.Loaded[*domain.UserStaking]{State: domain.AbsentButValid}, nil
	}
	if err != nil {
		return domain.Loaded[*domain.UserStaking]{}, fmt.Errorf("read staking: %w", err)
	}
	metrics.AccountReads.WithLabelValues("staking").Inc()

	staking, err := anchor.ParseUserStaking(address, data)
	if err != nil {
		return domain.Loaded[*domain.UserStaking]{}, err
	}
	return domain.Loaded[*domain.UserStaking]{State: domain.Present, Value: staking}, nil
}

// Price proxies the price-feed collaborator; failures surface as ok=false,
// never as an error into submission logic.
func (c *Client) Price(ctx context.Context, feedID string) (decimal.Decimal, bool) {
	value, ok := c.prices.Price(ctx, feedID)
	if ok {
		metrics.PriceFetches.WithLabelValues("ok").Inc()
	} else {
		metrics.PriceFetches.WithLabelValues("miss").Inc()
	}
	return value, ok
}

func (c *Client) submit(ctx context.Context, operation string, built *builder.Built) (solana.Signature, error) {
	return c.engine.Submit(ctx, &submit.Request{
		Operation:    operation,
		Instructions: built.Flatten(),
		Signer:       c.signer,
		Urgency:      c.urgency,
		Progress:     c.Progress,
	})
}
