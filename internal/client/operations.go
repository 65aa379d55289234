package client

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/builder"
)

// Every operation resolves to either a confirmed signature or a
// *txerror.DomainError carrying the last known signature and any decoded
// program message.

func (c *Client) OpenPosition(ctx context.Context, params *builder.OpenPositionParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.OpenPosition(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "open_position", built)
}

func (c *Client) AddCollateral(ctx context.Context, params *builder.CollateralParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.AddCollateral(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "add_collateral", built)
}

func (c *Client) RemoveCollateral(ctx context.Context, params *builder.CollateralParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.RemoveCollateral(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "remove_collateral", built)
}

func (c *Client) ClosePosition(ctx context.Context, params *builder.ClosePositionParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.ClosePosition(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "close_position", built)
}

func (c *Client) Swap(ctx context.Context, params *builder.SwapParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.Swap(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "swap", built)
}

func (c *Client) AddLiquidity(ctx context.Context, params *builder.AddLiquidityParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.AddLiquidity(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "add_liquidity", built)
}

func (c *Client) RemoveLiquidity(ctx context.Context, params *builder.RemoveLiquidityParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.RemoveLiquidity(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "remove_liquidity", built)
}

func (c *Client) AddLockedStake(ctx context.Context, params *builder.AddLockedStakeParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.AddLockedStake(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "add_locked_stake", built)
}

func (c *Client) RemoveLockedStake(ctx context.Context, params *builder.RemoveLockedStakeParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.RemoveLockedStake(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "remove_locked_stake", built)
}

func (c *Client) ClaimStakes(ctx context.Context, params *builder.ClaimStakesParams) (solana.Signature, error) {
	params.Owner = c.signer.PublicKey()
	built, err := c.builder.ClaimStakes(ctx, params)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "claim_stakes", built)
}

func (c *Client) InitUserProfile(ctx context.Context, nickname string) (solana.Signature, error) {
	built, err := c.builder.InitUserProfile(c.signer.PublicKey(), nickname)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "init_user_profile", built)
}

func (c *Client) EditUserProfile(ctx context.Context, nickname string) (solana.Signature, error) {
	built, err := c.builder.EditUserProfile(c.signer.PublicKey(), nickname)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.submit(ctx, "edit_user_profile", built)
}
