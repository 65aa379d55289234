package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/fape-labs/adrena-client/internal/chain"
	"github.com/fape-labs/adrena-client/internal/client"
	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/config"
	"github.com/fape-labs/adrena-client/internal/price"
	"github.com/fape-labs/adrena-client/internal/submit"
)

const poolRefreshInterval = 5 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using process environment")
	}

	general := &config.GeneralConfig{}
	if err := general.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load general config")
	}
	common.InitLogger(general.LogLevel, general.Env)

	rpcCfg := &config.RPCConfig{}
	if err := rpcCfg.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load rpc config")
	}
	subCfg := &config.SubmitConfig{}
	if err := subCfg.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load submit config")
	}

	signerKey := os.Getenv("SIGNER_KEY")
	if signerKey == "" {
		log.Fatal().Msg("SIGNER_KEY is required")
	}
	signer, err := submit.KeypairSignerFromBase58(signerKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse signer key")
	}

	priceEndpoint := os.Getenv("PRICE_FEED_URL")
	if priceEndpoint == "" {
		priceEndpoint = "https://hermes.pyth.network"
	}

	rpc := chain.New(rpcCfg.RPCUrl)
	cli := client.New(rpc, rpcCfg, subCfg, signer, price.NewService(priceEndpoint))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.LoadPool(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load pool snapshot")
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Info().Str("addr", general.MetricsAddr).Msg("metrics endpoint listening")
		if err := http.ListenAndServe(general.MetricsAddr, nil); err != nil {
			log.Error().Err(err).Msg("metrics endpoint stopped")
		}
	}()

	log.Info().
		Str("cluster", rpcCfg.Cluster).
		Str("pool", rpcCfg.PoolName).
		Str("wallet", cli.PublicKey().String()).
		Msg("runtime started")

	ticker := time.NewTicker(poolRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-ticker.C:
			if err := cli.RefreshPool(ctx); err != nil {
				log.Warn().Err(err).Msg("pool refresh failed")
			}
		}
	}
}
