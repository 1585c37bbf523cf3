package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wallet-dash/pkg/app"
	"github.com/wallet-dash/pkg/chain"
	"github.com/wallet-dash/pkg/client"
	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/db"
	"github.com/wallet-dash/pkg/portfolio"
	"github.com/wallet-dash/pkg/viewport"
)

// env is everything a subcommand needs, opened once per invocation.
type env struct {
	cfg     *config.Config
	store   *db.Store
	app     *app.App
	backend *client.Client
	rpc     *chain.RPC
}

func (e *env) Close() {
	if e.rpc != nil {
		e.rpc.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
}

// source reads local history first and falls back to the backend.
func (e *env) source() viewport.Source {
	src := app.FallbackSource{Local: e.store}
	if e.backend != nil {
		src.Remote = e.backend
	}
	return src
}

// aggregator prices holdings from the backend, then DexScreener.
func (e *env) aggregator() *portfolio.Aggregator {
	var prices chain.FirstPrices
	if e.backend != nil {
		prices = append(prices, e.backend)
	}
	if e.cfg.DexScreenerURL != "" {
		prices = append(prices, chain.NewDexScreener(e.cfg.DexScreenerURL, e.cfg.BackendTimeout))
	}
	if len(prices) == 0 {
		return portfolio.NewAggregator(e.rpc, noPrices{}, e.cfg.MaxConcurrency)
	}
	return portfolio.NewAggregator(e.rpc, prices, e.cfg.MaxConcurrency)
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	setupLogging(cfg.LogLevel)

	store, err := db.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	a, err := app.New(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	a.Seed(cfg.SeedWallets)

	e := &env{cfg: cfg, store: store, app: a, rpc: chain.NewRPC(cfg)}
	if cfg.BackendURL != "" {
		e.backend = client.New(cfg.BackendURL, cfg.BackendTimeout)
	}
	return e, nil
}

func setupLogging(level string) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletdash",
		Short: "Multi-chain wallet dashboard",
		Long: `walletdash tracks wallet balances across Solana and EVM chains, records
portfolio value snapshots and serves a zoomable value chart in the browser
or the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		tuiCmd(),
		walletsCmd(),
		checkinCmd(),
		streakCmd(),
		leaderboardCmd(),
		notificationsCmd(),
		referralCmd(),
		snapshotCmd(),
		numbersCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
