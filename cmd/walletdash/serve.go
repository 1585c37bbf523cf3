package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wallet-dash/pkg/dashboard"
	"github.com/wallet-dash/pkg/portfolio"
	"github.com/wallet-dash/pkg/tui"
)

var errNoBackend = errors.New("BACKEND_URL is not set")

type noPrices struct{}

func (noPrices) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	return nil, errNoBackend
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func serveCmd() *cobra.Command {
	var port int
	var retain time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the snapshot scheduler and the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			if port == 0 {
				port = e.cfg.DashboardPort
			}
			log.Info().Msg("💼 wallet dashboard starting...")

			ctx, cancel := signalContext()
			defer cancel()

			sched := portfolio.NewScheduler(e.aggregator(), e.store, e.app.WalletSlice, e.cfg.SnapshotCron)
			var board dashboard.Leaderboard
			if e.backend != nil {
				board = e.backend
			}
			dash := dashboard.New(e.app, e.source(), sched, board, port)

			errCh := make(chan error, 3)
			go func() { errCh <- sched.Run(ctx) }()
			go func() { errCh <- dash.Run(ctx) }()
			if retain > 0 {
				go func() { errCh <- runPrune(ctx, e, retain) }()
			}

			printSummary(e, port)
			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("error")
					cancel()
					return err
				}
			}
			log.Info().Msg("goodbye 👋")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "dashboard port (default DASHBOARD_PORT)")
	cmd.Flags().DurationVar(&retain, "retain", 0, "drop snapshots older than this, checked daily (0 keeps everything)")
	return cmd
}

func runPrune(ctx context.Context, e *env, retain time.Duration) error {
	prune := func() {
		n, err := e.store.PruneSnapshots(time.Now().Add(-retain))
		if err != nil {
			log.Error().Err(err).Msg("prune failed")
			return
		}
		if n > 0 {
			log.Info().Int64("rows", n).Msg("🧹 pruned old snapshots")
		}
	}
	prune()
	t := time.NewTicker(24 * time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			prune()
		}
	}
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := signalContext()
			defer cancel()

			// the terminal owns stderr while the program runs
			setupLogging("disabled")
			sched := portfolio.NewScheduler(e.aggregator(), e.store, e.app.WalletSlice, e.cfg.SnapshotCron)
			go sched.Run(ctx)
			return tui.Run(ctx, tui.New(e.app, e.source(), sched))
		},
	}
}

func printSummary(e *env, port int) {
	stats, _ := e.store.GetStats()
	fmt.Println("\n" + strings.Repeat("═", 60))
	fmt.Println("  💼 WALLET DASHBOARD - RUNNING")
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("  Wallets:   %d\n", e.app.Wallets().Len())
	fmt.Printf("  Snapshots: %s\n", e.cfg.SnapshotCron)
	backend := "❌ not set (leaderboard and history from local snapshots only)"
	if e.backend != nil {
		backend = "✅ " + e.cfg.BackendURL
	}
	fmt.Printf("  Backend:   %s\n", backend)
	fmt.Printf("  Dashboard: http://localhost:%d\n", port)
	if stats != nil {
		fmt.Printf("  DB: %d wallets, %d snapshots, %d check-ins\n", stats["tracked_wallets"], stats["value_snapshots"], stats["checkin_log"])
	}
	fmt.Println(strings.Repeat("═", 60) + "\n")
}
