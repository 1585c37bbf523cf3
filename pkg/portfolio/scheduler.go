package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/wallet-dash/pkg/wallet"
)

// WalletLister returns the wallets to value on each run. The dashboard may
// change the list between runs.
type WalletLister func() []wallet.Wallet

// Scheduler takes a snapshot on a cron schedule. Runs never overlap; a run
// that fires while the previous one is still going is skipped.
type Scheduler struct {
	agg     *Aggregator
	rec     Recorder
	wallets WalletLister
	spec    string
	timeout time.Duration

	mu      sync.Mutex
	last    *Valuation
	lastErr error
}

func NewScheduler(agg *Aggregator, rec Recorder, wallets WalletLister, spec string) *Scheduler {
	return &Scheduler{agg: agg, rec: rec, wallets: wallets, spec: spec, timeout: 2 * time.Minute}
}

// Run takes one snapshot immediately and then follows the schedule until ctx
// is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return err
	}
	s.RunOnce(ctx)
	c.Start()
	log.Info().Str("schedule", s.spec).Msg("📸 snapshot scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// RunOnce takes a single snapshot and remembers the result.
func (s *Scheduler) RunOnce(ctx context.Context) (*Valuation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ws := s.wallets()
	v, err := Snapshot(ctx, s.agg, s.rec, ws)
	if err != nil {
		log.Error().Err(err).Msg("snapshot failed")
	} else {
		total, _ := v.TotalUSD.Float64()
		log.Info().Int("wallets", len(ws)).Int("failed", v.Failed).Float64("total_usd", total).Msg("📸 snapshot stored")
	}

	s.mu.Lock()
	if v != nil {
		s.last = v
	}
	s.lastErr = err
	s.mu.Unlock()
	return v, err
}

// Last returns the most recent valuation and the error of the most recent
// run, if any.
func (s *Scheduler) Last() (*Valuation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastErr
}
