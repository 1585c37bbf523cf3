// Package portfolio values the tracked wallets and records value snapshots
// that feed the dashboard chart.
package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/wallet-dash/pkg/chain"
	"github.com/wallet-dash/pkg/db"
	"github.com/wallet-dash/pkg/wallet"
)

// PriceSource returns USD prices keyed by upper-case symbol.
type PriceSource interface {
	Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type Holding struct {
	Wallet   wallet.Wallet   `json:"wallet"`
	Symbol   string          `json:"symbol"`
	Balance  decimal.Decimal `json:"balance"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	ValueUSD decimal.Decimal `json:"value_usd"`
	Error    string          `json:"error,omitempty"`
}

type Valuation struct {
	Holdings []Holding       `json:"holdings"`
	TotalUSD decimal.Decimal `json:"total_usd"`
	Failed   int             `json:"failed"`
	At       time.Time       `json:"at"`
}

type Aggregator struct {
	balances chain.BalanceFetcher
	prices   PriceSource
	limit    int
}

func NewAggregator(balances chain.BalanceFetcher, prices PriceSource, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{balances: balances, prices: prices, limit: concurrency}
}

// Value fetches every wallet's balance concurrently and prices it. A wallet
// whose balance cannot be read is reported with Error set and left out of the
// total. Only a price lookup failure fails the whole valuation.
func (a *Aggregator) Value(ctx context.Context, wallets []wallet.Wallet) (*Valuation, error) {
	if len(wallets) == 0 {
		return &Valuation{TotalUSD: decimal.Zero, At: time.Now().UTC()}, nil
	}
	holdings := make([]Holding, len(wallets))
	symbols := map[string]bool{}
	for i, w := range wallets {
		holdings[i] = Holding{Wallet: w, Symbol: w.Chain.NativeSymbol()}
		symbols[holdings[i].Symbol] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.limit)
	for i := range wallets {
		i := i
		g.Go(func() error {
			bal, err := a.balances.Balance(gctx, wallets[i])
			if err != nil {
				log.Warn().Err(err).Str("wallet", wallet.Abbrev(wallets[i].Address)).Msg("balance fetch failed")
				holdings[i].Error = err.Error()
				return nil
			}
			holdings[i].Balance = bal
			return nil
		})
	}

	var prices map[string]decimal.Decimal
	g.Go(func() error {
		var err error
		prices, err = a.prices.Prices(gctx, sortedKeys(symbols))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("valuation: %w", err)
	}

	v := &Valuation{Holdings: holdings, TotalUSD: decimal.Zero, At: time.Now().UTC()}
	for i := range holdings {
		h := &holdings[i]
		if h.Error != "" {
			v.Failed++
			continue
		}
		h.PriceUSD = prices[h.Symbol]
		h.ValueUSD = h.Balance.Mul(h.PriceUSD)
		v.TotalUSD = v.TotalUSD.Add(h.ValueUSD)
	}
	return v, nil
}

// Recorder is the part of the store a snapshot writes to.
type Recorder interface {
	InsertSnapshot(subject string, value float64, at time.Time) error
}

// Snapshot values the wallets and stores the total under the portfolio
// subject and each readable wallet under its address.
func Snapshot(ctx context.Context, a *Aggregator, rec Recorder, wallets []wallet.Wallet) (*Valuation, error) {
	v, err := a.Value(ctx, wallets)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return v, nil
	}
	if v.Failed == len(wallets) {
		return v, fmt.Errorf("snapshot: all %d balance fetches failed", len(wallets))
	}
	total, _ := v.TotalUSD.Float64()
	if err := rec.InsertSnapshot(db.PortfolioSubject, total, v.At); err != nil {
		return v, fmt.Errorf("snapshot: %w", err)
	}
	for _, h := range v.Holdings {
		if h.Error != "" {
			continue
		}
		val, _ := h.ValueUSD.Float64()
		if err := rec.InsertSnapshot(h.Wallet.Address, val, v.At); err != nil {
			return v, fmt.Errorf("snapshot %s: %w", wallet.Abbrev(h.Wallet.Address), err)
		}
	}
	return v, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
