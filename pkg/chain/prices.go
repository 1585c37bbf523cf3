package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Wrapped native tokens quoted on DexScreener for each native symbol.
var nativeTokens = map[string]string{
	"SOL": "So11111111111111111111111111111111111111112",
	"ETH": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	"BNB": "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
}

type cachedPrice struct {
	price   decimal.Decimal
	fetched time.Time
}

// DexScreener quotes native token prices from the highest-liquidity pair on
// DexScreener. Quotes are cached for a minute.
type DexScreener struct {
	base string
	http *http.Client
	ttl  time.Duration

	mu    sync.RWMutex
	cache map[string]cachedPrice
}

func NewDexScreener(baseURL string, timeout time.Duration) *DexScreener {
	return &DexScreener{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: timeout},
		ttl:   60 * time.Second,
		cache: map[string]cachedPrice{},
	}
}

func (d *DexScreener) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(symbols))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, sym := range symbols {
		sym := strings.ToUpper(sym)
		g.Go(func() error {
			p, err := d.price(gctx, sym)
			if err != nil {
				return err
			}
			mu.Lock()
			out[sym] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DexScreener) price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	token, ok := nativeTokens[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("dexscreener: no token for %s", symbol)
	}

	d.mu.RLock()
	if c, ok := d.cache[symbol]; ok && time.Since(c.fetched) < d.ttl {
		d.mu.RUnlock()
		return c.price, nil
	}
	d.mu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, "GET", d.base+"/latest/dex/tokens/"+token, nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("dexscreener %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("dexscreener %s: status %d", symbol, resp.StatusCode)
	}

	var result struct {
		Pairs []struct {
			PriceUSD  string `json:"priceUsd"`
			Liquidity struct {
				USD float64 `json:"usd"`
			} `json:"liquidity"`
		} `json:"pairs"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return decimal.Zero, fmt.Errorf("dexscreener %s: %w", symbol, err)
	}

	// Pick highest liquidity pair
	best, bestLiq := decimal.Zero, -1.0
	for _, p := range result.Pairs {
		price, err := decimal.NewFromString(p.PriceUSD)
		if err != nil || !price.IsPositive() {
			continue
		}
		if p.Liquidity.USD > bestLiq {
			best, bestLiq = price, p.Liquidity.USD
		}
	}
	if !best.IsPositive() {
		return decimal.Zero, fmt.Errorf("dexscreener %s: no priced pairs", symbol)
	}

	d.mu.Lock()
	d.cache[symbol] = cachedPrice{price: best, fetched: time.Now()}
	d.mu.Unlock()
	return best, nil
}

// PriceSource returns USD prices keyed by upper-case symbol.
type PriceSource interface {
	Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// FirstPrices asks each source in turn and returns the first full answer.
type FirstPrices []PriceSource

func (f FirstPrices) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	var lastErr error
	for _, src := range f {
		if src == nil {
			continue
		}
		got, err := src.Prices(ctx, symbols)
		if err == nil && hasAll(got, symbols) {
			return got, nil
		}
		if err == nil {
			err = fmt.Errorf("incomplete quote for %v", symbols)
		}
		log.Warn().Err(err).Msg("price source failed, trying next")
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no price source configured")
	}
	return nil, lastErr
}

func hasAll(m map[string]decimal.Decimal, symbols []string) bool {
	for _, s := range symbols {
		if _, ok := m[strings.ToUpper(s)]; !ok {
			return false
		}
	}
	return true
}
