package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Chain string

const (
	ChainSolana   Chain = "solana"
	ChainEthereum Chain = "ethereum"
	ChainBase     Chain = "base"
	ChainBSC      Chain = "bsc"
)

func AllEVMChains() []Chain {
	return []Chain{ChainEthereum, ChainBase, ChainBSC}
}

func AllChains() []Chain {
	return []Chain{ChainSolana, ChainEthereum, ChainBase, ChainBSC}
}

func (c Chain) IsEVM() bool {
	return c == ChainEthereum || c == ChainBase || c == ChainBSC
}

// NativeSymbol is the ticker used to price the chain's gas token.
func (c Chain) NativeSymbol() string {
	switch c {
	case ChainSolana:
		return "SOL"
	case ChainBSC:
		return "BNB"
	default:
		return "ETH"
	}
}

type SeedWallet struct {
	Address string
	Chain   Chain
	Label   string
}

type Config struct {
	LogLevel string

	// Backend REST API (prices, history, leaderboard, notifications)
	BackendURL     string
	BackendTimeout time.Duration

	// RPC endpoints
	SolanaRPCURL string
	EVMRPC       map[Chain]string

	// DexScreener, used for prices when the backend cannot quote them
	DexScreenerURL string

	// Wallets seeded into the store on first start: "addr:chain:label,..."
	SeedWallets []SeedWallet

	// Snapshots
	SnapshotCron   string
	MaxConcurrency int

	// Check-in / streak
	StreakTimezone    string
	CheckInPoints     int
	StreakBonusEvery  int
	StreakBonusPoints int

	// DB
	DBPath string

	// Dashboard
	DashboardPort int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: envOr("LOG_LEVEL", "info"),

		BackendURL:     strings.TrimRight(envOr("BACKEND_URL", "http://localhost:3000/api"), "/"),
		BackendTimeout: time.Duration(envInt("BACKEND_TIMEOUT", 10)) * time.Second,

		SolanaRPCURL:   envOr("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		DexScreenerURL: envOr("DEXSCREENER_URL", "https://api.dexscreener.com"),

		SnapshotCron:   envOr("SNAPSHOT_CRON", "0 * * * *"),
		MaxConcurrency: envInt("MAX_CONCURRENCY", 4),

		StreakTimezone:    envOr("STREAK_TIMEZONE", "UTC"),
		CheckInPoints:     envInt("CHECKIN_POINTS", 10),
		StreakBonusEvery:  envInt("STREAK_BONUS_EVERY", 7),
		StreakBonusPoints: envInt("STREAK_BONUS_POINTS", 50),

		DBPath:        envOr("DB_PATH", "walletdash.db"),
		DashboardPort: envInt("DASHBOARD_PORT", 8080),
	}

	cfg.EVMRPC = map[Chain]string{
		ChainEthereum: envOr("ETH_RPC_URL", "https://eth.llamarpc.com"),
		ChainBase:     envOr("BASE_RPC_URL", "https://mainnet.base.org"),
		ChainBSC:      envOr("BSC_RPC_URL", "https://bsc-dataseed.binance.org"),
	}

	seeds, err := ParseSeedWallets(os.Getenv("WALLETS"))
	if err != nil {
		return nil, err
	}
	cfg.SeedWallets = seeds

	return cfg, cfg.Validate()
}

// ParseSeedWallets parses "addr:chain:label,addr:chain". Chain may be empty,
// in which case it is inferred later from the address.
func ParseSeedWallets(s string) ([]SeedWallet, error) {
	var out []SeedWallet
	for _, w := range splitTrim(s) {
		parts := strings.SplitN(w, ":", 3)
		sw := SeedWallet{Address: parts[0]}
		if len(parts) >= 2 {
			sw.Chain = Chain(strings.ToLower(parts[1]))
		}
		if len(parts) == 3 {
			sw.Label = parts[2]
		}
		if sw.Chain != "" && !validChain(sw.Chain) {
			return nil, fmt.Errorf("wallet %s: unknown chain %q", sw.Address, sw.Chain)
		}
		out = append(out, sw)
	}
	return out, nil
}

func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("STREAK_TIMEZONE: %w", err)
	}
	if _, err := cron.ParseStandard(c.SnapshotCron); err != nil {
		return fmt.Errorf("SNAPSHOT_CRON %q: %w", c.SnapshotCron, err)
	}
	if c.StreakBonusEvery < 0 || c.CheckInPoints < 0 || c.StreakBonusPoints < 0 {
		return fmt.Errorf("check-in points and bonus settings must not be negative")
	}
	if c.MaxConcurrency < 1 {
		c.MaxConcurrency = 1
	}
	return nil
}

// Location is the fixed timezone that defines calendar days for streaks.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.StreakTimezone)
}

func (c *Config) RPCURL(chain Chain) string {
	if chain == ChainSolana {
		return c.SolanaRPCURL
	}
	return c.EVMRPC[chain]
}

func validChain(c Chain) bool {
	for _, v := range AllChains() {
		if v == c {
			return true
		}
	}
	return false
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
