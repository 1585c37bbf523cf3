// Package app owns the dashboard's view state and threads it to the HTTP
// dashboard, the terminal UI and the CLI. State changes go through the
// reducers in pkg/state and are persisted before they become visible.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/db"
	"github.com/wallet-dash/pkg/state"
	"github.com/wallet-dash/pkg/streak"
	"github.com/wallet-dash/pkg/viewport"
	"github.com/wallet-dash/pkg/wallet"
)

// CheckInSubject is the streak owner for the local dashboard user.
const CheckInSubject = "me"

type App struct {
	store *db.Store
	rules streak.Rules
	now   func() time.Time

	mu       sync.RWMutex
	settings state.Settings
	wallets  state.WalletList
}

func New(store *db.Store, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &App{
		store: store,
		rules: streak.Rules{
			Location:    loc,
			Points:      cfg.CheckInPoints,
			BonusEvery:  cfg.StreakBonusEvery,
			BonusPoints: cfg.StreakBonusPoints,
		},
		now: time.Now,
	}
	if a.settings, err = store.LoadSettings(); err != nil {
		return nil, err
	}
	if a.wallets, err = store.LoadWallets(); err != nil {
		return nil, err
	}
	return a, nil
}

// Seed adds configured wallets that are not tracked yet. Invalid entries are
// logged and skipped.
func (a *App) Seed(seeds []config.SeedWallet) {
	for _, sw := range seeds {
		_, err := a.AddWallet(sw.Address, sw.Chain, sw.Label)
		if err == nil {
			log.Info().Str("wallet", wallet.Abbrev(sw.Address)).Msg("➕ seeded wallet")
			continue
		}
		if errors.Is(err, state.ErrDuplicateWallet) {
			continue
		}
		log.Warn().Err(err).Str("wallet", sw.Address).Msg("skipping seed wallet")
	}
}

func (a *App) Settings() state.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

func (a *App) Wallets() state.WalletList {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.wallets
}

// WalletSlice is a copy of the tracked wallets, safe to hand to other
// goroutines.
func (a *App) WalletSlice() []wallet.Wallet {
	l := a.Wallets()
	out := make([]wallet.Wallet, len(l.Wallets))
	copy(out, l.Wallets)
	return out
}

func (a *App) ToggleNumbers() (state.Settings, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := a.settings.ToggleNumbers()
	if err := a.store.SaveSettings(next); err != nil {
		return a.settings, err
	}
	a.settings = next
	return next, nil
}

func (a *App) AddWallet(address string, chain config.Chain, label string) (wallet.Wallet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	next, w, err := a.wallets.AddWallet(address, chain, label)
	if err != nil {
		return wallet.Wallet{}, err
	}
	if err := a.store.SaveWallets(next); err != nil {
		return wallet.Wallet{}, err
	}
	a.wallets = next
	return w, nil
}

func (a *App) RemoveWallet(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	next, err := a.wallets.RemoveWallet(key)
	if err != nil {
		return err
	}
	if err := a.store.SaveWallets(next); err != nil {
		return err
	}
	a.wallets = next
	return nil
}

type StreakView struct {
	Status      streak.Status `json:"status"`
	Current     int           `json:"current"`
	Longest     int           `json:"longest"`
	TotalDays   int           `json:"total_days"`
	TotalPoints int           `json:"total_points"`
	LastDay     string        `json:"last_day,omitempty"`
}

func (a *App) Streak() (StreakView, error) {
	rec, err := a.store.GetStreak(CheckInSubject)
	if err != nil {
		return StreakView{}, err
	}
	return a.view(rec), nil
}

// CheckIn records today's check-in and returns the points earned.
func (a *App) CheckIn() (StreakView, int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, err := a.store.GetStreak(CheckInSubject)
	if err != nil {
		return StreakView{}, 0, err
	}
	next, pts, err := a.rules.CheckIn(rec, a.now())
	if err != nil {
		return a.view(rec), 0, err
	}
	if err := a.store.RecordCheckIn(next, pts); err != nil {
		return a.view(rec), 0, err
	}
	log.Info().Int("streak", next.Current).Int("points", pts).Msg("✅ checked in")
	return a.view(next), pts, nil
}

func (a *App) view(rec streak.Record) StreakView {
	v := StreakView{
		Status:      a.rules.StatusAt(rec, a.now()),
		Current:     a.rules.CurrentStreak(rec, a.now()),
		Longest:     rec.Longest,
		TotalDays:   rec.TotalDays,
		TotalPoints: rec.TotalPoints,
	}
	if !rec.LastDay.IsZero() {
		v.LastDay = rec.LastDay.String()
	}
	return v
}

// FallbackSource reads the local snapshot history first and asks the
// backend only when there is nothing stored for the subject and range.
type FallbackSource struct {
	Local  viewport.Source
	Remote viewport.Source
}

func (f FallbackSource) Series(ctx context.Context, subject string, r viewport.Range) (viewport.Series, error) {
	s, err := f.Local.Series(ctx, subject, r)
	if err == nil && len(s) > 0 {
		return s, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("local history unavailable")
	}
	if f.Remote == nil {
		return s, err
	}
	return f.Remote.Series(ctx, subject, r)
}
