// Package state holds the dashboard's two view stores as plain values.
// Every update returns a new value; callers own the current one and pass it
// to whatever renders it.
package state

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/wallet"
)

var (
	ErrDuplicateWallet = errors.New("wallet already tracked")
	ErrUnknownWallet   = errors.New("wallet not tracked")
)

// Mask replaces amounts while numbers are hidden.
const Mask = "****"

type Settings struct {
	NumbersVisible bool `json:"numbers_visible"`
}

func DefaultSettings() Settings {
	return Settings{NumbersVisible: true}
}

func (s Settings) ToggleNumbers() Settings {
	s.NumbersVisible = !s.NumbersVisible
	return s
}

func (s Settings) SetNumbersVisible(v bool) Settings {
	s.NumbersVisible = v
	return s
}

// Money renders a USD amount, or Mask when numbers are hidden.
func (s Settings) Money(v decimal.Decimal) string {
	return FormatValue(v, s.NumbersVisible)
}

func FormatValue(v decimal.Decimal, visible bool) string {
	if !visible {
		return Mask
	}
	if v.IsNegative() {
		return "-$" + v.Neg().StringFixed(2)
	}
	return "$" + v.StringFixed(2)
}

type WalletList struct {
	Wallets []wallet.Wallet `json:"wallets"`
}

// AddWallet validates the address and appends it. The receiver is not
// modified.
func (l WalletList) AddWallet(address string, chain config.Chain, label string) (WalletList, wallet.Wallet, error) {
	w, err := wallet.New(address, chain, label)
	if err != nil {
		return l, wallet.Wallet{}, err
	}
	if _, ok := l.Find(w.Key()); ok {
		return l, wallet.Wallet{}, fmt.Errorf("%w: %s on %s", ErrDuplicateWallet, w.Address, w.Chain)
	}
	next := make([]wallet.Wallet, 0, len(l.Wallets)+1)
	next = append(next, l.Wallets...)
	next = append(next, w)
	return WalletList{Wallets: next}, w, nil
}

func (l WalletList) RemoveWallet(key string) (WalletList, error) {
	idx, ok := l.Find(key)
	if !ok {
		return l, fmt.Errorf("%w: %s", ErrUnknownWallet, key)
	}
	next := make([]wallet.Wallet, 0, len(l.Wallets)-1)
	next = append(next, l.Wallets[:idx]...)
	next = append(next, l.Wallets[idx+1:]...)
	return WalletList{Wallets: next}, nil
}

// Find looks a wallet up by its Key and returns its index.
func (l WalletList) Find(key string) (int, bool) {
	for i, w := range l.Wallets {
		if w.Key() == key {
			return i, true
		}
	}
	return -1, false
}

func (l WalletList) Len() int { return len(l.Wallets) }
