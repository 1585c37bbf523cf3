package state

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wallet-dash/pkg/config"
)

const (
	evmAddr = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	solAddr = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

func TestToggleNumbersReturnsNewValue(t *testing.T) {
	s := DefaultSettings()
	hidden := s.ToggleNumbers()
	if !s.NumbersVisible {
		t.Fatalf("toggle mutated receiver")
	}
	if hidden.NumbersVisible {
		t.Fatalf("toggle did not hide numbers")
	}
	if !hidden.ToggleNumbers().NumbersVisible {
		t.Fatalf("second toggle did not show numbers")
	}
	if s.SetNumbersVisible(false).NumbersVisible {
		t.Fatalf("SetNumbersVisible(false) kept numbers visible")
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		v       string
		visible bool
		want    string
	}{
		{"1234.5", true, "$1234.50"},
		{"-3.456", true, "-$3.46"},
		{"0", true, "$0.00"},
		{"99", false, Mask},
	}
	for _, tc := range cases {
		got := FormatValue(decimal.RequireFromString(tc.v), tc.visible)
		if got != tc.want {
			t.Errorf("FormatValue(%s,%v) = %q want %q", tc.v, tc.visible, got, tc.want)
		}
	}
	if got := DefaultSettings().ToggleNumbers().Money(decimal.NewFromInt(5)); got != Mask {
		t.Errorf("hidden money %q", got)
	}
}

func TestWalletListAddRemove(t *testing.T) {
	var l WalletList
	l1, w, err := l.AddWallet(evmAddr, config.ChainEthereum, "main")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("add mutated receiver")
	}
	l2, _, err := l1.AddWallet(solAddr, "", "sol")
	if err != nil {
		t.Fatalf("add sol: %v", err)
	}
	if l2.Len() != 2 || l1.Len() != 1 {
		t.Fatalf("lens %d %d", l2.Len(), l1.Len())
	}

	if _, _, err := l2.AddWallet(evmAddr, config.ChainEthereum, "again"); !errors.Is(err, ErrDuplicateWallet) {
		t.Fatalf("duplicate err %v", err)
	}
	if _, _, err := l2.AddWallet(evmAddr, config.ChainBase, "base"); err != nil {
		t.Fatalf("same address on another chain rejected: %v", err)
	}

	l3, err := l2.RemoveWallet(w.Key())
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if l3.Len() != 1 || l3.Wallets[0].Address != solAddr {
		t.Fatalf("remove left %+v", l3.Wallets)
	}
	if l2.Len() != 2 {
		t.Fatalf("remove mutated receiver")
	}
	if _, err := l3.RemoveWallet(w.Key()); !errors.Is(err, ErrUnknownWallet) {
		t.Fatalf("remove unknown err %v", err)
	}
}

func TestWalletListRejectsInvalid(t *testing.T) {
	var l WalletList
	if _, _, err := l.AddWallet("0x12", config.ChainEthereum, ""); err == nil {
		t.Fatalf("expected invalid address error")
	}
}
