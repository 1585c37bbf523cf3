package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/wallet-dash/pkg/config"
)

const (
	evmAddr = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
	solAddr = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

func TestNewNormalizesEVM(t *testing.T) {
	w, err := New(evmAddr, "", "main")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if w.Chain != config.ChainEthereum {
		t.Fatalf("chain %q want ethereum", w.Chain)
	}
	if w.Address != "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B" {
		t.Fatalf("address not checksummed: %s", w.Address)
	}
}

func TestNewSolana(t *testing.T) {
	w, err := New(" "+solAddr+" ", "", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if w.Chain != config.ChainSolana || w.Address != solAddr {
		t.Fatalf("got %+v", w)
	}
}

func TestNewRejectsBadAddresses(t *testing.T) {
	cases := []struct {
		name  string
		addr  string
		chain config.Chain
	}{
		{"short hex", "0x1234", config.ChainBase},
		{"hex on solana", evmAddr, config.ChainSolana},
		{"base58 on bsc", solAddr, config.ChainBSC},
		{"garbage", "not-an-address", ""},
		{"unknown chain", evmAddr, config.Chain("tron")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.addr, tc.chain, "")
			if !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("err %v want ErrInvalidAddress", err)
			}
		})
	}
}

func TestKeyDistinguishesChains(t *testing.T) {
	a, _ := New(evmAddr, config.ChainEthereum, "")
	b, _ := New(evmAddr, config.ChainBase, "")
	if a.Key() == b.Key() {
		t.Fatalf("same key across chains: %s", a.Key())
	}
	c, _ := New("0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B", config.ChainEthereum, "")
	if a.Key() != c.Key() {
		t.Fatalf("case changed key: %s vs %s", a.Key(), c.Key())
	}
}

func TestSolanaKeyKeepsCase(t *testing.T) {
	w, err := New(solAddr, config.ChainSolana, "")
	if err != nil {
		t.Fatal(err)
	}
	if w.Key() != "solana:"+solAddr {
		t.Fatalf("key %s", w.Key())
	}
	other := Wallet{Address: strings.ToLower(solAddr), Chain: config.ChainSolana}
	if w.Key() == other.Key() {
		t.Fatalf("keys differing only in case collide: %s", w.Key())
	}
}

func TestAbbrev(t *testing.T) {
	if got := Abbrev(solAddr); got != "7xKXtg...gAsU" {
		t.Fatalf("abbrev %q", got)
	}
	if got := Abbrev("short"); got != "short" {
		t.Fatalf("abbrev %q", got)
	}
}
