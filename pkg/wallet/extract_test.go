package wallet

import (
	"testing"

	"github.com/wallet-dash/pkg/config"
)

func TestExtract(t *testing.T) {
	text := `main wallet ` + evmAddr + ` and my sol one ` + solAddr + `
also https://basescan.org/address/0x0000000000000000000000000000000000000001#tokentxns
dupe: 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B
see https://pump.fun/coin/` + solAddr + ` for the token, and $WIF`

	got := Extract(text)
	want := []Candidate{
		{Address: "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B", Chain: config.ChainEthereum},
		{Address: solAddr, Chain: config.ChainSolana},
		{Address: "0x0000000000000000000000000000000000000001", Chain: config.ChainBase},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates %+v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractIgnoresWords(t *testing.T) {
	if got := Extract("nothing here but SOLANAsolanaSOLANAsolanaSOLANAsol and lowercaseonlywordsthatarelongenough"); len(got) != 0 {
		t.Fatalf("false positives %+v", got)
	}
}

func TestExtractSolscanLink(t *testing.T) {
	got := Extract("https://solscan.io/account/" + solAddr + "?cluster=mainnet")
	if len(got) != 1 || got[0].Chain != config.ChainSolana || got[0].Address != solAddr {
		t.Fatalf("solscan link %+v", got)
	}
}

func TestExtractKeepsTextOrder(t *testing.T) {
	got := Extract("first " + evmAddr + " then https://solscan.io/account/" + solAddr)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Chain != config.ChainEthereum || got[1].Chain != config.ChainSolana {
		t.Fatalf("order %+v, want the bare address before the later link", got)
	}
}
