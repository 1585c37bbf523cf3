package wallet

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wallet-dash/pkg/config"
)

var (
	solanaAddrRe = regexp.MustCompile(`\b([1-9A-HJ-NP-Za-km-z]{32,44})\b`)
	evmAddrRe    = regexp.MustCompile(`\b(0x[a-fA-F0-9]{40})\b`)

	// Explorer links name the chain; a bare 0x address defaults to ethereum.
	explorerRe   = regexp.MustCompile(`https?://(?:www\.)?(solscan\.io|explorer\.solana\.com|etherscan\.io|basescan\.org|bscscan\.com|debank\.com)/[^\s\)\]]+`)
	genericURLRe = regexp.MustCompile(`https?://[^\s\)\]]+`)

	explorerChain = map[string]config.Chain{
		"solscan.io":          config.ChainSolana,
		"explorer.solana.com": config.ChainSolana,
		"etherscan.io":        config.ChainEthereum,
		"basescan.org":        config.ChainBase,
		"bscscan.com":         config.ChainBSC,
		"debank.com":          config.ChainEthereum,
	}
)

// Candidate is an address found in free text.
type Candidate struct {
	Address string
	Chain   config.Chain
}

// Extract finds wallet addresses in pasted text: explorer links, bare EVM
// addresses and base58 Solana keys. Results are normalized, deduplicated and
// in order of first appearance. Anything that fails validation is dropped.
func Extract(text string) []Candidate {
	type hit struct {
		pos   int
		addr  string
		chain config.Chain
	}
	var hits []hit
	// consumed spans are blanked so later passes skip them; offsets stay put
	buf := []byte(text)
	blank := func(from, to int) {
		for i := from; i < to; i++ {
			buf[i] = ' '
		}
	}

	for _, m := range explorerRe.FindAllStringSubmatchIndex(text, -1) {
		link, host := text[m[0]:m[1]], text[m[2]:m[3]]
		if addr := addressFromLink(link); addr != "" {
			hits = append(hits, hit{m[0], addr, explorerChain[host]})
		}
		blank(m[0], m[1])
	}
	// other links may carry base58 path segments that are not wallets
	for _, m := range genericURLRe.FindAllIndex(buf, -1) {
		blank(m[0], m[1])
	}
	for _, m := range evmAddrRe.FindAllIndex(buf, -1) {
		hits = append(hits, hit{m[0], string(buf[m[0]:m[1]]), config.ChainEthereum})
		blank(m[0], m[1])
	}
	for _, m := range solanaAddrRe.FindAllIndex(buf, -1) {
		if addr := string(buf[m[0]:m[1]]); looksBase58Key(addr) {
			hits = append(hits, hit{m[0], addr, config.ChainSolana})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []Candidate
	seen := map[string]bool{}
	for _, h := range hits {
		norm, err := Normalize(h.addr, h.chain)
		if err != nil {
			continue
		}
		key := Wallet{Address: norm, Chain: h.chain}.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Candidate{Address: norm, Chain: h.chain})
	}
	return out
}

// looksBase58Key filters words that happen to match the base58 alphabet.
func looksBase58Key(addr string) bool {
	hasUpper, hasLower, hasDigit := false, false, false
	for _, c := range addr {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func addressFromLink(link string) string {
	link = strings.TrimRight(link, "/")
	if idx := strings.IndexAny(link, "?#"); idx > 0 {
		link = link[:idx]
	}
	parts := strings.Split(link, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(parts[i])
		if evmAddrRe.MatchString(seg) || (solanaAddrRe.MatchString(seg) && looksBase58Key(seg)) {
			return seg
		}
	}
	return ""
}
