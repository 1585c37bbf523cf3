// Package wallet holds the tracked wallet record and address checks per chain.
package wallet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/wallet-dash/pkg/config"
)

var ErrInvalidAddress = errors.New("invalid wallet address")

type Wallet struct {
	Address string       `json:"address"`
	Chain   config.Chain `json:"chain"`
	Label   string       `json:"label"`
	AddedAt time.Time    `json:"added_at"`
}

// Key identifies a wallet across chains; the same EVM address on two chains
// is two wallets. Base58 is case-sensitive, so only EVM addresses fold case.
func (w Wallet) Key() string {
	if w.Chain.IsEVM() {
		return string(w.Chain) + ":" + strings.ToLower(w.Address)
	}
	return string(w.Chain) + ":" + w.Address
}

// New validates and normalizes an address. An empty chain is inferred.
func New(address string, chain config.Chain, label string) (Wallet, error) {
	address = strings.TrimSpace(address)
	if chain == "" {
		chain = DetectChain(address)
	}
	norm, err := Normalize(address, chain)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{Address: norm, Chain: chain, Label: label, AddedAt: time.Now().UTC()}, nil
}

// DetectChain guesses ethereum for 0x addresses and solana otherwise.
func DetectChain(address string) config.Chain {
	if strings.HasPrefix(strings.ToLower(address), "0x") {
		return config.ChainEthereum
	}
	return config.ChainSolana
}

// Normalize returns the canonical form: EIP-55 checksum for EVM chains,
// base58 for Solana.
func Normalize(address string, chain config.Chain) (string, error) {
	switch {
	case chain.IsEVM():
		if !common.IsHexAddress(address) {
			return "", fmt.Errorf("%w: %q is not a hex address", ErrInvalidAddress, address)
		}
		return common.HexToAddress(address).Hex(), nil
	case chain == config.ChainSolana:
		pk, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		return pk.String(), nil
	}
	return "", fmt.Errorf("%w: unsupported chain %q", ErrInvalidAddress, chain)
}

func Abbrev(addr string) string {
	if len(addr) > 12 {
		return addr[:6] + "..." + addr[len(addr)-4:]
	}
	return addr
}
