// Package chain reads native balances from EVM and Solana RPC nodes.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/wallet"
)

const (
	evmDecimals    = 18
	solanaDecimals = 9
)

// BalanceFetcher returns a wallet's native balance in whole units
// (ETH, BNB, SOL).
type BalanceFetcher interface {
	Balance(ctx context.Context, w wallet.Wallet) (decimal.Decimal, error)
}

// RPC dials each chain's node on first use and reuses the connection.
type RPC struct {
	urls map[config.Chain]string

	mu  sync.Mutex
	evm map[config.Chain]*ethclient.Client
	sol *rpc.Client
}

func NewRPC(cfg *config.Config) *RPC {
	urls := map[config.Chain]string{}
	for _, c := range config.AllChains() {
		if u := cfg.RPCURL(c); u != "" {
			urls[c] = u
		}
	}
	return &RPC{urls: urls, evm: map[config.Chain]*ethclient.Client{}}
}

func (r *RPC) Balance(ctx context.Context, w wallet.Wallet) (decimal.Decimal, error) {
	switch {
	case w.Chain.IsEVM():
		cl, err := r.evmClient(ctx, w.Chain)
		if err != nil {
			return decimal.Zero, err
		}
		wei, err := cl.BalanceAt(ctx, common.HexToAddress(w.Address), nil)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s balance %s: %w", w.Chain, wallet.Abbrev(w.Address), err)
		}
		return FromWei(wei), nil
	case w.Chain == config.ChainSolana:
		pk, err := solana.PublicKeyFromBase58(w.Address)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", wallet.ErrInvalidAddress, err)
		}
		cl, err := r.solClient()
		if err != nil {
			return decimal.Zero, err
		}
		out, err := cl.GetBalance(ctx, pk, rpc.CommitmentFinalized)
		if err != nil {
			return decimal.Zero, fmt.Errorf("solana balance %s: %w", wallet.Abbrev(w.Address), err)
		}
		return FromLamports(out.Value), nil
	}
	return decimal.Zero, fmt.Errorf("unsupported chain %q", w.Chain)
}

func (r *RPC) evmClient(ctx context.Context, c config.Chain) (*ethclient.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cl, ok := r.evm[c]; ok {
		return cl, nil
	}
	u, ok := r.urls[c]
	if !ok {
		return nil, fmt.Errorf("no rpc url for %s", c)
	}
	cl, err := ethclient.DialContext(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("dial %s rpc: %w", c, err)
	}
	log.Debug().Str("chain", string(c)).Msg("🔌 rpc connected")
	r.evm[c] = cl
	return cl, nil
}

func (r *RPC) solClient() (*rpc.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sol != nil {
		return r.sol, nil
	}
	u, ok := r.urls[config.ChainSolana]
	if !ok {
		return nil, fmt.Errorf("no rpc url for solana")
	}
	r.sol = rpc.New(u)
	return r.sol, nil
}

func (r *RPC) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cl := range r.evm {
		cl.Close()
	}
	r.evm = map[config.Chain]*ethclient.Client{}
}

func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -evmDecimals)
}

func FromLamports(l uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(l), -solanaDecimals)
}
