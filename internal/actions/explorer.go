package actions

import (
	"context"
	"fmt"
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/extract"
	"github.com/injhive/injhive/internal/model"
)

var walletInfoAction = Action{
	Name:        "GET_WALLET_INFO",
	Description: "Summarize a wallet: balances and activity",
	Similes:     []string{"wallet info", "account info", "about this wallet"},
	Examples:    []string{"tell me about inj1...", "wallet info for inj1..."},
	Match: func(text string) bool {
		if !containsAny(text, "wallet", "account", "address") {
			return false
		}
		_, hasAddr := extract.Address(text)
		return hasAddr
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		addr, ok := extract.Address(text)
		if !ok {
			return nil, apierr.New(apierr.CodeMissingParameter, "which wallet? Include an inj1 address")
		}
		info, err := d.Explorer.WalletInfo(ctx, addr)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Wallet `%s`:\n", shorten(addr))
		fmt.Fprintf(&b, "- Transactions: %d\n", info.TxCount)
		if len(info.Balances) == 0 {
			b.WriteString("- No token balances\n")
		}
		for _, bal := range info.Balances {
			fmt.Fprintf(&b, "- %s %s\n", bal.Human, bal.Symbol)
		}
		return &Result{Reply: b.String(), Response: model.Ok(info)}, nil
	},
}

var networkStatsAction = Action{
	Name:        "GET_NETWORK_STATS",
	Description: "Show Injective network activity statistics",
	Similes:     []string{"network stats", "chain stats", "network activity"},
	Examples:    []string{"how active is injective", "show network stats"},
	Match: func(text string) bool {
		return containsAny(text, "network stats", "chain stats", "network activity", "how active")
	},
	Handle: func(ctx context.Context, d *Deps, _ string) (*Result, error) {
		stats, err := d.Explorer.NetworkStats(ctx)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString("Injective network stats:\n")
		fmt.Fprintf(&b, "- Total transactions: %d\n", stats.TxsTotal)
		fmt.Fprintf(&b, "- Transactions (24h): %d\n", stats.TxsInPast24Hours)
		fmt.Fprintf(&b, "- Transactions (30d): %d\n", stats.TxsInPast30Days)
		fmt.Fprintf(&b, "- Blocks (24h): %d\n", stats.BlocksInPast24Hours)
		fmt.Fprintf(&b, "- Addresses: %d\n", stats.Addresses)
		fmt.Fprintf(&b, "- Assets: %d\n", stats.Assets)
		if stats.INJSupply > 0 {
			fmt.Fprintf(&b, "- INJ supply: %.0f\n", stats.INJSupply)
		}
		if stats.TxsPerSecondIn100Blk > 0 {
			fmt.Fprintf(&b, "- TPS (last 100 blocks): %.2f\n", stats.TxsPerSecondIn100Blk)
		}
		return &Result{Reply: b.String(), Response: model.Ok(stats)}, nil
	},
}

var latestBlocksAction = Action{
	Name:        "GET_LATEST_BLOCKS",
	Description: "List the most recent blocks",
	Similes:     []string{"latest blocks", "recent blocks", "last blocks"},
	Examples:    []string{"show the latest blocks", "recent blocks please"},
	Match: func(text string) bool {
		return containsAny(text, "block") && containsAny(text, "latest", "recent", "last", "newest")
	},
	Handle: func(ctx context.Context, d *Deps, _ string) (*Result, error) {
		blocks, estimated, err := d.Explorer.LatestBlocks(ctx, 5)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString("Latest blocks:\n")
		for _, blk := range blocks {
			fmt.Fprintf(&b, "- #%d by %s, %d txs\n", blk.Height, blk.Proposer, blk.NumTxs)
		}
		resp := model.Ok(blocks)
		if estimated {
			b.WriteString("\n(sample data, the explorer is unavailable)")
			resp.Warn("explorer unavailable, sample data shown")
		}
		return &Result{Reply: b.String(), Response: resp}, nil
	},
}

var latestTransactionsAction = Action{
	Name:        "GET_LATEST_TRANSACTIONS",
	Description: "List the most recent transactions",
	Similes:     []string{"latest transactions", "recent txs", "last transactions"},
	Examples:    []string{"show recent transactions", "latest txs"},
	Match: func(text string) bool {
		return containsAny(text, "transaction", "txs") && containsAny(text, "latest", "recent", "last", "newest")
	},
	Handle: func(ctx context.Context, d *Deps, _ string) (*Result, error) {
		txs, estimated, err := d.Explorer.LatestTransactions(ctx, 5)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString("Latest transactions:\n")
		for _, tx := range txs {
			status := "ok"
			if !tx.Succeeded {
				status = "failed"
			}
			fmt.Fprintf(&b, "- `%s` at #%d (%s, %s)\n", shorten(tx.Hash), tx.BlockHeight, tx.Type, status)
		}
		resp := model.Ok(txs)
		if estimated {
			b.WriteString("\n(sample data, the explorer is unavailable)")
			resp.Warn("explorer unavailable, sample data shown")
		}
		return &Result{Reply: b.String(), Response: resp}, nil
	},
}
