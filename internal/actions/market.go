package actions

import (
	"context"
	"fmt"
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/extract"
	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/providers/defillama"
)

var priceAction = Action{
	Name:        "GET_PRICE",
	Description: "Get the current USD price of a token",
	Similes:     []string{"price", "worth", "cost", "how much", "trading at"},
	Examples:    []string{"What's the price of INJ?", "how much is wbtc worth"},
	Match: func(text string) bool {
		return containsAny(text, "price", "worth", "cost", "trading at", "how much is") &&
			hasKnownToken(text)
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		syms := extract.Tokens(text, knownSymbols())
		if len(syms) == 0 {
			return nil, apierr.New(apierr.CodeMissingParameter, "which token do you want the price of?")
		}
		if len(syms) > 1 {
			return multiPriceReply(ctx, d, syms)
		}
		price, err := d.Prices.Get(ctx, syms[0])
		if err != nil {
			return nil, err
		}
		reply := fmt.Sprintf("**%s** is trading at **$%s**", price.Symbol, formatAmount(price.USD))
		if price.Change24h != 0 {
			reply += fmt.Sprintf(" (%+.1f%% in 24h)", price.Change24h)
		}
		resp := model.Ok(price)
		if price.IsEstimated {
			reply += " (estimated, live pricing is unavailable)"
			resp.Warn("price is an estimate from fallback rates")
		}
		return &Result{Reply: reply, Response: resp}, nil
	},
}

// multiPriceReply quotes every mentioned token in one batch.
func multiPriceReply(ctx context.Context, d *Deps, syms []string) (*Result, error) {
	prices, err := d.Prices.GetMany(ctx, syms)
	if err != nil {
		return nil, err
	}
	resp := model.Ok(prices)
	var b strings.Builder
	b.WriteString("Current prices:\n")
	for _, sym := range syms {
		price, ok := prices[strings.ToUpper(sym)]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s: $%s", price.Symbol, formatAmount(price.USD))
		if price.Change24h != 0 {
			fmt.Fprintf(&b, " (%+.1f%% in 24h)", price.Change24h)
		}
		if price.IsEstimated {
			b.WriteString(" (estimated)")
			resp.Warn(fmt.Sprintf("%s price is an estimate from fallback rates", price.Symbol))
		}
		b.WriteString("\n")
	}
	return &Result{Reply: b.String(), Response: resp}, nil
}

var tvlAction = Action{
	Name:        "GET_TVL",
	Description: "Get total value locked for Injective or one of its protocols",
	Similes:     []string{"tvl", "total value locked", "value locked", "locked"},
	Examples:    []string{"What's Helix's TVL?", "show injective tvl"},
	Match: func(text string) bool {
		return containsAny(text, "tvl", "total value locked", "value locked")
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		if name, ok := extract.Protocol(text, knownProtocols()); ok {
			summary, err := d.TVL.Protocol(ctx, name)
			if err != nil {
				return nil, err
			}
			reply := fmt.Sprintf("**%s** has **%s** locked", summary.Protocol, formatCurrency(summary.TVL))
			if summary.MonthlyChange != 0 {
				reply += fmt.Sprintf(" (%+.1f%% over 30 days)", summary.MonthlyChange)
			}
			resp := model.Ok(summary)
			if summary.IsEstimated {
				reply += " (estimated, the TVL API is unavailable)"
				resp.Warn("TVL is an estimate, the upstream API did not respond")
			}
			return &Result{Reply: reply, Response: resp}, nil
		}

		if containsAny(text, "global", "all chains", "across chains", "top chains") {
			top, err := d.TVL.Global(ctx)
			if err != nil {
				return nil, err
			}
			var b strings.Builder
			fmt.Fprintf(&b, "DeFi holds **%s** across all chains. Top chains:\n", formatCurrency(top.TotalTVL))
			for i, c := range top.Chains {
				fmt.Fprintf(&b, "%d. %s: %s (%.1f%%)\n", i+1, c.Name, formatCurrency(c.TVL), c.SharePct)
			}
			if top.InjectiveRank > 0 {
				fmt.Fprintf(&b, "Injective ranks #%d by TVL.\n", top.InjectiveRank)
			}
			return &Result{Reply: b.String(), Response: model.Ok(top)}, nil
		}

		global, err := d.TVL.Chain(ctx)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Injective has **%s** in total value locked", formatCurrency(global.ChainTVL))
		if global.MonthlyChange != 0 {
			fmt.Fprintf(&b, " (%+.1f%% over 30 days)", global.MonthlyChange)
		}
		if len(global.Protocols) > 0 {
			b.WriteString(".\nTop protocols:\n")
			for _, p := range global.Protocols {
				fmt.Fprintf(&b, "- %s: %s\n", p.Protocol, formatCurrency(p.TVL))
			}
		}
		return &Result{Reply: b.String(), Response: model.Ok(global)}, nil
	},
}

var yieldsAction = Action{
	Name:        "GET_YIELDS",
	Description: "List yield opportunities on Injective",
	Similes:     []string{"yield", "apy", "apr", "farming", "pools"},
	Examples:    []string{"best yields on injective", "show me apy for pools"},
	Match: func(text string) bool {
		return containsAny(text, "yield", "apy", "apr", "farming")
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		pools, err := d.TVL.Yields(ctx)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString("Top Injective pools by TVL:\n")
		limit := 5
		if len(pools) < limit {
			limit = len(pools)
		}
		for _, p := range pools[:limit] {
			fmt.Fprintf(&b, "- %s %s: %s TVL, %.1f%% APY\n", p.Project, p.Symbol, formatCurrency(p.TVLUSD), p.APY)
		}
		return &Result{Reply: b.String(), Response: model.Ok(pools[:limit])}, nil
	},
}

func knownSymbols() []string {
	return []string{"inj", "usdt", "usdc", "wbtc", "weth", "atom", "osmo", "sei", "astro"}
}

func knownProtocols() []string {
	return defillama.ProtocolNames
}

func hasKnownToken(text string) bool {
	_, ok := extract.Token(text, knownSymbols())
	return ok
}

func containsAny(text string, needles ...string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func formatAmount(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.0f", v)
	}
	if v >= 1 {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.4f", v)
}

// formatCurrency renders USD values the way dashboards do: $1.25B, $25.00M.
func formatCurrency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
