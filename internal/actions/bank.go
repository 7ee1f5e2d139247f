package actions

import (
	"context"
	"fmt"
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/extract"
	"github.com/injhive/injhive/internal/model"
)

var balanceAction = Action{
	Name:        "GET_BALANCE",
	Description: "Check a token balance of an address",
	Similes:     []string{"balance", "holdings", "how much do i have"},
	Examples:    []string{"What's the INJ balance of inj1...?", "check my usdt balance"},
	Match: func(text string) bool {
		return containsAny(text, "balance", "how much do i have", "how much does")
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		addr, ok := extract.Address(text)
		if !ok {
			if d.WalletAddr == "" {
				return nil, apierr.New(apierr.CodeMissingParameter, "whose balance? Include an inj1 address or configure a wallet")
			}
			addr = d.WalletAddr
		}

		if sym, ok := extract.Token(text, knownSymbols()); ok {
			bal, err := d.Bank.Balance(ctx, addr, sym)
			if err != nil {
				return nil, err
			}
			reply := fmt.Sprintf("`%s` holds **%s %s**", shorten(addr), bal.Human, bal.Symbol)
			return &Result{Reply: reply, Response: model.Ok(bal)}, nil
		}

		balances, err := d.Bank.Balances(ctx, addr)
		if err != nil {
			return nil, err
		}
		if len(balances) == 0 {
			return &Result{
				Reply:    fmt.Sprintf("`%s` holds no tokens.", shorten(addr)),
				Response: model.Ok(balances),
			}, nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Balances of `%s`:\n", shorten(addr))
		for _, bal := range balances {
			fmt.Fprintf(&b, "- %s %s\n", bal.Human, bal.Symbol)
		}
		return &Result{Reply: b.String(), Response: model.Ok(balances)}, nil
	},
}

var portfolioAction = Action{
	Name:        "SHOW_PORTFOLIO",
	Description: "Show a USD-priced portfolio of an address",
	Similes:     []string{"portfolio", "net worth", "total value"},
	Examples:    []string{"show my portfolio", "what's inj1... worth in total"},
	Match: func(text string) bool {
		return containsAny(text, "portfolio", "net worth", "total value of")
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		addr, ok := extract.Address(text)
		if !ok {
			if d.WalletAddr == "" {
				return nil, apierr.New(apierr.CodeMissingParameter, "whose portfolio? Include an inj1 address or configure a wallet")
			}
			addr = d.WalletAddr
		}

		pf, err := d.Bank.Portfolio(ctx, addr)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Portfolio of `%s`: **%s**\n", shorten(addr), formatCurrency(pf.TotalUSD))
		estimated := false
		for _, entry := range pf.Entries {
			fmt.Fprintf(&b, "- %s %s", entry.Human, entry.Symbol)
			if entry.ValueUSD > 0 {
				fmt.Fprintf(&b, " (%s)", formatCurrency(entry.ValueUSD))
			}
			if entry.IsEstimated {
				b.WriteString(" *")
				estimated = true
			}
			b.WriteString("\n")
		}
		resp := model.Ok(pf)
		if estimated {
			b.WriteString("\n\\* estimated price")
			resp.Warn("some prices are estimates from fallback rates")
		}
		return &Result{Reply: b.String(), Response: resp}, nil
	},
}

func shorten(addr string) string {
	if len(addr) <= 16 {
		return addr
	}
	return addr[:10] + "..." + addr[len(addr)-6:]
}
