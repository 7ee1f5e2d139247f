package token

import (
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
)

// Market is one Helix spot market, quoted base/quote.
type Market struct {
	ID    string
	Base  string
	Quote string
}

// HelixMarkets lists the spot markets the swap router can trade on.
var HelixMarkets = []Market{
	{ID: "0xa508cb32923323679f29a032c70342c147c17d0145625922b0ef22e955c844c0", Base: "inj", Quote: "usdt"},
	{ID: "0x64ee22a39a8d333d1a9b0c8c28c9635a2cac37cd73ed99c0b8bfe7630a24a8f2", Base: "weth", Quote: "usdt"},
	{ID: "0x979731deaaf17d26b2e256ad18fecd0f7fd45d4b1c8c5f6b4dfc07d4a23faefd", Base: "wbtc", Quote: "usdt"},
	{ID: "0x0f1f224b911da353807af9a3812c9af9adcbc3f63b0847d6a69e2b01aca3d9c1", Base: "atom", Quote: "usdt"},
	{ID: "0x8b1a4d3e8f6b559e30e40922ee3662dd78edf7042330d4d620d188699d1a9715", Base: "usdt", Quote: "usdc"},
}

// Hop is one leg of a swap route. Side is "buy" when the swap consumes the
// quote asset and receives the base, "sell" in the other direction.
type Hop struct {
	Market Market
	Side   string
}

// Route plans a path from one token to another over the known markets:
// a direct market first, then the reversed pairing, then a two-hop route
// through USDT.
func Route(from, to string) ([]Hop, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == "" || to == "" {
		return nil, apierr.New(apierr.CodeMissingParameter, "swap requires both tokens")
	}
	if from == to {
		return nil, apierr.New(apierr.CodeInvalidParameter, "cannot swap a token for itself")
	}

	if m, ok := findMarket(from, to); ok {
		return []Hop{{Market: m, Side: "sell"}}, nil
	}
	if m, ok := findMarket(to, from); ok {
		return []Hop{{Market: m, Side: "buy"}}, nil
	}

	first, ok1 := hopVia(from, "usdt")
	second, ok2 := hopVia("usdt", to)
	if from != "usdt" && to != "usdt" && ok1 && ok2 {
		return []Hop{first, second}, nil
	}
	return nil, apierr.Newf(apierr.CodeInvalidParameter, "no market route from %s to %s", strings.ToUpper(from), strings.ToUpper(to))
}

func hopVia(from, to string) (Hop, bool) {
	if m, ok := findMarket(from, to); ok {
		return Hop{Market: m, Side: "sell"}, true
	}
	if m, ok := findMarket(to, from); ok {
		return Hop{Market: m, Side: "buy"}, true
	}
	return Hop{}, false
}

func findMarket(base, quote string) (Market, bool) {
	for _, m := range HelixMarkets {
		if m.Base == base && m.Quote == quote {
			return m, true
		}
	}
	return Market{}, false
}
