package gateway

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/injhive/injhive/internal/cache"
	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/providers/injective"
	"github.com/injhive/injhive/internal/token"
	"github.com/injhive/injhive/internal/wallet"
)

// BankReader reads balances and denom metadata from the chain.
type BankReader interface {
	Balances(ctx context.Context, address string) ([]injective.Coin, error)
	Balance(ctx context.Context, address, denom string) (string, error)
	DenomExponent(ctx context.Context, denom string) (int, error)
}

// Bank serves converted balances and priced portfolios.
type Bank struct {
	reader BankReader
	prices *Prices
	cache  cache.Cache
	log    zerolog.Logger
}

func NewBank(reader BankReader, prices *Prices, c cache.Cache, log zerolog.Logger) *Bank {
	return &Bank{reader: reader, prices: prices, cache: c, log: log}
}

// Balances returns every holding of an address in human units.
func (b *Bank) Balances(ctx context.Context, address string) ([]model.Balance, error) {
	if !wallet.IsValidAddress(address) {
		return nil, apierr.Newf(apierr.CodeInvalidParameter, "invalid Injective address %q", address)
	}

	key := cacheKey("balances", address)
	balances, _, err := cached(ctx, b.cache, b.log, key, cache.BalanceTTL, func(ctx context.Context) ([]model.Balance, error) {
		coins, err := b.reader.Balances(ctx, address)
		if err != nil {
			return nil, err
		}
		out := make([]model.Balance, 0, len(coins))
		for _, coin := range coins {
			out = append(out, b.convert(ctx, coin))
		}
		return out, nil
	})
	return balances, err
}

// Balance returns one denom holding of an address.
func (b *Bank) Balance(ctx context.Context, address, symbolOrDenom string) (model.Balance, error) {
	if !wallet.IsValidAddress(address) {
		return model.Balance{}, apierr.Newf(apierr.CodeInvalidParameter, "invalid Injective address %q", address)
	}
	info, ok := token.BySymbolOrDenom(symbolOrDenom)
	denom := symbolOrDenom
	if ok {
		denom = info.Denom
	}
	raw, err := b.reader.Balance(ctx, address, denom)
	if err != nil {
		return model.Balance{}, err
	}
	return b.convert(ctx, injective.Coin{Denom: denom, Amount: raw}), nil
}

func (b *Bank) convert(ctx context.Context, coin injective.Coin) model.Balance {
	decimals := b.decimalsFor(ctx, coin.Denom)
	human, err := token.ToHuman(coin.Amount, decimals)
	if err != nil {
		b.log.Debug().Err(err).Str("denom", coin.Denom).Msg("unconvertible amount")
		human = coin.Amount
	}
	return model.Balance{
		Denom:    coin.Denom,
		Symbol:   token.SymbolForDenom(coin.Denom),
		Raw:      coin.Amount,
		Human:    human,
		Decimals: decimals,
	}
}

// decimalsFor resolves precision for a denom: on-chain metadata first,
// then the known table, then the default of 6.
func (b *Bank) decimalsFor(ctx context.Context, denom string) int {
	exp, err := b.reader.DenomExponent(ctx, denom)
	if err != nil {
		b.log.Debug().Err(err).Str("denom", denom).Msg("metadata lookup failed")
		exp = 0
	}
	return token.Decimals(denom, exp)
}

// Portfolio prices every holding of an address in USD, sorted by value
// descending. Tokens priced from fallback rates are flagged estimated.
func (b *Bank) Portfolio(ctx context.Context, address string) (model.Portfolio, error) {
	balances, err := b.Balances(ctx, address)
	if err != nil {
		return model.Portfolio{}, err
	}

	out := model.Portfolio{Address: address}
	total := decimal.Zero
	for _, bal := range balances {
		entry := model.PortfolioEntry{Balance: bal}
		if _, known := token.Lookup(bal.Symbol); known {
			price, perr := b.prices.Get(ctx, bal.Symbol)
			if perr != nil {
				b.log.Debug().Err(perr).Str("symbol", bal.Symbol).Msg("skipping price for portfolio entry")
			} else {
				entry.PriceUSD = price.USD
				entry.IsEstimated = price.IsEstimated
				if human, derr := decimal.NewFromString(bal.Human); derr == nil {
					value := human.Mul(decimal.NewFromFloat(price.USD))
					entry.ValueUSD, _ = value.Round(2).Float64()
					total = total.Add(value)
				}
			}
		}
		out.Entries = append(out.Entries, entry)
	}
	sort.Slice(out.Entries, func(i, j int) bool {
		return out.Entries[i].ValueUSD > out.Entries[j].ValueUSD
	})
	out.TotalUSD, _ = total.Round(2).Float64()
	return out, nil
}
