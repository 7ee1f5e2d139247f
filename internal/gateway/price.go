package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/injhive/injhive/internal/cache"
	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/providers/coingecko"
	"github.com/injhive/injhive/internal/token"
)

// PriceSource fetches USD quotes by CoinGecko id.
type PriceSource interface {
	SimplePrice(ctx context.Context, ids []string) (map[string]coingecko.Quote, error)
}

// Prices serves USD quotes for known tokens with caching and a static
// fallback for outages.
type Prices struct {
	source PriceSource
	cache  cache.Cache
	log    zerolog.Logger
}

func NewPrices(source PriceSource, c cache.Cache, log zerolog.Logger) *Prices {
	return &Prices{source: source, cache: c, log: log}
}

// Get quotes one token by symbol. When every source fails and a fallback
// rate exists, the quote is returned flagged as estimated.
func (p *Prices) Get(ctx context.Context, symbol string) (model.Price, error) {
	info, ok := token.Lookup(symbol)
	if !ok {
		return model.Price{}, apierr.Newf(apierr.CodeInvalidParameter, "unknown token %q", symbol)
	}

	key := cacheKey("price", info.CoinGeckoID)
	price, _, err := cached(ctx, p.cache, p.log, key, cache.PriceTTL, func(ctx context.Context) (model.Price, error) {
		quotes, err := p.source.SimplePrice(ctx, []string{info.CoinGeckoID})
		if err != nil {
			return model.Price{}, err
		}
		quote, ok := quotes[info.CoinGeckoID]
		if !ok {
			return model.Price{}, apierr.Newf(apierr.CodeDataNotAvailable, "no quote for %s", info.Symbol)
		}
		return model.Price{
			Symbol:      info.Symbol,
			CoinGeckoID: info.CoinGeckoID,
			USD:         quote.USD,
			Change24h:   quote.Change24h,
			FetchedAt:   time.Now().UTC(),
		}, nil
	})
	if err != nil {
		if rate, ok := token.FallbackRates[strings.ToLower(info.Symbol)]; ok {
			return p.estimated(info, rate, err), nil
		}
		return model.Price{}, err
	}
	return price, nil
}

func (p *Prices) estimated(info token.Info, rate float64, cause error) model.Price {
	p.log.Warn().Err(cause).Str("symbol", info.Symbol).Msg("price sources failed, using fallback rate")
	return model.Price{
		Symbol:      info.Symbol,
		CoinGeckoID: info.CoinGeckoID,
		USD:         rate,
		IsEstimated: true,
		FetchedAt:   time.Now().UTC(),
	}
}

// GetMany quotes several symbols in one upstream call, keyed by display
// symbol. Tokens the batch misses fall back to single quotes, which carry
// the estimated flag on an outage.
func (p *Prices) GetMany(ctx context.Context, symbols []string) (map[string]model.Price, error) {
	infos := make([]token.Info, 0, len(symbols))
	ids := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		info, ok := token.Lookup(sym)
		if !ok {
			return nil, apierr.Newf(apierr.CodeInvalidParameter, "unknown token %q", sym)
		}
		if seen[info.CoinGeckoID] {
			continue
		}
		seen[info.CoinGeckoID] = true
		infos = append(infos, info)
		ids = append(ids, info.CoinGeckoID)
	}

	quotes, err := p.source.SimplePrice(ctx, ids)
	if err != nil {
		p.log.Warn().Err(err).Msg("batch quote failed, falling back per token")
		quotes = nil
	}
	out := make(map[string]model.Price, len(infos))
	for _, info := range infos {
		if quote, ok := quotes[info.CoinGeckoID]; ok {
			out[info.Symbol] = model.Price{
				Symbol:      info.Symbol,
				CoinGeckoID: info.CoinGeckoID,
				USD:         quote.USD,
				Change24h:   quote.Change24h,
				FetchedAt:   time.Now().UTC(),
			}
			continue
		}
		price, perr := p.Get(ctx, info.Symbol)
		if perr != nil {
			return nil, perr
		}
		out[info.Symbol] = price
	}
	return out, nil
}
