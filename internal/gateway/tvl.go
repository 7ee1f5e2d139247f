package gateway

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/injhive/injhive/internal/cache"
	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/providers/defillama"
)

// TVLSource reads TVL data for Injective and its protocols.
type TVLSource interface {
	ChainTVLHistory(ctx context.Context) ([]defillama.TVLPoint, error)
	Protocol(ctx context.Context, slug string) (defillama.ProtocolTVL, error)
	Protocols(ctx context.Context) ([]defillama.ProtocolStat, error)
	Chains(ctx context.Context) ([]defillama.ChainStat, error)
	YieldPools(ctx context.Context) ([]defillama.YieldPool, error)
}

// maxBreakdown caps the protocol list in the chain summary.
const maxBreakdown = 5

// placeholderTVL backs protocol answers when the TVL API is down.
var placeholderTVL = map[string]float64{
	"helix":    25_000_000,
	"dojoswap": 15_000_000,
	"hydro":    10_000_000,
}

// TVL serves chain and protocol TVL with caching and estimated
// placeholders for outages.
type TVL struct {
	source TVLSource
	cache  cache.Cache
	log    zerolog.Logger
}

func NewTVL(source TVLSource, c cache.Cache, log zerolog.Logger) *TVL {
	return &TVL{source: source, cache: c, log: log}
}

// Protocol returns the TVL summary of one protocol. Known protocols with
// an unreachable API get a placeholder flagged as estimated; unknown
// names fail with ProtocolNotFound.
func (t *TVL) Protocol(ctx context.Context, name string) (model.TVLSummary, error) {
	slug, ok := defillama.KnownProtocols[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		slug = strings.ToLower(strings.TrimSpace(name))
	}
	if slug == "" {
		return model.TVLSummary{}, apierr.New(apierr.CodeMissingParameter, "protocol name required")
	}

	key := cacheKey("tvl:protocol", slug)
	summary, _, err := cached(ctx, t.cache, t.log, key, cache.TVLTTL, func(ctx context.Context) (model.TVLSummary, error) {
		p, err := t.source.Protocol(ctx, slug)
		if err != nil {
			return model.TVLSummary{}, err
		}
		out := model.TVLSummary{
			Protocol:      p.Name,
			Slug:          p.Slug,
			TVL:           p.TVL,
			MonthlyChange: monthlyChange(toModelPoints(p.History)),
			History:       lastYear(toModelPoints(p.History)),
		}
		return out, nil
	})
	if err != nil {
		if apierr.CodeOf(err) == apierr.CodeProtocolNotFound {
			return model.TVLSummary{}, err
		}
		if tvl, ok := placeholderTVL[slug]; ok {
			t.log.Warn().Err(err).Str("protocol", slug).Msg("TVL API failed, using placeholder")
			return model.TVLSummary{Protocol: titleCase(slug), Slug: slug, TVL: tvl, IsEstimated: true}, nil
		}
		return model.TVLSummary{}, err
	}
	return summary, nil
}

// Chain returns the chain-wide TVL summary with the protocol breakdown.
func (t *TVL) Chain(ctx context.Context) (model.GlobalTVL, error) {
	key := cacheKey("tvl:chain")
	global, _, err := cached(ctx, t.cache, t.log, key, cache.TVLTTL, func(ctx context.Context) (model.GlobalTVL, error) {
		history, err := t.source.ChainTVLHistory(ctx)
		if err != nil {
			return model.GlobalTVL{}, err
		}
		points := toModelPoints(history)
		if len(points) == 0 {
			return model.GlobalTVL{}, apierr.New(apierr.CodeDataNotAvailable, "empty chain TVL series")
		}
		year := lastYear(points)
		out := model.GlobalTVL{
			ChainTVL:      points[len(points)-1].TVL,
			MonthlyChange: monthlyChange(points),
			History:       year,
		}
		out.MaxTVL, out.MinTVL, out.AvgTVL = seriesStats(year)
		out.Protocols = t.topProtocols(ctx)
		return out, nil
	})
	if err != nil {
		return model.GlobalTVL{}, err
	}
	return global, nil
}

// topProtocols ranks Injective protocols by their share of the chain's
// TVL, read from the global protocol listing. When the listing is down
// it degrades to querying the known slugs one by one.
func (t *TVL) topProtocols(ctx context.Context) []model.TVLSummary {
	rows, err := t.source.Protocols(ctx)
	if err == nil {
		var out []model.TVLSummary
		for _, r := range rows {
			tvl, ok := r.ChainTVLs[defillama.ChainName]
			if !ok || tvl <= 0 {
				continue
			}
			out = append(out, model.TVLSummary{Protocol: r.Name, Slug: r.Slug, TVL: tvl})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].TVL > out[j].TVL })
		if len(out) > maxBreakdown {
			out = out[:maxBreakdown]
		}
		if len(out) > 0 {
			return out
		}
	} else {
		t.log.Debug().Err(err).Msg("protocol listing unavailable, querying known slugs")
	}

	var out []model.TVLSummary
	for _, name := range defillama.ProtocolNames {
		summary, perr := t.Protocol(ctx, name)
		if perr != nil {
			t.log.Debug().Err(perr).Str("protocol", name).Msg("skipping protocol in chain summary")
			continue
		}
		summary.History = nil
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TVL > out[j].TVL })
	return out
}

// Global ranks the ten largest chains by current TVL and reports where
// Injective sits among all tracked chains.
func (t *TVL) Global(ctx context.Context) (model.TopChains, error) {
	key := cacheKey("tvl:global")
	top, _, err := cached(ctx, t.cache, t.log, key, cache.TVLTTL, func(ctx context.Context) (model.TopChains, error) {
		rows, err := t.source.Chains(ctx)
		if err != nil {
			return model.TopChains{}, err
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].TVL > rows[j].TVL })
		var total float64
		for _, r := range rows {
			total += r.TVL
		}
		out := model.TopChains{TotalTVL: total}
		for i, r := range rows {
			if strings.EqualFold(r.Name, defillama.ChainName) {
				out.InjectiveRank = i + 1
			}
			if i < 10 {
				share := 0.0
				if total > 0 {
					share = r.TVL / total * 100
				}
				out.Chains = append(out.Chains, model.ChainShare{Name: r.Name, TVL: r.TVL, SharePct: share})
			}
		}
		return out, nil
	})
	return top, err
}

// Yields returns Injective pools from the yields aggregator, largest
// TVL first.
func (t *TVL) Yields(ctx context.Context) ([]model.YieldPool, error) {
	key := cacheKey("tvl:yields")
	pools, _, err := cached(ctx, t.cache, t.log, key, cache.TVLTTL, func(ctx context.Context) ([]model.YieldPool, error) {
		raw, err := t.source.YieldPools(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]model.YieldPool, 0, len(raw))
		for _, p := range raw {
			out = append(out, model.YieldPool{Project: p.Project, Symbol: p.Symbol, TVLUSD: p.TVLUSD, APY: p.APY})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].TVLUSD > out[j].TVLUSD })
		return out, nil
	})
	return pools, err
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func toModelPoints(points []defillama.TVLPoint) []model.TVLDataPoint {
	out := make([]model.TVLDataPoint, len(points))
	for i, p := range points {
		out[i] = model.TVLDataPoint{Date: p.Date, TVL: p.TVL}
	}
	return out
}

// monthlyChange compares the latest point against the one thirty days
// earlier in a daily series.
func monthlyChange(points []model.TVLDataPoint) float64 {
	n := len(points)
	if n < 31 {
		return 0
	}
	prev := points[n-31].TVL
	if prev == 0 {
		return 0
	}
	return (points[n-1].TVL - prev) / prev * 100
}

// seriesStats reports the extremes and mean of a TVL series.
func seriesStats(points []model.TVLDataPoint) (max, min, avg float64) {
	if len(points) == 0 {
		return 0, 0, 0
	}
	max, min = points[0].TVL, points[0].TVL
	var sum float64
	for _, p := range points {
		if p.TVL > max {
			max = p.TVL
		}
		if p.TVL < min {
			min = p.TVL
		}
		sum += p.TVL
	}
	return max, min, sum / float64(len(points))
}

// lastYear trims a daily series to roughly twelve months.
func lastYear(points []model.TVLDataPoint) []model.TVLDataPoint {
	const days = 365
	if len(points) <= days {
		return points
	}
	return points[len(points)-days:]
}
