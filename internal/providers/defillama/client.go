// Package defillama is a client for the DefiLlama TVL and yields APIs,
// scoped to the Injective chain.
package defillama

import (
	"context"
	"net/url"
	"strings"
	"time"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/httpx"
)

const (
	baseURL   = "https://api.llama.fi"
	yieldsURL = "https://yields.llama.fi"

	// ChainName is Injective's identifier across the DefiLlama APIs.
	ChainName = "Injective"
)

// ProtocolNames fixes the order protocol mentions are matched in.
var ProtocolNames = []string{"helix", "neptune", "hydro", "dojoswap"}

// KnownProtocols maps each name in ProtocolNames to its DefiLlama slug.
var KnownProtocols = map[string]string{
	"helix":    "helix",
	"neptune":  "neptune-finance",
	"hydro":    "hydro",
	"dojoswap": "dojoswap",
}

type Client struct {
	http      *httpx.Client
	baseURL   string
	yieldsURL string
	apiKey    string
}

func New(http *httpx.Client, apiKey string) *Client {
	return &Client{http: http, baseURL: baseURL, yieldsURL: yieldsURL, apiKey: apiKey}
}

// WithBaseURLs overrides both API hosts, for tests.
func (c *Client) WithBaseURLs(base, yields string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	c.yieldsURL = strings.TrimRight(yields, "/")
	return c
}

// TVLPoint is one day of a TVL series.
type TVLPoint struct {
	Date time.Time
	TVL  float64
}

type chainTVLRow struct {
	Date int64   `json:"date"`
	TVL  float64 `json:"tvl"`
}

// ChainTVLHistory returns the daily TVL series for Injective.
func (c *Client) ChainTVLHistory(ctx context.Context) ([]TVLPoint, error) {
	var rows []chainTVLRow
	if err := c.http.GetJSON(ctx, c.baseURL, "/v2/historicalChainTvl/"+ChainName, c.query(), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.New(apierr.CodeDataNotAvailable, "empty chain TVL series")
	}
	points := make([]TVLPoint, len(rows))
	for i, r := range rows {
		points[i] = TVLPoint{Date: time.Unix(r.Date, 0).UTC(), TVL: r.TVL}
	}
	return points, nil
}

// ProtocolTVL is the TVL view of one protocol.
type ProtocolTVL struct {
	Name    string
	Slug    string
	TVL     float64
	History []TVLPoint
}

type protocolResponse struct {
	Name string `json:"name"`
	TVL  []struct {
		Date              int64   `json:"date"`
		TotalLiquidityUSD float64 `json:"totalLiquidityUSD"`
	} `json:"tvl"`
}

// Protocol fetches the TVL series of one protocol by slug.
func (c *Client) Protocol(ctx context.Context, slug string) (ProtocolTVL, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return ProtocolTVL{}, apierr.New(apierr.CodeMissingParameter, "protocol slug required")
	}
	var resp protocolResponse
	if err := c.http.GetJSON(ctx, c.baseURL, "/protocol/"+url.PathEscape(slug), c.query(), nil, &resp); err != nil {
		if apierr.CodeOf(err) == apierr.CodeDataNotAvailable {
			return ProtocolTVL{}, apierr.Newf(apierr.CodeProtocolNotFound, "protocol %q not found", slug)
		}
		return ProtocolTVL{}, err
	}
	out := ProtocolTVL{Name: resp.Name, Slug: slug}
	for _, row := range resp.TVL {
		out.History = append(out.History, TVLPoint{Date: time.Unix(row.Date, 0).UTC(), TVL: row.TotalLiquidityUSD})
	}
	if n := len(out.History); n > 0 {
		out.TVL = out.History[n-1].TVL
	}
	return out, nil
}

// ProtocolStat is one protocol from the global listing, with its TVL
// split per chain.
type ProtocolStat struct {
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	TVL       float64            `json:"tvl"`
	ChainTVLs map[string]float64 `json:"chainTvls"`
}

// Protocols returns every protocol DefiLlama tracks.
func (c *Client) Protocols(ctx context.Context) ([]ProtocolStat, error) {
	var rows []ProtocolStat
	if err := c.http.GetJSON(ctx, c.baseURL, "/protocols", c.query(), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.New(apierr.CodeDataNotAvailable, "empty protocols list")
	}
	return rows, nil
}

// ChainStat is one chain's current TVL from the chains list.
type ChainStat struct {
	Name string  `json:"name"`
	TVL  float64 `json:"tvl"`
}

// Chains returns the current TVL of every chain DefiLlama tracks.
func (c *Client) Chains(ctx context.Context) ([]ChainStat, error) {
	var rows []ChainStat
	if err := c.http.GetJSON(ctx, c.baseURL, "/v2/chains", c.query(), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.New(apierr.CodeDataNotAvailable, "empty chains list")
	}
	return rows, nil
}

// ChainTVL returns the current total TVL of Injective from the chains list.
func (c *Client) ChainTVL(ctx context.Context) (float64, error) {
	rows, err := c.Chains(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if strings.EqualFold(r.Name, ChainName) {
			return r.TVL, nil
		}
	}
	return 0, apierr.New(apierr.CodeDataNotAvailable, "Injective not present in chains list")
}

// YieldPool is one pool from the yields API.
type YieldPool struct {
	Chain   string  `json:"chain"`
	Project string  `json:"project"`
	Symbol  string  `json:"symbol"`
	TVLUSD  float64 `json:"tvlUsd"`
	APY     float64 `json:"apy"`
}

type poolsResponse struct {
	Data []YieldPool `json:"data"`
}

// YieldPools returns all pools on Injective.
func (c *Client) YieldPools(ctx context.Context) ([]YieldPool, error) {
	var resp poolsResponse
	if err := c.http.GetJSON(ctx, c.yieldsURL, "/pools", c.query(), nil, &resp); err != nil {
		return nil, err
	}
	var out []YieldPool
	for _, pool := range resp.Data {
		if pool.Chain == ChainName {
			out = append(out, pool)
		}
	}
	if len(out) == 0 {
		return nil, apierr.New(apierr.CodeDataNotAvailable, "no Injective pools returned")
	}
	return out, nil
}

func (c *Client) query() url.Values {
	if c.apiKey == "" {
		return nil
	}
	return url.Values{"apikey": {c.apiKey}}
}
