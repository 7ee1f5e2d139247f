// Package coingecko is a thin client for the CoinGecko simple price API.
package coingecko

import (
	"context"
	"net/url"
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/httpx"
)

const (
	freeBaseURL = "https://api.coingecko.com/api/v3"
	proBaseURL  = "https://pro-api.coingecko.com/api/v3"
)

type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

// New builds a client. With an API key set, requests go to the pro API
// and carry the key as a query parameter.
func New(http *httpx.Client, apiKey string) *Client {
	base := freeBaseURL
	if apiKey != "" {
		base = proBaseURL
	}
	return &Client{http: http, baseURL: base, apiKey: apiKey}
}

// WithBaseURL overrides the API host, for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

// Quote is one coin's USD quote with its 24h move.
type Quote struct {
	USD       float64
	Change24h float64
}

// SimplePrice fetches USD quotes for the given CoinGecko ids.
func (c *Client) SimplePrice(ctx context.Context, ids []string) (map[string]Quote, error) {
	if len(ids) == 0 {
		return nil, apierr.New(apierr.CodeMissingParameter, "no coin ids requested")
	}
	q := url.Values{
		"ids":                 {strings.Join(ids, ",")},
		"vs_currencies":       {"usd"},
		"include_24hr_change": {"true"},
	}
	if c.apiKey != "" {
		q.Set("x_cg_pro_api_key", c.apiKey)
	}

	var raw map[string]map[string]float64
	if err := c.http.GetJSON(ctx, c.baseURL, "/simple/price", q, nil, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]Quote, len(raw))
	for id, fields := range raw {
		usd, ok := fields["usd"]
		if !ok {
			continue
		}
		out[id] = Quote{USD: usd, Change24h: fields["usd_24h_change"]}
	}
	if len(out) == 0 {
		return nil, apierr.New(apierr.CodeDataNotAvailable, "no prices returned")
	}
	return out, nil
}
