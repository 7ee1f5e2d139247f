package defillama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/httpx"
)

func TestChainTVLHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/historicalChainTvl/Injective" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"date":1700000000,"tvl":21000000},{"date":1700086400,"tvl":25000000}]`))
	}))
	defer srv.Close()

	c := New(httpx.New(0, 0), "").WithBaseURLs(srv.URL, srv.URL)
	points, err := c.ChainTVLHistory(context.Background())
	if err != nil {
		t.Fatalf("ChainTVLHistory: %v", err)
	}
	if len(points) != 2 || points[1].TVL != 25000000 {
		t.Fatalf("points = %+v", points)
	}
}

func TestProtocolMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(httpx.New(0, 0), "").WithBaseURLs(srv.URL, srv.URL)
	_, err := c.Protocol(context.Background(), "nonexistent")
	if apierr.CodeOf(err) != apierr.CodeProtocolNotFound {
		t.Fatalf("code = %v, want ProtocolNotFound", apierr.CodeOf(err))
	}
}

func TestProtocolUsesLastPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/protocol/helix" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"name":"Helix","tvl":[{"date":1700000000,"totalLiquidityUSD":24000000},{"date":1700086400,"totalLiquidityUSD":25000000}]}`))
	}))
	defer srv.Close()

	c := New(httpx.New(0, 0), "").WithBaseURLs(srv.URL, srv.URL)
	p, err := c.Protocol(context.Background(), "helix")
	if err != nil {
		t.Fatalf("Protocol: %v", err)
	}
	if p.Name != "Helix" || p.TVL != 25000000 || len(p.History) != 2 {
		t.Fatalf("protocol = %+v", p)
	}
}

func TestYieldPoolsFiltersChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"chain":"Injective","project":"helix","symbol":"INJ-USDT","tvlUsd":1000000,"apy":12.5},
			{"chain":"Ethereum","project":"uniswap","symbol":"ETH-USDC","tvlUsd":9000000,"apy":3.1}
		]}`))
	}))
	defer srv.Close()

	c := New(httpx.New(0, 0), "").WithBaseURLs(srv.URL, srv.URL)
	pools, err := c.YieldPools(context.Background())
	if err != nil {
		t.Fatalf("YieldPools: %v", err)
	}
	if len(pools) != 1 || pools[0].Project != "helix" {
		t.Fatalf("pools = %+v", pools)
	}
}

func TestChainTVL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Ethereum","tvl":50000000000},{"name":"Injective","tvl":42000000}]`))
	}))
	defer srv.Close()

	c := New(httpx.New(0, 0), "").WithBaseURLs(srv.URL, srv.URL)
	tvl, err := c.ChainTVL(context.Background())
	if err != nil {
		t.Fatalf("ChainTVL: %v", err)
	}
	if tvl != 42000000 {
		t.Fatalf("tvl = %v", tvl)
	}
}
