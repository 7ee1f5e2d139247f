package injective

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/injhive/injhive/internal/httpx"
)

const testAddr = "inj1xml3ew93xmjtuf5zwpcl9jzznphte30hvdre9a"

func TestBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cosmos/bank/v1beta1/balances/"+testAddr {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"balances":[
			{"denom":"inj","amount":"2500000000000000000"},
			{"denom":"peggy0xdAC17F958D2ee523a2206206994597C13D831ec7","amount":"15000000"}
		]}`))
	}))
	defer srv.Close()

	c := NewChainClient(httpx.New(0, 0), srv.URL)
	balances, err := c.Balances(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if len(balances) != 2 || balances[0].Amount != "2500000000000000000" {
		t.Fatalf("balances = %+v", balances)
	}
}

func TestBalanceSingleDenomDefaultsToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"balances":[{"denom":"inj","amount":"100"}]}`))
	}))
	defer srv.Close()

	c := NewChainClient(httpx.New(0, 0), srv.URL)
	got, err := c.Balance(context.Background(), testAddr, "peggy0xdAC17F958D2ee523a2206206994597C13D831ec7")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if got != "0" {
		t.Fatalf("balance = %q, want 0", got)
	}
}

func TestDenomExponentPicksHighestUnit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"metadata":{"base":"inj","symbol":"INJ","denom_units":[
			{"denom":"inj","exponent":0},{"denom":"INJ","exponent":18}
		]}}`))
	}))
	defer srv.Close()

	c := NewChainClient(httpx.New(0, 0), srv.URL)
	exp, err := c.DenomExponent(context.Background(), "inj")
	if err != nil {
		t.Fatalf("DenomExponent: %v", err)
	}
	if exp != 18 {
		t.Fatalf("exponent = %d", exp)
	}
}

func TestDenomExponentMissingMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewChainClient(httpx.New(0, 0), srv.URL)
	exp, err := c.DenomExponent(context.Background(), "factory/x/unknown")
	if err != nil {
		t.Fatalf("DenomExponent: %v", err)
	}
	if exp != 0 {
		t.Fatalf("exponent = %d, want 0", exp)
	}
}

func TestSubaccountDeposit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"deposits":{"inj":{"available_balance":"1000000000000000","total_balance":"1000000000000000"}}}`))
	}))
	defer srv.Close()

	c := NewChainClient(httpx.New(0, 0), srv.URL)
	dep, err := c.SubaccountDeposit(context.Background(), "af79"+"0000", "inj")
	if err != nil {
		t.Fatalf("SubaccountDeposit: %v", err)
	}
	if dep != "1000000000000000" {
		t.Fatalf("deposit = %q", dep)
	}
}

func TestExplorerLatestBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blocks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[{"height":12345678,"block_hash":"0xabc","proposer":"InjectiveNode0","num_txs":4,"timestamp":"2026-08-28T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	e := NewExplorer(httpx.New(0, 0), srv.URL)
	blocks, err := e.LatestBlocks(context.Background(), 5)
	if err != nil {
		t.Fatalf("LatestBlocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Height != 12345678 || blocks[0].NumTxs != 4 {
		t.Fatalf("blocks = %+v", blocks)
	}
}

func TestSimulatorHashesAreDistinct(t *testing.T) {
	s := NewSimulator()
	ctx := context.Background()
	a, err := s.SendTokens(ctx, "inj1from", "inj1to", "inj", "1000")
	if err != nil {
		t.Fatalf("SendTokens: %v", err)
	}
	b, err := s.SendTokens(ctx, "inj1from", "inj1to", "inj", "1000")
	if err != nil {
		t.Fatalf("SendTokens: %v", err)
	}
	if a == b {
		t.Fatal("simulated hashes should differ across calls")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d", len(a))
	}
}

func TestUnavailableBroadcasterFailsFast(t *testing.T) {
	var b Broadcaster = Unavailable{}
	if _, err := b.SendTokens(context.Background(), "a", "b", "inj", "1"); err == nil {
		t.Fatal("expected error from unavailable broadcaster")
	}
}
