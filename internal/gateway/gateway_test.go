package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/injhive/injhive/internal/cache"
	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/logging"
	"github.com/injhive/injhive/internal/providers/coingecko"
	"github.com/injhive/injhive/internal/providers/defillama"
	"github.com/injhive/injhive/internal/providers/injective"
	"github.com/injhive/injhive/internal/wallet"
)

var (
	senderAddr string
	destAddr   string
	subaccount string
)

func init() {
	sender, err := wallet.FromHex("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	if err != nil {
		panic(err)
	}
	dest, err := wallet.FromHex("8f2a559490cc57b2a5d01a42e1d4a7a4e37829c1a47b0d2b7d2a5e7fbd8d6f11")
	if err != nil {
		panic(err)
	}
	senderAddr = sender.Address()
	destAddr = dest.Address()
	subaccount = sender.DefaultSubaccount()
}

type stubPriceSource struct {
	calls  int
	quotes map[string]float64
	err    error
}

func (s *stubPriceSource) SimplePrice(_ context.Context, ids []string) (map[string]coingecko.Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]coingecko.Quote)
	for _, id := range ids {
		if v, ok := s.quotes[id]; ok {
			out[id] = coingecko.Quote{USD: v}
		}
	}
	return out, nil
}

func TestPricesCacheAvoidsSecondCall(t *testing.T) {
	src := &stubPriceSource{quotes: map[string]float64{"injective-protocol": 13.16}}
	p := NewPrices(src, cache.NewMemory(16), logging.Nop())

	ctx := context.Background()
	first, err := p.Get(ctx, "inj")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first.USD != 13.16 || first.IsEstimated {
		t.Fatalf("price = %+v", first)
	}
	if _, err := p.Get(ctx, "INJ"); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", src.calls)
	}
}

func TestPricesFallbackIsEstimated(t *testing.T) {
	src := &stubPriceSource{err: apierr.New(apierr.CodeAPIError, "down")}
	p := NewPrices(src, cache.NewMemory(16), logging.Nop())

	price, err := p.Get(context.Background(), "inj")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !price.IsEstimated || price.USD != 13.20 {
		t.Fatalf("price = %+v", price)
	}
}

func TestPricesGetManyBatchesOneCall(t *testing.T) {
	src := &stubPriceSource{quotes: map[string]float64{
		"injective-protocol": 13.16,
		"tether":             1.0,
	}}
	p := NewPrices(src, cache.NewMemory(16), logging.Nop())

	prices, err := p.GetMany(context.Background(), []string{"inj", "usdt"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", src.calls)
	}
	if prices["INJ"].USD != 13.16 || prices["USDT"].USD != 1.0 {
		t.Fatalf("prices = %+v", prices)
	}
}

func TestPricesGetManyFallsBackPerToken(t *testing.T) {
	src := &stubPriceSource{err: apierr.New(apierr.CodeAPIError, "down")}
	p := NewPrices(src, cache.NewMemory(16), logging.Nop())

	prices, err := p.GetMany(context.Background(), []string{"inj", "usdt"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if !prices["INJ"].IsEstimated || prices["INJ"].USD != 13.20 {
		t.Fatalf("prices = %+v", prices)
	}
}

func TestPricesUnknownToken(t *testing.T) {
	p := NewPrices(&stubPriceSource{}, nil, logging.Nop())
	_, err := p.Get(context.Background(), "doge")
	if apierr.CodeOf(err) != apierr.CodeInvalidParameter {
		t.Fatalf("code = %v", apierr.CodeOf(err))
	}
}

type stubTVLSource struct {
	protoErr error
	history  []defillama.TVLPoint
	listing  []defillama.ProtocolStat
}

func (s *stubTVLSource) ChainTVLHistory(context.Context) ([]defillama.TVLPoint, error) {
	if len(s.history) == 0 {
		return nil, apierr.New(apierr.CodeAPIError, "down")
	}
	return s.history, nil
}

func (s *stubTVLSource) Protocol(_ context.Context, slug string) (defillama.ProtocolTVL, error) {
	if s.protoErr != nil {
		return defillama.ProtocolTVL{}, s.protoErr
	}
	return defillama.ProtocolTVL{Name: "Helix", Slug: slug, TVL: 26_500_000}, nil
}

func (s *stubTVLSource) Protocols(context.Context) ([]defillama.ProtocolStat, error) {
	if len(s.listing) == 0 {
		return nil, apierr.New(apierr.CodeAPIError, "down")
	}
	return s.listing, nil
}

func (s *stubTVLSource) Chains(context.Context) ([]defillama.ChainStat, error) {
	return []defillama.ChainStat{
		{Name: "Ethereum", TVL: 60_000_000_000},
		{Name: "Injective", TVL: 40_000_000},
		{Name: "Solana", TVL: 8_000_000_000},
	}, nil
}

func (s *stubTVLSource) YieldPools(context.Context) ([]defillama.YieldPool, error) {
	return []defillama.YieldPool{
		{Chain: "Injective", Project: "hydro", Symbol: "INJ", TVLUSD: 5_000_000, APY: 9.2},
		{Chain: "Injective", Project: "helix", Symbol: "INJ-USDT", TVLUSD: 8_000_000, APY: 12.5},
	}, nil
}

func TestTVLProtocolPlaceholderOnOutage(t *testing.T) {
	src := &stubTVLSource{protoErr: apierr.New(apierr.CodeAPIError, "down")}
	g := NewTVL(src, cache.NewMemory(16), logging.Nop())

	summary, err := g.Protocol(context.Background(), "helix")
	if err != nil {
		t.Fatalf("Protocol: %v", err)
	}
	if !summary.IsEstimated || summary.TVL != 25_000_000 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestTVLProtocolNotFoundPassesThrough(t *testing.T) {
	src := &stubTVLSource{protoErr: apierr.New(apierr.CodeProtocolNotFound, "nope")}
	g := NewTVL(src, cache.NewMemory(16), logging.Nop())

	_, err := g.Protocol(context.Background(), "unknown-dex")
	if apierr.CodeOf(err) != apierr.CodeProtocolNotFound {
		t.Fatalf("code = %v", apierr.CodeOf(err))
	}
}

func TestTVLMonthlyChange(t *testing.T) {
	history := make([]defillama.TVLPoint, 40)
	base := time.Now().AddDate(0, 0, -40)
	for i := range history {
		tvl := 20_000_000.0
		if i == len(history)-31 {
			tvl = 20_000_000
		}
		if i == len(history)-1 {
			tvl = 25_000_000
		}
		history[i] = defillama.TVLPoint{Date: base.AddDate(0, 0, i), TVL: tvl}
	}
	g := NewTVL(&stubTVLSource{history: history}, cache.NewMemory(16), logging.Nop())

	global, err := g.Chain(context.Background())
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if global.ChainTVL != 25_000_000 {
		t.Fatalf("chain tvl = %v", global.ChainTVL)
	}
	if global.MonthlyChange != 25 {
		t.Fatalf("monthly change = %v, want 25", global.MonthlyChange)
	}
	if len(global.Protocols) == 0 {
		t.Fatal("expected protocol breakdown")
	}
}

func TestTVLChainBreakdownFromListing(t *testing.T) {
	history := []defillama.TVLPoint{{Date: time.Now(), TVL: 40_000_000}}
	listing := []defillama.ProtocolStat{
		{Name: "Aave", Slug: "aave", TVL: 11_000_000_000, ChainTVLs: map[string]float64{"Ethereum": 11_000_000_000}},
		{Name: "Hydro", Slug: "hydro", TVL: 9_000_000, ChainTVLs: map[string]float64{"Injective": 9_000_000}},
		{Name: "Helix", Slug: "helix", TVL: 26_500_000, ChainTVLs: map[string]float64{"Injective": 26_500_000}},
		{Name: "DojoSwap", Slug: "dojoswap", TVL: 4_000_000, ChainTVLs: map[string]float64{"Injective": 4_000_000}},
	}
	g := NewTVL(&stubTVLSource{history: history, listing: listing}, cache.NewMemory(16), logging.Nop())

	global, err := g.Chain(context.Background())
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(global.Protocols) != 3 {
		t.Fatalf("protocols = %+v", global.Protocols)
	}
	if global.Protocols[0].Slug != "helix" || global.Protocols[0].TVL != 26_500_000 {
		t.Fatalf("top protocol = %+v", global.Protocols[0])
	}
}

type emptySeriesSource struct{ stubTVLSource }

func (emptySeriesSource) ChainTVLHistory(context.Context) ([]defillama.TVLPoint, error) {
	return []defillama.TVLPoint{}, nil
}

func TestTVLChainEmptySeries(t *testing.T) {
	g := NewTVL(&emptySeriesSource{}, cache.NewMemory(16), logging.Nop())
	_, err := g.Chain(context.Background())
	if apierr.CodeOf(err) != apierr.CodeDataNotAvailable {
		t.Fatalf("code = %v, err = %v", apierr.CodeOf(err), err)
	}
}

func TestTVLGlobalRanksChains(t *testing.T) {
	g := NewTVL(&stubTVLSource{}, cache.NewMemory(16), logging.Nop())
	top, err := g.Global(context.Background())
	if err != nil {
		t.Fatalf("Global: %v", err)
	}
	if len(top.Chains) != 3 || top.Chains[0].Name != "Ethereum" {
		t.Fatalf("chains = %+v", top.Chains)
	}
	if top.InjectiveRank != 3 {
		t.Fatalf("rank = %d, want 3", top.InjectiveRank)
	}
	if top.TotalTVL != 68_040_000_000 {
		t.Fatalf("total = %v", top.TotalTVL)
	}
}

func TestTVLYieldsSorted(t *testing.T) {
	g := NewTVL(&stubTVLSource{}, cache.NewMemory(16), logging.Nop())
	pools, err := g.Yields(context.Background())
	if err != nil {
		t.Fatalf("Yields: %v", err)
	}
	if len(pools) != 2 || pools[0].Project != "helix" {
		t.Fatalf("pools = %+v", pools)
	}
}

type stubBankReader struct {
	balances map[string]string
	exponent map[string]int
}

func (s *stubBankReader) Balances(_ context.Context, _ string) ([]injective.Coin, error) {
	var out []injective.Coin
	for denom, amount := range s.balances {
		out = append(out, injective.Coin{Denom: denom, Amount: amount})
	}
	return out, nil
}

func (s *stubBankReader) Balance(_ context.Context, _, denom string) (string, error) {
	if v, ok := s.balances[denom]; ok {
		return v, nil
	}
	return "0", nil
}

func (s *stubBankReader) DenomExponent(_ context.Context, denom string) (int, error) {
	return s.exponent[denom], nil
}

func TestBankBalanceConversion(t *testing.T) {
	reader := &stubBankReader{balances: map[string]string{
		"inj": "2500000000000000000",
		"peggy0xdAC17F958D2ee523a2206206994597C13D831ec7": "15000000",
	}}
	prices := NewPrices(&stubPriceSource{quotes: map[string]float64{
		"injective-protocol": 10.0,
		"tether":             1.0,
	}}, nil, logging.Nop())
	b := NewBank(reader, prices, cache.NewMemory(16), logging.Nop())

	bal, err := b.Balance(context.Background(), senderAddr, "inj")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal.Human != "2.5" || bal.Symbol != "INJ" || bal.Decimals != 18 {
		t.Fatalf("balance = %+v", bal)
	}
}

func TestBankDecimalsPreferChainMetadata(t *testing.T) {
	// The hard-coded table says 6 for USDT; metadata reporting 8 must win.
	const usdt = "peggy0xdAC17F958D2ee523a2206206994597C13D831ec7"
	reader := &stubBankReader{
		balances: map[string]string{usdt: "150000000"},
		exponent: map[string]int{usdt: 8},
	}
	b := NewBank(reader, nil, nil, logging.Nop())

	bal, err := b.Balance(context.Background(), senderAddr, usdt)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal.Decimals != 8 || bal.Human != "1.5" {
		t.Fatalf("balance = %+v", bal)
	}
}

func TestBankRejectsInvalidAddress(t *testing.T) {
	b := NewBank(&stubBankReader{}, nil, nil, logging.Nop())
	_, err := b.Balances(context.Background(), "0xdeadbeef")
	if apierr.CodeOf(err) != apierr.CodeInvalidParameter {
		t.Fatalf("code = %v", apierr.CodeOf(err))
	}
}

func TestPortfolioSortedByValue(t *testing.T) {
	reader := &stubBankReader{balances: map[string]string{
		"inj": "1000000000000000000", // 1 INJ at $10
		"peggy0xdAC17F958D2ee523a2206206994597C13D831ec7": "25000000", // 25 USDT at $1
	}}
	prices := NewPrices(&stubPriceSource{quotes: map[string]float64{
		"injective-protocol": 10.0,
		"tether":             1.0,
	}}, nil, logging.Nop())
	b := NewBank(reader, prices, cache.NewMemory(16), logging.Nop())

	pf, err := b.Portfolio(context.Background(), senderAddr)
	if err != nil {
		t.Fatalf("Portfolio: %v", err)
	}
	if len(pf.Entries) != 2 || pf.Entries[0].Symbol != "USDT" {
		t.Fatalf("entries = %+v", pf.Entries)
	}
	if pf.TotalUSD != 35 {
		t.Fatalf("total = %v, want 35", pf.TotalUSD)
	}
}

type stubExplorerReader struct {
	stats injective.Stats
}

func (s *stubExplorerReader) LatestBlocks(context.Context, int) ([]injective.BlockRow, error) {
	return nil, apierr.New(apierr.CodeAPIError, "down")
}

func (s *stubExplorerReader) LatestTransactions(context.Context, int) ([]injective.TxRow, error) {
	return nil, nil
}

func (s *stubExplorerReader) AccountTxCount(context.Context, string) (int64, error) {
	return 0, apierr.New(apierr.CodeDataNotAvailable, "no index")
}

func (s *stubExplorerReader) NetworkStats(context.Context) (injective.Stats, error) {
	return s.stats, nil
}

type stubSupplyReader struct{ raw string }

func (s *stubSupplyReader) Supply(context.Context, string) (string, error) {
	return s.raw, nil
}

func TestNetworkStatsSupplyFromBankFallback(t *testing.T) {
	reader := &stubExplorerReader{stats: injective.Stats{TxsTotal: 100}}
	supply := &stubSupplyReader{raw: "100000000000000000000000000"} // 100M INJ
	e := NewExplorer(reader, newTestBank(&stubBankReader{}), supply, logging.Nop())

	stats, err := e.NetworkStats(context.Background())
	if err != nil {
		t.Fatalf("NetworkStats: %v", err)
	}
	if stats.INJSupply != 100_000_000 {
		t.Fatalf("supply = %v, want 100000000", stats.INJSupply)
	}
}

func TestLatestBlocksDegradeToSamples(t *testing.T) {
	e := NewExplorer(&stubExplorerReader{}, newTestBank(&stubBankReader{}), nil, logging.Nop())
	blocks, estimated, err := e.LatestBlocks(context.Background(), 5)
	if err != nil {
		t.Fatalf("LatestBlocks: %v", err)
	}
	if !estimated || len(blocks) == 0 {
		t.Fatalf("estimated = %v, blocks = %d", estimated, len(blocks))
	}
}

type stubBroadcaster struct {
	sendCalls    int
	orderCalls   int
	failOrders   int
	depositCalls int
	sendErr      error
}

func (s *stubBroadcaster) SendTokens(_ context.Context, _, _, _, _ string) (string, error) {
	s.sendCalls++
	if s.sendErr != nil {
		return "", s.sendErr
	}
	return strings.Repeat("AB", 32), nil
}

func (s *stubBroadcaster) DepositToSubaccount(_ context.Context, _, _, _, _ string) (string, error) {
	s.depositCalls++
	return strings.Repeat("CD", 32), nil
}

func (s *stubBroadcaster) PlaceSpotMarketOrder(_ context.Context, _ string, _ injective.SpotMarketOrder) (string, error) {
	s.orderCalls++
	if s.orderCalls <= s.failOrders {
		return "", apierr.New(apierr.CodeAPIError, "sequence mismatch")
	}
	return strings.Repeat("EF", 32), nil
}

func newTestBank(reader *stubBankReader) *Bank {
	prices := NewPrices(&stubPriceSource{}, nil, logging.Nop())
	return NewBank(reader, prices, nil, logging.Nop())
}

func TestTransferRejectsSelfSend(t *testing.T) {
	tr := NewTransfers(newTestBank(&stubBankReader{}), &stubBroadcaster{}, senderAddr, logging.Nop())
	_, err := tr.Send(context.Background(), senderAddr, "inj", "1")
	if apierr.CodeOf(err) != apierr.CodeInvalidParameter {
		t.Fatalf("code = %v", apierr.CodeOf(err))
	}
}

func TestTransferRequiresGasBuffer(t *testing.T) {
	// Exactly 1 INJ held: sending 1 INJ must fail, the 0.001 buffer is missing.
	reader := &stubBankReader{balances: map[string]string{"inj": "1000000000000000000"}}
	tr := NewTransfers(newTestBank(reader), &stubBroadcaster{}, senderAddr, logging.Nop())

	_, err := tr.Send(context.Background(), destAddr, "inj", "1")
	if apierr.CodeOf(err) != apierr.CodeInvalidParameter {
		t.Fatalf("code = %v, err = %v", apierr.CodeOf(err), err)
	}

	_, err = tr.Send(context.Background(), destAddr, "inj", "0.9")
	if err != nil {
		t.Fatalf("Send within buffer: %v", err)
	}
}

func TestTransferSuccessLinks(t *testing.T) {
	reader := &stubBankReader{balances: map[string]string{"inj": "5000000000000000000"}}
	b := &stubBroadcaster{}
	tr := NewTransfers(newTestBank(reader), b, senderAddr, logging.Nop())

	res, err := tr.Send(context.Background(), destAddr, "inj", "1.5")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.AmountRaw != "1500000000000000000" || res.AmountHuman != "1.5" {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.ExplorerLink, res.TxHash) || !strings.Contains(res.MintscanLink, res.TxHash) {
		t.Fatalf("links = %q %q", res.ExplorerLink, res.MintscanLink)
	}
	if b.sendCalls != 1 {
		t.Fatalf("send calls = %d, want 1 (no retry)", b.sendCalls)
	}
}

func TestTransferNoRetryOnFailure(t *testing.T) {
	reader := &stubBankReader{balances: map[string]string{"inj": "5000000000000000000"}}
	b := &stubBroadcaster{sendErr: apierr.New(apierr.CodeAPIError, "mempool full")}
	tr := NewTransfers(newTestBank(reader), b, senderAddr, logging.Nop())

	if _, err := tr.Send(context.Background(), destAddr, "inj", "1"); err == nil {
		t.Fatal("expected error")
	}
	if b.sendCalls != 1 {
		t.Fatalf("send calls = %d, transfers must not retry", b.sendCalls)
	}
}

type stubSubaccountReader struct {
	bank         *stubBankReader
	deposit      string
	visibleAfter int
	polls        int
}

func (s *stubSubaccountReader) Balance(ctx context.Context, addr, denom string) (string, error) {
	return s.bank.Balance(ctx, addr, denom)
}

func (s *stubSubaccountReader) SubaccountDeposit(_ context.Context, _, _ string) (string, error) {
	s.polls++
	if s.polls > s.visibleAfter {
		return s.deposit, nil
	}
	return "0", nil
}

func newTestSwaps(reader SubaccountReader, b injective.Broadcaster) *Swaps {
	s := NewSwaps(reader, b, senderAddr, subaccount, logging.Nop())
	s.sleep = func(context.Context, time.Duration) error { return nil }
	return s
}

func TestSwapSimulatePlansRouteOnly(t *testing.T) {
	b := &stubBroadcaster{}
	s := newTestSwaps(&stubSubaccountReader{bank: &stubBankReader{}}, b)

	res, err := s.Swap(context.Background(), "inj", "usdt", "10", true)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if !res.Simulated || len(res.Route) != 1 || res.Route[0].Side != "sell" {
		t.Fatalf("result = %+v", res)
	}
	if b.orderCalls != 0 || b.depositCalls != 0 {
		t.Fatal("simulation must not touch the chain")
	}
}

func TestSwapRetriesTwiceThenSucceeds(t *testing.T) {
	reader := &stubSubaccountReader{
		bank:    &stubBankReader{balances: map[string]string{"inj": "50000000000000000000"}},
		deposit: "1000000000000000",
	}
	b := &stubBroadcaster{failOrders: 2}
	s := newTestSwaps(reader, b)

	res, err := s.Swap(context.Background(), "inj", "usdt", "10", false)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if res.Attempts != 3 || b.orderCalls != 3 {
		t.Fatalf("attempts = %d, order calls = %d", res.Attempts, b.orderCalls)
	}
	if res.TxHash == "" || res.ExplorerLink == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestSwapGivesUpAfterThreeAttempts(t *testing.T) {
	reader := &stubSubaccountReader{
		bank:    &stubBankReader{balances: map[string]string{"inj": "50000000000000000000"}},
		deposit: "1000000000000000",
	}
	b := &stubBroadcaster{failOrders: 10}
	s := newTestSwaps(reader, b)

	_, err := s.Swap(context.Background(), "inj", "usdt", "10", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if b.orderCalls != 3 {
		t.Fatalf("order calls = %d, want 3", b.orderCalls)
	}
}

func TestSwapRequiresGas(t *testing.T) {
	reader := &stubSubaccountReader{
		bank:    &stubBankReader{balances: map[string]string{"inj": "1000000000000000"}}, // 0.001 INJ
		deposit: "1000000000000000",
	}
	s := newTestSwaps(reader, &stubBroadcaster{})

	_, err := s.Swap(context.Background(), "inj", "usdt", "0.0001", false)
	if apierr.CodeOf(err) != apierr.CodeInvalidParameter {
		t.Fatalf("code = %v, err = %v", apierr.CodeOf(err), err)
	}
}

func TestSwapSeedsEmptySubaccount(t *testing.T) {
	reader := &stubSubaccountReader{
		bank:         &stubBankReader{balances: map[string]string{"inj": "50000000000000000000"}},
		deposit:      "1000000000000000",
		visibleAfter: 3, // empty on the first check, visible after two polls
	}
	b := &stubBroadcaster{}
	s := newTestSwaps(reader, b)

	if _, err := s.Swap(context.Background(), "inj", "usdt", "10", false); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if b.depositCalls != 1 {
		t.Fatalf("deposit calls = %d, want 1", b.depositCalls)
	}
	if reader.polls < 3 {
		t.Fatalf("polls = %d, expected polling until visible", reader.polls)
	}
}

func TestSwapTwoHopRoute(t *testing.T) {
	reader := &stubSubaccountReader{
		bank: &stubBankReader{balances: map[string]string{
			"inj": "5000000000000000000",
			"factory/inj1hdvy6tl89llr69r9pecgz2nkthyregm3u9leh5/atom": "5000000",
		}},
		deposit: "1000000000000000",
	}
	b := &stubBroadcaster{}
	s := newTestSwaps(reader, b)

	res, err := s.Swap(context.Background(), "atom", "weth", "5", false)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if len(res.Route) != 2 || b.orderCalls != 2 {
		t.Fatalf("route = %+v, order calls = %d", res.Route, b.orderCalls)
	}
}

func TestSwapRequiresSourceBalance(t *testing.T) {
	// Plenty of INJ for gas, but no ATOM to sell.
	reader := &stubSubaccountReader{
		bank:    &stubBankReader{balances: map[string]string{"inj": "5000000000000000000"}},
		deposit: "1000000000000000",
	}
	b := &stubBroadcaster{}
	s := newTestSwaps(reader, b)

	_, err := s.Swap(context.Background(), "atom", "usdt", "5", false)
	if apierr.CodeOf(err) != apierr.CodeInvalidParameter {
		t.Fatalf("code = %v, err = %v", apierr.CodeOf(err), err)
	}
	if !strings.Contains(err.Error(), "ATOM") {
		t.Fatalf("err = %v", err)
	}
	if b.orderCalls != 0 || b.depositCalls != 0 {
		t.Fatalf("order calls = %d, deposit calls = %d, nothing should reach the chain", b.orderCalls, b.depositCalls)
	}
}
