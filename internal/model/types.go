// Package model holds the response envelope returned by every action and
// the data transfer objects the gateways populate.
package model

import "time"

// CacheStatus reports how a response was satisfied relative to the cache.
type CacheStatus string

const (
	CacheHit    CacheStatus = "hit"
	CacheMiss   CacheStatus = "miss"
	CacheStale  CacheStatus = "stale"
	CacheBypass CacheStatus = "bypass"
)

// Meta carries request bookkeeping attached to every envelope.
type Meta struct {
	RequestID string      `json:"request_id,omitempty"`
	Action    string      `json:"action,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Cache     CacheStatus `json:"cache,omitempty"`
}

// ErrorBody is the failure half of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Response is the uniform envelope every action returns. Exactly one of
// Result or Error is set depending on Success.
type Response struct {
	Success  bool       `json:"success"`
	Result   any        `json:"result,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
	Meta     Meta       `json:"meta"`
}

// Ok builds a success envelope around result.
func Ok(result any) *Response {
	return &Response{Success: true, Result: result, Meta: Meta{Timestamp: time.Now().UTC()}}
}

// Fail builds a failure envelope with the given taxonomy tag.
func Fail(code, message, details string) *Response {
	return &Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Details: details},
		Meta:    Meta{Timestamp: time.Now().UTC()},
	}
}

// Warn appends a human-readable warning and returns the envelope for chaining.
func (r *Response) Warn(msg string) *Response {
	r.Warnings = append(r.Warnings, msg)
	return r
}

// Price is a spot quote for a single token.
type Price struct {
	Symbol      string    `json:"symbol"`
	CoinGeckoID string    `json:"coingecko_id"`
	USD         float64   `json:"usd"`
	Change24h   float64   `json:"usd_24h_change,omitempty"`
	IsEstimated bool      `json:"is_estimated,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// TVLDataPoint is one entry of a historical TVL series.
type TVLDataPoint struct {
	Date time.Time `json:"date"`
	TVL  float64   `json:"tvl"`
}

// TVLSummary describes the locked value of a single protocol.
type TVLSummary struct {
	Protocol      string         `json:"protocol"`
	Slug          string         `json:"slug"`
	TVL           float64        `json:"tvl"`
	MonthlyChange float64        `json:"monthly_change_pct"`
	History       []TVLDataPoint `json:"history,omitempty"`
	IsEstimated   bool           `json:"is_estimated,omitempty"`
}

// GlobalTVL aggregates chain-level TVL for Injective.
type GlobalTVL struct {
	ChainTVL      float64        `json:"chain_tvl"`
	MonthlyChange float64        `json:"monthly_change_pct"`
	MaxTVL        float64        `json:"max_tvl"`
	MinTVL        float64        `json:"min_tvl"`
	AvgTVL        float64        `json:"avg_tvl"`
	Protocols     []TVLSummary   `json:"protocols"`
	History       []TVLDataPoint `json:"history,omitempty"`
}

// ChainShare is one chain's slice of the cross-chain TVL ranking.
type ChainShare struct {
	Name     string  `json:"name"`
	TVL      float64 `json:"tvl"`
	SharePct float64 `json:"share_pct"`
}

// TopChains ranks the largest chains by TVL and positions Injective
// among them.
type TopChains struct {
	TotalTVL      float64      `json:"total_tvl"`
	Chains        []ChainShare `json:"chains"`
	InjectiveRank int          `json:"injective_rank"`
}

// YieldPool is one Injective entry from the yields aggregator.
type YieldPool struct {
	Project string  `json:"project"`
	Symbol  string  `json:"symbol"`
	TVLUSD  float64 `json:"tvl_usd"`
	APY     float64 `json:"apy"`
}

// Balance is one denom holding of an address, in both representations.
type Balance struct {
	Denom    string `json:"denom"`
	Symbol   string `json:"symbol"`
	Raw      string `json:"raw"`
	Human    string `json:"human"`
	Decimals int    `json:"decimals"`
}

// PortfolioEntry is a balance priced in USD.
type PortfolioEntry struct {
	Balance
	PriceUSD    float64 `json:"price_usd"`
	ValueUSD    float64 `json:"value_usd"`
	IsEstimated bool    `json:"is_estimated,omitempty"`
}

// Portfolio is a priced view over every holding of an address.
type Portfolio struct {
	Address  string           `json:"address"`
	Entries  []PortfolioEntry `json:"entries"`
	TotalUSD float64          `json:"total_usd"`
}

// Block is a summary row from the explorer.
type Block struct {
	Height    int64     `json:"height"`
	Hash      string    `json:"hash"`
	Proposer  string    `json:"proposer"`
	NumTxs    int       `json:"num_txs"`
	Timestamp time.Time `json:"timestamp"`
}

// Transaction is a summary row from the explorer.
type Transaction struct {
	Hash        string    `json:"hash"`
	BlockHeight int64     `json:"block_height"`
	Type        string    `json:"type"`
	Succeeded   bool      `json:"succeeded"`
	Timestamp   time.Time `json:"timestamp"`
}

// NetworkStats is the chain-wide activity snapshot.
type NetworkStats struct {
	Assets               int     `json:"assets"`
	Addresses            int     `json:"addresses"`
	TxsTotal             int64   `json:"txs_total"`
	INJSupply            float64 `json:"inj_supply"`
	TxsInPast30Days      int64   `json:"txs_in_past_30_days"`
	TxsInPast24Hours     int64   `json:"txs_in_past_24_hours"`
	BlocksInPast24Hours  int64   `json:"blocks_in_past_24_hours"`
	TxsPerSecondIn100Blk float64 `json:"txs_per_second_in_100_blocks"`
}

// WalletInfo is the explorer view of a single address.
type WalletInfo struct {
	Address   string    `json:"address"`
	Balances  []Balance `json:"balances"`
	TxCount   int64     `json:"tx_count"`
	FirstSeen time.Time `json:"first_seen,omitempty"`
}

// TransferResult reports a completed bank send.
type TransferResult struct {
	TxHash       string `json:"tx_hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	Denom        string `json:"denom"`
	AmountRaw    string `json:"amount_raw"`
	AmountHuman  string `json:"amount_human"`
	ExplorerLink string `json:"explorer_link"`
	MintscanLink string `json:"mintscan_link"`
}

// SwapLeg is one market order of a swap route.
type SwapLeg struct {
	MarketID string `json:"market_id"`
	Side     string `json:"side"`
}

// SwapResult reports a completed or simulated DEX swap.
type SwapResult struct {
	TxHash       string    `json:"tx_hash,omitempty"`
	FromSymbol   string    `json:"from_symbol"`
	ToSymbol     string    `json:"to_symbol"`
	AmountHuman  string    `json:"amount_human"`
	Route        []SwapLeg `json:"route"`
	Simulated    bool      `json:"simulated,omitempty"`
	Attempts     int       `json:"attempts"`
	ExplorerLink string    `json:"explorer_link,omitempty"`
}
