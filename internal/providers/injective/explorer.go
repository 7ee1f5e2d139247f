package injective

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/injhive/injhive/internal/httpx"
)

// Explorer reads indexed chain data from the explorer API.
type Explorer struct {
	http *httpx.Client
	base string
}

func NewExplorer(http *httpx.Client, baseURL string) *Explorer {
	return &Explorer{http: http, base: baseURL}
}

// BlockRow is one block as the explorer reports it.
type BlockRow struct {
	Height    int64     `json:"height"`
	Hash      string    `json:"block_hash"`
	Proposer  string    `json:"proposer"`
	NumTxs    int       `json:"num_txs"`
	Timestamp time.Time `json:"timestamp"`
}

type blocksResponse struct {
	Data []BlockRow `json:"data"`
}

// LatestBlocks returns the most recent blocks, newest first.
func (e *Explorer) LatestBlocks(ctx context.Context, limit int) ([]BlockRow, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var resp blocksResponse
	if err := e.http.GetJSON(ctx, e.base, "/blocks", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// TxRow is one transaction as the explorer reports it.
type TxRow struct {
	Hash        string    `json:"hash"`
	BlockNumber int64     `json:"block_number"`
	TxType      string    `json:"tx_type"`
	Code        int       `json:"code"`
	Timestamp   time.Time `json:"block_timestamp"`
}

type txsResponse struct {
	Data []TxRow `json:"data"`
}

// LatestTransactions returns the most recent transactions, newest first.
func (e *Explorer) LatestTransactions(ctx context.Context, limit int) ([]TxRow, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var resp txsResponse
	if err := e.http.GetJSON(ctx, e.base, "/txs", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AccountTxCount returns how many transactions an address has submitted.
func (e *Explorer) AccountTxCount(ctx context.Context, address string) (int64, error) {
	q := url.Values{"limit": {"1"}}
	var resp struct {
		Paging struct {
			Total int64 `json:"total"`
		} `json:"paging"`
	}
	if err := e.http.GetJSON(ctx, e.base, "/accountTxs/"+url.PathEscape(address), q, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Paging.Total, nil
}

// Stats is the chain activity snapshot from the explorer.
type Stats struct {
	Assets               int     `json:"assets"`
	Addresses            int     `json:"addresses"`
	TxsTotal             int64   `json:"txs_total"`
	INJSupplyRaw         string  `json:"inj_supply"`
	TxsInPast30Days      int64   `json:"txs_in_past_30_days"`
	TxsInPast24Hours     int64   `json:"txs_in_past_24_hours"`
	BlocksInPast24Hours  int64   `json:"block_count_in_past_24_hours"`
	TxsPerSecondIn100Blk float64 `json:"txs_per_second_in_100_blocks"`
}

// NetworkStats returns the explorer's chain-wide counters.
func (e *Explorer) NetworkStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := e.http.GetJSON(ctx, e.base, "/stats", nil, nil, &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Explorer link bases for rendered responses.
const (
	ExplorerTxURL = "https://explorer.injective.network/transaction/"
	MintscanTxURL = "https://www.mintscan.io/injective/txs/"
)

// TxLink builds the public explorer link for a transaction hash.
func TxLink(hash string) string { return ExplorerTxURL + hash }

// MintscanLink builds the Mintscan link for a transaction hash.
func MintscanLink(hash string) string { return MintscanTxURL + hash }
