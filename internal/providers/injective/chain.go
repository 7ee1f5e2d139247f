// Package injective talks to an Injective deployment over its REST
// surfaces: the LCD for chain state, the explorer API for indexed data,
// and a Broadcaster boundary for signed transactions.
package injective

import (
	"context"
	"net/url"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/httpx"
)

// Coin is a denom and raw integer amount as the chain reports it.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// ChainClient reads chain state over the LCD.
type ChainClient struct {
	http *httpx.Client
	lcd  string
}

func NewChainClient(http *httpx.Client, lcdURL string) *ChainClient {
	return &ChainClient{http: http, lcd: lcdURL}
}

type balancesResponse struct {
	Balances []Coin `json:"balances"`
}

// Balances returns every denom held by an address.
func (c *ChainClient) Balances(ctx context.Context, address string) ([]Coin, error) {
	if address == "" {
		return nil, apierr.New(apierr.CodeMissingParameter, "address required")
	}
	var resp balancesResponse
	if err := c.http.GetJSON(ctx, c.lcd, "/cosmos/bank/v1beta1/balances/"+url.PathEscape(address), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Balances, nil
}

// Balance returns the raw amount of a single denom, "0" when absent.
func (c *ChainClient) Balance(ctx context.Context, address, denom string) (string, error) {
	balances, err := c.Balances(ctx, address)
	if err != nil {
		return "", err
	}
	for _, coin := range balances {
		if coin.Denom == denom {
			return coin.Amount, nil
		}
	}
	return "0", nil
}

type denomUnit struct {
	Denom    string `json:"denom"`
	Exponent int    `json:"exponent"`
}

type metadataResponse struct {
	Metadata struct {
		Base       string      `json:"base"`
		Symbol     string      `json:"symbol"`
		DenomUnits []denomUnit `json:"denom_units"`
	} `json:"metadata"`
}

// DenomExponent resolves the display exponent of a denom from on-chain
// metadata. It returns 0 when the chain has no metadata for the denom.
func (c *ChainClient) DenomExponent(ctx context.Context, denom string) (int, error) {
	var resp metadataResponse
	err := c.http.GetJSON(ctx, c.lcd, "/cosmos/bank/v1beta1/denoms_metadata/"+url.PathEscape(denom), nil, nil, &resp)
	if err != nil {
		if apierr.CodeOf(err) == apierr.CodeDataNotAvailable {
			return 0, nil
		}
		return 0, err
	}
	max := 0
	for _, unit := range resp.Metadata.DenomUnits {
		if unit.Exponent > max {
			max = unit.Exponent
		}
	}
	return max, nil
}

type supplyResponse struct {
	Amount Coin `json:"amount"`
}

// Supply returns the raw total supply of a denom.
func (c *ChainClient) Supply(ctx context.Context, denom string) (string, error) {
	q := url.Values{"denom": {denom}}
	var resp supplyResponse
	if err := c.http.GetJSON(ctx, c.lcd, "/cosmos/bank/v1beta1/supply/by_denom", q, nil, &resp); err != nil {
		return "", err
	}
	if resp.Amount.Amount == "" {
		return "0", nil
	}
	return resp.Amount.Amount, nil
}

type depositsResponse struct {
	Deposits map[string]struct {
		AvailableBalance string `json:"available_balance"`
		TotalBalance     string `json:"total_balance"`
	} `json:"deposits"`
}

// SubaccountDeposit returns the available exchange deposit of one denom
// in a subaccount, "0" when the subaccount or denom is absent.
func (c *ChainClient) SubaccountDeposit(ctx context.Context, subaccountID, denom string) (string, error) {
	if subaccountID == "" {
		return "", apierr.New(apierr.CodeMissingParameter, "subaccount id required")
	}
	var resp depositsResponse
	path := "/injective/exchange/v1beta1/exchange/" + url.PathEscape(subaccountID) + "/deposits"
	if err := c.http.GetJSON(ctx, c.lcd, path, nil, nil, &resp); err != nil {
		if apierr.CodeOf(err) == apierr.CodeDataNotAvailable {
			return "0", nil
		}
		return "", err
	}
	dep, ok := resp.Deposits[denom]
	if !ok || dep.AvailableBalance == "" {
		return "0", nil
	}
	return dep.AvailableBalance, nil
}
