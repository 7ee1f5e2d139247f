package actions

import (
	"context"
	"fmt"
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/extract"
	"github.com/injhive/injhive/internal/model"
)

var transferINJAction = Action{
	Name:        "TRANSFER_INJ",
	Description: "Send INJ from the configured wallet to an address",
	Similes:     []string{"send inj", "transfer inj"},
	Examples:    []string{"send 1.5 INJ to inj1..."},
	Match: func(text string) bool {
		if !containsAny(text, "send", "transfer", "pay") {
			return false
		}
		if _, hasAddr := extract.Address(text); !hasAddr {
			return false
		}
		_, sym, ok := extract.Amount(text, knownSymbols())
		return ok && sym == "inj"
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		dest, ok := extract.Address(text)
		if !ok {
			return nil, apierr.New(apierr.CodeMissingParameter, "where should I send it? Include an inj1 address")
		}
		amount, _, ok := extract.Amount(text, []string{"inj"})
		if !ok {
			return nil, apierr.New(apierr.CodeMissingParameter, "how much INJ should I send?")
		}

		res, err := d.Transfers.Send(ctx, dest, "inj", amount)
		if err != nil {
			return nil, err
		}
		reply := fmt.Sprintf(
			"Sent **%s INJ** to `%s`.\nTransaction: %s\nMintscan: %s",
			res.AmountHuman, shorten(dest), res.ExplorerLink, res.MintscanLink,
		)
		return &Result{Reply: reply, Response: model.Ok(res)}, nil
	},
}

var transferAction = Action{
	Name:        "TRANSFER_TOKEN",
	Description: "Send tokens from the configured wallet to an address",
	Similes:     []string{"send", "transfer", "pay"},
	Examples:    []string{"send 1.5 INJ to inj1...", "transfer 20 usdt to inj1..."},
	Match: func(text string) bool {
		if !containsAny(text, "send", "transfer", "pay") {
			return false
		}
		_, hasAddr := extract.Address(text)
		return hasAddr
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		dest, ok := extract.Address(text)
		if !ok {
			return nil, apierr.New(apierr.CodeMissingParameter, "where should I send it? Include an inj1 address")
		}
		amount, sym, ok := extract.Amount(text, knownSymbols())
		if !ok {
			return nil, apierr.New(apierr.CodeMissingParameter, "how much, and which token? e.g. \"send 1.5 INJ to inj1...\"")
		}

		res, err := d.Transfers.Send(ctx, dest, sym, amount)
		if err != nil {
			return nil, err
		}
		reply := fmt.Sprintf(
			"Sent **%s %s** to `%s`.\nTransaction: %s\nMintscan: %s",
			res.AmountHuman, strings.ToUpper(sym), shorten(dest), res.ExplorerLink, res.MintscanLink,
		)
		return &Result{Reply: reply, Response: model.Ok(res)}, nil
	},
}

var swapAction = Action{
	Name:        "SWAP_TOKENS",
	Description: "Swap one token for another on Helix spot markets",
	Similes:     []string{"swap", "trade", "exchange", "convert"},
	Examples:    []string{"swap 10 INJ for USDT", "simulate swap 0.5 weth to wbtc"},
	Match: func(text string) bool {
		_, ok := extract.Swap(text)
		return ok
	},
	Handle: func(ctx context.Context, d *Deps, text string) (*Result, error) {
		req, ok := extract.Swap(text)
		if !ok {
			return nil, apierr.New(apierr.CodeMissingParameter, "tell me the swap like \"swap 10 INJ for USDT\"")
		}
		simulate := extract.WantsSimulation(text)

		res, err := d.Swaps.Swap(ctx, req.From, req.To, req.Amount, simulate)
		if err != nil {
			return nil, err
		}

		if res.Simulated {
			reply := fmt.Sprintf(
				"Simulated swap of **%s %s** to **%s**: %d market leg(s), no transaction sent.",
				res.AmountHuman, res.FromSymbol, res.ToSymbol, len(res.Route),
			)
			return &Result{Reply: reply, Response: model.Ok(res)}, nil
		}
		reply := fmt.Sprintf(
			"Swapped **%s %s** for **%s** in %d leg(s).\nTransaction: %s",
			res.AmountHuman, res.FromSymbol, res.ToSymbol, len(res.Route), res.ExplorerLink,
		)
		if res.Attempts > len(res.Route) {
			reply += fmt.Sprintf("\n(took %d attempts)", res.Attempts)
		}
		return &Result{Reply: reply, Response: model.Ok(res)}, nil
	},
}
