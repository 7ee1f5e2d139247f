package gateway

import (
	"context"
	"math/big"
	"strings"

	"github.com/rs/zerolog"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/providers/injective"
	"github.com/injhive/injhive/internal/token"
	"github.com/injhive/injhive/internal/wallet"
)

// gasBufferRaw is 0.001 INJ kept aside for fees on every INJ transfer.
const gasBufferRaw = "1000000000000000"

// Transfers validates and submits bank sends. Failed sends are not
// retried, a transfer must never run twice.
type Transfers struct {
	bank        *Bank
	broadcaster injective.Broadcaster
	sender      string
	log         zerolog.Logger
}

func NewTransfers(bank *Bank, broadcaster injective.Broadcaster, sender string, log zerolog.Logger) *Transfers {
	return &Transfers{bank: bank, broadcaster: broadcaster, sender: sender, log: log}
}

// Send transfers amountHuman of a token from the configured wallet to
// destination after validating the address, the self-send rule, and the
// spendable balance.
func (t *Transfers) Send(ctx context.Context, destination, symbolOrDenom, amountHuman string) (model.TransferResult, error) {
	if t.sender == "" {
		return model.TransferResult{}, apierr.New(apierr.CodeMissingParameter, "no sending wallet configured")
	}
	if destination == "" {
		return model.TransferResult{}, apierr.New(apierr.CodeMissingParameter, "destination address required")
	}
	if !wallet.IsValidAddress(destination) {
		return model.TransferResult{}, apierr.Newf(apierr.CodeInvalidParameter, "invalid destination address %q", destination)
	}
	if strings.EqualFold(destination, t.sender) {
		return model.TransferResult{}, apierr.New(apierr.CodeInvalidParameter, "destination equals the sending wallet")
	}

	info, ok := token.BySymbolOrDenom(symbolOrDenom)
	if !ok {
		return model.TransferResult{}, apierr.Newf(apierr.CodeInvalidParameter, "unknown token %q", symbolOrDenom)
	}
	amountRaw, err := token.ToRaw(amountHuman, info.Decimals)
	if err != nil {
		return model.TransferResult{}, err
	}
	amount, ok := new(big.Int).SetString(amountRaw, 10)
	if !ok || amount.Sign() <= 0 {
		return model.TransferResult{}, apierr.Newf(apierr.CodeInvalidParameter, "amount must be positive, got %q", amountHuman)
	}

	if err := t.checkSpendable(ctx, info, amount); err != nil {
		return model.TransferResult{}, err
	}

	txHash, err := t.broadcaster.SendTokens(ctx, t.sender, destination, info.Denom, amountRaw)
	if err != nil {
		return model.TransferResult{}, apierr.Wrap(apierr.CodeAPIError, "broadcast transfer", err)
	}
	t.log.Info().Str("tx", txHash).Str("to", destination).Str("denom", info.Denom).Msg("transfer submitted")

	human, _ := token.ToHuman(amountRaw, info.Decimals)
	return model.TransferResult{
		TxHash:       txHash,
		From:         t.sender,
		To:           destination,
		Denom:        info.Denom,
		AmountRaw:    amountRaw,
		AmountHuman:  human,
		ExplorerLink: injective.TxLink(txHash),
		MintscanLink: injective.MintscanLink(txHash),
	}, nil
}

// checkSpendable verifies the wallet covers amount, plus the gas buffer
// when sending the fee denom itself.
func (t *Transfers) checkSpendable(ctx context.Context, info token.Info, amount *big.Int) error {
	balanceRaw, err := t.bank.reader.Balance(ctx, t.sender, info.Denom)
	if err != nil {
		return err
	}
	balance, ok := new(big.Int).SetString(balanceRaw, 10)
	if !ok {
		return apierr.Newf(apierr.CodeAPIError, "unreadable balance %q", balanceRaw)
	}

	required := new(big.Int).Set(amount)
	if info.Denom == "inj" {
		buffer, _ := new(big.Int).SetString(gasBufferRaw, 10)
		required.Add(required, buffer)
	}
	if balance.Cmp(required) < 0 {
		have, _ := token.ToHuman(balanceRaw, info.Decimals)
		need, _ := token.ToHuman(required.String(), info.Decimals)
		return apierr.Newf(apierr.CodeInvalidParameter,
			"insufficient %s balance: have %s, need %s including gas", info.Symbol, have, need)
	}
	return nil
}
