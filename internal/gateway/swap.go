package gateway

import (
	"context"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/providers/injective"
	"github.com/injhive/injhive/internal/token"
)

const (
	// minGasRaw is the 0.002 INJ bank balance required before trading.
	minGasRaw = "2000000000000000"
	// seedDepositRaw is 0.001 INJ deposited to provision an empty
	// subaccount before the first order.
	seedDepositRaw = "1000000000000000"

	swapAttempts  = 3
	swapPause     = 2 * time.Second
	depositPoll   = 500 * time.Millisecond
	depositWindow = 15 * time.Second
)

// SubaccountReader reads exchange deposits, satisfied by the chain client.
type SubaccountReader interface {
	Balance(ctx context.Context, address, denom string) (string, error)
	SubaccountDeposit(ctx context.Context, subaccountID, denom string) (string, error)
}

// Swaps executes market swaps on Helix spot markets: route planning,
// subaccount provisioning, and order placement with bounded retries.
type Swaps struct {
	reader      SubaccountReader
	broadcaster injective.Broadcaster
	sender      string
	subaccount  string
	log         zerolog.Logger

	// sleep is swapped out in tests.
	sleep func(context.Context, time.Duration) error
}

func NewSwaps(reader SubaccountReader, broadcaster injective.Broadcaster, sender, subaccount string, log zerolog.Logger) *Swaps {
	return &Swaps{
		reader:      reader,
		broadcaster: broadcaster,
		sender:      sender,
		subaccount:  subaccount,
		log:         log,
		sleep:       sleepCtx,
	}
}

// Swap trades amountHuman of from into to. With simulate set, the route
// is planned and returned without touching the chain.
func (s *Swaps) Swap(ctx context.Context, from, to, amountHuman string, simulate bool) (model.SwapResult, error) {
	hops, err := token.Route(from, to)
	if err != nil {
		return model.SwapResult{}, err
	}
	fromInfo, ok := token.Lookup(from)
	if !ok {
		return model.SwapResult{}, apierr.Newf(apierr.CodeInvalidParameter, "unknown token %q", from)
	}
	toInfo, ok := token.Lookup(to)
	if !ok {
		return model.SwapResult{}, apierr.Newf(apierr.CodeInvalidParameter, "unknown token %q", to)
	}
	amountRaw, err := token.ToRaw(amountHuman, fromInfo.Decimals)
	if err != nil {
		return model.SwapResult{}, err
	}
	if n, ok := new(big.Int).SetString(amountRaw, 10); !ok || n.Sign() <= 0 {
		return model.SwapResult{}, apierr.Newf(apierr.CodeInvalidParameter, "amount must be positive, got %q", amountHuman)
	}

	result := model.SwapResult{
		FromSymbol:  fromInfo.Symbol,
		ToSymbol:    toInfo.Symbol,
		AmountHuman: amountHuman,
	}
	for _, hop := range hops {
		result.Route = append(result.Route, model.SwapLeg{MarketID: hop.Market.ID, Side: hop.Side})
	}

	if simulate {
		result.Simulated = true
		return result, nil
	}
	if s.sender == "" {
		return model.SwapResult{}, apierr.New(apierr.CodeMissingParameter, "no trading wallet configured")
	}

	if err := s.checkFunds(ctx, fromInfo, amountRaw); err != nil {
		return model.SwapResult{}, err
	}
	if err := s.checkGas(ctx); err != nil {
		return model.SwapResult{}, err
	}
	if err := s.provisionSubaccount(ctx); err != nil {
		return model.SwapResult{}, err
	}

	var txHash string
	for i, hop := range hops {
		order := injective.SpotMarketOrder{
			MarketID:     hop.Market.ID,
			SubaccountID: s.subaccount,
			Side:         hop.Side,
			QuantityRaw:  amountRaw,
		}
		hash, attempts, err := s.placeWithRetry(ctx, order)
		result.Attempts += attempts
		if err != nil {
			return model.SwapResult{}, apierr.Wrap(apierr.CodeAPIError, "place market order", err)
		}
		txHash = hash
		s.log.Info().Str("tx", hash).Str("market", hop.Market.ID).Int("leg", i+1).Msg("swap leg filled")
	}

	result.TxHash = txHash
	result.ExplorerLink = injective.TxLink(txHash)
	return result, nil
}

// placeWithRetry submits one order up to swapAttempts times with a fixed
// pause between attempts. Success means a transaction hash came back.
func (s *Swaps) placeWithRetry(ctx context.Context, order injective.SpotMarketOrder) (string, int, error) {
	var lastErr error
	for attempt := 1; attempt <= swapAttempts; attempt++ {
		hash, err := s.broadcaster.PlaceSpotMarketOrder(ctx, s.sender, order)
		if err == nil && hash != "" {
			return hash, attempt, nil
		}
		if err == nil {
			err = apierr.New(apierr.CodeAPIError, "order returned no transaction hash")
		}
		lastErr = err
		s.log.Warn().Err(err).Int("attempt", attempt).Str("market", order.MarketID).Msg("order attempt failed")
		if attempt < swapAttempts {
			if serr := s.sleep(ctx, swapPause); serr != nil {
				return "", attempt, serr
			}
		}
	}
	return "", swapAttempts, lastErr
}

// checkFunds requires the trading wallet to hold the full source amount.
func (s *Swaps) checkFunds(ctx context.Context, info token.Info, amountRaw string) error {
	balanceRaw, err := s.reader.Balance(ctx, s.sender, info.Denom)
	if err != nil {
		return err
	}
	balance, ok := new(big.Int).SetString(balanceRaw, 10)
	if !ok {
		return apierr.Newf(apierr.CodeAPIError, "unreadable balance %q", balanceRaw)
	}
	need, _ := new(big.Int).SetString(amountRaw, 10)
	if balance.Cmp(need) < 0 {
		have, herr := token.ToHuman(balanceRaw, info.Decimals)
		if herr != nil {
			have = balanceRaw
		}
		return apierr.Newf(apierr.CodeInvalidParameter, "insufficient %s balance: have %s", info.Symbol, have)
	}
	return nil
}

// checkGas requires the trading wallet to hold at least 0.002 INJ for fees.
func (s *Swaps) checkGas(ctx context.Context) error {
	balanceRaw, err := s.reader.Balance(ctx, s.sender, "inj")
	if err != nil {
		return err
	}
	balance, ok := new(big.Int).SetString(balanceRaw, 10)
	if !ok {
		return apierr.Newf(apierr.CodeAPIError, "unreadable balance %q", balanceRaw)
	}
	minGas, _ := new(big.Int).SetString(minGasRaw, 10)
	if balance.Cmp(minGas) < 0 {
		return apierr.New(apierr.CodeInvalidParameter, "at least 0.002 INJ is needed for gas")
	}
	return nil
}

// provisionSubaccount seeds an empty default subaccount with 0.001 INJ
// and polls until the deposit is visible.
func (s *Swaps) provisionSubaccount(ctx context.Context) error {
	deposit, err := s.reader.SubaccountDeposit(ctx, s.subaccount, "inj")
	if err != nil {
		return err
	}
	if n, ok := new(big.Int).SetString(deposit, 10); ok && n.Sign() > 0 {
		return nil
	}

	s.log.Info().Str("subaccount", s.subaccount).Msg("seeding empty subaccount")
	if _, err := s.broadcaster.DepositToSubaccount(ctx, s.sender, s.subaccount, "inj", seedDepositRaw); err != nil {
		return apierr.Wrap(apierr.CodeAPIError, "seed subaccount", err)
	}

	polls := int(depositWindow / depositPoll)
	for i := 0; i < polls; i++ {
		if err := s.sleep(ctx, depositPoll); err != nil {
			return err
		}
		deposit, err := s.reader.SubaccountDeposit(ctx, s.subaccount, "inj")
		if err != nil {
			s.log.Debug().Err(err).Msg("deposit poll failed")
			continue
		}
		if n, ok := new(big.Int).SetString(deposit, 10); ok && n.Sign() > 0 {
			return nil
		}
	}
	return apierr.New(apierr.CodeAPIError, "subaccount deposit not visible within 15s")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return apierr.Wrap(apierr.CodeAPIError, "cancelled", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
