package injective

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"

	apierr "github.com/injhive/injhive/internal/errors"
)

// SpotMarketOrder is one market order on a Helix spot market.
type SpotMarketOrder struct {
	MarketID     string
	SubaccountID string
	Side         string // "buy" or "sell"
	QuantityRaw  string
}

// Broadcaster signs and submits transactions. Chain writes go through
// this boundary so the trading logic stays testable without a funded key.
type Broadcaster interface {
	SendTokens(ctx context.Context, from, to, denom, amountRaw string) (txHash string, err error)
	DepositToSubaccount(ctx context.Context, sender, subaccountID, denom, amountRaw string) (txHash string, err error)
	PlaceSpotMarketOrder(ctx context.Context, sender string, order SpotMarketOrder) (txHash string, err error)
}

// Simulator is a Broadcaster that performs no chain writes and returns
// deterministic hashes. It backs dry runs and unsigned sessions.
type Simulator struct {
	seq atomic.Int64
}

func NewSimulator() *Simulator { return &Simulator{} }

func (s *Simulator) SendTokens(_ context.Context, from, to, denom, amountRaw string) (string, error) {
	return s.hash("send", from, to, denom, amountRaw), nil
}

func (s *Simulator) DepositToSubaccount(_ context.Context, sender, subaccountID, denom, amountRaw string) (string, error) {
	return s.hash("deposit", sender, subaccountID, denom, amountRaw), nil
}

func (s *Simulator) PlaceSpotMarketOrder(_ context.Context, sender string, order SpotMarketOrder) (string, error) {
	return s.hash("order", sender, order.MarketID, order.Side, order.QuantityRaw), nil
}

func (s *Simulator) hash(parts ...string) string {
	n := s.seq.Add(1)
	sum := sha256.Sum256([]byte(strings.Join(parts, "|") + fmt.Sprintf("|%d", n)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Unavailable is the Broadcaster used when no signing backend is wired.
// Every write fails fast with a clear message.
type Unavailable struct{}

func (Unavailable) SendTokens(context.Context, string, string, string, string) (string, error) {
	return "", errNoSigner()
}

func (Unavailable) DepositToSubaccount(context.Context, string, string, string, string) (string, error) {
	return "", errNoSigner()
}

func (Unavailable) PlaceSpotMarketOrder(context.Context, string, SpotMarketOrder) (string, error) {
	return "", errNoSigner()
}

func errNoSigner() error {
	return apierr.New(apierr.CodeDataNotAvailable, "no signing backend configured, set INJECTIVE_PRIVATE_KEY and a broadcast endpoint")
}
