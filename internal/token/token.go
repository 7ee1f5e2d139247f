// Package token knows the Injective token universe: the built-in registry,
// denom classification, decimal resolution, and conversion between raw
// base units and human-readable amounts.
package token

import (
	"math/big"
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
)

// Info describes one token the agent can reason about.
type Info struct {
	Symbol      string
	Denom       string
	Decimals    int
	CoinGeckoID string
}

// Registry is the built-in token table keyed by lowercase symbol.
var Registry = map[string]Info{
	"inj":  {Symbol: "INJ", Denom: "inj", Decimals: 18, CoinGeckoID: "injective-protocol"},
	"usdt": {Symbol: "USDT", Denom: "peggy0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6, CoinGeckoID: "tether"},
	"usdc": {Symbol: "USDC", Denom: "peggy0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6, CoinGeckoID: "usd-coin"},
	"wbtc": {Symbol: "WBTC", Denom: "peggy0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8, CoinGeckoID: "wrapped-bitcoin"},
	"weth": {Symbol: "WETH", Denom: "peggy0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18, CoinGeckoID: "ethereum"},
	"atom": {Symbol: "ATOM", Denom: "factory/inj1hdvy6tl89llr69r9pecgz2nkthyregm3u9leh5/atom", Decimals: 6, CoinGeckoID: "cosmos"},
	"osmo": {Symbol: "OSMO", Denom: "factory/inj1hdvy6tl89llr69r9pecgz2nkthyregm3u9leh5/osmo", Decimals: 6, CoinGeckoID: "osmosis"},
	"sei":  {Symbol: "SEI", Denom: "factory/inj1hdvy6tl89llr69r9pecgz2nkthyregm3u9leh5/sei", Decimals: 6, CoinGeckoID: "sei-network"},
	"astro": {Symbol: "ASTRO", Denom: "factory/inj1hdvy6tl89llr69r9pecgz2nkthyregm3u9leh5/astro",
		Decimals: 6, CoinGeckoID: "astroport"},
}

// FallbackRates are last-resort USD quotes used when every price source
// fails. Consumers must flag values derived from them as estimates.
var FallbackRates = map[string]float64{
	"inj":   13.20,
	"usdt":  1.00,
	"usdc":  1.00,
	"wbtc":  62500,
	"weth":  3200,
	"atom":  8.50,
	"osmo":  0.65,
	"sei":   0.55,
	"astro": 0.12,
}

// Lookup resolves a symbol case-insensitively against the registry.
func Lookup(symbol string) (Info, bool) {
	info, ok := Registry[strings.ToLower(strings.TrimSpace(symbol))]
	return info, ok
}

// BySymbolOrDenom resolves either a symbol or a full denom string.
func BySymbolOrDenom(s string) (Info, bool) {
	if info, ok := Lookup(s); ok {
		return info, true
	}
	for _, info := range Registry {
		if info.Denom == s {
			return info, true
		}
	}
	return Info{}, false
}

// Kind classifies a denom by its on-chain origin.
type Kind int

const (
	KindNative Kind = iota
	KindPeggy
	KindFactory
	KindIBC
	KindUnknown
)

// Classify determines where a denom comes from by its prefix.
func Classify(denom string) Kind {
	switch {
	case denom == "inj":
		return KindNative
	case strings.HasPrefix(denom, "peggy0x"):
		return KindPeggy
	case strings.HasPrefix(denom, "factory/"):
		return KindFactory
	case strings.HasPrefix(denom, "ibc/"):
		return KindIBC
	default:
		return KindUnknown
	}
}

// KnownDecimals maps denoms with well-known precision, consulted after
// on-chain metadata and before the default of 6.
var KnownDecimals = map[string]int{
	"inj": 18,
	"peggy0xdAC17F958D2ee523a2206206994597C13D831ec7": 6,
	"peggy0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48": 6,
	"peggy0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599": 8,
	"peggy0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2": 18,
}

// Decimals resolves precision for a denom: explicit metadata exponent wins,
// then the known table, then 6.
func Decimals(denom string, metadataExponent int) int {
	if metadataExponent > 0 {
		return metadataExponent
	}
	if d, ok := KnownDecimals[denom]; ok {
		return d
	}
	return 6
}

// SymbolForDenom derives a display symbol for an arbitrary denom.
func SymbolForDenom(denom string) string {
	if info, ok := BySymbolOrDenom(denom); ok {
		return info.Symbol
	}
	switch Classify(denom) {
	case KindFactory:
		parts := strings.Split(denom, "/")
		return strings.ToUpper(parts[len(parts)-1])
	case KindPeggy:
		return "PEGGY-" + shortHex(strings.TrimPrefix(denom, "peggy"))
	case KindIBC:
		return "IBC-" + shortHex(strings.TrimPrefix(denom, "ibc/"))
	default:
		return strings.ToUpper(denom)
	}
}

func shortHex(s string) string {
	if len(s) <= 10 {
		return s
	}
	return s[:6] + ".." + s[len(s)-4:]
}

// ToHuman converts a raw base-unit amount to a decimal string. An input
// that already contains a decimal point is treated as human-readable and
// returned normalized.
func ToHuman(amount string, decimals int) (string, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "", apierr.New(apierr.CodeInvalidParameter, "empty amount")
	}
	if strings.Contains(amount, ".") {
		return normalizeDecimal(amount)
	}
	n, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return "", apierr.Newf(apierr.CodeInvalidParameter, "invalid raw amount %q", amount)
	}
	return formatUnits(n, decimals), nil
}

// ToRaw converts a human-readable amount to base units. An input with no
// decimal point is treated as a whole-token count and scaled the same way.
func ToRaw(amount string, decimals int) (string, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "", apierr.New(apierr.CodeInvalidParameter, "empty amount")
	}
	if !strings.Contains(amount, ".") {
		if _, ok := new(big.Int).SetString(amount, 10); !ok {
			return "", apierr.Newf(apierr.CodeInvalidParameter, "invalid amount %q", amount)
		}
		return scaleInteger(amount, decimals)
	}
	parts := strings.SplitN(amount, ".", 2)
	whole, frac := parts[0], parts[1]
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))
	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return "", apierr.Newf(apierr.CodeInvalidParameter, "invalid amount %q", amount)
	}
	return n.String(), nil
}

func scaleInteger(amount string, decimals int) (string, error) {
	n, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return "", apierr.Newf(apierr.CodeInvalidParameter, "invalid amount %q", amount)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Int).Mul(n, scale).String(), nil
}

func formatUnits(n *big.Int, decimals int) string {
	neg := n.Sign() < 0
	abs := new(big.Int).Abs(n)
	s := abs.String()
	if decimals == 0 {
		if neg {
			return "-" + s
		}
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	cut := len(s) - decimals
	whole, frac := s[:cut], s[cut:]
	frac = strings.TrimRight(frac, "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out
}

func normalizeDecimal(s string) (string, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.SplitN(s, ".", 2)
	whole := strings.TrimLeft(parts[0], "0")
	if whole == "" {
		whole = "0"
	}
	for _, r := range parts[0] + parts[1] {
		if r < '0' || r > '9' {
			return "", apierr.Newf(apierr.CodeInvalidParameter, "invalid amount %q", s)
		}
	}
	frac := strings.TrimRight(parts[1], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out, nil
}
