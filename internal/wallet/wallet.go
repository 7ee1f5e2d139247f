// Package wallet handles the agent's signing identity: private key
// loading, Injective bech32 addresses, and default subaccount derivation.
package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	apierr "github.com/injhive/injhive/internal/errors"
)

// Bech32Prefix is the account prefix on every Injective network.
const Bech32Prefix = "inj"

// Wallet wraps a loaded private key and its derived addresses.
type Wallet struct {
	priv    *ecdsa.PrivateKey
	ethAddr common.Address
	injAddr string
}

// FromHex parses a hex-encoded secp256k1 private key, with or without a
// 0x prefix.
func FromHex(key string) (*Wallet, error) {
	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "0x"))
	if key == "" {
		return nil, apierr.New(apierr.CodeMissingParameter, "private key not configured")
	}
	priv, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeInvalidParameter, "parse private key", err)
	}
	ethAddr := crypto.PubkeyToAddress(priv.PublicKey)
	injAddr, err := EncodeAddress(ethAddr.Bytes())
	if err != nil {
		return nil, err
	}
	return &Wallet{priv: priv, ethAddr: ethAddr, injAddr: injAddr}, nil
}

// PrivateKey exposes the raw key for transaction signing.
func (w *Wallet) PrivateKey() *ecdsa.PrivateKey { return w.priv }

// EthAddress is the 0x form of the account.
func (w *Wallet) EthAddress() string { return w.ethAddr.Hex() }

// Address is the inj1 bech32 form of the account.
func (w *Wallet) Address() string { return w.injAddr }

// DefaultSubaccount derives the first derivatives subaccount of the
// wallet: the lowercase eth address without 0x, padded with 24 zeros.
func (w *Wallet) DefaultSubaccount() string {
	return DefaultSubaccountFor(w.ethAddr.Hex())
}

// DefaultSubaccountFor builds the default subaccount id for an eth-hex
// address. An empty address yields the 64-zero subaccount.
func DefaultSubaccountFor(ethHex string) string {
	ethHex = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ethHex), "0x"))
	if ethHex == "" {
		return strings.Repeat("0", 64)
	}
	return ethHex + strings.Repeat("0", 24)
}

// EncodeAddress converts 20 raw account bytes into an inj1 address.
func EncodeAddress(raw []byte) (string, error) {
	converted, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", apierr.Wrap(apierr.CodeInternal, "convert address bits", err)
	}
	addr, err := bech32.Encode(Bech32Prefix, converted)
	if err != nil {
		return "", apierr.Wrap(apierr.CodeInternal, "encode bech32 address", err)
	}
	return addr, nil
}

// DecodeAddress validates an inj1 address and returns the 20 account bytes.
func DecodeAddress(addr string) ([]byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeInvalidParameter, "decode address", err)
	}
	if hrp != Bech32Prefix {
		return nil, apierr.Newf(apierr.CodeInvalidParameter, "address prefix %q is not %q", hrp, Bech32Prefix)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeInvalidParameter, "convert address bits", err)
	}
	if len(raw) != 20 {
		return nil, apierr.Newf(apierr.CodeInvalidParameter, "address payload is %d bytes, want 20", len(raw))
	}
	return raw, nil
}

// IsValidAddress reports whether addr is a well-formed inj1 address.
func IsValidAddress(addr string) bool {
	_, err := DecodeAddress(addr)
	return err == nil
}

// EthHexFor converts an inj1 address to its 0x hex form.
func EthHexFor(addr string) (string, error) {
	raw, err := DecodeAddress(addr)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(raw), nil
}
