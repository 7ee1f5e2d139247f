package gateway

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/providers/injective"
	"github.com/injhive/injhive/internal/token"
	"github.com/injhive/injhive/internal/wallet"

	apierr "github.com/injhive/injhive/internal/errors"
)

// ExplorerReader reads indexed chain data.
type ExplorerReader interface {
	LatestBlocks(ctx context.Context, limit int) ([]injective.BlockRow, error)
	LatestTransactions(ctx context.Context, limit int) ([]injective.TxRow, error)
	AccountTxCount(ctx context.Context, address string) (int64, error)
	NetworkStats(ctx context.Context) (injective.Stats, error)
}

// SupplyReader reads total supply from the bank module.
type SupplyReader interface {
	Supply(ctx context.Context, denom string) (string, error)
}

// Explorer serves block, transaction, wallet and network views.
type Explorer struct {
	reader ExplorerReader
	bank   *Bank
	supply SupplyReader
	log    zerolog.Logger
}

func NewExplorer(reader ExplorerReader, bank *Bank, supply SupplyReader, log zerolog.Logger) *Explorer {
	return &Explorer{reader: reader, bank: bank, supply: supply, log: log}
}

// LatestBlocks returns recent blocks. An empty or failed indexer answer
// degrades to sample rows so the conversation can continue.
func (e *Explorer) LatestBlocks(ctx context.Context, limit int) ([]model.Block, bool, error) {
	rows, err := e.reader.LatestBlocks(ctx, limit)
	if err != nil || len(rows) == 0 {
		e.log.Warn().Err(err).Msg("explorer blocks unavailable, serving samples")
		return sampleBlocks(), true, nil
	}
	out := make([]model.Block, len(rows))
	for i, r := range rows {
		out[i] = model.Block{
			Height:    r.Height,
			Hash:      r.Hash,
			Proposer:  r.Proposer,
			NumTxs:    r.NumTxs,
			Timestamp: r.Timestamp,
		}
	}
	return out, false, nil
}

// LatestTransactions returns recent transactions with the same sample
// degradation as LatestBlocks.
func (e *Explorer) LatestTransactions(ctx context.Context, limit int) ([]model.Transaction, bool, error) {
	rows, err := e.reader.LatestTransactions(ctx, limit)
	if err != nil || len(rows) == 0 {
		e.log.Warn().Err(err).Msg("explorer txs unavailable, serving samples")
		return sampleTransactions(), true, nil
	}
	out := make([]model.Transaction, len(rows))
	for i, r := range rows {
		out[i] = model.Transaction{
			Hash:        r.Hash,
			BlockHeight: r.BlockNumber,
			Type:        r.TxType,
			Succeeded:   r.Code == 0,
			Timestamp:   r.Timestamp,
		}
	}
	return out, false, nil
}

// WalletInfo combines balances with the address's explorer activity.
func (e *Explorer) WalletInfo(ctx context.Context, address string) (model.WalletInfo, error) {
	if !wallet.IsValidAddress(address) {
		return model.WalletInfo{}, apierr.Newf(apierr.CodeInvalidParameter, "invalid Injective address %q", address)
	}
	balances, err := e.bank.Balances(ctx, address)
	if err != nil {
		return model.WalletInfo{}, err
	}
	info := model.WalletInfo{Address: address, Balances: balances}
	if count, cerr := e.reader.AccountTxCount(ctx, address); cerr == nil {
		info.TxCount = count
	} else {
		e.log.Debug().Err(cerr).Msg("tx count unavailable")
	}
	return info, nil
}

// NetworkStats returns the chain activity snapshot with INJ supply in
// human units.
func (e *Explorer) NetworkStats(ctx context.Context) (model.NetworkStats, error) {
	stats, err := e.reader.NetworkStats(ctx)
	if err != nil {
		return model.NetworkStats{}, err
	}
	out := model.NetworkStats{
		Assets:               stats.Assets,
		Addresses:            stats.Addresses,
		TxsTotal:             stats.TxsTotal,
		TxsInPast30Days:      stats.TxsInPast30Days,
		TxsInPast24Hours:     stats.TxsInPast24Hours,
		BlocksInPast24Hours:  stats.BlocksInPast24Hours,
		TxsPerSecondIn100Blk: stats.TxsPerSecondIn100Blk,
	}
	raw := stats.INJSupplyRaw
	if raw == "" && e.supply != nil {
		// The indexer omits supply on some networks; the bank module
		// always has it.
		if fromBank, serr := e.supply.Supply(ctx, "inj"); serr == nil {
			raw = fromBank
		} else {
			e.log.Debug().Err(serr).Msg("bank supply unavailable")
		}
	}
	if human, herr := token.ToHuman(raw, 18); herr == nil {
		if f, ok := parseFloat(human); ok {
			out.INJSupply = f
		}
	}
	return out, nil
}

func sampleBlocks() []model.Block {
	now := time.Now().UTC().Truncate(time.Minute)
	return []model.Block{
		{Height: 43_215_601, Hash: "0x1f6c0f9c", Proposer: "InjectiveNode0", NumTxs: 7, Timestamp: now.Add(-2 * time.Second)},
		{Height: 43_215_600, Hash: "0x8a42be11", Proposer: "InjectiveNode2", NumTxs: 3, Timestamp: now.Add(-4 * time.Second)},
		{Height: 43_215_599, Hash: "0xd90137aa", Proposer: "InjectiveNode1", NumTxs: 12, Timestamp: now.Add(-6 * time.Second)},
	}
}

func sampleTransactions() []model.Transaction {
	now := time.Now().UTC().Truncate(time.Minute)
	return []model.Transaction{
		{Hash: "B5C1A0F2D3E4C5B6A7988776655443322110FFEEDDCCBBAA0099887766554433", BlockHeight: 43_215_601, Type: "cosmos.bank.v1beta1.MsgSend", Succeeded: true, Timestamp: now.Add(-3 * time.Second)},
		{Hash: "A1B2C3D4E5F60718293A4B5C6D7E8F90A1B2C3D4E5F60718293A4B5C6D7E8F90", BlockHeight: 43_215_600, Type: "injective.exchange.v1beta1.MsgCreateSpotMarketOrder", Succeeded: true, Timestamp: now.Add(-5 * time.Second)},
	}
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
