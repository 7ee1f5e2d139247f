package app

import (
	"github.com/rs/zerolog"

	"github.com/injhive/injhive/internal/actions"
	"github.com/injhive/injhive/internal/cache"
	"github.com/injhive/injhive/internal/config"
	"github.com/injhive/injhive/internal/extract"
	"github.com/injhive/injhive/internal/gateway"
	"github.com/injhive/injhive/internal/httpx"
	"github.com/injhive/injhive/internal/logging"
	"github.com/injhive/injhive/internal/policy"
	"github.com/injhive/injhive/internal/providers/coingecko"
	"github.com/injhive/injhive/internal/providers/defillama"
	"github.com/injhive/injhive/internal/providers/injective"
	"github.com/injhive/injhive/internal/wallet"
)

// runtime holds everything assembled from settings for one invocation.
type runtime struct {
	settings config.Settings
	log      zerolog.Logger
	registry *actions.Registry
	deps     *actions.Deps
	closers  []func() error
}

// buildRuntime wires providers, gateways and the registry from settings.
func buildRuntime(settings config.Settings) (*runtime, error) {
	log := logging.Setup(settings.LogLevel, settings.LogFormat)

	store, closers, err := buildCache(settings, log)
	if err != nil {
		return nil, err
	}

	client := httpx.New(settings.Timeout, settings.Retries)
	endpoints := config.EndpointsFor(settings.Network)

	chainClient := injective.NewChainClient(client, endpoints.LCD)
	explorerClient := injective.NewExplorer(client, endpoints.Explorer)

	prices := gateway.NewPrices(coingecko.New(client, settings.CoinGeckoAPIKey), store, log)
	tvl := gateway.NewTVL(defillama.New(client, settings.DefiLlamaAPIKey), store, log)
	bank := gateway.NewBank(chainClient, prices, store, log)
	explorer := gateway.NewExplorer(explorerClient, bank, chainClient, log)

	var walletAddr, subaccount string
	if settings.PrivateKey != "" {
		w, werr := wallet.FromHex(settings.PrivateKey)
		if werr != nil {
			return nil, werr
		}
		walletAddr = w.Address()
		subaccount = w.DefaultSubaccount()
	} else if settings.InjPublicKey != "" {
		walletAddr = settings.InjPublicKey
		subaccount = wallet.DefaultSubaccountFor(settings.EVMPublicKey)
	}

	var broadcaster injective.Broadcaster = injective.Unavailable{}
	if settings.Simulate {
		broadcaster = injective.NewSimulator()
	}

	deps := &actions.Deps{
		Prices:     prices,
		TVL:        tvl,
		Bank:       bank,
		Explorer:   explorer,
		Transfers:  gateway.NewTransfers(bank, broadcaster, walletAddr, log),
		Swaps:      gateway.NewSwaps(chainClient, broadcaster, walletAddr, subaccount, log),
		WalletAddr: walletAddr,
		Log:        log,
	}
	if settings.OpenAIAPIKey != "" {
		deps.LLM = extract.NewLLM(settings.OpenAIAPIKey)
	}

	registry := actions.NewRegistry()
	if len(settings.EnableActions) > 0 {
		allowlist := settings.EnableActions
		registry.Policy = func(name string) error {
			return policy.CheckActionAllowed(allowlist, name)
		}
	}

	return &runtime{
		settings: settings,
		log:      log,
		registry: registry,
		deps:     deps,
		closers:  closers,
	}, nil
}

func buildCache(settings config.Settings, log zerolog.Logger) (cache.Cache, []func() error, error) {
	if !settings.CacheEnabled {
		return nil, nil, nil
	}
	switch settings.CacheBackend {
	case "redis":
		r, err := cache.NewRedis(settings.RedisURL, "injhive:")
		if err != nil {
			return nil, nil, err
		}
		return r, []func() error{r.Close}, nil
	case "sqlite":
		s, err := cache.Open(settings.CachePath)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite cache unavailable, falling back to memory")
			return cache.NewMemory(0), nil, nil
		}
		return s, []func() error{s.Close}, nil
	default:
		return cache.NewMemory(0), nil, nil
	}
}

func (rt *runtime) close() {
	for _, c := range rt.closers {
		if err := c(); err != nil {
			rt.log.Debug().Err(err).Msg("close failed")
		}
	}
}
