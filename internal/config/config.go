// Package config resolves agent settings from defaults, an optional yaml
// file, environment variables, and flags, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Network selects which Injective deployment the agent talks to.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Devnet  Network = "devnet"
	Local   Network = "local"
)

// ParseNetwork maps a user-supplied name onto a known network, defaulting
// to mainnet for empty input.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mainnet":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	case "devnet":
		return Devnet, nil
	case "local":
		return Local, nil
	default:
		return "", fmt.Errorf("unknown network %q", s)
	}
}

// Endpoints are the REST surfaces of one network.
type Endpoints struct {
	LCD      string
	Explorer string
}

var networkEndpoints = map[Network]Endpoints{
	Mainnet: {
		LCD:      "https://sentry.lcd.injective.network",
		Explorer: "https://sentry.explorer.injective.network/api/explorer/v1",
	},
	Testnet: {
		LCD:      "https://testnet.sentry.lcd.injective.network",
		Explorer: "https://testnet.sentry.explorer.injective.network/api/explorer/v1",
	},
	Devnet: {
		LCD:      "https://devnet.lcd.injective.dev",
		Explorer: "https://devnet.explorer.injective.dev/api/explorer/v1",
	},
	Local: {
		LCD:      "http://localhost:10337",
		Explorer: "http://localhost:9911/api/explorer/v1",
	},
}

// EndpointsFor returns the REST endpoints of a network.
func EndpointsFor(n Network) Endpoints { return networkEndpoints[n] }

// GlobalFlags are the persistent cobra flags, applied last.
type GlobalFlags struct {
	ConfigPath    string
	Network       string
	JSON          bool
	Plain         bool
	Timeout       string
	Retries       int
	NoCache       bool
	LogLevel      string
	LogFormat     string
	Listen        string
	EnableActions string
	Simulate      bool
	Select        string
	ResultsOnly   bool
	Strict        bool
}

// Settings is the fully resolved configuration the app runs with.
type Settings struct {
	Network       Network
	OutputMode    string
	Timeout       time.Duration
	Retries       int
	LogLevel      string
	LogFormat     string
	Listen        string
	EnableActions []string
	Simulate      bool
	SelectFields  []string
	ResultsOnly   bool
	Strict        bool

	CacheEnabled bool
	CacheBackend string
	CachePath    string
	RedisURL     string

	PrivateKey      string
	EVMPublicKey    string
	InjPublicKey    string
	CoinGeckoAPIKey string
	DefiLlamaAPIKey string
	OpenAIAPIKey    string
}

type fileConfig struct {
	Network   string `yaml:"network"`
	Output    string `yaml:"output"`
	Timeout   string `yaml:"timeout"`
	Retries   *int   `yaml:"retries"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Listen    string `yaml:"listen"`
	Cache     struct {
		Enabled *bool  `yaml:"enabled"`
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
		Redis   string `yaml:"redis_url"`
	} `yaml:"cache"`
	Providers struct {
		CoinGecko struct {
			APIKey    string `yaml:"api_key"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"coingecko"`
		DefiLlama struct {
			APIKey    string `yaml:"api_key"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"defillama"`
		OpenAI struct {
			APIKey    string `yaml:"api_key"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"openai"`
	} `yaml:"providers"`
}

// Load resolves settings: defaults, then yaml file, then environment,
// then flags.
func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	if err := applyEnv(&settings); err != nil {
		return Settings{}, err
	}

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	cachePath, err := defaultCachePath()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Network:      Mainnet,
		OutputMode:   "plain",
		Timeout:      10 * time.Second,
		Retries:      2,
		LogLevel:     "warn",
		LogFormat:    "console",
		Listen:       ":8085",
		CacheEnabled: true,
		CacheBackend: "memory",
		CachePath:    cachePath,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "injhive", "config.yaml"), nil
}

func defaultCachePath() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "injhive", "cache.db"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Network != "" {
		n, err := ParseNetwork(cfg.Network)
		if err != nil {
			return fmt.Errorf("config network: %w", err)
		}
		settings.Network = n
	}
	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Retries != nil {
		settings.Retries = *cfg.Retries
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		settings.LogFormat = cfg.LogFormat
	}
	if cfg.Listen != "" {
		settings.Listen = cfg.Listen
	}
	if cfg.Cache.Enabled != nil {
		settings.CacheEnabled = *cfg.Cache.Enabled
	}
	if cfg.Cache.Backend != "" {
		settings.CacheBackend = strings.ToLower(cfg.Cache.Backend)
	}
	if cfg.Cache.Path != "" {
		settings.CachePath = cfg.Cache.Path
	}
	if cfg.Cache.Redis != "" {
		settings.RedisURL = cfg.Cache.Redis
	}
	if cfg.Providers.CoinGecko.APIKey != "" {
		settings.CoinGeckoAPIKey = cfg.Providers.CoinGecko.APIKey
	}
	if cfg.Providers.CoinGecko.APIKeyEnv != "" {
		settings.CoinGeckoAPIKey = os.Getenv(cfg.Providers.CoinGecko.APIKeyEnv)
	}
	if cfg.Providers.DefiLlama.APIKey != "" {
		settings.DefiLlamaAPIKey = cfg.Providers.DefiLlama.APIKey
	}
	if cfg.Providers.DefiLlama.APIKeyEnv != "" {
		settings.DefiLlamaAPIKey = os.Getenv(cfg.Providers.DefiLlama.APIKeyEnv)
	}
	if cfg.Providers.OpenAI.APIKey != "" {
		settings.OpenAIAPIKey = cfg.Providers.OpenAI.APIKey
	}
	if cfg.Providers.OpenAI.APIKeyEnv != "" {
		settings.OpenAIAPIKey = os.Getenv(cfg.Providers.OpenAI.APIKeyEnv)
	}
	return nil
}

func applyEnv(settings *Settings) error {
	if v := os.Getenv("INJECTIVE_NETWORK"); v != "" {
		n, err := ParseNetwork(v)
		if err != nil {
			return err
		}
		settings.Network = n
	}
	if v := os.Getenv("INJECTIVE_PRIVATE_KEY"); v != "" {
		settings.PrivateKey = v
	}
	if v := os.Getenv("EVM_PUBLIC_KEY"); v != "" {
		settings.EVMPublicKey = v
	}
	if v := os.Getenv("INJECTIVE_PUBLIC_KEY"); v != "" {
		settings.InjPublicKey = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		settings.CoinGeckoAPIKey = v
	}
	if v := os.Getenv("DEFILLAMA_API_KEY"); v != "" {
		settings.DefiLlamaAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		settings.OpenAIAPIKey = v
	}
	if v := os.Getenv("INJHIVE_OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
	if v := os.Getenv("INJHIVE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv("INJHIVE_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Retries = n
		}
	}
	if v := os.Getenv("INJHIVE_LOG_LEVEL"); v != "" {
		settings.LogLevel = v
	}
	if v := os.Getenv("INJHIVE_LOG_FORMAT"); v != "" {
		settings.LogFormat = v
	}
	if v := os.Getenv("INJHIVE_LISTEN"); v != "" {
		settings.Listen = v
	}
	if v := os.Getenv("INJHIVE_NO_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.CacheEnabled = !b
		}
	}
	if v := os.Getenv("INJHIVE_CACHE_BACKEND"); v != "" {
		settings.CacheBackend = strings.ToLower(v)
	}
	if v := os.Getenv("INJHIVE_CACHE_PATH"); v != "" {
		settings.CachePath = v
	}
	if v := os.Getenv("INJHIVE_REDIS_URL"); v != "" {
		settings.RedisURL = v
		settings.CacheBackend = "redis"
	}
	if v := os.Getenv("INJHIVE_ENABLE_ACTIONS"); v != "" {
		settings.EnableActions = splitList(v)
	}
	if v := os.Getenv("INJHIVE_SIMULATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.Simulate = b
		}
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return fmt.Errorf("cannot use --json and --plain together")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	if flags.Network != "" {
		n, err := ParseNetwork(flags.Network)
		if err != nil {
			return err
		}
		settings.Network = n
	}
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("parse --timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.Retries >= 0 {
		settings.Retries = flags.Retries
	}
	if flags.NoCache {
		settings.CacheEnabled = false
	}
	if flags.LogLevel != "" {
		settings.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		settings.LogFormat = flags.LogFormat
	}
	if flags.Listen != "" {
		settings.Listen = flags.Listen
	}
	if strings.TrimSpace(flags.EnableActions) != "" {
		settings.EnableActions = splitList(flags.EnableActions)
	}
	if flags.Simulate {
		settings.Simulate = true
	}
	if strings.TrimSpace(flags.Select) != "" {
		settings.SelectFields = splitList(flags.Select)
	}
	if flags.ResultsOnly {
		settings.ResultsOnly = true
	}
	if flags.Strict {
		settings.Strict = true
	}

	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return fmt.Errorf("output must be json or plain")
	}
	switch settings.CacheBackend {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("cache backend must be memory, redis or sqlite")
	}
	return nil
}
