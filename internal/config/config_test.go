package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrecedenceFlagsOverEnvOverFile(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(configPath, []byte("output: plain\nnetwork: devnet\nretries: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("INJHIVE_OUTPUT", "json")
	t.Setenv("INJECTIVE_NETWORK", "testnet")
	flags := GlobalFlags{ConfigPath: configPath, Plain: true, Retries: 5}
	settings, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.OutputMode != "plain" {
		t.Fatalf("expected flag to win, got output=%s", settings.OutputMode)
	}
	if settings.Network != Testnet {
		t.Fatalf("expected env network over file, got %s", settings.Network)
	}
	if settings.Retries != 5 {
		t.Fatalf("expected retries from flags, got %d", settings.Retries)
	}
}

func TestLoadReadsInjectiveEnv(t *testing.T) {
	t.Setenv("INJECTIVE_PRIVATE_KEY", "0xabc")
	t.Setenv("COINGECKO_API_KEY", "cg-key")
	t.Setenv("INJHIVE_REDIS_URL", "redis://localhost:6379/0")

	settings, err := Load(GlobalFlags{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"), Retries: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.PrivateKey != "0xabc" || settings.CoinGeckoAPIKey != "cg-key" {
		t.Fatalf("env keys not applied: %+v", settings)
	}
	if settings.CacheBackend != "redis" || settings.RedisURL == "" {
		t.Fatalf("redis url should switch backend, got %q", settings.CacheBackend)
	}
}

func TestLoadMutuallyExclusiveOutputFlags(t *testing.T) {
	_, err := Load(GlobalFlags{JSON: true, Plain: true})
	if err == nil {
		t.Fatal("expected error with --json and --plain")
	}
}

func TestParseNetwork(t *testing.T) {
	cases := map[string]Network{
		"":        Mainnet,
		"mainnet": Mainnet,
		"Testnet": Testnet,
		"DEVNET":  Devnet,
		"local":   Local,
	}
	for in, want := range cases {
		got, err := ParseNetwork(in)
		if err != nil || got != want {
			t.Errorf("ParseNetwork(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseNetwork("ropsten"); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestLoadRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("INJHIVE_CACHE_BACKEND", "memcached")
	if _, err := Load(GlobalFlags{Retries: -1}); err == nil {
		t.Fatal("expected error for unknown cache backend")
	}
}

func TestLoadOutputShapingFlags(t *testing.T) {
	flags := GlobalFlags{Retries: -1, Select: "symbol, usd", ResultsOnly: true, Strict: true}
	settings, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(settings.SelectFields) != 2 || settings.SelectFields[0] != "symbol" {
		t.Fatalf("select fields = %v", settings.SelectFields)
	}
	if !settings.ResultsOnly || !settings.Strict {
		t.Fatalf("settings = %+v", settings)
	}
}
