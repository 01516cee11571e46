package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/lemconn/exkit"
	"github.com/lemconn/exkit/option"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "exkit.yaml", `
log:
  level: debug
  format: json
retry:
  max_retries: 5
exchanges:
  Binance:
    api_key: key
    secret_key: secret
    timeout: 3s
    enable_rate_limit: false
  okx:
    api_key: okx-key
    secret_key: okx-secret
    password: pass
    sandbox: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Log.MaxSize)
	assert.Equal(t, uint64(5), cfg.Retry.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.InitialInterval)
	assert.Subset(t, cfg.ExchangeNames(), []string{"binance", "okx"})

	bn := cfg.Exchanges["binance"]
	assert.Equal(t, "key", bn.APIKey)
	assert.Equal(t, 3*time.Second, bn.Timeout)
	require.NotNil(t, bn.EnableRateLimit)
	assert.False(t, *bn.EnableRateLimit)
	assert.True(t, bn.HasCredentials())
	assert.True(t, cfg.Exchanges["okx"].Sandbox)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "exkit.yaml", `
exchanges:
  gate:
    api_key: file-key
    secret_key: file-secret
`)
	t.Setenv("EXKIT_LOG_LEVEL", "warn")
	t.Setenv("EXKIT_EXCHANGES_GATE_API_KEY", "env-key")
	t.Setenv("KRAKEN_API_KEY", "kraken-key")
	t.Setenv("KRAKEN_SECRET_KEY", "kraken-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "env-key", cfg.Exchanges["gate"].APIKey)
	assert.Equal(t, "file-secret", cfg.Exchanges["gate"].SecretKey)
	assert.Equal(t, "kraken-key", cfg.Exchanges["kraken"].APIKey)
	assert.Equal(t, "kraken-secret", cfg.Exchanges["kraken"].SecretKey)
}

func TestLoadDotenv(t *testing.T) {
	path := writeFile(t, "exkit.yaml", "log:\n  level: info\n")
	dotenv := writeFile(t, ".env", "BITOPRO_API_KEY=dot-key\nBITOPRO_SECRET_KEY=dot-secret\n")
	t.Cleanup(func() {
		os.Unsetenv("BITOPRO_API_KEY")
		os.Unsetenv("BITOPRO_SECRET_KEY")
	})

	cfg, err := Load(path, dotenv)
	require.NoError(t, err)
	assert.Equal(t, "dot-key", cfg.Exchanges["bitopro"].APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Exchanges["ftx"] = ExchangeConfig{}
	cfg.Exchanges["okx"] = ExchangeConfig{APIKey: "k", SecretKey: "s"}
	cfg.Exchanges["binance"] = ExchangeConfig{APIKey: "k"}

	err := cfg.Validate()
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "exchanges.ftx")
	assert.Contains(t, err.Error(), "exchanges.okx: password is required")
	assert.Contains(t, err.Error(), "exchanges.binance: secret_key")
}

func TestOptions(t *testing.T) {
	enabled := false
	cfg := Default()
	cfg.Exchanges["okx"] = ExchangeConfig{
		APIKey:          "k",
		SecretKey:       "s",
		Password:        "p",
		Sandbox:         true,
		Proxy:           "http://127.0.0.1:7890",
		EnableRateLimit: &enabled,
	}

	opts := option.ApplyOptions(cfg.Options("OKX")...)
	assert.Equal(t, "k", opts.APIKey)
	assert.Equal(t, "s", opts.SecretKey)
	assert.Equal(t, "p", opts.Password)
	assert.True(t, opts.Sandbox)
	assert.Equal(t, "http://127.0.0.1:7890", opts.Proxy)
	assert.False(t, opts.EnableRateLimit)
	assert.Equal(t, DefaultTimeout, opts.Timeout)

	public := option.ApplyOptions(cfg.Options("kraken")...)
	assert.Empty(t, public.APIKey)
	assert.Equal(t, DefaultTimeout, public.Timeout)
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "exkit.yaml")
	require.NoError(t, WriteSample(path, false))
	require.Error(t, WriteSample(path, false))
	require.NoError(t, WriteSample(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, exkit.SupportedExchanges(), cfg.ExchangeNames())
	assert.Equal(t, "<passphrase>", cfg.Exchanges["okx"].Password)
	assert.Equal(t, DefaultTimeout, cfg.Exchanges["binance"].Timeout)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "abcd****mnop", mask("abcdefghmnop"))
	assert.Equal(t, "***", mask("abc"))
	assert.Equal(t, "api_key=abcd****mnop sandbox=false", ExchangeConfig{APIKey: "abcdefghmnop"}.String())
}
