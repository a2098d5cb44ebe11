package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load(WithDotEnv())
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	require.Equal(t, 25, cfg.OutboxBatchSize)
	require.Equal(t, "anthropic", cfg.LLMProvider)
	require.Empty(t, cfg.LLMAPIKey)
	require.Equal(t, 5*time.Second, cfg.SessionCheckTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("FITTRACK_HTTP_ADDRESS", ":9999")
	t.Setenv("FITTRACK_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")
	t.Setenv("FITTRACK_OUTBOX_BATCH_SIZE", "50")
	t.Setenv("FITTRACK_SESSION_CHECK_TIMEOUT", "750ms")
	t.Setenv("FITTRACK_LLM_PROVIDER", " Groq ")
	t.Setenv("FITTRACK_MIGRATE_ON_START", "true")
	t.Setenv("GROQ_API_KEY", "groq-key")

	cfg, err := Load(WithDotEnv())
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.HTTPAddress)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 50, cfg.OutboxBatchSize)
	require.Equal(t, 750*time.Millisecond, cfg.SessionCheckTimeout)
	require.Equal(t, "groq", cfg.LLMProvider)
	require.Equal(t, "groq-key", cfg.LLMAPIKey)
	require.True(t, cfg.MigrateOnStart)
}

func TestLoadFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fittrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_address: \":7000\"\nllm_model: claude-test\njwt_issuer: from-file\n"), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("llm-model", "", "")
	fs.String("jwt-issuer", "", "")
	require.NoError(t, fs.Parse([]string{"--llm-model=flag-model"}))

	cfg, err := Load(WithDotEnv(), WithFile(path), WithFlags(fs))
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.HTTPAddress)
	require.Equal(t, "flag-model", cfg.LLMModel)
	require.Equal(t, "from-file", cfg.JWTIssuer, "unset flags must not override lower layers")
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FITTRACK_LOG_LEVEL=debug\nFITTRACK_CORS_ORIGIN=http://dotenv\n"), 0o600))
	t.Setenv("FITTRACK_CORS_ORIGIN", "http://real-env")
	t.Cleanup(func() { _ = os.Unsetenv("FITTRACK_LOG_LEVEL") })

	cfg, err := Load(WithDotEnv(path))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "http://real-env", cfg.CORSOrigin)
}

func TestValidate(t *testing.T) {
	cfg := Config{OutboxBatchSize: 0}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "postgres_url is required")
	require.Contains(t, err.Error(), "jwt_secret is required")
	require.Contains(t, err.Error(), "outbox_batch_size must be > 0")
}
