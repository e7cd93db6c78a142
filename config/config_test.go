package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithoutFile(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MONGO_URI", "")

	cfg, err := Load(filepath.Join(t.TempDir(), CONFIG_FILE))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mongo", cfg.Storage.Backend)
	assert.Equal(t, "ytinsight", cfg.Mongo.Database)
	assert.Equal(t, 100, cfg.YouTube.DefaultMaxComments)
	assert.Equal(t, 15*time.Second, cfg.YouTube.RequestTimeout)
	assert.Equal(t, "google", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.ModelName)
	assert.Equal(t, 100, cfg.LLM.MaxComments)
	assert.Equal(t, "yt-key", cfg.YouTube.APIKey)
	assert.False(t, cfg.Analysis.HonorForceRefresh)
}

func TestLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CONFIG_FILE)
	yamlBody := `
server:
  addr: ":9090"
  allowed_origins: ["http://localhost:5173"]
storage:
  backend: memory
llm:
  provider: openai
  max_comments: 50
analysis:
  honor_force_refresh: true
tiers:
  pro:
    max_comments: 300
generation_quota:
  requests_per_minute: 10
  requests_per_day: 500
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.ModelName)
	assert.Equal(t, 50, cfg.LLM.MaxComments)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIAPIKey)
	assert.True(t, cfg.Analysis.HonorForceRefresh)
	assert.Equal(t, 300, cfg.Tiers["pro"].MaxComments)
	assert.Equal(t, 10, cfg.GenerationQuota.RequestsPerMinute)
	assert.Equal(t, 500, cfg.GenerationQuota.RequestsPerDay)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown backend", body: "storage:\n  backend: postgres\n"},
		{name: "unknown provider", body: "llm:\n  provider: anthropic\n"},
		{name: "events without brokers", body: "events:\n  enabled: true\n"},
		{name: "negative tier limit", body: "tiers:\n  free:\n    max_comments: -1\n"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv("KAFKA_BROKERS", "")
			path := filepath.Join(t.TempDir(), CONFIG_FILE)
			require.NoError(t, os.WriteFile(path, []byte(testCase.body), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestGetBasePathFindsConfigInParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, CONFIG_FILE), []byte(""), 0o600))
	nested := filepath.Join(root, "cmd", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	t.Chdir(nested)

	got, err := filepath.EvalSymlinks(GetBasePath())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
