package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, ":10000", cfg.Addr())
	assert.Equal(t, DefaultScratchDir, cfg.ScratchDir)
	assert.Equal(t, DefaultRetentionDelay, cfg.RetentionDelay)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.MaxConcurrentFetches)
	assert.Equal(t, "yt-dlp", cfg.YtDlpPath)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("PORT", "8081")
	t.Setenv("SCRATCH_DIR", "/tmp/artifacts")
	t.Setenv("RETENTION_DELAY", "30m")
	t.Setenv("WEBHOOK_URL", "https://bot.example.com/webhook")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "/tmp/artifacts", cfg.ScratchDir)
	assert.Equal(t, 30*time.Minute, cfg.RetentionDelay)
	assert.Equal(t, "https://bot.example.com/webhook", cfg.WebhookURL)
}

func TestLoadRejectsInvalidWebhookURL(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_URL", "not a url")

	_, err := Load()
	require.Error(t, err)
}
