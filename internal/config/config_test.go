package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 40, cfg.Trend.Threshold)
	assert.Len(t, cfg.Trend.Keywords, 19)
	assert.Equal(t, 7, cfg.Forecast.LookbackDays)
	assert.Equal(t, 5, cfg.Spike.StockThreshold)
	assert.Equal(t, 0.8, cfg.Spike.Confidence)
	assert.Equal(t, 15, cfg.Festival.LookaheadDays)
	assert.Equal(t, 500*time.Millisecond, cfg.Festival.Pace)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, 10, cfg.Sources.TrendFeedLimit)
	assert.Equal(t, 20, cfg.Sources.MarketplaceLimit)
	assert.Len(t, cfg.Sources.ForumChannels, 6)
	assert.Equal(t, []string{IndianHolidaysCalendarID}, cfg.Festival.Calendars())
	assert.NotContains(t, cfg.Festival.Calendars(), "primary")
	require.NoError(t, cfg.Validate())
}

func TestFestivalConfig_Calendars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VYAPAR_PERSONAL_CALENDAR_ID", "owner@example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner@example.com", IndianHolidaysCalendarID}, cfg.Festival.Calendars())
	assert.Equal(t, []string{IndianHolidaysCalendarID}, cfg.Festival.CalendarIDs)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "vyapar.yaml")
	data := []byte(`
store:
  path: /tmp/test.db
trend:
  threshold: 60
forecast:
  lookback_days: 5
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("VYAPAR_TREND_THRESHOLD", "55")
	t.Setenv("VYAPAR_FORUM_CHANNELS", " Food, snacks ,")
	t.Setenv("GEMINI_API_KEY", "key-123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Store.Path)
	assert.Equal(t, 55, cfg.Trend.Threshold)
	assert.Equal(t, 5, cfg.Forecast.LookbackDays)
	assert.Equal(t, []string{"food", "snacks"}, cfg.Sources.ForumChannels)
	assert.Equal(t, "key-123", cfg.AI.APIKey)
	assert.Len(t, cfg.Trend.Keywords, 19)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VYAPAR_LOOKAHEAD_DAYS=3\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("VYAPAR_LOOKAHEAD_DAYS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Festival.LookaheadDays)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VYAPAR_TREND_THRESHOLD", "forty")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VYAPAR_TREND_THRESHOLD")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.Trend.Threshold = 0 }},
		{"no keywords", func(c *Config) { c.Trend.Keywords = nil }},
		{"zero timeout", func(c *Config) { c.Sources.Timeout = 0 }},
		{"zero lookback", func(c *Config) { c.Forecast.LookbackDays = 0 }},
		{"zero lookahead", func(c *Config) { c.Festival.LookaheadDays = 0 }},
		{"confidence above one", func(c *Config) { c.Spike.Confidence = 1.5 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEmailConfig(t *testing.T) {
	e := EmailConfig{SMTPServer: "smtp.example.com", SMTPUser: "me@example.com", SMTPPass: "x"}
	assert.False(t, e.Enabled())
	assert.Equal(t, "me@example.com", e.Sender())

	e.ToEmail = "owner@example.com"
	e.FromEmail = "alerts@example.com"
	assert.True(t, e.Enabled())
	assert.Equal(t, "alerts@example.com", e.Sender())
}
