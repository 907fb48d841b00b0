package config

import (
	"testing"
	"time"

	"lol-runesync/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STATS_BASE_URL", "STATS_API_KEY", "DDRAGON_BASE_URL", "GAME_VERSION",
		"ROLE", "MODE", "REGION", "RUNESYNC_LOCKFILE", "DB_PATH", "LOG_LEVEL",
		"LOG_FILE", "HEADLESS", "STATUS_ADDR", "CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
	// keep a developer's .env out of the test
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATS_BASE_URL", "https://builds.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://builds.example.com", cfg.StatsBaseURL)
	assert.Equal(t, "https://ddragon.leagueoflegends.com", cfg.DDragonBaseURL)
	assert.Equal(t, "auto", cfg.Role)
	assert.Equal(t, "ranked", cfg.Mode)
	assert.Equal(t, "world", cfg.Region)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Headless)
	assert.Empty(t, cfg.StatusAddr)
	assert.Equal(t, constants.BuildCacheTTL, cfg.CacheTTL)
	assert.True(t, cfg.EnvFileMissing)
}

func TestLoad_RequiresStatsBaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATS_BASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATS_BASE_URL", "http://localhost:9000")
	t.Setenv("HEADLESS", "true")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("MODE", "ARAM")
	t.Setenv("RUNESYNC_LOCKFILE", "/tmp/lockfile")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Headless)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "aram", cfg.Mode)
	assert.Equal(t, "ARAM", cfg.ModeLabel())
	assert.Equal(t, "/tmp/lockfile", cfg.LockfilePath)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "headless", key: "HEADLESS", value: "sometimes"},
		{name: "cache ttl", key: "CACHE_TTL", value: "forever"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STATS_BASE_URL", "http://localhost:9000")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestModeLabel(t *testing.T) {
	assert.Equal(t, "Ranked", (&Config{Mode: "ranked"}).ModeLabel())
	assert.Equal(t, "Normal", (&Config{Mode: "normal"}).ModeLabel())
	assert.Equal(t, "ARAM", (&Config{Mode: "aram"}).ModeLabel())
	assert.Equal(t, "Ranked", (&Config{}).ModeLabel())
}
