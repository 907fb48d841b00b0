package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lol-runesync/internal/constants"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

type Config struct {
	StatsBaseURL   string
	StatsAPIKey    string
	DDragonBaseURL string
	GameVersion    string
	Role           string
	Mode           string
	Region         string
	LockfilePath   string
	DBPath         string
	LogLevel       string
	LogFile        string
	Headless       bool
	StatusAddr     string
	CacheTTL       time.Duration

	// set when no .env file was found; logged once the logger exists
	EnvFileMissing bool
}

func Load() (*Config, error) {
	envMissing := godotenv.Load() != nil

	cacheDir := defaultCacheDir()

	cfg := &Config{
		StatsBaseURL:   strings.TrimRight(getEnv("STATS_BASE_URL", ""), "/"),
		StatsAPIKey:    getEnv("STATS_API_KEY", ""),
		DDragonBaseURL: strings.TrimRight(getEnv("DDRAGON_BASE_URL", "https://ddragon.leagueoflegends.com"), "/"),
		GameVersion:    getEnv("GAME_VERSION", ""),
		Role:           strings.ToLower(getEnv("ROLE", "auto")),
		Mode:           strings.ToLower(getEnv("MODE", "ranked")),
		Region:         strings.ToLower(getEnv("REGION", "world")),
		LockfilePath:   getEnv("RUNESYNC_LOCKFILE", ""),
		DBPath:         getEnv("DB_PATH", filepath.Join(cacheDir, "runesync.db")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", filepath.Join(cacheDir, "runesync.log")),
		StatusAddr:     getEnv("STATUS_ADDR", ""),
		CacheTTL:       constants.BuildCacheTTL,
		EnvFileMissing: envMissing,
	}

	if cfg.StatsBaseURL == "" {
		return nil, fmt.Errorf("STATS_BASE_URL is required")
	}

	headless, err := strconv.ParseBool(getEnv("HEADLESS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEADLESS value: %w", err)
	}
	cfg.Headless = headless

	if raw := getEnv("CACHE_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL value: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	return cfg, nil
}

// ModeLabel is the display form of the queue mode used in page names.
func (c *Config) ModeLabel() string {
	switch c.Mode {
	case "aram":
		return "ARAM"
	case "":
		return "Ranked"
	default:
		return strings.ToUpper(c.Mode[:1]) + c.Mode[1:]
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "runesync")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
