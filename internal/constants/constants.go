package constants

import "time"

const (
	AutoDetectInterval = 2 * time.Second
	StaticDataTTL      = 24 * time.Hour
	BuildCacheTTL      = 6 * time.Hour
)

const (
	LocalAPITimeout    = 5 * time.Second
	ExternalAPITimeout = 10 * time.Second
	RecommendTimeout   = 30 * time.Second
)

const (
	DBMaxOpenConns    = 4
	DBMaxIdleConns    = 2
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

// Pages whose name carries this prefix were created by runesync and may be
// overwritten on the next publish.
const PageNamePrefix = "runesync:"

const (
	ConnectionIDLength = 8
	LocalHost          = "127.0.0.1"
	LockfileUser       = "riot"
)
