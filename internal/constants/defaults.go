package constants

// Default sync configuration values
const (
	DefaultSyncIntervalMs = 30000
	MinSyncIntervalMs     = 5000
	DefaultSyncLimit      = 25
	DefaultRetentionDays  = 90
	DefaultServerPort     = 8084
)

// Default timeout values
const (
	DefaultHTTPTimeoutSec        = 30
	DefaultSyncTickTimeoutSec    = 30
	DefaultDatabaseRetryAttempts = 3
	DefaultGracefulShutdownSec   = 30
	DefaultBackoffInitialMs      = 500
	DefaultBackoffMaxMs          = 5000
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
)

// Query limits
const (
	DefaultMessageQueryLimit = 100
	MaxMessageQueryLimit     = 500
	DefaultAnalyticsDays     = 30
)

// Live feed settings
const (
	StreamSubscriberBuffer = 32
	ServerErrorChannelSize = 1
)

// Content generation
const (
	DefaultContentMaxTokens = 512
	DefaultCleanupCron      = "0 3 * * *"
)

// Encryption parameters
const (
	EncryptionSalt       = "smiledesk-db-salt-v1"
	EncryptionLookupSalt = "smiledesk-lookup-salt-v1"
	EncryptionKeySize    = 32
	EncryptionNonceSize  = 12
	EncryptionIterations = 100000
)
