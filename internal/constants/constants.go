package constants

import "time"

const (
	AppName            = "daybook"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/daybook/daybook.db"
	DefaultConfigFile  = "~/.config/daybook/config.json"
	SnapshotNamespace  = "daybook"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daybook-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "daybook-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.daybook"
	TrayExecutablePrefix   = "daybook-tray"
	TraySecretHeader       = "X-Daybook-Secret"

	// Scheduler constants
	DefaultTickInterval = 5 * time.Minute
	DueSoonWindow       = 2 * time.Hour
	StreakAtRiskHour    = 20
	StreakAtRiskMinimum = 3

	// MaxStreakWalk bounds the backward walk of the streak calculator.
	MaxStreakWalk = 365

	// MaxOccurrenceSearch bounds the forward search for a template's next occurrence.
	MaxOccurrenceSearch = 400

	// RollingReportDays is the width of the rolling time-tracking report.
	RollingReportDays = 7
)
