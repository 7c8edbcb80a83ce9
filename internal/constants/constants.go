package constants

const (
	AppName            = "sprintdeck"
	DefaultKeyringUser = "openai-api-key"
	DefaultConfigPath  = "~/.config/sprintdeck/sprintdeck.json"
	Version            = "v0.2.0"

	// SnapshotVersion is stamped into every persisted snapshot
	SnapshotVersion = "1.0"

	// ExportVersion is stamped into export files and required on import
	ExportVersion = "2.0"

	// DateFormat is the short date format used in export filenames (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup ring defaults; the effective bound comes from settings
	DefaultMaxBackups = 10
	MinBackups        = 1
	MaxBackupsLimit   = 50

	// BackupsFileSuffix names the backup ring file next to the snapshot file
	BackupsFileSuffix = "-backups.json"

	// Default settings
	DefaultStoryPrefix      = "TUNE"
	DefaultAutoSaveInterval = 30000

	// Sync timing
	DebounceInterval = 1000 // milliseconds

	// Default sprint identity
	PrioritySprintName     = "Priority Sprint"
	BacklogSprintName      = "Backlog"
	PrioritySprintPosition = 0
	BacklogSprintPosition  = 999
)

// AutoSaveIntervals lists the accepted autosave fallback presets in milliseconds.
var AutoSaveIntervals = []int{10000, 30000, 60000, 300000}
