package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultPurgeAge is the default age threshold for the purge-completed
	// maintenance command.
	DefaultPurgeAge = "720h" // 30 days
)
