package config

// LoggingConfig selects the log level (debug, info, warn, error) and the format:
// "console" for colored human readable output, "json" or "text".
type LoggingConfig struct {
	Level  string
	Format string
}
