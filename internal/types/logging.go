package types

// LogLevel controls the logger verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunMode is the deployment mode of the process.
type RunMode string

const (
	ModeLocal RunMode = "local"
	ModeProd  RunMode = "prod"
)
