package config

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CFGLOAD"

// OutputFormat names a dump format
type OutputFormat string

const (
	OutputFormatTree OutputFormat = "tree"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

const (
	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4

	// DefaultMaxIncludeLevel matches cfg.MaxIncludeLevel
	DefaultMaxIncludeLevel = 10
)
