package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the command line settings that can come from the environment.
// Flags given on the command line override these values.
type Config struct {
	// Workers is the number of files checked concurrently
	Workers int

	// RateLimit caps file checks started per second (0 for unlimited)
	RateLimit int

	// Output is the dump format: tree, json or yaml
	Output string

	// OutputFile receives dump output instead of stdout when set
	OutputFile string

	// Schema is a schema definition file; empty selects the built-in schema
	Schema string

	// Strict rejects parameters missing from the schema
	Strict bool

	// MaxIncludeLevel limits Include nesting
	MaxIncludeLevel int

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

var validOutputFormats = map[string]bool{
	string(OutputFormatTree): true,
	string(OutputFormatJSON): true,
	string(OutputFormatYAML): true,
}

var envKeys = []string{
	"workers",
	"rate_limit",
	"output",
	"output_file",
	"schema",
	"strict",
	"max_include_level",
	"no_color",
	"verbose",
}

// Load reads configuration from CFGLOAD_* environment variables and
// validates it.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("rate_limit", 0)
	v.SetDefault("output", string(OutputFormatTree))
	v.SetDefault("strict", false)
	v.SetDefault("max_include_level", DefaultMaxIncludeLevel)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	// CFGLOAD_VERBOSE accepts a count or a run of 'v's
	if s := v.GetString("verbose"); s != "" && strings.Trim(s, "v") == "" {
		v.Set("verbose", len(s))
	}

	cfg := Config{
		Workers:         v.GetInt("workers"),
		RateLimit:       v.GetInt("rate_limit"),
		Output:          strings.ToLower(v.GetString("output")),
		OutputFile:      v.GetString("output_file"),
		Schema:          v.GetString("schema"),
		Strict:          v.GetBool("strict"),
		MaxIncludeLevel: v.GetInt("max_include_level"),
		NoColor:         v.GetBool("no_color"),
		Verbose:         v.GetInt("verbose"),
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers count must be positive")
	}
	if c.Workers > runtime.NumCPU()*MaxWorkerMultiplier {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid output format: must be one of [tree json yaml]")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if c.MaxIncludeLevel < 0 {
		return fmt.Errorf("max include level must be non-negative")
	}

	if c.Verbose < 0 {
		return fmt.Errorf("verbosity must be non-negative")
	}

	return nil
}

func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, RateLimit: %d, Output: %s, OutputFile: %s, "+
			"Schema: %s, Strict: %v, MaxIncludeLevel: %d, NoColor: %v, Verbose: %d}",
		c.Workers, c.RateLimit, c.Output, c.OutputFile,
		c.Schema, c.Strict, c.MaxIncludeLevel, c.NoColor, c.Verbose,
	)
}
