package config

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	return Config{
		Workers:         runtime.NumCPU(),
		Output:          "tree",
		MaxIncludeLevel: DefaultMaxIncludeLevel,
	}
}

func TestLoad(t *testing.T) {
	cleanup := func() {
		for _, env := range []string{
			"CFGLOAD_WORKERS", "CFGLOAD_RATE_LIMIT", "CFGLOAD_OUTPUT",
			"CFGLOAD_OUTPUT_FILE", "CFGLOAD_SCHEMA", "CFGLOAD_STRICT",
			"CFGLOAD_MAX_INCLUDE_LEVEL", "CFGLOAD_NO_COLOR", "CFGLOAD_VERBOSE",
		} {
			os.Unsetenv(env)
		}
	}

	tests := []struct {
		name     string
		envVars  map[string]string
		expected func() Config
		errMsg   string
	}{
		{
			name:     "default configuration",
			expected: defaults,
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"CFGLOAD_WORKERS":           "1",
				"CFGLOAD_RATE_LIMIT":        "100",
				"CFGLOAD_OUTPUT":            "JSON",
				"CFGLOAD_OUTPUT_FILE":       "out.json",
				"CFGLOAD_SCHEMA":            "/etc/schema.yaml",
				"CFGLOAD_STRICT":            "true",
				"CFGLOAD_MAX_INCLUDE_LEVEL": "3",
				"CFGLOAD_NO_COLOR":          "1",
				"CFGLOAD_VERBOSE":           "vv",
			},
			expected: func() Config {
				return Config{
					Workers:         1,
					RateLimit:       100,
					Output:          "json",
					OutputFile:      "out.json",
					Schema:          "/etc/schema.yaml",
					Strict:          true,
					MaxIncludeLevel: 3,
					NoColor:         true,
					Verbose:         2,
				}
			},
		},
		{
			name:    "numeric verbosity",
			envVars: map[string]string{"CFGLOAD_VERBOSE": "2"},
			expected: func() Config {
				c := defaults()
				c.Verbose = 2
				return c
			},
		},
		{
			name:     "zero workers falls back to CPU count",
			envVars:  map[string]string{"CFGLOAD_WORKERS": "0"},
			expected: defaults,
		},
		{
			name:    "negative workers",
			envVars: map[string]string{"CFGLOAD_WORKERS": "-1"},
			errMsg:  "workers count must be positive",
		},
		{
			name:    "too many workers",
			envVars: map[string]string{"CFGLOAD_WORKERS": "1000000"},
			errMsg:  "workers count cannot exceed system CPU count * 4",
		},
		{
			name:    "invalid output format",
			envVars: map[string]string{"CFGLOAD_OUTPUT": "xml"},
			errMsg:  "invalid output format: must be one of [tree json yaml]",
		},
		{
			name:    "negative rate limit",
			envVars: map[string]string{"CFGLOAD_RATE_LIMIT": "-1"},
			errMsg:  "rate limit must be non-negative",
		},
		{
			name:    "negative include level",
			envVars: map[string]string{"CFGLOAD_MAX_INCLUDE_LEVEL": "-1"},
			errMsg:  "max include level must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup()
			defer cleanup()

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected(), cfg)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier

	tests := []struct {
		name   string
		config Config
		errMsg string
	}{
		{
			name:   "valid configuration",
			config: Config{Workers: 1, Output: "yaml", MaxIncludeLevel: 10},
		},
		{
			name:   "zero workers",
			config: Config{Workers: 0, Output: "tree"},
			errMsg: "workers count must be positive",
		},
		{
			name:   "workers above limit",
			config: Config{Workers: maxWorkers + 1, Output: "tree"},
			errMsg: "workers count cannot exceed",
		},
		{
			name:   "empty output format",
			config: Config{Workers: 1},
			errMsg: "invalid output format",
		},
		{
			name:   "negative verbosity",
			config: Config{Workers: 1, Output: "tree", Verbose: -1},
			errMsg: "verbosity must be non-negative",
		},
		{
			name:   "includes disabled",
			config: Config{Workers: 1, Output: "tree", MaxIncludeLevel: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigString(t *testing.T) {
	s := Config{Workers: 2, Output: "json", Schema: "s.yaml"}.String()
	assert.Contains(t, s, "Workers: 2")
	assert.Contains(t, s, "Output: json")
	assert.Contains(t, s, "Schema: s.yaml")
}
