// Package config loads cfgload's own command line settings from the
// environment. Flags override whatever is loaded here.
//
// # Environment Variables
//
//	CFGLOAD_WORKERS            Files checked concurrently (default: CPU cores)
//	CFGLOAD_RATE_LIMIT         File checks started per second (0 for unlimited)
//	CFGLOAD_OUTPUT             Dump format: tree|json|yaml (default: tree)
//	CFGLOAD_OUTPUT_FILE        Dump destination (empty for stdout)
//	CFGLOAD_SCHEMA             Schema definition file (empty for the built-in one)
//	CFGLOAD_STRICT             Reject unknown parameters (true/false)
//	CFGLOAD_MAX_INCLUDE_LEVEL  Include nesting limit (default: 10)
//	CFGLOAD_NO_COLOR           Disable colored output (true/false)
//	CFGLOAD_VERBOSE            Verbosity, as a number or a run of 'v's
//
// # Validation
//
//   - Workers must be positive and not exceed CPU cores * 4
//   - Output must be one of tree, json, yaml
//   - RateLimit and MaxIncludeLevel must be non-negative
//
// Example:
//
//	os.Setenv("CFGLOAD_WORKERS", "4")
//	os.Setenv("CFGLOAD_OUTPUT", "json")
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
