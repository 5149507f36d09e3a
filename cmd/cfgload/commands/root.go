/*
Package commands implements the cfgload command line. dump prints the values
a config file yields, check validates many files at once, watch reprints the
values whenever a config file changes, and version prints build information.
*/
package commands

import (
	"fmt"

	"github.com/sonemaro/cfgload/internal/config"
	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/spf13/cobra"
)

// Options holds command-line options that apply to all commands
type Options struct {
	Config  *config.Config
	Verbose int
	NoColor bool
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "cfgload [command] [flags]",
		Short: "Load and validate parameter=value config files",
		Long: `cfgload reads "parameter=value" config files, follows their Include
directives and checks the values against a typed schema.

The schema is the built-in demo schema unless --schema names a YAML
definition file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeCommand(cmd, opts)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v",
		"increase verbosity (-v debug, -vv trace)")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false,
		"disable colored output")

	rootCmd.AddCommand(
		newDumpCommand(opts),
		newCheckCommand(opts),
		newWatchCommand(opts),
		newVersionCommand(opts),
	)

	return rootCmd
}

// initializeCommand loads the environment configuration and applies the
// global flags on top of it.
func initializeCommand(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewLogger(logger.Config{Verbosity: opts.Verbose})
		log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to load configuration")
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}
	if opts.NoColor {
		cfg.NoColor = true
	}

	opts.Config = &cfg
	return nil
}

// schemaFlags are shared by dump and check.
type schemaFlags struct {
	schema string
	strict bool
}

func (f *schemaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "",
		"schema definition file (default: built-in schema)")
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"fail on parameters missing from the schema")
}

func (f *schemaFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("schema") {
		cfg.Schema = f.schema
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = f.strict
	}
}
