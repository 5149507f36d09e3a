package commands

import (
	"github.com/sonemaro/cfgload/cmd/cfgload/app"
	"github.com/sonemaro/cfgload/pkg/output"
	"github.com/spf13/cobra"
)

type dumpOptions struct {
	*Options
	schemaFlags
	outputFormat string
	outputFile   string
	optional     bool
	stats        bool
}

func newDumpCommand(opts *Options) *cobra.Command {
	do := &dumpOptions{Options: opts}

	cmd := &cobra.Command{
		Use:   "dump [flags] <config>",
		Short: "Load a config file and print its values",
		Long: `Load a config file, including every file it pulls in with Include,
and print the resulting value of each schema parameter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], do)
		},
	}

	do.register(cmd)

	return cmd
}

func (do *dumpOptions) register(cmd *cobra.Command) {
	do.schemaFlags.register(cmd)
	cmd.Flags().StringVarP(&do.outputFormat, "output", "o", "tree",
		"output format: tree|json|yaml")
	cmd.Flags().StringVarP(&do.outputFile, "file", "f", "",
		"write output to file instead of stdout")
	cmd.Flags().BoolVar(&do.optional, "optional", false,
		"treat a missing config file as empty")
	cmd.Flags().BoolVar(&do.stats, "stats", false,
		"append a summary of the values")
}

// request merges the flags into the loaded configuration.
func (do *dumpOptions) request(cmd *cobra.Command) (*app.DumpOptions, error) {
	cfg := do.Config
	do.schemaFlags.apply(cmd, cfg)
	if cmd.Flags().Changed("output") {
		cfg.Output = do.outputFormat
	}
	if cmd.Flags().Changed("file") {
		cfg.OutputFile = do.outputFile
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	return &app.DumpOptions{
		Format:     format,
		OutputPath: cfg.OutputFile,
		Optional:   do.optional,
		WithStats:  do.stats,
	}, nil
}

func runDump(cmd *cobra.Command, path string, opts *dumpOptions) error {
	req, err := opts.request(cmd)
	if err != nil {
		return err
	}

	application := app.New(opts.Config, app.WithStdout(cmd.OutOrStdout()))
	defer application.Shutdown()

	return application.Dump(path, req)
}
