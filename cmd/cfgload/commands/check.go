package commands

import (
	"github.com/sonemaro/cfgload/cmd/cfgload/app"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	*Options
	schemaFlags
	workers   int
	rateLimit int
}

func newCheckCommand(opts *Options) *cobra.Command {
	co := &checkOptions{Options: opts}

	cmd := &cobra.Command{
		Use:   "check [flags] <config>...",
		Short: "Validate config files concurrently",
		Long: `Load every given config file against the schema in parallel and
print one line per file. The exit status is non-zero when any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, co)
		},
	}

	co.schemaFlags.register(cmd)
	cmd.Flags().IntVarP(&co.workers, "workers", "w", 0,
		"number of concurrent workers (default: number of CPUs)")
	cmd.Flags().IntVarP(&co.rateLimit, "rate", "r", 0,
		"maximum files started per second (0 for unlimited)")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, opts *checkOptions) error {
	cfg := opts.Config
	opts.schemaFlags.apply(cmd, cfg)
	if cmd.Flags().Changed("workers") && opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if cmd.Flags().Changed("rate") {
		cfg.RateLimit = opts.rateLimit
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	application := app.New(cfg,
		app.WithStdout(cmd.OutOrStdout()),
		app.WithStderr(cmd.ErrOrStderr()))
	defer application.Shutdown()

	_, err := application.Check(paths)
	return err
}
