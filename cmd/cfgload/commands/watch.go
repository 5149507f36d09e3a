package commands

import (
	"github.com/sonemaro/cfgload/cmd/cfgload/app"
	"github.com/spf13/cobra"
)

func newWatchCommand(opts *Options) *cobra.Command {
	do := &dumpOptions{Options: opts}

	cmd := &cobra.Command{
		Use:   "watch [flags] <config>",
		Short: "Print the values again whenever the config changes",
		Long: `Load a config file like dump, then keep watching it and every file
it includes. Each change reloads the file and prints the new values, or the
error that stopped the load. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], do)
		},
	}

	do.register(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, path string, opts *dumpOptions) error {
	req, err := opts.request(cmd)
	if err != nil {
		return err
	}

	application := app.New(opts.Config, app.WithStdout(cmd.OutOrStdout()))
	defer application.Shutdown()

	return application.Watch(path, req)
}
