package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the notekeeper command tree.
func NewRootCommand(opts Options) *cobra.Command {
	app := newApp(opts)

	root := &cobra.Command{
		Use:           "notekeeper",
		Short:         "A terminal client for NoteKeeper",
		Long:          "notekeeper organizes notes into books and chapters on a NoteKeeper server.\nRun without a subcommand to open the interactive interface.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          app.run(func(ctx context.Context, _ []string) error { return app.runTUI(ctx) }),
	}
	root.SetIn(app.opts.In)
	root.SetOut(app.opts.Out)
	root.SetErr(app.opts.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/notekeeper/config.yaml)")
	flags.StringVar(&app.serverURL, "server", "", "server URL, overrides the config file")
	flags.BoolVar(&app.jsonOutput, "json", false, "print JSON instead of tables")

	root.AddCommand(
		app.loginCommand(),
		app.registerCommand(),
		app.logoutCommand(),
		app.whoamiCommand(),
		app.passwordCommand(),
		app.booksCommand(),
		app.chaptersCommand(),
		app.notesCommand(),
		app.tagsCommand(),
		app.searchCommand(),
		app.tuiCommand(),
		app.configCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the client version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(app.opts.Out, "notekeeper", app.opts.Version)
				return err
			},
		},
	)
	return root
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context, opts Options) error {
	return NewRootCommand(opts).ExecuteContext(ctx)
}

// run adapts fn to cobra and releases the client when it returns.
func (a *App) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return wrapErr(fn(cmd.Context(), args))
	}
}
