package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *App) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the client config file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: a.run(func(context.Context, []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.opts.Out, "# %s\n", cfg.Path())
			return yaml.NewEncoder(a.opts.Out).Encode(cfg)
		}),
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: a.run(func(context.Context, []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Path()); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", cfg.Path())
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.opts.Out, "Wrote", cfg.Path())
			return err
		}),
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
