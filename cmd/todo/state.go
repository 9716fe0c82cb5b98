package main

import (
	"fmt"
	"os"

	"todo/internal/config"
	"todo/internal/task"

	"github.com/spf13/cobra"
)

func (a *app) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show how much of the list is done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(store *task.Store) error {
				p := store.Progress()
				if p.Total == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), emptyListText)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatProgress(p))
				return nil
			})
		},
	}
}

func (a *app) streakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show on how many days todo has been opened",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(store *task.Store) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Streak: %d days\n", store.Streak())
				return nil
			})
		},
	}
}

func (a *app) darkModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "darkmode [on|off|toggle]",
		Short:     "Show or change the stored dark mode flag",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store *task.Store) error {
				if len(args) == 1 {
					switch args[0] {
					case "on":
						store.SetDarkMode(true)
					case "off":
						store.SetDarkMode(false)
					case "toggle":
						store.ToggleDarkMode()
					}
				}
				state := "off"
				if store.DarkMode() {
					state = "on"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dark mode: %s\n", state)
				return nil
			})
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the config file is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.Path()
			if path == "" {
				return fmt.Errorf("no config directory: home directory unknown")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings to config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.Path()
			if path == "" {
				return config.ErrNoConfigDir
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			// Flag overrides belong to this run, not the file.
			if err := config.Default().Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", config.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// No config needed.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "todo version %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
