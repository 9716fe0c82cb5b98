package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"todo/internal/config"
	"todo/internal/fsutil"
	"todo/internal/importer"
	"todo/internal/storage"
	"todo/internal/task"
	"todo/internal/ui"

	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as JSON",
		Long: `Write the task list as a JSON array, the same format import reads.

Without -o the file is my-tasks.json in the configured export directory.
Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(store *task.Store) error {
				data, err := store.Export()
				if err != nil {
					return err
				}
				if output == "-" {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(data)); err != nil {
						return err
					}
					store.Exported()
					return nil
				}

				path := output
				if path == "" {
					path = filepath.Join(config.ExpandHome(a.cfg.UX.ExportDir), ui.ExportFileName)
				}
				if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				store.Exported()
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, or - for stdout")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var yes, dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the task list with an exported JSON file",
		Long: `Replace the whole task list with the tasks in FILE (- for stdin).

The file is checked against the export format first; a file with missing
text, bad priorities or duplicate ids is rejected and nothing changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "-" && !yes && !dryRun {
				return errors.New("reading from stdin needs --yes")
			}

			incoming, err := readImport(cmd.InOrStdin(), name)
			if err != nil {
				return fmt.Errorf("import %s: %w", name, err)
			}

			return a.withStore(cmd, func(store *task.Store) error {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, importer.Summarize(store.Tasks(), incoming))
				if dryRun {
					return nil
				}
				if !yes {
					ok, err := confirm(cmd.InOrStdin(), out, "Replace the current list?")
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Import canceled")
						return nil
					}
				}
				return store.Replace(incoming)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and summarise without changing anything")
	return cmd
}

func readImport(stdin io.Reader, name string) ([]storage.Task, error) {
	if name == "-" {
		return importer.Parse(stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.Parse(f)
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
