package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"todo/internal/storage"
	"todo/internal/task"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const emptyListText = "NO tasks yet - start adding some"

func (a *app) addCmd() *cobra.Command {
	var at, priority string

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task and print its id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := storage.ParsePriority(priority)
			if err != nil {
				return err
			}
			if !storage.ValidTime(at) {
				return fmt.Errorf("invalid --time %q: want HH:MM", at)
			}
			return a.withStore(cmd, func(store *task.Store) error {
				t, err := store.Add(strings.Join(args, " "), at, p)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&at, "time", "t", "", "time of day, HH:MM")
	cmd.Flags().StringVarP(&priority, "priority", "p", "low", "low, medium or high")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var query string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the task list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(store *task.Store) error {
				return printTasks(cmd.OutOrStdout(), store, query, asJSON)
			})
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only tasks containing this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tasks as JSON")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY...",
		Short: "Show tasks whose text contains QUERY, ignoring case",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store *task.Store) error {
				return printTasks(cmd.OutOrStdout(), store, strings.Join(args, " "), false)
			})
		},
	}
}

func printTasks(w io.Writer, store *task.Store, query string, asJSON bool) error {
	tasks := slices.Collect(store.Search(query))

	if asJSON {
		data, err := storage.EncodeTasks(tasks)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(tasks) == 0 {
		if store.Len() == 0 {
			fmt.Fprintln(w, emptyListText)
		} else {
			fmt.Fprintf(w, "No tasks match %q\n", query)
		}
		return nil
	}

	fmt.Fprintln(w, renderTable(tasks))
	if p := store.Progress(); p.Total > 0 {
		fmt.Fprintln(w, formatProgress(p))
	}
	return nil
}

func renderTable(tasks []storage.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		at := t.Time
		if at == "" {
			at = "-"
		}
		rows = append(rows, []string{strconv.FormatInt(t.ID, 10), done, t.Text, at, string(t.Priority)})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("ID", "DONE", "TASK", "TIME", "PRIORITY").
		Rows(rows...).
		String()
}

func formatProgress(p task.Progress) string {
	return fmt.Sprintf("%d%% completed (%d/%d)", p.Percent, p.Completed, p.Total)
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task done, or not done if it already is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(store *task.Store) error {
				if _, err := mustExist(store, id); err != nil {
					return err
				}
				store.ToggleComplete(id)
				t, _ := store.Get(id)
				state := "not done"
				if t.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", t.Text, state)
				return nil
			})
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(store *task.Store) error {
				if _, err := mustExist(store, id); err != nil {
					return err
				}
				store.Delete(id)
				return nil
			})
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(store *task.Store) error {
				t, err := mustExist(store, id)
				if err != nil {
					return err
				}
				store.StartEdit(id, t.Text)
				store.SetEditBuffer(strings.Join(args[1:], " "))
				return store.CommitEdit()
			})
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(store *task.Store) error {
				store.ClearCompleted()
				return nil
			})
		},
	}
}
