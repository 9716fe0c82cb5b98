package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/notify"
	"todo/internal/storage"
	"todo/internal/task"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app carries what every command needs once flags and config are read.
type app struct {
	dataDir  string
	backend  string
	logLevel string

	cfg    *config.Config
	logger *log.Logger
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A small to-do list for the terminal",
		Long: `todo keeps a single list of tasks with an optional time and priority.

Run it without arguments for the interactive view, or use the subcommands
to script the same list. Data lives in ~/.todo unless --data-dir or the
config file says otherwise.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (default from config, ~/.todo)")
	pf.StringVar(&a.backend, "backend", "", "storage backend: file or sqlite")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.searchCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.editCmd(),
		a.clearCmd(),
		a.progressCmd(),
		a.streakCmd(),
		a.darkModeCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

// setup loads config and applies the global flags on top of it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Prefix: "todo",
	})
	return nil
}

// openStore opens the configured backend and loads it into a Store.
// The returned func closes the backend.
func (a *app) openStore(sink notify.Sink) (*task.Store, func(), error) {
	kv, err := storage.Open(a.cfg.Backend, a.cfg.GetDataDir())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	store, _, err := task.Open(storage.NewLocal(kv), a.now(),
		task.WithNotifier(sink),
		task.WithLogger(a.logger),
	)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := kv.Close(); err != nil {
			a.logger.Warn("close store", "err", err)
		}
	}
	return store, closeFn, nil
}

// withStore runs fn over an opened store. Notices go to the command's
// stderr. A failed save turns into the command's error.
func (a *app) withStore(cmd *cobra.Command, fn func(*task.Store) error) error {
	desktop := a.desktopSink()
	defer desktop.Close()

	store, closeStore, err := a.openStore(notify.Multi(cliPrinter(cmd.ErrOrStderr()), desktop))
	if err != nil {
		return err
	}
	defer closeStore()

	if err := fn(store); err != nil {
		return err
	}
	if err := store.LastSaveError(); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return nil
}

// cliPrinter prints notices as plain lines.
func cliPrinter(w io.Writer) notify.Sink {
	return notify.SinkFunc(func(n notify.Notice) {
		if n.Level == notify.Warning {
			fmt.Fprintln(w, "warning:", n.Message)
			return
		}
		fmt.Fprintln(w, n.Message)
	})
}

// desktopSink returns nil when desktop notifications are off. The nil
// sink is safe to notify and close.
func (a *app) desktopSink() *notify.DesktopSink {
	n := a.cfg.Notifications
	if !n.Desktop {
		return nil
	}
	// Validated with the rest of the config.
	level, _ := notify.ParseLevel(n.MinLevel)
	return notify.Desktop(notify.New(), notify.DesktopOptions{
		Sound:    n.Sound,
		MinLevel: level,
		OnError: func(err error) {
			a.logger.Debug("desktop notification failed", "err", err)
		},
	})
}

// parseID reads a task id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// mustExist reports a friendly error for ids the store does not have.
func mustExist(store *task.Store, id int64) (storage.Task, error) {
	t, ok := store.Get(id)
	if !ok {
		return storage.Task{}, fmt.Errorf("no task with id %d", id)
	}
	return t, nil
}
