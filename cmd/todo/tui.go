package main

import (
	"fmt"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/notify"
	"todo/internal/quote"
	"todo/internal/ui"

	"github.com/spf13/cobra"
)

// runTUI starts the interactive view. The alternate screen owns the
// terminal, so logs go to a file.
func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	logger, logFile, err := logging.OpenFile(a.cfg.LogFile(), logging.Options{
		Level:  a.cfg.Log.Level,
		Format: a.cfg.Log.Format,
		Prefix: "todo",
	})
	if err != nil {
		return err
	}
	defer logFile.Close()
	a.logger = logger

	// Notices raised while loading are replayed once the UI is up.
	startup := &notify.Recorder{}
	store, closeStore, err := a.openStore(startup)
	if err != nil {
		return err
	}
	defer closeStore()

	var fetcher *quote.Fetcher
	if a.cfg.UX.FetchQuote {
		fetcher = quote.New(a.cfg.UX.QuoteURL, a.cfg.UX.QuoteFallback)
	}

	desktop := a.desktopSink()
	defer desktop.Close()

	dark, light := ui.NewStyles(a.cfg)
	logger.Info("starting", "data_dir", a.cfg.GetDataDir(), "backend", a.cfg.Backend, "tasks", store.Len())

	err = ui.Run(store, dark, light, &ui.AppConfig{
		Keys:             &a.cfg.Keys,
		ConfirmDeletions: a.cfg.UX.ConfirmDeletions,
		Name:             a.cfg.UX.Name,
		ExportDir:        config.ExpandHome(a.cfg.UX.ExportDir),
		Quote:            fetcher,
		Notifier:         notify.Multi(notify.Log(logger), desktop),
		Startup:          startup.Notices(),
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if err := store.LastSaveError(); err != nil {
		return fmt.Errorf("last save failed: %w", err)
	}
	return nil
}
