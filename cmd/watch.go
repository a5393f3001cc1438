package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/logging"
	"github.com/conneroisu/plate/internal/registry"
	"github.com/conneroisu/plate/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Recompose an editor whenever its manifest changes",
	Long: `Watch a manifest and recompose its editor on every save. Each
successful composition prints the plugin table; failures print the error
and keep watching.

The debounce delay comes from watch.debounce (PLATE_WATCH_DEBOUNCE).

Examples:
  plate watch                    # Watch plate.yaml
  plate watch -m editor.yaml -v  # Verbose table with parents and handlers`,
	RunE: runWatch,
}

var watchFlags *StandardFlags

func init() {
	rootCmd.AddCommand(watchCmd)

	watchFlags = AddStandardFlags(watchCmd, "manifest", "document", "output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := watchFlags.ValidateFlags(); err != nil {
		return err
	}
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	if err := ValidateFileExists(watchFlags.Manifest); err != nil {
		return err
	}

	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.ManifestFilter)
	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddFilter(watcher.PathFilter(watchFlags.Manifest))

	reg := newComponentRegistry()
	recompose := func(ctx context.Context) {
		if err := composeAndPrint(ctx, cmd, cfg, reg, logger); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "❌ %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			logger.Debug(ctx, "Manifest changed", "path", event.Path, "type", event.Type.String())
			if event.Type == watcher.EventTypeDeleted {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s was removed, waiting for it to return\n", event.Path)
				return nil
			}
		}
		recompose(ctx)
		return nil
	})

	if err := fileWatcher.AddPath(watchFlags.Manifest); err != nil {
		return fmt.Errorf("failed to watch %s: %w", watchFlags.Manifest, err)
	}

	recompose(ctx)

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "👀 Watching %s for changes... (Press Ctrl+C to stop)\n", watchFlags.Manifest)

	<-ctx.Done()
	fmt.Fprintln(cmd.ErrOrStderr(), "\n🛑 Stopping file watcher...")
	return nil
}

func composeAndPrint(ctx context.Context, cmd *cobra.Command, cfg *config.Config, reg *registry.ComponentRegistry, logger logging.Logger) error {
	e, err := composeFromFlags(ctx, watchFlags, reg, logger)
	if err != nil {
		return err
	}
	result := summarize(e, false)
	format := watchFlags.Format(cfg)
	if format == config.FormatTable {
		return writeComposeTable(cmd, result, watchFlags.Verbose)
	}
	return writeStructured(cmd, format, result)
}
