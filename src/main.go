package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/contre95/tagmend/src/features/config"
	"github.com/contre95/tagmend/src/features/fixing"
	"github.com/contre95/tagmend/src/features/logging"
	"github.com/contre95/tagmend/src/infra/database"
	"github.com/contre95/tagmend/src/infra/files"
	"github.com/contre95/tagmend/src/infra/report"
	"github.com/contre95/tagmend/src/infra/tag"
	"github.com/contre95/tagmend/src/infra/watcher"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// An optional positional argument overrides the configured root
	root := cfgManager.Get().LibraryPath
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	opener := tag.NewOpener()
	walker := files.NewWalker()
	reportSink := report.NewCSVSink(cfgManager)

	history, err := database.NewRunStore(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open run history database: %v", err)
	}
	defer history.Close()

	fixingService := fixing.NewService(opener, cfgManager)
	batch := fixing.NewBatch(fixingService, walker, reportSink, history, cfgManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run, err := batch.Run(ctx, root)
	if err != nil {
		log.Fatalf("repair run failed: %v", err)
	}
	fmt.Print(report.Summary(run))

	// Keep repairing new arrivals if watch mode is on
	if cfgManager.Get().Watcher.Enabled {
		events := make(chan fixing.FileEvent, 16)
		fsWatcher, err := watcher.NewWatcher(events, cfgManager.Get().Watcher.DebounceSeconds)
		if err != nil {
			log.Fatalf("failed to create file watcher: %v", err)
		}
		sentinel := fixing.NewSentinel(fixingService, walker, history, fsWatcher, events)
		if err := sentinel.Start(ctx, root); err != nil {
			log.Fatalf("failed to start watch mode: %v", err)
		}
		slog.Info("Watching for new files. Press Ctrl+C to shut down.", "root", root)
		<-ctx.Done()
		sentinel.Stop()
		slog.Info("Watch mode stopped")
	}
}
