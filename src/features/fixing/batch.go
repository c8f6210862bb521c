package fixing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/tagmend/src/features/config"
	"github.com/contre95/tagmend/src/music"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// FileLister enumerates candidate audio files under a root folder.
// Enumeration order is not guaranteed stable across runs; report rows
// follow whatever order one enumeration produced.
type FileLister interface {
	ListFiles(ctx context.Context, root string) ([]string, error)
}

// ReportSink writes the per-file before/after table for a finished run.
type ReportSink interface {
	Write(ctx context.Context, run *music.Run) error
}

// RunStore persists finished runs for later inspection.
type RunStore interface {
	SaveRun(ctx context.Context, run *music.Run) error
}

// Batch drives a full repair pass: enumerate, repair, report.
type Batch struct {
	service *Service
	lister  FileLister
	report  ReportSink
	history RunStore
	config  *config.Manager
}

// NewBatch creates a new batch driver. history may be nil.
func NewBatch(service *Service, lister FileLister, report ReportSink, history RunStore, cfg *config.Manager) *Batch {
	return &Batch{service: service, lister: lister, report: report, history: history, config: cfg}
}

// Run repairs every file under root and returns the finished run.
// Per-tag and per-file failures are recorded and skipped; the only fatal
// errors are enumeration failure, cancellation and a report write
// failure, since unreported repairs would be silently lost. A lock next
// to the history database keeps concurrent runs from interleaving
// writes into the same report.
func (b *Batch) Run(ctx context.Context, root string) (*music.Run, error) {
	lock := flock.New(b.config.Get().Database.Path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another repair run is already in progress")
	}
	defer lock.Unlock()

	run := &music.Run{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: time.Now(),
	}

	paths, err := b.lister.ListFiles(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	slog.Info("Starting repair run", "run", run.ID, "root", root, "files", len(paths))

	for _, path := range paths {
		// Abandoning here is safe: finished files are fully saved,
		// unprocessed ones untouched.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run.Records = append(run.Records, b.service.RepairFile(ctx, path))
	}
	run.FinishedAt = time.Now()

	if err := b.report.Write(ctx, run); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	if b.history != nil {
		if err := b.history.SaveRun(ctx, run); err != nil {
			slog.Warn("Failed to persist run history", "run", run.ID, "error", err)
		}
	}

	stats := run.Stats()
	slog.Info("Repair run finished",
		"run", run.ID,
		"files", stats.Files,
		"repaired", stats.Repaired,
		"unrecoverable", stats.Unrecoverable,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)
	return run, nil
}
