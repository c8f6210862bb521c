package fixing

import (
	"context"
	"log/slog"
	"time"

	"github.com/contre95/tagmend/src/music"
	"github.com/google/uuid"
)

// Watcher defines the interface for file system watchers
type Watcher interface {
	Start(ctx context.Context, watchPath string) error
	Stop()
}

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated  FileEventType = "created"
	FileRemoved  FileEventType = "removed"
	FileModified FileEventType = "modified"
)

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	EventType FileEventType
	Timestamp time.Time
}

// Sentinel runs watch mode: whenever new audio files land under the
// root it rescans and repairs them, recording each sweep in the run
// history. Repair is idempotent, so re-visiting already-clean files
// performs no writes.
type Sentinel struct {
	service *Service
	lister  FileLister
	history RunStore
	watcher Watcher
	events  <-chan FileEvent
}

// NewSentinel creates a new watch-mode sentinel. history may be nil.
func NewSentinel(service *Service, lister FileLister, history RunStore, watcher Watcher, events <-chan FileEvent) *Sentinel {
	return &Sentinel{service: service, lister: lister, history: history, watcher: watcher, events: events}
}

// Start begins watching root and repairing on arrival. It returns after
// starting the event loop; cancel ctx to stop.
func (s *Sentinel) Start(ctx context.Context, root string) error {
	if err := s.watcher.Start(ctx, root); err != nil {
		return err
	}
	go s.loop(ctx, root)
	slog.Info("Watch mode started", "root", root)
	return nil
}

// Stop stops the underlying watcher.
func (s *Sentinel) Stop() {
	s.watcher.Stop()
}

func (s *Sentinel) loop(ctx context.Context, root string) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.events:
			if !ok {
				return
			}
			if event.EventType != FileCreated {
				continue
			}
			s.sweep(ctx, root)
		}
	}
}

// sweep repairs everything currently under root.
func (s *Sentinel) sweep(ctx context.Context, root string) {
	paths, err := s.lister.ListFiles(ctx, root)
	if err != nil {
		slog.Error("Watch sweep failed to list files", "root", root, "error", err)
		return
	}

	run := &music.Run{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: time.Now(),
	}
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		run.Records = append(run.Records, s.service.RepairFile(ctx, path))
	}
	run.FinishedAt = time.Now()

	if s.history != nil {
		if err := s.history.SaveRun(ctx, run); err != nil {
			slog.Warn("Failed to persist watch sweep", "run", run.ID, "error", err)
		}
	}

	stats := run.Stats()
	slog.Info("Watch sweep finished", "run", run.ID, "files", stats.Files, "repaired", stats.Repaired)
}
