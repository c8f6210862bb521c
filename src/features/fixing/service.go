package fixing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/tagmend/src/features/config"
	"github.com/contre95/tagmend/src/music"
)

// ErrUnsupportedContainer is reported by a StoreOpener for files whose
// tag container cannot be read. Such files are skipped, not failed.
var ErrUnsupportedContainer = errors.New("unsupported tag container")

// Store is a handle on one file's tag container. Get returns nil for an
// absent (or empty) tag. Set calls are buffered until Save, which
// persists them in one write.
type Store interface {
	Get(field music.Field) *string
	Set(field music.Field, value string)
	Save() error
	Close() error
}

// StoreOpener opens the tag container of a file.
type StoreOpener interface {
	Open(ctx context.Context, path string) (Store, error)
}

// Service repairs the tag values of individual files.
type Service struct {
	opener StoreOpener
	config *config.Manager
}

// NewService creates a new fixing service.
func NewService(opener StoreOpener, cfg *config.Manager) *Service {
	return &Service{opener: opener, config: cfg}
}

// policy builds the repair policy from the current configuration.
func (s *Service) policy() Policy {
	if s.config == nil {
		return DefaultPolicy()
	}
	cfg := s.config.Get().Repair
	scripts, err := ScriptsByName(cfg.ExpectedScripts)
	if err != nil {
		slog.Warn("Invalid expected_scripts in config, using defaults", "error", err)
		scripts, _ = ScriptsByName(DefaultScriptNames)
	}
	return Policy{
		Scripts:             scripts,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Candidates:          cfg.Candidates,
	}
}

// RepairFile runs the repair cascade over every tag of one file and
// persists changed values with a single save. Files without a readable
// tag container come back with a nil Original map; they still get a
// report row. Failures never abort the batch.
func (s *Service) RepairFile(ctx context.Context, path string) music.FileRecord {
	rec := music.FileRecord{Path: path}

	store, err := s.opener.Open(ctx, path)
	if err != nil {
		if errors.Is(err, ErrUnsupportedContainer) {
			slog.Debug("No readable tag container, skipping", "path", path)
		} else {
			slog.Warn("Failed to open tag container", "path", path, "error", err)
			rec.Err = err
		}
		return rec
	}
	defer store.Close()

	policy := s.policy()
	rec.Original = make(map[music.Field]*string, len(music.Fields))
	rec.Fixed = make(map[music.Field]*string, len(music.Fields))
	rec.Outcomes = make(map[music.Field]music.Outcome, len(music.Fields))

	dirty := false
	for _, field := range music.Fields {
		original := store.Get(field)
		rec.Original[field] = original

		if original == nil || *original == "" {
			// Nothing to repair.
			rec.Outcomes[field] = music.OutcomeUnchanged
			continue
		}

		fixed, ok := FixEncoding(*original, policy)
		if !ok {
			slog.Debug("Tag unrecoverable", "path", path, "field", field, "value", *original)
			rec.Outcomes[field] = music.OutcomeUnrecoverable
			continue
		}
		if fixed == *original {
			rec.Fixed[field] = original
			rec.Outcomes[field] = music.OutcomeUnchanged
			continue
		}

		store.Set(field, fixed)
		rec.Fixed[field] = &fixed
		rec.Outcomes[field] = music.OutcomeRepaired
		dirty = true
		slog.Info("Repaired tag", "path", path, "field", field, "fixed", fixed)
	}

	// One save per file keeps the container consistent if anything fails
	// mid-tag.
	if dirty {
		if err := store.Save(); err != nil {
			slog.Error("Failed to save repaired tags", "path", path, "error", err)
			rec.Err = fmt.Errorf("save tags: %w", err)
		}
	}

	return rec
}
