package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/contre95/tagmend/src/features/config"
	"github.com/contre95/tagmend/src/features/fixing"
	"github.com/contre95/tagmend/src/music"
)

// CSVSink writes a run's before/after table as a flat CSV file. Absent
// values render as the configured null marker so a missing tag is never
// confused with an empty string.
type CSVSink struct {
	config *config.Manager
}

// NewCSVSink creates a new CSVSink.
func NewCSVSink(cfg *config.Manager) fixing.ReportSink {
	return &CSVSink{config: cfg}
}

// Write writes one row per file record, in record order, plus a header.
func (s *CSVSink) Write(ctx context.Context, run *music.Run) error {
	cfg := s.config.Get().Report

	file, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	writer := csv.NewWriter(file)

	header := []string{"file_path"}
	for _, field := range music.Fields {
		header = append(header, string(field)+"_original", string(field)+"_fixed")
	}
	writer.Write(header)

	for _, rec := range run.Records {
		row := []string{rec.Path}
		for _, field := range music.Fields {
			row = append(row, render(rec.Original[field], cfg.NullMarker), render(rec.Fixed[field], cfg.NullMarker))
		}
		writer.Write(row)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Report written", "path", cfg.Path, "rows", len(run.Records))
	return nil
}

func render(value *string, nullMarker string) string {
	if value == nil {
		return nullMarker
	}
	return *value
}
