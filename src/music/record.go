package music

import "time"

// Field is one of the metadata fields this tool repairs.
type Field string

const (
	FieldAlbum  Field = "album"
	FieldTitle  Field = "title"
	FieldArtist Field = "artist"
	FieldGenre  Field = "genre"
)

// Fields is the closed tag vocabulary, in report column order.
// No dynamic tag discovery happens anywhere; every component iterates this slice.
var Fields = []Field{FieldAlbum, FieldTitle, FieldArtist, FieldGenre}

// Outcome classifies what the repair pass did to a single tag value.
type Outcome string

const (
	// OutcomeUnchanged means the value was already fine, absent, or the
	// repair produced an identical string.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeRepaired means the value changed and was written back.
	OutcomeRepaired Outcome = "repaired"
	// OutcomeUnrecoverable means the value looked garbled but no candidate
	// decoding produced usable text. The tag is left untouched on disk.
	OutcomeUnrecoverable Outcome = "unrecoverable"
)

// FileRecord holds the before/after state of one file's tags.
// Original is nil when the file has no readable tag container; such files
// still get a report row, with every column null.
// A record is never mutated after the repair pass finishes.
type FileRecord struct {
	Path     string
	Original map[Field]*string
	Fixed    map[Field]*string
	Outcomes map[Field]Outcome
	Err      error
}

// Repaired reports whether any tag of this file was rewritten.
func (r *FileRecord) Repaired() bool {
	for _, o := range r.Outcomes {
		if o == OutcomeRepaired {
			return true
		}
	}
	return false
}

// Run is one batch repair pass over a root folder.
type Run struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []FileRecord
}

// Stats aggregates per-tag outcomes across a run.
type Stats struct {
	Files         int
	Skipped       int // no readable tag container
	Unchanged     int
	Repaired      int
	Unrecoverable int
	Errors        int
}

// Stats tallies the run's outcomes.
func (r *Run) Stats() Stats {
	var s Stats
	s.Files = len(r.Records)
	for _, rec := range r.Records {
		if rec.Original == nil {
			s.Skipped++
			continue
		}
		if rec.Err != nil {
			s.Errors++
		}
		for _, o := range rec.Outcomes {
			switch o {
			case OutcomeUnchanged:
				s.Unchanged++
			case OutcomeRepaired:
				s.Repaired++
			case OutcomeUnrecoverable:
				s.Unrecoverable++
			}
		}
	}
	return s
}
