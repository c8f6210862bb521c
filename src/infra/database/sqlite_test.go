package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/contre95/tagmend/src/music"
	"github.com/google/uuid"
)

func strptr(s string) *string { return &s }

func TestSaveAndGetRun(t *testing.T) {
	store, err := NewRunStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	run := &music.Run{
		ID:         uuid.New().String(),
		Root:       "/music",
		StartedAt:  time.Now().Truncate(time.Second),
		FinishedAt: time.Now().Truncate(time.Second),
		Records: []music.FileRecord{
			{
				Path: "/music/a.mp3",
				Original: map[music.Field]*string{
					music.FieldAlbum:  nil,
					music.FieldTitle:  strptr("Love"),
					music.FieldArtist: strptr("¾È³ç"),
					music.FieldGenre:  nil,
				},
				Fixed: map[music.Field]*string{
					music.FieldArtist: strptr("안녕"),
				},
				Outcomes: map[music.Field]music.Outcome{
					music.FieldAlbum:  music.OutcomeUnchanged,
					music.FieldTitle:  music.OutcomeUnrecoverable,
					music.FieldArtist: music.OutcomeRepaired,
					music.FieldGenre:  music.OutcomeUnchanged,
				},
			},
			{Path: "/music/cover.jpg"}, // skipped file: counted, no tag rows
		},
	}

	ctx := context.Background()
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if got.Root != "/music" {
		t.Errorf("root = %q", got.Root)
	}
	if len(got.Records) != 1 {
		t.Fatalf("got %d records, want 1 (skipped files have no tag rows)", len(got.Records))
	}

	rec := got.Records[0]
	if rec.Path != "/music/a.mp3" {
		t.Errorf("record path = %q", rec.Path)
	}
	if rec.Outcomes[music.FieldArtist] != music.OutcomeRepaired {
		t.Errorf("artist outcome = %s", rec.Outcomes[music.FieldArtist])
	}
	if v := rec.Fixed[music.FieldArtist]; v == nil || *v != "안녕" {
		t.Errorf("fixed artist = %v, want 안녕", v)
	}
	if v := rec.Original[music.FieldTitle]; v == nil || *v != "Love" {
		t.Errorf("original title = %v, want Love", v)
	}
	if rec.Fixed[music.FieldTitle] != nil {
		t.Error("unrecoverable title should load back as nil")
	}
	if rec.Original[music.FieldAlbum] != nil {
		t.Error("absent album should load back as nil")
	}
}

func TestGetRun_Unknown(t *testing.T) {
	store, err := NewRunStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	if _, err := store.GetRun(context.Background(), "no-such-run"); err == nil {
		t.Fatal("expected an error for an unknown run ID")
	}
}
