package fixing

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/contre95/tagmend/src/features/config"
	"github.com/contre95/tagmend/src/music"
	"golang.org/x/text/encoding/korean"
)

type mockLister struct {
	files []string
	err   error
}

func (m *mockLister) ListFiles(ctx context.Context, root string) ([]string, error) {
	return m.files, m.err
}

type mockReport struct {
	runs []*music.Run
	err  error
}

func (m *mockReport) Write(ctx context.Context, run *music.Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

type mockHistory struct {
	runs []*music.Run
	err  error
}

func (m *mockHistory) SaveRun(ctx context.Context, run *music.Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func testBatch(t *testing.T, opener StoreOpener, lister FileLister, report ReportSink, history RunStore) *Batch {
	t.Helper()
	cfg := deterministicConfig()
	c := *cfg.Get()
	c.Database = config.Database{Path: filepath.Join(t.TempDir(), "history.db")}
	cfg.Update(&c)
	return NewBatch(NewService(opener, cfg), lister, report, history, cfg)
}

func TestRun_OneRowPerEnumeratedFile(t *testing.T) {
	garbled := corruptAs(t, "동백꽃", korean.EUCKR)
	opener := &mockOpener{stores: map[string]*mockStore{
		"a.mp3": newMockStore(map[music.Field]string{music.FieldTitle: garbled}),
		"b.mp3": newMockStore(nil),
	}}
	lister := &mockLister{files: []string{"a.mp3", "cover.jpg", "b.mp3"}}
	report := &mockReport{}
	history := &mockHistory{}

	run, err := testBatch(t, opener, lister, report, history).Run(context.Background(), "root")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// One record per enumerated file, in enumeration order, including
	// the one without a readable tag container.
	if len(run.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(run.Records))
	}
	for i, path := range []string{"a.mp3", "cover.jpg", "b.mp3"} {
		if run.Records[i].Path != path {
			t.Errorf("record %d path = %q, want %q", i, run.Records[i].Path, path)
		}
	}
	if run.Records[1].Original != nil {
		t.Error("unsupported file should have nil Original")
	}

	stats := run.Stats()
	if stats.Repaired != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 repaired and 1 skipped", stats)
	}

	if len(report.runs) != 1 || len(history.runs) != 1 {
		t.Errorf("report/history received %d/%d runs, want 1/1", len(report.runs), len(history.runs))
	}
	if run.ID == "" {
		t.Error("run should get an ID")
	}
}

func TestRun_EmptyFolder(t *testing.T) {
	report := &mockReport{}
	run, err := testBatch(t, &mockOpener{}, &mockLister{}, report, nil).Run(context.Background(), "root")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(run.Records) != 0 {
		t.Errorf("got %d records, want 0", len(run.Records))
	}
	// The sink still receives the run so it can write a header-only report.
	if len(report.runs) != 1 {
		t.Errorf("report received %d runs, want 1", len(report.runs))
	}
}

func TestRun_ReportFailureIsFatal(t *testing.T) {
	report := &mockReport{err: errors.New("sink broken")}
	_, err := testBatch(t, &mockOpener{}, &mockLister{files: []string{"a.mp3"}}, report, nil).Run(context.Background(), "root")
	if err == nil {
		t.Fatal("expected a report write failure to fail the run")
	}
}

func TestRun_HistoryFailureIsNot(t *testing.T) {
	history := &mockHistory{err: errors.New("db broken")}
	_, err := testBatch(t, &mockOpener{}, &mockLister{files: []string{"a.mp3"}}, &mockReport{}, history).Run(context.Background(), "root")
	if err != nil {
		t.Fatalf("history failure should not fail the run: %v", err)
	}
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := &mockReport{}
	_, err := testBatch(t, &mockOpener{}, &mockLister{files: []string{"a.mp3"}}, report, nil).Run(ctx, "root")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if len(report.runs) != 0 {
		t.Error("no report should be written for an abandoned run")
	}
}
