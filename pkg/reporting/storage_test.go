package reporting

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestStorageSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	report := &RunReport{
		RunID:      "r1",
		SchemeName: "canonical-4p8e",
		StartTime:  time.Now(),
		EndTime:    time.Now(),
		Status:     StatusCompleted,
		Success:    true,
		SP:         0.6144,
		SQ:         0.3856,
	}

	path, err := storage.SaveReport(report)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := storage.LoadReport(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RunID != report.RunID || loaded.SP != report.SP {
		t.Fatalf("loaded report does not match saved report: %+v", loaded)
	}
}

func TestStorageKeepLastNPrunesOldest(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, 2, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Now().Add(-1 * time.Hour)
	for i := 0; i < 4; i++ {
		report := &RunReport{
			RunID:      string(rune('a' + i)),
			SchemeName: "s",
			StartTime:  base.Add(time.Duration(i) * time.Minute),
			EndTime:    base.Add(time.Duration(i) * time.Minute),
			Status:     StatusCompleted,
			Success:    true,
		}
		if _, err := storage.SaveReport(report); err != nil {
			t.Fatal(err)
		}
	}

	summaries, err := storage.ListReports()
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 reports kept, got %d", len(summaries))
	}
	// Newest first: the two most recently started runs survive.
	if summaries[0].RunID != "d" || summaries[1].RunID != "c" {
		t.Fatalf("unexpected surviving reports: %+v", summaries)
	}
}

func TestStorageKeepLastNIsPerScheme(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, 1, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Now().Add(-1 * time.Hour)
	schemes := []string{"alpha", "alpha", "beta", "beta", "beta"}
	for i, name := range schemes {
		report := &RunReport{
			RunID:      string(rune('a' + i)),
			SchemeName: name,
			StartTime:  base.Add(time.Duration(i) * time.Minute),
			EndTime:    base.Add(time.Duration(i) * time.Minute),
			Status:     StatusCompleted,
			Success:    true,
		}
		if _, err := storage.SaveReport(report); err != nil {
			t.Fatal(err)
		}
	}

	summaries, err := storage.ListReports()
	if err != nil {
		t.Fatal(err)
	}
	// keepLastN=1 prunes within each scheme independently: one "alpha"
	// survivor and one "beta" survivor, not one report total.
	if len(summaries) != 2 {
		t.Fatalf("expected 1 surviving report per scheme (2 total), got %d: %+v", len(summaries), summaries)
	}
	bySchemeCount := map[string]int{}
	for _, s := range summaries {
		bySchemeCount[s.SchemeName]++
	}
	if bySchemeCount["alpha"] != 1 || bySchemeCount["beta"] != 1 {
		t.Fatalf("expected exactly one survivor per scheme, got %+v", bySchemeCount)
	}
}

func TestStorageFindLatestByScheme(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Now().Add(-1 * time.Hour)
	for i, sp := range []float64{0.5, 0.6, 0.7} {
		report := &RunReport{
			RunID:      string(rune('a' + i)),
			SchemeName: "canonical-4p8e",
			StartTime:  base.Add(time.Duration(i) * time.Minute),
			Status:     StatusCompleted,
			Success:    true,
			SP:         sp,
		}
		if _, err := storage.SaveReport(report); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := storage.FindLatestByScheme("canonical-4p8e")
	if err != nil {
		t.Fatal(err)
	}
	if latest.RunID != "c" || latest.SP != 0.7 {
		t.Fatalf("expected the most recently started report, got %+v", latest)
	}

	if _, err := storage.FindLatestByScheme("no-such-scheme"); err == nil {
		t.Fatal("expected an error for an unknown scheme")
	}
}

func TestStorageFindReportByRunID(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	report := &RunReport{RunID: "findme", SchemeName: "s", StartTime: time.Now(), Status: StatusCompleted}
	if _, err := storage.SaveReport(report); err != nil {
		t.Fatal(err)
	}

	found, err := storage.FindReportByRunID("findme")
	if err != nil {
		t.Fatal(err)
	}
	if found.RunID != "findme" {
		t.Fatalf("found wrong report: %+v", found)
	}

	if _, err := storage.FindReportByRunID("nonexistent"); err == nil {
		t.Fatal("expected an error for a missing run ID")
	}
}
