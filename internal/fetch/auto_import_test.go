package fetch

import (
	"testing"

	"jobtracker/internal/storage/sqlite"
)

func TestFormatImportSummary_NothingNew(t *testing.T) {
	got := FormatImportSummary(sqlite.ImportResult{})
	if got != "Import found nothing new." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestFormatImportSummary_OnlySkipped(t *testing.T) {
	got := FormatImportSummary(sqlite.ImportResult{Skipped: 4, Invalid: 1})
	want := "Import found nothing new (4 already tracked, 1 invalid)."
	if got != want {
		t.Fatalf("unexpected summary:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatImportSummary_SomeImported(t *testing.T) {
	got := FormatImportSummary(sqlite.ImportResult{Jobs: 3, StatusHistory: 2, Goals: 1, Skipped: 5})
	want := "Imported 3 jobs, 2 status changes, 1 goals (5 already tracked)"
	if got != want {
		t.Fatalf("unexpected summary:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatImportSummary_WithWarnings(t *testing.T) {
	got := FormatImportSummary(sqlite.ImportResult{Interviews: 1, Invalid: 2})
	want := "Imported 1 interviews\nWarnings: 2 records had an unknown status and were left out"
	if got != want {
		t.Fatalf("unexpected summary:\n%s\nwant:\n%s", got, want)
	}
}
