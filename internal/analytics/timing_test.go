package analytics

import (
	"testing"
	"time"

	"jobtracker/internal/domain"
)

func TestHourRangeBoundaries(t *testing.T) {
	cases := map[int]string{
		0: HourEarlyMorning, 8: HourEarlyMorning,
		9: HourMorning, 11: HourMorning,
		12: HourLunch, 13: HourLunch,
		14: HourAfternoon, 16: HourAfternoon,
		17: HourEvening, 19: HourEvening,
		20: HourNight, 23: HourNight,
	}
	for hour, want := range cases {
		if got := HourRange(hour); got != want {
			t.Fatalf("HourRange(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestAnalyzeTimingBuckets(t *testing.T) {
	tuesdayLunch := time.Date(2026, 3, 17, 13, 30, 0, 0, time.UTC)
	tuesdayNight := time.Date(2026, 3, 17, 22, 0, 0, 0, time.UTC)
	records := []domain.ApplicationRecord{
		job("1", domain.StatusInterviewed, withCreated(tuesdayLunch)),
		job("2", domain.StatusApplied, withCreated(tuesdayNight)),
		job("3", domain.StatusInterested, withCreated(tuesdayLunch)),
	}
	rep := AnalyzeTiming(records, DefaultCategories, time.UTC)
	if len(rep.ByDay) != 1 || rep.ByDay[0].Key != "Tuesday" || rep.ByDay[0].Total != 2 {
		t.Fatalf("unexpected day rows: %+v", rep.ByDay)
	}
	if rep.BestDay != "Tuesday" {
		t.Fatalf("unexpected best day: %q", rep.BestDay)
	}
	if rep.BestHour != HourLunch {
		t.Fatalf("unexpected best hour: %q", rep.BestHour)
	}
	if rep.ByHour[0].Key != HourLunch || rep.ByHour[1].Key != HourNight {
		t.Fatalf("hour rows not in range order: %+v", rep.ByHour)
	}
}

func TestAnalyzeTimingUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC Wednesday is 21:00 Tuesday at UTC-5.
	ts := time.Date(2026, 3, 18, 2, 0, 0, 0, time.UTC)
	rep := AnalyzeTiming([]domain.ApplicationRecord{job("1", domain.StatusApplied, withCreated(ts))}, DefaultCategories, loc)
	if rep.ByDay[0].Key != "Tuesday" || rep.ByHour[0].Key != HourNight {
		t.Fatalf("unexpected localized buckets: %+v %+v", rep.ByDay, rep.ByHour)
	}
}

func TestAnalyzeTimingEmpty(t *testing.T) {
	rep := AnalyzeTiming(nil, DefaultCategories, nil)
	if rep.BestDay != "N/A" || rep.BestHour != "N/A" {
		t.Fatalf("expected N/A, got %+v", rep)
	}
	if len(rep.ByDay) != 0 || len(rep.ByHour) != 0 {
		t.Fatalf("expected no rows, got %+v", rep)
	}
}

func TestBestByInterviewRateTieBreak(t *testing.T) {
	rows := []BreakdownRow{
		{Key: "Wednesday", Total: 2, InterviewRate: 50},
		{Key: "Monday", Total: 4, InterviewRate: 50},
		{Key: "Friday", Total: 1, InterviewRate: 0},
	}
	if got := bestByInterviewRate(rows); got != "Monday" {
		t.Fatalf("expected lexicographic tie-break to pick Monday, got %q", got)
	}
}
