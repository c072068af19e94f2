package analytics

import (
	"math"
	"testing"
	"time"

	"jobtracker/internal/domain"
)

func TestTrackGoal(t *testing.T) {
	cases := []struct {
		name      string
		target    float64
		current   float64
		progress  float64
		remaining float64
		achieved  bool
		degen     bool
		message   string
	}{
		{"zero target", 0, 5, 0, 0, false, true, "Target not set"},
		{"negative target", -3, 5, 0, 0, false, true, "Target not set"},
		{"partial", 20, 5, 25, 15, false, false, "15 to go"},
		{"exact", 10, 10, 100, 0, true, false, "Goal achieved!"},
		{"over achieved", 10, 14, 100, 0, true, false, "Goal achieved!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := domain.Goal{ID: "g", GoalType: domain.GoalApplications, TargetValue: tc.target, TimePeriod: domain.PeriodWeekly}
			p := TrackGoal(g, tc.current)
			if math.IsNaN(p.ProgressPercent) || math.IsInf(p.ProgressPercent, 0) {
				t.Fatalf("progress leaked NaN/Inf: %+v", p)
			}
			if p.ProgressPercent != tc.progress || p.AmountRemaining != tc.remaining {
				t.Fatalf("unexpected progress: %+v", p)
			}
			if p.Achieved != tc.achieved || p.Degenerate != tc.degen || p.Message != tc.message {
				t.Fatalf("unexpected flags: %+v", p)
			}
		})
	}
}

func TestTrackGoalResponseRateMessage(t *testing.T) {
	g := domain.Goal{GoalType: domain.GoalResponseRate, TargetValue: 30}
	p := TrackGoal(g, 22.5)
	if p.Message != "7.5% to go" {
		t.Fatalf("unexpected message: %q", p.Message)
	}
}

func TestGoalMetric(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Jobs: []domain.ApplicationRecord{
			job("1", domain.StatusApplied, withCreated(start.AddDate(0, 0, 1))),
			job("2", domain.StatusPhoneScreen, withCreated(start.AddDate(0, 0, 2))),
			job("3", domain.StatusInterested, withCreated(start.AddDate(0, 0, 2))),
			job("4", domain.StatusRejected, withCreated(start.AddDate(0, 0, 3))),
			job("5", domain.StatusApplied, withCreated(start.AddDate(0, 0, 9))),
		},
		Interviews: []domain.InterviewRecord{
			{JobID: "2", CreatedAt: start.AddDate(0, 0, 4)},
			{JobID: "2", CreatedAt: start.AddDate(0, 0, -1)},
		},
		StatusHistory: []domain.StatusTransition{
			{JobID: "2", ToStatus: domain.StatusOfferReceived, ChangedAt: start.AddDate(0, 0, 5)},
		},
	}
	cases := map[domain.GoalType]float64{
		domain.GoalApplications: 3,
		domain.GoalInterviews:   1,
		domain.GoalOffers:       1,
		domain.GoalResponseRate: 200.0 / 3,
	}
	for gt, want := range cases {
		g := domain.Goal{GoalType: gt, TargetValue: 1, TimePeriod: domain.PeriodWeekly, StartDate: start}
		if got := GoalMetric(g, in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("GoalMetric(%s) = %v, want %v", gt, got, want)
		}
	}
}
