package analytics

import (
	"strings"
	"testing"

	"jobtracker/internal/domain"
)

func withDescription(n int) func(*domain.ApplicationRecord) {
	return func(r *domain.ApplicationRecord) { r.Description = strings.Repeat("x", n) }
}

func TestComparePatterns(t *testing.T) {
	cases := []struct {
		name       string
		successLen int
		rejectLen  int
		want       Correlation
	}{
		{"positive", 400, 200, CorrelationPositive},
		{"inverse", 100, 300, CorrelationInverse},
		{"within threshold", 250, 200, CorrelationNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := []domain.ApplicationRecord{job("a", domain.StatusAccepted, withDescription(tc.successLen))}
			b := []domain.ApplicationRecord{job("b", domain.StatusRejected, withDescription(tc.rejectLen))}
			got := ComparePatterns(a, b, DefaultSelectors)
			if got.Correlation != tc.want {
				t.Fatalf("correlation = %q, want %q (%s)", got.Correlation, tc.want, got.ComparativeNote)
			}
			if got.ComparativeNote == "" {
				t.Fatal("expected a comparative note")
			}
		})
	}
}

func TestDescribeCohortEmpty(t *testing.T) {
	s := DescribeCohort(nil, DefaultSelectors)
	if s.Size != 0 || s.AvgDescriptionLength != 0 {
		t.Fatalf("unexpected empty cohort stats: %+v", s)
	}
}

func TestDescribeCohortPresence(t *testing.T) {
	records := []domain.ApplicationRecord{
		job("1", domain.StatusAccepted, func(r *domain.ApplicationRecord) {
			r.Notes = "referral"
			r.SalaryRange = "100-120k"
		}),
		job("2", domain.StatusAccepted, func(r *domain.ApplicationRecord) {
			r.Location = "Remote"
			r.Notes = "   "
		}),
	}
	s := DescribeCohort(records, DefaultSelectors)
	if s.WithNotes != 1 || s.WithSalary != 1 || s.WithLocation != 1 {
		t.Fatalf("unexpected presence counts: %+v", s)
	}
}
