package analytics

import (
	"fmt"

	"jobtracker/internal/domain"
)

// LengthDeltaThreshold is the average description length gap, in characters,
// needed before the comparator reports a difference.
const LengthDeltaThreshold = 50.0

type Correlation string

const (
	CorrelationPositive Correlation = "positive"
	CorrelationInverse  Correlation = "inverse"
	CorrelationNone     Correlation = "none"
)

type CohortStats struct {
	Size                 int     `json:"size"`
	AvgDescriptionLength float64 `json:"avgDescriptionLength"`
	WithNotes            int     `json:"withNotes"`
	WithSalary           int     `json:"withSalary"`
	WithLocation         int     `json:"withLocation"`
}

// PatternSummary is descriptive only. Nothing here is statistically
// validated and the note never claims causation.
type PatternSummary struct {
	Successful      CohortStats `json:"successful"`
	Rejected        CohortStats `json:"rejected"`
	LengthDelta     float64     `json:"lengthDelta"`
	Correlation     Correlation `json:"correlation"`
	ComparativeNote string      `json:"comparativeNote"`
}

type CohortSelectors struct {
	TextLength  func(domain.ApplicationRecord) int
	HasNotes    func(domain.ApplicationRecord) bool
	HasSalary   func(domain.ApplicationRecord) bool
	HasLocation func(domain.ApplicationRecord) bool
}

var DefaultSelectors = CohortSelectors{
	TextLength:  domain.ApplicationRecord.DescriptionLength,
	HasNotes:    domain.ApplicationRecord.HasNotes,
	HasSalary:   domain.ApplicationRecord.HasSalary,
	HasLocation: domain.ApplicationRecord.HasLocation,
}

func DescribeCohort(records []domain.ApplicationRecord, sel CohortSelectors) CohortStats {
	stats := CohortStats{Size: len(records)}
	if len(records) == 0 {
		return stats
	}
	totalLen := 0
	for _, r := range records {
		totalLen += sel.TextLength(r)
		if sel.HasNotes(r) {
			stats.WithNotes++
		}
		if sel.HasSalary(r) {
			stats.WithSalary++
		}
		if sel.HasLocation(r) {
			stats.WithLocation++
		}
	}
	stats.AvgDescriptionLength = float64(totalLen) / float64(len(records))
	return stats
}

// ComparePatterns contrasts cohort a (successful) with cohort b (rejected).
func ComparePatterns(a, b []domain.ApplicationRecord, sel CohortSelectors) PatternSummary {
	sa := DescribeCohort(a, sel)
	sb := DescribeCohort(b, sel)
	delta := sa.AvgDescriptionLength - sb.AvgDescriptionLength

	summary := PatternSummary{
		Successful:  sa,
		Rejected:    sb,
		LengthDelta: delta,
	}
	switch {
	case delta > LengthDeltaThreshold:
		summary.Correlation = CorrelationPositive
		summary.ComparativeNote = fmt.Sprintf(
			"Successful applications had job descriptions %.0f characters longer on average (%.0f vs %.0f). More detailed postings may go with better outcomes.",
			delta, sa.AvgDescriptionLength, sb.AvgDescriptionLength)
	case -delta > LengthDeltaThreshold:
		summary.Correlation = CorrelationInverse
		summary.ComparativeNote = fmt.Sprintf(
			"Rejected applications had job descriptions %.0f characters longer on average (%.0f vs %.0f). Long, demanding postings may be a weaker fit.",
			-delta, sb.AvgDescriptionLength, sa.AvgDescriptionLength)
	default:
		summary.Correlation = CorrelationNone
		summary.ComparativeNote = fmt.Sprintf(
			"No material difference in job description length between successful and rejected applications (%.0f vs %.0f, delta %.0f).",
			sa.AvgDescriptionLength, sb.AvgDescriptionLength, delta)
	}
	return summary
}

func cohorts(records []domain.ApplicationRecord, cats StatusCategories) (successful, rejected []domain.ApplicationRecord) {
	for _, r := range records {
		if !r.Status.IsApplied() {
			continue
		}
		if cats.Successful.Has(r.Status) {
			successful = append(successful, r)
		}
		if cats.Rejected.Has(r.Status) {
			rejected = append(rejected, r)
		}
	}
	return successful, rejected
}
