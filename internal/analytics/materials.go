package analytics

import "jobtracker/internal/domain"

type MaterialsCohort struct {
	Total         int     `json:"total"`
	SuccessRate   float64 `json:"successRate"`
	InterviewRate float64 `json:"interviewRate"`
}

// MaterialsReport compares applications sent with a tailored resume or cover
// letter against the rest.
type MaterialsReport struct {
	Customized MaterialsCohort `json:"customized"`
	Standard   MaterialsCohort `json:"standard"`
}

func AnalyzeMaterials(jobs []domain.ApplicationRecord, packages []domain.ApplicationPackage, cats StatusCategories) MaterialsReport {
	customized := make(map[string]bool, len(packages))
	for _, p := range packages {
		if p.Customized() {
			customized[p.JobID] = true
		}
	}
	buckets := Aggregate(jobs, func(r domain.ApplicationRecord) string {
		if customized[r.ID] {
			return "customized"
		}
		return "standard"
	}, cats)

	cohort := func(key string) MaterialsCohort {
		c, _ := buckets.Get(key)
		rates := RatesFor(c)
		return MaterialsCohort{Total: c.Total, SuccessRate: rates.SuccessRate, InterviewRate: rates.InterviewRate}
	}
	return MaterialsReport{
		Customized: cohort("customized"),
		Standard:   cohort("standard"),
	}
}
