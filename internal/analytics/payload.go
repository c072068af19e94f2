package analytics

import "encoding/json"

// RecommendationPayload is the document sent to the recommendation generator.
type RecommendationPayload struct {
	Totals               Totals          `json:"totals"`
	IndustryBreakdown    []BreakdownRow  `json:"industryBreakdown"`
	CompanySizeBreakdown []BreakdownRow  `json:"companySizeBreakdown"`
	RoleTypeBreakdown    []BreakdownRow  `json:"roleTypeBreakdown"`
	SourceBreakdown      []BreakdownRow  `json:"sourceBreakdown"`
	Patterns             PatternSummary  `json:"patterns"`
	Timing               TimingReport    `json:"timing"`
	Materials            MaterialsReport `json:"materials"`
}

func nonNilRows(rows []BreakdownRow) []BreakdownRow {
	if rows == nil {
		return []BreakdownRow{}
	}
	return rows
}

func (r Report) RecommendationPayload() RecommendationPayload {
	timing := r.Timing
	timing.ByDay = nonNilRows(timing.ByDay)
	timing.ByHour = nonNilRows(timing.ByHour)
	return RecommendationPayload{
		Totals:               r.Totals,
		IndustryBreakdown:    nonNilRows(r.IndustryBreakdown),
		CompanySizeBreakdown: nonNilRows(r.CompanySizeBreakdown),
		RoleTypeBreakdown:    nonNilRows(r.RoleTypeBreakdown),
		SourceBreakdown:      nonNilRows(r.SourceBreakdown),
		Patterns:             r.Patterns,
		Timing:               timing,
		Materials:            r.Materials,
	}
}

func (p RecommendationPayload) JSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
