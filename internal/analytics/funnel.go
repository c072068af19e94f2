package analytics

import "jobtracker/internal/domain"

const (
	StageApplied   = "Applied"
	StageResponse  = "Response"
	StageInterview = "Interview"
	StageOffer     = "Offer"
)

type FunnelStage struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BuildFunnel snapshots how far applications got. Stages are counted
// independently, so one job can show up in Response and Interview; each stage
// means "reached at least this far".
func BuildFunnel(jobs []domain.ApplicationRecord, interviews []domain.InterviewRecord, history []domain.StatusTransition) []FunnelStage {
	applied := 0
	offers := 0
	for _, j := range jobs {
		if !j.Status.IsApplied() {
			continue
		}
		applied++
		if j.Status == domain.StatusOfferReceived {
			offers++
		}
	}

	responses := 0
	for _, t := range history {
		if t.ToStatus != domain.StatusInterested && t.ToStatus != domain.StatusApplied {
			responses++
		}
	}

	return []FunnelStage{
		{Stage: StageApplied, Count: applied, Percentage: Percent(applied, applied)},
		{Stage: StageResponse, Count: responses, Percentage: Percent(responses, applied)},
		{Stage: StageInterview, Count: len(interviews), Percentage: Percent(len(interviews), applied)},
		{Stage: StageOffer, Count: offers, Percentage: Percent(offers, applied)},
	}
}
