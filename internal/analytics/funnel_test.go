package analytics

import (
	"testing"

	"jobtracker/internal/domain"
)

func TestBuildFunnel(t *testing.T) {
	jobs := []domain.ApplicationRecord{
		job("1", domain.StatusApplied),
		job("2", domain.StatusPhoneScreen),
		job("3", domain.StatusOfferReceived),
		job("4", domain.StatusAccepted),
		job("5", domain.StatusInterested),
	}
	interviews := []domain.InterviewRecord{
		{ID: "i1", JobID: "2"},
		{ID: "i2", JobID: "3"},
	}
	history := []domain.StatusTransition{
		{JobID: "1", FromStatus: domain.StatusInterested, ToStatus: domain.StatusApplied},
		{JobID: "2", FromStatus: domain.StatusApplied, ToStatus: domain.StatusPhoneScreen},
		{JobID: "3", FromStatus: domain.StatusInterviewed, ToStatus: domain.StatusOfferReceived},
	}
	stages := BuildFunnel(jobs, interviews, history)
	want := []FunnelStage{
		{Stage: StageApplied, Count: 4, Percentage: 100},
		{Stage: StageResponse, Count: 2, Percentage: 50},
		{Stage: StageInterview, Count: 2, Percentage: 50},
		{Stage: StageOffer, Count: 1, Percentage: 25},
	}
	if len(stages) != len(want) {
		t.Fatalf("unexpected stages: %+v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stage %d = %+v, want %+v", i, stages[i], want[i])
		}
	}
}

func TestBuildFunnelEmpty(t *testing.T) {
	stages := BuildFunnel(nil, nil, nil)
	for _, s := range stages {
		if s.Count != 0 || s.Percentage != 0 {
			t.Fatalf("expected zeroed funnel, got %+v", stages)
		}
	}
}

func TestBuildFunnelClampsResponseOverflow(t *testing.T) {
	jobs := []domain.ApplicationRecord{job("1", domain.StatusInterviewed)}
	history := []domain.StatusTransition{
		{JobID: "1", ToStatus: domain.StatusPhoneScreen},
		{JobID: "1", ToStatus: domain.StatusInterviewScheduled},
		{JobID: "1", ToStatus: domain.StatusInterviewed},
	}
	stages := BuildFunnel(jobs, nil, history)
	if stages[1].Count != 3 || stages[1].Percentage != 100 {
		t.Fatalf("unexpected response stage: %+v", stages[1])
	}
}
