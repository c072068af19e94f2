package analytics

import (
	"fmt"
	"math"
	"time"

	"jobtracker/internal/domain"
)

const goalAchievedMessage = "Goal achieved!"

type GoalProgress struct {
	GoalID          string          `json:"goalId"`
	GoalType        domain.GoalType `json:"goalType"`
	CurrentValue    float64         `json:"currentValue"`
	TargetValue     float64         `json:"targetValue"`
	ProgressPercent float64         `json:"progressPercent"`
	AmountRemaining float64         `json:"amountRemaining"`
	Achieved        bool            `json:"achieved"`
	Degenerate      bool            `json:"degenerate"`
	Message         string          `json:"message"`
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
}

// TrackGoal compares current against the goal target. ProgressPercent is
// clamped for progress bars; Achieved uses the unclamped ratio so
// over-achievement never produces a negative remainder. A non-positive target
// is degenerate and reports zero progress.
func TrackGoal(g domain.Goal, current float64) GoalProgress {
	p := GoalProgress{
		GoalID:       g.ID,
		GoalType:     g.GoalType,
		CurrentValue: current,
		TargetValue:  g.TargetValue,
		PeriodStart:  g.StartDate,
		PeriodEnd:    g.PeriodEnd(),
	}
	if g.TargetValue <= 0 || math.IsNaN(g.TargetValue) || math.IsInf(g.TargetValue, 0) {
		p.Degenerate = true
		p.Message = "Target not set"
		return p
	}

	raw := current / g.TargetValue * 100
	p.ProgressPercent = clampRate(raw)
	p.Achieved = raw >= 100
	p.AmountRemaining = math.Max(g.TargetValue-current, 0)
	if p.Achieved {
		p.Message = goalAchievedMessage
	} else {
		p.Message = fmt.Sprintf("%s to go", formatAmount(p.AmountRemaining, g.GoalType))
	}
	return p
}

func formatAmount(v float64, goalType domain.GoalType) string {
	if goalType == domain.GoalResponseRate {
		return fmt.Sprintf("%.1f%%", v)
	}
	return fmt.Sprintf("%.0f", math.Ceil(v))
}

// GoalMetric computes the live value of the metric a goal tracks over the
// goal window [StartDate, PeriodEnd).
func GoalMetric(g domain.Goal, in Inputs) float64 {
	from, to := g.StartDate, g.PeriodEnd()
	within := func(t time.Time) bool { return !t.Before(from) && t.Before(to) }

	switch g.GoalType {
	case domain.GoalApplications:
		n := 0
		for _, j := range in.Jobs {
			if j.Status.IsApplied() && within(j.CreatedAt) {
				n++
			}
		}
		return float64(n)
	case domain.GoalInterviews:
		n := 0
		for _, iv := range in.Interviews {
			if within(iv.CreatedAt) {
				n++
			}
		}
		return float64(n)
	case domain.GoalOffers:
		n := 0
		for _, t := range in.StatusHistory {
			if t.ToStatus == domain.StatusOfferReceived && within(t.ChangedAt) {
				n++
			}
		}
		return float64(n)
	case domain.GoalResponseRate:
		applied, responded := 0, 0
		for _, j := range in.Jobs {
			if !j.Status.IsApplied() || !within(j.CreatedAt) {
				continue
			}
			applied++
			if j.Status != domain.StatusApplied {
				responded++
			}
		}
		return Percent(responded, applied)
	}
	return 0
}

func TrackGoals(in Inputs) []GoalProgress {
	out := make([]GoalProgress, 0, len(in.Goals))
	for _, g := range in.Goals {
		out = append(out, TrackGoal(g, GoalMetric(g, in)))
	}
	return out
}
