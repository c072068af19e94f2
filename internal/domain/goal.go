package domain

import (
	"strings"
	"time"
)

type GoalType string

const (
	GoalApplications GoalType = "applications"
	GoalInterviews   GoalType = "interviews"
	GoalOffers       GoalType = "offers"
	GoalResponseRate GoalType = "response_rate"
)

type TimePeriod string

const (
	PeriodWeekly    TimePeriod = "weekly"
	PeriodMonthly   TimePeriod = "monthly"
	PeriodQuarterly TimePeriod = "quarterly"
	PeriodYearly    TimePeriod = "yearly"
)

type Goal struct {
	ID          string     `json:"id"`
	GoalType    GoalType   `json:"goal_type"`
	TargetValue float64    `json:"target_value"`
	TimePeriod  TimePeriod `json:"time_period"`
	StartDate   time.Time  `json:"start_date"`
}

// PeriodEnd returns the exclusive end of the goal window. Unknown periods
// fall back to monthly.
func (g Goal) PeriodEnd() time.Time {
	switch g.TimePeriod {
	case PeriodWeekly:
		return g.StartDate.AddDate(0, 0, 7)
	case PeriodQuarterly:
		return g.StartDate.AddDate(0, 3, 0)
	case PeriodYearly:
		return g.StartDate.AddDate(1, 0, 0)
	default:
		return g.StartDate.AddDate(0, 1, 0)
	}
}

func ParseGoalType(s string) (GoalType, bool) {
	switch GoalType(strings.ToLower(strings.TrimSpace(s))) {
	case GoalApplications:
		return GoalApplications, true
	case GoalInterviews:
		return GoalInterviews, true
	case GoalOffers:
		return GoalOffers, true
	case GoalResponseRate:
		return GoalResponseRate, true
	}
	return "", false
}

func ParseTimePeriod(s string) (TimePeriod, bool) {
	switch TimePeriod(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodWeekly:
		return PeriodWeekly, true
	case PeriodMonthly:
		return PeriodMonthly, true
	case PeriodQuarterly:
		return PeriodQuarterly, true
	case PeriodYearly:
		return PeriodYearly, true
	}
	return "", false
}
