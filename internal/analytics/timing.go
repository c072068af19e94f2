package analytics

import (
	"time"

	"jobtracker/internal/domain"
)

const notAvailable = "N/A"

const (
	HourEarlyMorning = "Early Morning (6-9)"
	HourMorning      = "Morning (9-12)"
	HourLunch        = "Lunch (12-14)"
	HourAfternoon    = "Afternoon (14-17)"
	HourEvening      = "Evening (17-20)"
	HourNight        = "Night (20+)"
)

var hourRanges = []string{HourEarlyMorning, HourMorning, HourLunch, HourAfternoon, HourEvening, HourNight}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type TimingReport struct {
	ByDay    []BreakdownRow `json:"byDay"`
	ByHour   []BreakdownRow `json:"byHour"`
	BestDay  string         `json:"bestDay"`
	BestHour string         `json:"bestHour"`
}

// HourRange maps an hour of day onto its submission window. Hours before 6
// fall into the early-morning window too.
func HourRange(hour int) string {
	switch {
	case hour < 9:
		return HourEarlyMorning
	case hour < 12:
		return HourMorning
	case hour < 14:
		return HourLunch
	case hour < 17:
		return HourAfternoon
	case hour < 20:
		return HourEvening
	default:
		return HourNight
	}
}

func AnalyzeTiming(records []domain.ApplicationRecord, cats StatusCategories, loc *time.Location) TimingReport {
	if loc == nil {
		loc = time.UTC
	}
	byDay := Aggregate(records, func(r domain.ApplicationRecord) string {
		return r.CreatedAt.In(loc).Weekday().String()
	}, cats)
	byHour := Aggregate(records, func(r domain.ApplicationRecord) string {
		return HourRange(r.CreatedAt.In(loc).Hour())
	}, cats)

	dayKeys := make([]string, len(weekdayOrder))
	for i, d := range weekdayOrder {
		dayKeys[i] = d.String()
	}

	dayRows := orderedRows(byDay, dayKeys)
	hourRows := orderedRows(byHour, hourRanges)
	return TimingReport{
		ByDay:    dayRows,
		ByHour:   hourRows,
		BestDay:  bestByInterviewRate(dayRows),
		BestHour: bestByInterviewRate(hourRows),
	}
}

func orderedRows(b *Buckets, order []string) []BreakdownRow {
	rows := make([]BreakdownRow, 0, len(order))
	for _, key := range order {
		c, ok := b.Get(key)
		if !ok || c.Total == 0 {
			continue
		}
		rows = append(rows, rowFor(key, c))
	}
	return rows
}

// bestByInterviewRate returns the key with the highest interview rate. Ties go
// to the lexicographically smallest key so the answer never depends on input
// order.
func bestByInterviewRate(rows []BreakdownRow) string {
	best := notAvailable
	bestRate := -1.0
	for _, row := range rows {
		if row.Total == 0 {
			continue
		}
		if row.InterviewRate > bestRate || (row.InterviewRate == bestRate && row.Key < best) {
			best = row.Key
			bestRate = row.InterviewRate
		}
	}
	return best
}
