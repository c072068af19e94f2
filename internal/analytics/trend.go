package analytics

import (
	"time"

	"jobtracker/internal/domain"
)

const week = 7 * 24 * time.Hour

type WeeklyPoint struct {
	Label        string    `json:"label"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Applications int       `json:"applications"`
	Interviews   int       `json:"interviews"`
	Offers       int       `json:"offers"`
}

type TrendReport struct {
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	FirstHalf    int           `json:"firstHalf"`
	SecondHalf   int           `json:"secondHalf"`
	TrendPercent float64       `json:"trendPercent"`
	WeeklySeries []WeeklyPoint `json:"weeklySeries"`
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// SplitTrend counts timestamps in [from,to] on each side of the midpoint.
// Timestamps equal to the midpoint belong to the second half. The percent
// change is 0 when the first half is empty.
func SplitTrend(from, to time.Time, stamps []time.Time) (first, second int, percent float64) {
	if to.Before(from) {
		return 0, 0, 0
	}
	mid := from.Add(to.Sub(from) / 2)
	for _, ts := range stamps {
		if !inRange(ts, from, to) {
			continue
		}
		if ts.Before(mid) {
			first++
		} else {
			second++
		}
	}
	if first == 0 {
		return first, second, 0
	}
	return first, second, float64(second-first) / float64(first) * 100
}

// WeeklyWindows partitions [from,to] into 7-day windows; the last one may be
// shorter. Each window is [Start,End) except the last, which includes to.
func WeeklyWindows(from, to time.Time, loc *time.Location) []WeeklyPoint {
	if !to.After(from) {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	var out []WeeklyPoint
	for start := from; start.Before(to); start = start.Add(week) {
		end := start.Add(week)
		if end.After(to) {
			end = to
		}
		out = append(out, WeeklyPoint{
			Label: start.In(loc).Format("Jan 2"),
			Start: start,
			End:   end,
		})
	}
	return out
}

func windowIndex(windows []WeeklyPoint, t time.Time) int {
	for i, w := range windows {
		last := i == len(windows)-1
		if t.Before(w.Start) {
			return -1
		}
		if t.Before(w.End) || (last && !t.After(w.End)) {
			return i
		}
	}
	return -1
}

func CalculateTrend(from, to time.Time, jobs []domain.ApplicationRecord, interviews []domain.InterviewRecord, history []domain.StatusTransition, loc *time.Location) TrendReport {
	var stamps []time.Time
	for _, j := range jobs {
		if j.Status.IsApplied() {
			stamps = append(stamps, j.CreatedAt)
		}
	}
	first, second, pct := SplitTrend(from, to, stamps)

	windows := WeeklyWindows(from, to, loc)
	for _, ts := range stamps {
		if i := windowIndex(windows, ts); i >= 0 {
			windows[i].Applications++
		}
	}
	for _, iv := range interviews {
		if i := windowIndex(windows, iv.CreatedAt); i >= 0 {
			windows[i].Interviews++
		}
	}
	for _, t := range history {
		if t.ToStatus != domain.StatusOfferReceived {
			continue
		}
		if i := windowIndex(windows, t.ChangedAt); i >= 0 {
			windows[i].Offers++
		}
	}

	return TrendReport{
		From:         from,
		To:           to,
		FirstHalf:    first,
		SecondHalf:   second,
		TrendPercent: pct,
		WeeklySeries: windows,
	}
}
