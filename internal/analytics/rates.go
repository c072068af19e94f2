package analytics

import (
	"math"
	"sort"

	"jobtracker/internal/domain"
)

// Minimum bucket totals before a bucket is reported individually.
const (
	MinIndustryBucket     = 2
	MinCompanySizeBucket  = 2
	MinRoleTypeBucket     = 2
	MinSourceBucket       = 1
	MinSignificanceBucket = 3
)

type Rates struct {
	SuccessRate   float64 `json:"successRate"`
	InterviewRate float64 `json:"interviewRate"`
	RejectionRate float64 `json:"rejectionRate"`
}

type BreakdownRow struct {
	Key           string  `json:"key"`
	Total         int     `json:"total"`
	SuccessRate   float64 `json:"successRate"`
	InterviewRate float64 `json:"interviewRate"`
	RejectionRate float64 `json:"rejectionRate"`
}

// Percent returns part/whole*100 clamped to [0,100]; a zero or negative whole
// yields 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return clampRate(float64(part) * 100 / float64(whole))
}

func clampRate(v float64) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func RatesFor(c BucketCounts) Rates {
	return Rates{
		SuccessRate:   Percent(c.SuccessCount, c.Total),
		InterviewRate: Percent(c.InterviewCount, c.Total),
		RejectionRate: Percent(c.RejectedCount, c.Total),
	}
}

func rowFor(key string, c BucketCounts) BreakdownRow {
	rates := RatesFor(c)
	return BreakdownRow{
		Key:           key,
		Total:         c.Total,
		SuccessRate:   rates.SuccessRate,
		InterviewRate: rates.InterviewRate,
		RejectionRate: rates.RejectionRate,
	}
}

// BaselineRate is the success rate over the whole ungated population.
func BaselineRate(records []domain.ApplicationRecord, cats StatusCategories) float64 {
	return RatesFor(CountAll(records, cats)).SuccessRate
}

// Breakdown reports buckets whose total reaches minTotal, largest first and
// then by key. Gated buckets still count toward the baseline.
func Breakdown(b *Buckets, minTotal int) []BreakdownRow {
	rows := make([]BreakdownRow, 0, b.Len())
	for _, key := range b.keys {
		c := *b.counts[key]
		if c.Total < minTotal {
			continue
		}
		rows = append(rows, rowFor(key, c))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}
