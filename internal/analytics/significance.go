package analytics

import "math"

const significanceThreshold = 0.05

// SignificanceRow flags buckets whose success rate departs from the baseline.
// PApprox is exp(-chi/2), an uncalibrated score rather than a chi-square
// p-value; it has no degrees-of-freedom correction.
type SignificanceRow struct {
	Dimension string `json:"dimension"`
	BreakdownRow
	Expected      float64 `json:"expected"`
	Observed      float64 `json:"observed"`
	ChiSquareLike float64 `json:"chiSquareLike"`
	PApprox       float64 `json:"pApprox"`
	Significant   bool    `json:"significant"`
}

func EstimateSignificance(dimension string, b *Buckets, baselineRate float64) []SignificanceRow {
	rows := Breakdown(b, MinSignificanceBucket)
	out := make([]SignificanceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, significanceFor(dimension, row, baselineRate))
	}
	return out
}

func significanceFor(dimension string, row BreakdownRow, baselineRate float64) SignificanceRow {
	total := float64(row.Total)
	expected := total * (baselineRate / 100)
	observed := total * (row.SuccessRate / 100)

	chi := 0.0
	if expected != 0 {
		chi = (observed - expected) * (observed - expected) / expected
	}
	p := math.Exp(-chi / 2)

	return SignificanceRow{
		Dimension:     dimension,
		BreakdownRow:  row,
		Expected:      expected,
		Observed:      observed,
		ChiSquareLike: chi,
		PApprox:       p,
		Significant:   p < significanceThreshold,
	}
}
