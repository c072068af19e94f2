package analytics

import (
	"time"

	"jobtracker/internal/domain"
)

// DefaultTrendWindow is the trend range used when Options leaves it unset.
const DefaultTrendWindow = 90 * 24 * time.Hour

// Dimension names used in significance rows.
const (
	DimensionIndustry    = "industry"
	DimensionCompanySize = "companySize"
	DimensionRoleType    = "roleType"
	DimensionSource      = "source"
)

// Inputs are the collections fetched by the caller. Nil slices are empty
// collections.
type Inputs struct {
	Jobs          []domain.ApplicationRecord  `json:"jobs"`
	Interviews    []domain.InterviewRecord    `json:"interviews"`
	StatusHistory []domain.StatusTransition   `json:"statusHistory"`
	Packages      []domain.ApplicationPackage `json:"applicationPackages"`
	Goals         []domain.Goal               `json:"goals"`
}

type Options struct {
	// Location is used for weekday and hour bucketing. Nil means UTC.
	Location *time.Location
	// Now anchors the default trend range. It is never read from the clock
	// here so that identical inputs give identical reports.
	Now         time.Time
	TrendFrom   time.Time
	TrendTo     time.Time
	TrendWindow time.Duration
	Categories  *StatusCategories
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o Options) categories() StatusCategories {
	if o.Categories == nil {
		return DefaultCategories
	}
	return *o.Categories
}

// trendRange resolves the trend bounds. Both bounds set wins. TrendFrom
// alone runs to Now, or TrendWindow past it when Now is not later. TrendTo
// alone, or neither, looks back TrendWindow.
func (o Options) trendRange() (time.Time, time.Time) {
	if !o.TrendFrom.IsZero() && !o.TrendTo.IsZero() {
		return o.TrendFrom, o.TrendTo
	}
	window := o.TrendWindow
	if window <= 0 {
		window = DefaultTrendWindow
	}
	if !o.TrendFrom.IsZero() {
		if o.Now.After(o.TrendFrom) {
			return o.TrendFrom, o.Now
		}
		return o.TrendFrom, o.TrendFrom.Add(window)
	}
	to := o.TrendTo
	if to.IsZero() {
		to = o.Now
	}
	return to.Add(-window), to
}

type Totals struct {
	TotalJobs          int     `json:"totalJobs"`
	Applied            int     `json:"applied"`
	Interested         int     `json:"interested"`
	SuccessCount       int     `json:"successCount"`
	InterviewCount     int     `json:"interviewCount"`
	RejectedCount      int     `json:"rejectedCount"`
	OverallSuccessRate float64 `json:"overallSuccessRate"`
	InterviewRate      float64 `json:"interviewRate"`
	RejectionRate      float64 `json:"rejectionRate"`
	TotalInterviews    int     `json:"totalInterviews"`
}

type Report struct {
	Totals               Totals            `json:"totals"`
	IndustryBreakdown    []BreakdownRow    `json:"industryBreakdown"`
	CompanySizeBreakdown []BreakdownRow    `json:"companySizeBreakdown"`
	RoleTypeBreakdown    []BreakdownRow    `json:"roleTypeBreakdown"`
	SourceBreakdown      []BreakdownRow    `json:"sourceBreakdown"`
	Significance         []SignificanceRow `json:"significance"`
	Patterns             PatternSummary    `json:"patterns"`
	Materials            MaterialsReport   `json:"materials"`
	Timing               TimingReport      `json:"timing"`
	Funnel               []FunnelStage     `json:"funnel"`
	Trend                TrendReport       `json:"trend"`
	Goals                []GoalProgress    `json:"goals"`
}

func totalsFor(in Inputs, cats StatusCategories) Totals {
	all := CountAll(in.Jobs, cats)
	rates := RatesFor(all)
	return Totals{
		TotalJobs:          len(in.Jobs),
		Applied:            all.Total,
		Interested:         len(in.Jobs) - all.Total,
		SuccessCount:       all.SuccessCount,
		InterviewCount:     all.InterviewCount,
		RejectedCount:      all.RejectedCount,
		OverallSuccessRate: rates.SuccessRate,
		InterviewRate:      rates.InterviewRate,
		RejectionRate:      rates.RejectionRate,
		TotalInterviews:    len(in.Interviews),
	}
}

// Analyze runs every engine component once over in.
func Analyze(in Inputs, opts Options) Report {
	cats := opts.categories()
	loc := opts.location()
	baseline := BaselineRate(in.Jobs, cats)

	industries := Aggregate(in.Jobs, industryKey, cats)
	sizes := Aggregate(in.Jobs, companySizeKey, cats)
	roles := Aggregate(in.Jobs, roleTypeKey, cats)
	sources := Aggregate(in.Jobs, sourceKey, cats)

	significance := make([]SignificanceRow, 0)
	significance = append(significance, EstimateSignificance(DimensionIndustry, industries, baseline)...)
	significance = append(significance, EstimateSignificance(DimensionCompanySize, sizes, baseline)...)
	significance = append(significance, EstimateSignificance(DimensionRoleType, roles, baseline)...)
	significance = append(significance, EstimateSignificance(DimensionSource, sources, baseline)...)

	successful, rejected := cohorts(in.Jobs, cats)
	from, to := opts.trendRange()

	return Report{
		Totals:               totalsFor(in, cats),
		IndustryBreakdown:    Breakdown(industries, MinIndustryBucket),
		CompanySizeBreakdown: Breakdown(sizes, MinCompanySizeBucket),
		RoleTypeBreakdown:    Breakdown(roles, MinRoleTypeBucket),
		SourceBreakdown:      Breakdown(sources, MinSourceBucket),
		Significance:         significance,
		Patterns:             ComparePatterns(successful, rejected, DefaultSelectors),
		Materials:            AnalyzeMaterials(in.Jobs, in.Packages, cats),
		Timing:               AnalyzeTiming(in.Jobs, cats, loc),
		Funnel:               BuildFunnel(in.Jobs, in.Interviews, in.StatusHistory),
		Trend:                CalculateTrend(from, to, in.Jobs, in.Interviews, in.StatusHistory, loc),
		Goals:                TrackGoals(in),
	}
}
