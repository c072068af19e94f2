package report

import (
	"fmt"
	"strings"

	"jobtracker/internal/analytics"
	"jobtracker/internal/domain"
	"jobtracker/internal/integrations/llm"
)

const noData = "N/A"

// Breakdown dimensions accepted by RenderBreakdowns.
const (
	DimensionIndustry = "industry"
	DimensionSize     = "size"
	DimensionRole     = "role"
	DimensionSource   = "source"
	DimensionAll      = "all"
)

func ParseDimension(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", DimensionAll:
		return DimensionAll, true
	case DimensionIndustry, "industries":
		return DimensionIndustry, true
	case DimensionSize, "company-size", "company_size":
		return DimensionSize, true
	case DimensionRole, "role-type", "role_type", "roles":
		return DimensionRole, true
	case DimensionSource, "sources":
		return DimensionSource, true
	}
	return "", false
}

// RenderDashboard renders the overview plus every breakdown.
func RenderDashboard(title string, r analytics.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n\n", title))
	writeTotals(&sb, r.Totals)
	sb.WriteString("\n")
	sb.WriteString(RenderBreakdowns(r, DimensionAll))
	sb.WriteString("\n")
	sb.WriteString(RenderSignificance(r.Significance))
	sb.WriteString("\n")
	writePatterns(&sb, r.Patterns)
	sb.WriteString("\n")
	writeMaterials(&sb, r.Materials)
	sb.WriteString("\n")
	sb.WriteString(RenderTiming(r.Timing))
	sb.WriteString("\n")
	sb.WriteString(RenderFunnel(r.Funnel))
	sb.WriteString("\n")
	sb.WriteString(RenderTrend(r.Trend))
	if len(r.Goals) > 0 {
		sb.WriteString("\n")
		sb.WriteString(RenderGoals(r.Goals))
	}
	return sb.String()
}

func writeTotals(sb *strings.Builder, t analytics.Totals) {
	sb.WriteString("*Overview*\n")
	sb.WriteString(fmt.Sprintf("- Applications: %d (%d saved leads not counted)\n", t.Applied, t.Interested))
	sb.WriteString(fmt.Sprintf("- Success rate: %.1f%%\n", t.OverallSuccessRate))
	sb.WriteString(fmt.Sprintf("- Interview rate: %.1f%%\n", t.InterviewRate))
	sb.WriteString(fmt.Sprintf("- Rejection rate: %.1f%%\n", t.RejectionRate))
	sb.WriteString(fmt.Sprintf("- Interviews logged: %d\n", t.TotalInterviews))
}

func RenderBreakdowns(r analytics.Report, dimension string) string {
	sections := []struct {
		dim   string
		title string
		rows  []analytics.BreakdownRow
	}{
		{DimensionIndustry, "By Industry", r.IndustryBreakdown},
		{DimensionSize, "By Company Size", r.CompanySizeBreakdown},
		{DimensionRole, "By Role Type", r.RoleTypeBreakdown},
		{DimensionSource, "By Source", r.SourceBreakdown},
	}
	var sb strings.Builder
	first := true
	for _, s := range sections {
		if dimension != DimensionAll && dimension != s.dim {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		first = false
		sb.WriteString(fmt.Sprintf("*%s*\n", s.title))
		writeRows(&sb, s.rows)
	}
	return sb.String()
}

func writeRows(sb *strings.Builder, rows []analytics.BreakdownRow) {
	if len(rows) == 0 {
		sb.WriteString("- " + noData + "\n")
		return
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("- %s (%d): success %.1f%%, interview %.1f%%, rejected %.1f%%\n",
			row.Key, row.Total, row.SuccessRate, row.InterviewRate, row.RejectionRate))
	}
}

func RenderSignificance(rows []analytics.SignificanceRow) string {
	var sb strings.Builder
	sb.WriteString("*Standout Buckets*\n")
	flagged := 0
	for _, row := range rows {
		if !row.Significant {
			continue
		}
		flagged++
		direction := "above"
		if row.Observed < row.Expected {
			direction = "below"
		}
		sb.WriteString(fmt.Sprintf("- %s %s: %.1f%% success, %s baseline (p~%.3f, n=%d)\n",
			row.Dimension, row.Key, row.SuccessRate, direction, row.PApprox, row.Total))
	}
	if flagged == 0 {
		sb.WriteString("- No bucket departs from the baseline yet\n")
	}
	return sb.String()
}

func writePatterns(sb *strings.Builder, p analytics.PatternSummary) {
	sb.WriteString("*Patterns (descriptive only)*\n")
	sb.WriteString(fmt.Sprintf("- Successful: %d applications, avg description %.0f chars, notes %d, salary %d, location %d\n",
		p.Successful.Size, p.Successful.AvgDescriptionLength, p.Successful.WithNotes, p.Successful.WithSalary, p.Successful.WithLocation))
	sb.WriteString(fmt.Sprintf("- Rejected: %d applications, avg description %.0f chars, notes %d, salary %d, location %d\n",
		p.Rejected.Size, p.Rejected.AvgDescriptionLength, p.Rejected.WithNotes, p.Rejected.WithSalary, p.Rejected.WithLocation))
	sb.WriteString("- " + p.ComparativeNote + "\n")
}

func writeMaterials(sb *strings.Builder, m analytics.MaterialsReport) {
	sb.WriteString("*Tailored Materials*\n")
	sb.WriteString(fmt.Sprintf("- Customized (%d): success %.1f%%, interview %.1f%%\n",
		m.Customized.Total, m.Customized.SuccessRate, m.Customized.InterviewRate))
	sb.WriteString(fmt.Sprintf("- Standard (%d): success %.1f%%, interview %.1f%%\n",
		m.Standard.Total, m.Standard.SuccessRate, m.Standard.InterviewRate))
}

func RenderTiming(t analytics.TimingReport) string {
	var sb strings.Builder
	sb.WriteString("*Timing*\n")
	sb.WriteString(fmt.Sprintf("- Best day: %s\n", t.BestDay))
	sb.WriteString(fmt.Sprintf("- Best time: %s\n", t.BestHour))
	sb.WriteString("\n*By Day*\n")
	writeRows(&sb, t.ByDay)
	sb.WriteString("\n*By Time of Day*\n")
	writeRows(&sb, t.ByHour)
	return sb.String()
}

func RenderFunnel(stages []analytics.FunnelStage) string {
	var sb strings.Builder
	sb.WriteString("*Funnel*\n")
	if len(stages) == 0 {
		sb.WriteString("- " + noData + "\n")
		return sb.String()
	}
	for _, s := range stages {
		sb.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", s.Stage, s.Count, s.Percentage))
	}
	return sb.String()
}

func RenderTrend(t analytics.TrendReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Trend (%s to %s)*\n", t.From.Format("Jan 2"), t.To.Format("Jan 2")))
	sb.WriteString(fmt.Sprintf("- Applications: %d then %d (%+.1f%%)\n", t.FirstHalf, t.SecondHalf, t.TrendPercent))
	if len(t.WeeklySeries) == 0 {
		sb.WriteString("- Weekly: " + noData + "\n")
		return sb.String()
	}
	for _, w := range t.WeeklySeries {
		sb.WriteString(fmt.Sprintf("- Week of %s: %d applied, %d interviews, %d offers\n",
			w.Label, w.Applications, w.Interviews, w.Offers))
	}
	return sb.String()
}

func RenderGoals(goals []analytics.GoalProgress) string {
	var sb strings.Builder
	sb.WriteString("*Goals*\n")
	if len(goals) == 0 {
		sb.WriteString("- No goals set\n")
		return sb.String()
	}
	for _, g := range goals {
		if g.Degenerate {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", goalLabel(g), g.Message))
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s: %s %.0f%% (%s / %s) %s\n",
			goalLabel(g), progressBar(g.ProgressPercent), g.ProgressPercent,
			formatGoalValue(g, g.CurrentValue), formatGoalValue(g, g.TargetValue), g.Message))
	}
	return sb.String()
}

func goalLabel(g analytics.GoalProgress) string {
	label := strings.ReplaceAll(string(g.GoalType), "_", " ")
	if !g.PeriodEnd.IsZero() {
		label = fmt.Sprintf("%s until %s", label, g.PeriodEnd.Format("Jan 2"))
	}
	return label
}

func formatGoalValue(g analytics.GoalProgress, v float64) string {
	if g.GoalType == domain.GoalResponseRate {
		return fmt.Sprintf("%.1f%%", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// progressBar draws ten cells; pct is already clamped to [0,100].
func progressBar(pct float64) string {
	filled := int(pct / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

func RenderInsights(in llm.Insights) string {
	var sb strings.Builder
	sb.WriteString("*Key Findings*\n")
	writeList(&sb, in.KeyFindings)
	sb.WriteString("\n*Recommendations*\n")
	if len(in.Recommendations) == 0 {
		sb.WriteString("- " + noData + "\n")
	}
	for _, r := range in.Recommendations {
		sb.WriteString(fmt.Sprintf("- [%s] *%s*", strings.ToUpper(string(r.Priority)), r.Title))
		if r.Description != "" {
			sb.WriteString(": " + r.Description)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n*Focus Areas*\n")
	writeList(&sb, in.FocusAreas)
	return sb.String()
}

func writeList(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		sb.WriteString("- " + noData + "\n")
		return
	}
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}
