package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobtracker/internal/analytics"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary      = "Summary"
	sheetBreakdowns   = "Breakdowns"
	sheetSignificance = "Significance"
	sheetTiming       = "Timing"
	sheetFunnel       = "Funnel"
	sheetTrend        = "Trend"
	sheetGoals        = "Goals"
)

// Sheets lists workbook sheets in order.
var Sheets = []string{sheetSummary, sheetBreakdowns, sheetSignificance, sheetTiming, sheetFunnel, sheetTrend, sheetGoals}

type styles struct {
	title  int
	header int
	label  int
	above  int
	below  int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.above, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.below, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}
	return s, nil
}

// Build lays the report out as a workbook. The caller closes the file.
func Build(r analytics.Report, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range Sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{sheetSummary, func() error { return writeSummary(f, st, r, generatedAt) }},
		{sheetBreakdowns, func() error { return writeBreakdowns(f, st, r) }},
		{sheetSignificance, func() error { return writeSignificance(f, st, r.Significance) }},
		{sheetTiming, func() error { return writeTiming(f, st, r.Timing) }},
		{sheetFunnel, func() error { return writeFunnel(f, st, r.Funnel) }},
		{sheetTrend, func() error { return writeTrend(f, st, r.Trend) }},
		{sheetGoals, func() error { return writeGoals(f, st, r.Goals) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", step.name, err)
		}
	}
	return f, nil
}

// ExportToExcel writes the workbook to outputPath, adding .xlsx when missing,
// and returns the path written.
func ExportToExcel(r analytics.Report, outputPath string, generatedAt time.Time) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", err
	}

	f, err := Build(r, generatedAt)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

func WriteExcel(w io.Writer, r analytics.Report, generatedAt time.Time) error {
	f, err := Build(r, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, sheet string, st styles, row int, headers ...string) error {
	for i, h := range headers {
		c := cell(i+1, row)
		if err := f.SetCellValue(sheet, c, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, c, c, st.header); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, st styles, r analytics.Report, generatedAt time.Time) error {
	sheet := sheetSummary
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 60)

	f.SetCellValue(sheet, "A1", "Job Search Analytics")
	f.SetCellStyle(sheet, "A1", "B1", st.title)
	f.MergeCell(sheet, "A1", "B1")

	t := r.Totals
	rows := [][2]any{
		{"Generated:", generatedAt.Format("2006-01-02 15:04:05")},
		{"Tracked jobs:", t.TotalJobs},
		{"Applications:", t.Applied},
		{"Saved leads:", t.Interested},
		{"Success rate (%):", round1(t.OverallSuccessRate)},
		{"Interview rate (%):", round1(t.InterviewRate)},
		{"Rejection rate (%):", round1(t.RejectionRate)},
		{"Interviews logged:", t.TotalInterviews},
		{"Customized materials success (%):", round1(r.Materials.Customized.SuccessRate)},
		{"Standard materials success (%):", round1(r.Materials.Standard.SuccessRate)},
		{"Pattern note:", r.Patterns.ComparativeNote},
	}
	for i, kv := range rows {
		row := i + 3
		if err := writeRow(f, sheet, row, kv[0], kv[1]); err != nil {
			return err
		}
		f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.label)
	}
	return nil
}

func writeBreakdowns(f *excelize.File, st styles, r analytics.Report) error {
	sheet := sheetBreakdowns
	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "F", 16)
	if err := writeHeader(f, sheet, st, 1, "Dimension", "Bucket", "Total", "Success %", "Interview %", "Rejection %"); err != nil {
		return err
	}
	sections := []struct {
		name string
		rows []analytics.BreakdownRow
	}{
		{"Industry", r.IndustryBreakdown},
		{"Company Size", r.CompanySizeBreakdown},
		{"Role Type", r.RoleTypeBreakdown},
		{"Source", r.SourceBreakdown},
	}
	row := 2
	for _, s := range sections {
		for _, b := range s.rows {
			if err := writeRow(f, sheet, row, s.name, b.Key, b.Total, round1(b.SuccessRate), round1(b.InterviewRate), round1(b.RejectionRate)); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeSignificance(f *excelize.File, st styles, rows []analytics.SignificanceRow) error {
	sheet := sheetSignificance
	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "H", 14)
	if err := writeHeader(f, sheet, st, 1, "Dimension", "Bucket", "Total", "Success %", "Expected", "Observed", "p (approx)", "Significant"); err != nil {
		return err
	}
	for i, s := range rows {
		row := i + 2
		if err := writeRow(f, sheet, row, s.Dimension, s.Key, s.Total, round1(s.SuccessRate),
			round2(s.Expected), round2(s.Observed), fmt.Sprintf("%.4f", s.PApprox), s.Significant); err != nil {
			return err
		}
		if s.Significant {
			style := st.above
			if s.Observed < s.Expected {
				style = st.below
			}
			f.SetCellStyle(sheet, cell(1, row), cell(8, row), style)
		}
	}
	return nil
}

func writeTiming(f *excelize.File, st styles, t analytics.TimingReport) error {
	sheet := sheetTiming
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "E", 14)
	if err := writeRow(f, sheet, 1, "Best day", t.BestDay); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 2, "Best time", t.BestHour); err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", "A2", st.label)

	row := 4
	for _, block := range []struct {
		title string
		rows  []analytics.BreakdownRow
	}{{"Day", t.ByDay}, {"Time of day", t.ByHour}} {
		if err := writeHeader(f, sheet, st, row, block.title, "Total", "Success %", "Interview %", "Rejection %"); err != nil {
			return err
		}
		row++
		for _, b := range block.rows {
			if err := writeRow(f, sheet, row, b.Key, b.Total, round1(b.SuccessRate), round1(b.InterviewRate), round1(b.RejectionRate)); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func writeFunnel(f *excelize.File, st styles, stages []analytics.FunnelStage) error {
	sheet := sheetFunnel
	f.SetColWidth(sheet, "A", "C", 16)
	if err := writeHeader(f, sheet, st, 1, "Stage", "Count", "% of Applied"); err != nil {
		return err
	}
	for i, s := range stages {
		if err := writeRow(f, sheet, i+2, s.Stage, s.Count, round1(s.Percentage)); err != nil {
			return err
		}
	}
	return nil
}

func writeTrend(f *excelize.File, st styles, t analytics.TrendReport) error {
	sheet := sheetTrend
	f.SetColWidth(sheet, "A", "D", 16)
	if err := writeRow(f, sheet, 1, "Range", fmt.Sprintf("%s to %s", t.From.Format("2006-01-02"), t.To.Format("2006-01-02"))); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 2, "Trend %", round1(t.TrendPercent)); err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", "A2", st.label)
	if err := writeHeader(f, sheet, st, 4, "Week of", "Applications", "Interviews", "Offers"); err != nil {
		return err
	}
	for i, w := range t.WeeklySeries {
		if err := writeRow(f, sheet, i+5, w.Start.Format("2006-01-02"), w.Applications, w.Interviews, w.Offers); err != nil {
			return err
		}
	}
	return nil
}

func writeGoals(f *excelize.File, st styles, goals []analytics.GoalProgress) error {
	sheet := sheetGoals
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "G", 14)
	f.SetColWidth(sheet, "H", "H", 24)
	if err := writeHeader(f, sheet, st, 1, "Goal", "Period end", "Current", "Target", "Progress %", "Remaining", "Achieved", "Status"); err != nil {
		return err
	}
	for i, g := range goals {
		row := i + 2
		if err := writeRow(f, sheet, row, string(g.GoalType), g.PeriodEnd.Format("2006-01-02"),
			round2(g.CurrentValue), round2(g.TargetValue), round1(g.ProgressPercent), round2(g.AmountRemaining), g.Achieved, g.Message); err != nil {
			return err
		}
		if g.Achieved {
			f.SetCellStyle(sheet, cell(1, row), cell(8, row), st.above)
		}
	}
	return nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
