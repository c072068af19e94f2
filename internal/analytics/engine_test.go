package analytics

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"jobtracker/internal/domain"
)

func sampleInputs() Inputs {
	jobs := techTen()
	jobs = append(jobs,
		job("fin", domain.StatusAccepted, withIndustry("Finance"), withURL("https://linkedin.com/jobs/1")),
		job("lead", domain.StatusInterested, withIndustry("Retail")),
		job("ph", domain.StatusPhoneScreen, withIndustry("Health"), withCreated(testNow.AddDate(0, 0, -20))),
	)
	return Inputs{
		Jobs:          jobs,
		Interviews:    []domain.InterviewRecord{{ID: "i1", JobID: "ph", CreatedAt: testNow.AddDate(0, 0, -10)}},
		StatusHistory: []domain.StatusTransition{{ID: "s1", JobID: "ph", FromStatus: domain.StatusApplied, ToStatus: domain.StatusPhoneScreen, ChangedAt: testNow.AddDate(0, 0, -12)}},
		Packages:      []domain.ApplicationPackage{{ID: "p1", JobID: "tech-0", ResumeID: "r1"}},
		Goals: []domain.Goal{
			{ID: "g1", GoalType: domain.GoalApplications, TargetValue: 5, TimePeriod: domain.PeriodMonthly, StartDate: testNow.AddDate(0, 0, -7)},
			{ID: "g2", GoalType: domain.GoalOffers, TargetValue: 0, TimePeriod: domain.PeriodMonthly, StartDate: testNow},
		},
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	rep := Analyze(Inputs{}, Options{Now: testNow})
	if rep.Totals.OverallSuccessRate != 0 || rep.Totals.Applied != 0 {
		t.Fatalf("unexpected totals: %+v", rep.Totals)
	}
	for _, s := range rep.Funnel {
		if s.Percentage != 0 {
			t.Fatalf("expected zero funnel percentages, got %+v", rep.Funnel)
		}
	}
	if rep.Timing.BestDay != "N/A" || rep.Trend.TrendPercent != 0 {
		t.Fatalf("unexpected empty timing/trend: %+v %+v", rep.Timing, rep.Trend)
	}
	if len(rep.Goals) != 0 || len(rep.Significance) != 0 {
		t.Fatalf("expected no goals or significance rows")
	}
}

func TestAnalyzeSample(t *testing.T) {
	in := sampleInputs()
	rep := Analyze(in, Options{Now: testNow})

	if rep.Totals.TotalJobs != 13 || rep.Totals.Applied != 12 || rep.Totals.Interested != 1 {
		t.Fatalf("unexpected totals: %+v", rep.Totals)
	}
	if len(rep.IndustryBreakdown) != 1 || rep.IndustryBreakdown[0].Key != "Tech" {
		t.Fatalf("expected only Tech to pass the industry gate: %+v", rep.IndustryBreakdown)
	}
	if rep.Materials.Customized.Total != 1 || rep.Materials.Standard.Total != 11 {
		t.Fatalf("unexpected materials split: %+v", rep.Materials)
	}
	if len(rep.Goals) != 2 || !rep.Goals[1].Degenerate {
		t.Fatalf("unexpected goals: %+v", rep.Goals)
	}
	if rep.Patterns.Successful.Size != 5 || rep.Patterns.Rejected.Size != 6 {
		t.Fatalf("unexpected cohorts: %+v", rep.Patterns)
	}
	if rep.Trend.To != testNow || rep.Trend.From != testNow.Add(-DefaultTrendWindow) {
		t.Fatalf("unexpected default trend range: %v..%v", rep.Trend.From, rep.Trend.To)
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	rep := Analyze(sampleInputs(), Options{Now: testNow})
	breakdowns := map[string][]BreakdownRow{
		"industry":    rep.IndustryBreakdown,
		"companySize": rep.CompanySizeBreakdown,
		"roleType":    rep.RoleTypeBreakdown,
		"source":      rep.SourceBreakdown,
		"byDay":       rep.Timing.ByDay,
		"byHour":      rep.Timing.ByHour,
	}
	for name, rows := range breakdowns {
		sum := 0
		for _, row := range rows {
			sum += row.Total
			for _, rate := range []float64{row.SuccessRate, row.InterviewRate, row.RejectionRate} {
				if rate < 0 || rate > 100 {
					t.Fatalf("%s rate out of range: %+v", name, row)
				}
			}
		}
		if sum > rep.Totals.Applied {
			t.Fatalf("%s reported %d records, more than %d applied", name, sum, rep.Totals.Applied)
		}
	}
	for _, s := range rep.Funnel {
		if s.Percentage < 0 || s.Percentage > 100 {
			t.Fatalf("funnel percentage out of range: %+v", s)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	in := sampleInputs()
	opts := Options{Now: testNow, Location: time.UTC}
	a := Analyze(in, opts)
	b := Analyze(in, opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Analyze is not deterministic")
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatal("serialized reports differ")
	}
}

func TestAnalyzeExplicitTrendRange(t *testing.T) {
	from := testNow.AddDate(0, 0, -28)
	rep := Analyze(sampleInputs(), Options{Now: testNow, TrendFrom: from, TrendTo: testNow})
	if len(rep.Trend.WeeklySeries) != 4 {
		t.Fatalf("expected 4 weekly windows, got %d", len(rep.Trend.WeeklySeries))
	}
}

func TestTrendRangeResolution(t *testing.T) {
	from := testNow.AddDate(0, 0, -14)
	later := testNow.AddDate(0, 0, 3)
	cases := []struct {
		name     string
		opts     Options
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"both bounds", Options{Now: testNow, TrendFrom: from, TrendTo: later}, from, later},
		{"from only runs to now", Options{Now: testNow, TrendFrom: from}, from, testNow},
		{"from after now uses window", Options{Now: testNow, TrendFrom: later, TrendWindow: 7 * 24 * time.Hour}, later, later.AddDate(0, 0, 7)},
		{"to only looks back", Options{Now: testNow, TrendTo: later, TrendWindow: 7 * 24 * time.Hour}, later.AddDate(0, 0, -7), later},
		{"default window", Options{Now: testNow}, testNow.Add(-DefaultTrendWindow), testNow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotFrom, gotTo := tc.opts.trendRange()
			if !gotFrom.Equal(tc.wantFrom) || !gotTo.Equal(tc.wantTo) {
				t.Fatalf("trendRange() = %v..%v, want %v..%v", gotFrom, gotTo, tc.wantFrom, tc.wantTo)
			}
		})
	}
}

func TestRecommendationPayloadShape(t *testing.T) {
	raw, err := Analyze(Inputs{}, Options{Now: testNow}).RecommendationPayload().JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"totals", "industryBreakdown", "companySizeBreakdown", "roleTypeBreakdown", "sourceBreakdown", "patterns", "timing", "materials"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("payload missing %q: %s", key, raw)
		}
	}
	if string(doc["industryBreakdown"]) != "[]" {
		t.Fatalf("empty breakdowns must serialize as arrays, got %s", doc["industryBreakdown"])
	}
}
