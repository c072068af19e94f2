package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobtracker/internal/analytics"
	"jobtracker/internal/config"
	"jobtracker/internal/integrations/llm"
	"jobtracker/internal/storage/sqlite"

	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.InitDB(filepath.Join(t.TempDir(), "api-test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cache, err := analytics.NewCache(8)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	s := Server{
		Cfg: config.Config{
			OwnerName:       "Jane",
			TrendWindowDays: 90,
			Location:        time.UTC,
			LLMProvider:     config.ProviderAnthropic,
		},
		DB:    newTestDB(t),
		Cache: cache,
		Now:   func() time.Time { return fixedNow },
	}
	return s.Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, rec.Body.String())
	}
}

func createJob(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/jobs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		JobID string `json:"jobId"`
	}
	decode(t, rec, &out)
	return out.JobID
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestJobLifecycleFeedsAnalytics(t *testing.T) {
	h := newTestServer(t)
	id := createJob(t, h, `{"title":"Backend Engineer","company":"Acme","status":"applied","industry":"Tech","created_at":"2026-03-10T09:30:00Z"}`)
	createJob(t, h, `{"title":"SRE","company":"Globex","industry":"Tech","created_at":"2026-03-11T09:30:00Z"}`)

	rec := do(t, h, http.MethodGet, "/v1/jobs/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get job: expected 200, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/v1/jobs/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get missing job: expected 404, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPost, "/v1/jobs/"+id+"/status", `{"status":"phone_screen"}`); rec.Code != http.StatusOK {
		t.Fatalf("update status: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodPost, "/v1/jobs/"+id+"/status", `{"status":"ghosted"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: expected 400, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/v1/jobs/missing/status", `{"status":"applied"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("missing job status: expected 404, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/v1/jobs/"+id+"/interviews", `{"outcome":"passed","created_at":"2026-03-12T15:00:00Z"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create interview: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/v1/analytics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var report analytics.Report
	decode(t, rec, &report)
	if report.Totals.TotalJobs != 2 || report.Totals.Applied != 1 || report.Totals.Interested != 1 {
		t.Fatalf("unexpected totals: %+v", report.Totals)
	}
	if report.Totals.InterviewRate != 100 || report.Totals.TotalInterviews != 1 {
		t.Fatalf("unexpected interview totals: %+v", report.Totals)
	}

	rec = do(t, h, http.MethodGet, "/v1/funnel", "")
	var funnel []analytics.FunnelStage
	decode(t, rec, &funnel)
	if len(funnel) != 4 || funnel[0].Stage != analytics.StageApplied || funnel[0].Count != 1 {
		t.Fatalf("unexpected funnel: %+v", funnel)
	}
	if funnel[1].Count != 1 {
		t.Fatalf("expected one response from the status change, got %+v", funnel[1])
	}
}

func TestCreateJobValidation(t *testing.T) {
	h := newTestServer(t)
	cases := []string{
		`{"company":"Acme"}`,
		`{"title":"SRE","company":"Acme","status":"maybe"}`,
		`{"title":"SRE","company":"Acme","salary":100}`,
		`not json`,
	}
	for _, body := range cases {
		if rec := do(t, h, http.MethodPost, "/v1/jobs", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAnalyticsTrendDays(t *testing.T) {
	h := newTestServer(t)
	for _, q := range []string{"abc", "6", "366"} {
		rec := do(t, h, http.MethodGet, "/v1/analytics?trend_days="+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("trend_days=%s: expected 400, got %d", q, rec.Code)
		}
	}

	rec := do(t, h, http.MethodGet, "/v1/analytics?trend_days=14", "")
	var report analytics.Report
	decode(t, rec, &report)
	if !report.Trend.From.Equal(fixedNow.AddDate(0, 0, -14)) || !report.Trend.To.Equal(fixedNow) {
		t.Fatalf("unexpected trend range: %s - %s", report.Trend.From, report.Trend.To)
	}
}

func TestPayloadShape(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/v1/analytics/payload", "")
	var payload map[string]json.RawMessage
	decode(t, rec, &payload)
	for _, key := range []string{"totals", "industryBreakdown", "companySizeBreakdown", "roleTypeBreakdown", "sourceBreakdown", "patterns", "timing", "materials"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("payload missing %s: %s", key, rec.Body.String())
		}
	}
	if string(payload["industryBreakdown"]) != "[]" {
		t.Fatalf("expected empty array, got %s", payload["industryBreakdown"])
	}
}

func TestGoalsEndpoints(t *testing.T) {
	h := newTestServer(t)
	createJob(t, h, `{"title":"SRE","company":"Acme","status":"applied","created_at":"2026-03-12T09:00:00Z"}`)

	rec := do(t, h, http.MethodPost, "/v1/goals", `{"id":"weekly-apps","goal_type":"applications","target_value":4,"time_period":"weekly","start_date":"2026-03-10T00:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert goal: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodPost, "/v1/goals", `{"goal_type":"karma","target_value":1,"time_period":"weekly"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid goal type: expected 400, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/v1/goals", `{"goal_type":"offers","target_value":1,"time_period":"daily"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid period: expected 400, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/v1/goals", "")
	var goals []analytics.GoalProgress
	decode(t, rec, &goals)
	if len(goals) != 1 || goals[0].CurrentValue != 1 || goals[0].ProgressPercent != 25 || goals[0].Message != "3 to go" {
		t.Fatalf("unexpected goals: %+v", goals)
	}

	if rec := do(t, h, http.MethodDelete, "/v1/goals/weekly-apps", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete goal: expected 204, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/v1/goals/weekly-apps", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing goal: expected 404, got %d", rec.Code)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	h := newTestServer(t)
	if rec := do(t, h, http.MethodPost, "/v1/insights", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty store: expected 422, got %d", rec.Code)
	}

	createJob(t, h, `{"title":"SRE","company":"Acme","status":"rejected"}`)
	if rec := do(t, h, http.MethodPost, "/v1/insights", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured llm: expected 503, got %d", rec.Code)
	}

	orig := generateInsights
	t.Cleanup(func() { generateInsights = orig })
	generateInsights = func(ctx context.Context, cfg config.Config, payload analytics.RecommendationPayload) (llm.Insights, llm.Usage, error) {
		return llm.Insights{FocusAreas: []string{"Follow up"}}, llm.Usage{InputTokens: 10, OutputTokens: 5}, nil
	}
	rec := do(t, h, http.MethodPost, "/v1/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("insights: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Insights    llm.Insights `json:"insights"`
		TotalTokens int64        `json:"totalTokens"`
	}
	decode(t, rec, &out)
	if len(out.Insights.FocusAreas) != 1 || out.TotalTokens != 15 {
		t.Fatalf("unexpected insights response: %+v", out)
	}

	generateInsights = func(ctx context.Context, cfg config.Config, payload analytics.RecommendationPayload) (llm.Insights, llm.Usage, error) {
		return llm.Insights{}, llm.Usage{}, errors.New("upstream down")
	}
	if rec := do(t, h, http.MethodPost, "/v1/insights", ""); rec.Code != http.StatusBadGateway {
		t.Fatalf("provider error: expected 502, got %d", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	h := newTestServer(t)
	createJob(t, h, `{"title":"SRE","company":"Acme","status":"applied"}`)

	rec := do(t, h, http.MethodGet, "/v1/export.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "job-analytics_20260316.xlsx") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 7 || got[0] != "Summary" {
		t.Fatalf("unexpected sheets: %v", got)
	}
}
