package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobtracker/internal/analytics"
	"jobtracker/internal/config"
	"jobtracker/internal/digest"
	"jobtracker/internal/export"
	"jobtracker/internal/integrations/llm"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	minTrendDays = 7
	maxTrendDays = 365
	maxBodyBytes = 1 << 20
)

var generateInsights = llm.GenerateInsights

type Server struct {
	Cfg   config.Config
	DB    *sql.DB
	Cache *analytics.Cache
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/analytics/payload", s.handlePayload)
		r.Get("/funnel", s.handleFunnel)
		r.Get("/goals", s.handleGoals)
		r.Post("/goals", s.handleUpsertGoal)
		r.Delete("/goals/{id}", s.handleDeleteGoal)
		r.Post("/insights", s.handleInsights)
		r.Get("/export.xlsx", s.handleExport)

		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Post("/jobs/{id}/status", s.handleUpdateStatus)
		r.Post("/jobs/{id}/interviews", s.handleCreateInterview)
	})

	return r
}

func (s Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// analyze runs the engine with an optional ?trend_days override.
func (s Server) analyze(r *http.Request) (analytics.Report, int, error) {
	opts := digest.Options(s.Cfg, s.now())
	if raw := strings.TrimSpace(r.URL.Query().Get("trend_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < minTrendDays || days > maxTrendDays {
			return analytics.Report{}, http.StatusBadRequest,
				fmt.Errorf("invalid trend_days: %s (want %d-%d)", raw, minTrendDays, maxTrendDays)
		}
		opts.TrendWindow = time.Duration(days) * 24 * time.Hour
	}
	report, err := digest.Analyze(s.DB, s.Cache, opts)
	if err != nil {
		return report, http.StatusInternalServerError, err
	}
	return report, http.StatusOK, nil
}

func (s Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report, code, err := s.analyze(r)
	if err != nil {
		writeErr(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s Server) handlePayload(w http.ResponseWriter, r *http.Request) {
	report, code, err := s.analyze(r)
	if err != nil {
		writeErr(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, report.RecommendationPayload())
}

func (s Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	report, code, err := s.analyze(r)
	if err != nil {
		writeErr(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Funnel)
}

func (s Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	report, code, err := s.analyze(r)
	if err != nil {
		writeErr(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Goals)
}

func (s Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	report, code, err := s.analyze(r)
	if err != nil {
		writeErr(w, code, err)
		return
	}
	if report.Totals.Applied == 0 {
		writeErr(w, http.StatusUnprocessableEntity, errors.New("no applications tracked yet"))
		return
	}
	insights, usage, err := generateInsights(r.Context(), s.Cfg, report.RecommendationPayload())
	if errors.Is(err, llm.ErrNotConfigured) {
		writeErr(w, http.StatusServiceUnavailable, err)
		return
	}
	if err != nil {
		writeErr(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"insights":    insights,
		"model":       llm.ModelFor(s.Cfg),
		"totalTokens": usage.TotalTokens(),
	})
}

func (s Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report, code, err := s.analyze(r)
	if err != nil {
		writeErr(w, code, err)
		return
	}
	now := s.now()
	if s.Cfg.Location != nil {
		now = now.In(s.Cfg.Location)
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="job-analytics_%s.xlsx"`, now.Format("20060102")))
	if err := export.WriteExcel(w, report, now); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}
