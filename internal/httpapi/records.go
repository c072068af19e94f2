package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobtracker/internal/domain"
	"jobtracker/internal/storage/sqlite"

	"github.com/go-chi/chi/v5"
)

type jobRequest struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Status      string     `json:"status"`
	Industry    string     `json:"industry"`
	CompanySize string     `json:"company_size"`
	RoleType    string     `json:"role_type"`
	SourceURL   string     `json:"source_url"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	SalaryRange string     `json:"salary_range"`
	Location    string     `json:"location"`
	CreatedAt   *time.Time `json:"created_at"`
}

func (s Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Company) == "" {
		writeErr(w, http.StatusBadRequest, errors.New("title and company are required"))
		return
	}
	status := domain.StatusInterested
	if req.Status != "" {
		parsed, ok := domain.ParseStatus(req.Status)
		if !ok {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid status: %s", req.Status))
			return
		}
		status = parsed
	}
	created := s.now().UTC()
	if req.CreatedAt != nil {
		created = req.CreatedAt.UTC()
	}

	id, err := sqlite.InsertJob(s.DB, domain.ApplicationRecord{
		Title:       req.Title,
		Company:     req.Company,
		Status:      status,
		Industry:    req.Industry,
		CompanySize: req.CompanySize,
		RoleType:    req.RoleType,
		SourceURL:   req.SourceURL,
		Description: req.Description,
		Notes:       req.Notes,
		SalaryRange: req.SalaryRange,
		Location:    req.Location,
		CreatedAt:   created,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"jobId": id})
}

func (s Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := sqlite.GetJob(s.DB, chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid status: %s", req.Status))
		return
	}
	err := sqlite.UpdateJobStatus(s.DB, chi.URLParam(r, "id"), status, s.now().UTC())
	if errors.Is(err, sqlite.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (s Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Outcome   string     `json:"outcome"`
		CreatedAt *time.Time `json:"created_at"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	jobID := chi.URLParam(r, "id")
	if _, err := sqlite.GetJob(s.DB, jobID); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, sqlite.ErrNotFound) {
			code = http.StatusNotFound
		}
		writeErr(w, code, err)
		return
	}
	created := s.now().UTC()
	if req.CreatedAt != nil {
		created = req.CreatedAt.UTC()
	}
	id, err := sqlite.InsertInterview(s.DB, domain.InterviewRecord{JobID: jobID, Outcome: req.Outcome, CreatedAt: created})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"interviewId": id})
}

func (s Server) handleUpsertGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string     `json:"id"`
		GoalType    string     `json:"goal_type"`
		TargetValue float64    `json:"target_value"`
		TimePeriod  string     `json:"time_period"`
		StartDate   *time.Time `json:"start_date"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	goalType, ok := domain.ParseGoalType(req.GoalType)
	if !ok {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid goal_type: %s", req.GoalType))
		return
	}
	period, ok := domain.ParseTimePeriod(req.TimePeriod)
	if !ok {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid time_period: %s", req.TimePeriod))
		return
	}
	start := s.now().UTC()
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}
	id, err := sqlite.UpsertGoal(s.DB, domain.Goal{
		ID:          req.ID,
		GoalType:    goalType,
		TargetValue: req.TargetValue,
		TimePeriod:  period,
		StartDate:   start,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goalId": id})
}

func (s Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	err := sqlite.DeleteGoal(s.DB, chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
