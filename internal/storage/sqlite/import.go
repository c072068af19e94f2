package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"jobtracker/internal/domain"

	"github.com/google/uuid"
)

// importNamespace seeds ids for exported records that arrive without one.
var importNamespace = uuid.MustParse("6f1c2a8e-3b7d-4e59-9a0c-5d2e8b41f7a3")

// importID keeps id when set, otherwise derives a stable id from the record's
// kind and content so re-imports hit INSERT OR IGNORE instead of duplicating.
func importID(id, kind string, parts ...string) string {
	if id != "" {
		return id
	}
	key := kind + "\x1f" + strings.Join(parts, "\x1f")
	return uuid.NewSHA1(importNamespace, []byte(key)).String()
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ExportFile is the JSON document exported from the hosted backend.
type ExportFile struct {
	Jobs                []domain.ApplicationRecord  `json:"jobs"`
	Interviews          []domain.InterviewRecord    `json:"interviews"`
	StatusHistory       []domain.StatusTransition   `json:"status_history"`
	ApplicationPackages []domain.ApplicationPackage `json:"application_packages"`
	Goals               []domain.Goal               `json:"goals"`
}

type ImportResult struct {
	Jobs          int
	Interviews    int
	StatusHistory int
	Packages      int
	Goals         int
	Skipped       int
	Invalid       int
}

func (r ImportResult) Total() int {
	return r.Jobs + r.Interviews + r.StatusHistory + r.Packages + r.Goals
}

// ImportFile loads an export document into db. Records whose id already
// exists are skipped, and id-less records get a content-derived id, so
// importing the same file twice is a no-op. Statuses, goal types and periods
// are normalized; records with values outside the closed sets are counted as
// invalid and left out.
func ImportFile(db *sql.DB, path string) (ImportResult, error) {
	var res ImportResult
	raw, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read import file: %w", err)
	}
	var doc ExportFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return res, fmt.Errorf("parse import file: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	for _, j := range doc.Jobs {
		status, ok := domain.ParseStatus(string(j.Status))
		if !ok {
			res.Invalid++
			continue
		}
		id := importID(j.ID, "job", j.Title, j.Company, j.SourceURL, stamp(j.CreatedAt))
		if j.CreatedAt.IsZero() {
			j.CreatedAt = time.Now().UTC()
		}
		n, err := insertIgnore(tx,
			`INSERT OR IGNORE INTO jobs (id, title, company, status, industry, company_size, role_type,
			                             source_url, description, notes, salary_range, location, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, j.Title, j.Company, string(status), j.Industry, j.CompanySize, j.RoleType,
			j.SourceURL, j.Description, j.Notes, j.SalaryRange, j.Location, j.CreatedAt)
		if err != nil {
			return res, fmt.Errorf("import job %s: %w", j.ID, err)
		}
		res.Jobs += n
		res.Skipped += 1 - n
	}
	for _, iv := range doc.Interviews {
		n, err := insertIgnore(tx,
			`INSERT OR IGNORE INTO interviews (id, job_id, outcome, created_at) VALUES (?, ?, ?, ?)`,
			importID(iv.ID, "interview", iv.JobID, iv.Outcome, stamp(iv.CreatedAt)),
			iv.JobID, iv.Outcome, iv.CreatedAt)
		if err != nil {
			return res, fmt.Errorf("import interview %s: %w", iv.ID, err)
		}
		res.Interviews += n
		res.Skipped += 1 - n
	}
	for _, t := range doc.StatusHistory {
		to, ok := domain.ParseStatus(string(t.ToStatus))
		if !ok {
			res.Invalid++
			continue
		}
		// An empty from_status marks the first entry for a job.
		var from domain.ApplicationStatus
		if strings.TrimSpace(string(t.FromStatus)) != "" {
			if from, ok = domain.ParseStatus(string(t.FromStatus)); !ok {
				res.Invalid++
				continue
			}
		}
		n, err := insertIgnore(tx,
			`INSERT OR IGNORE INTO status_history (id, job_id, from_status, to_status, changed_at) VALUES (?, ?, ?, ?, ?)`,
			importID(t.ID, "transition", t.JobID, string(from), string(to), stamp(t.ChangedAt)),
			t.JobID, string(from), string(to), t.ChangedAt)
		if err != nil {
			return res, fmt.Errorf("import status transition %s: %w", t.ID, err)
		}
		res.StatusHistory += n
		res.Skipped += 1 - n
	}
	for _, p := range doc.ApplicationPackages {
		n, err := insertIgnore(tx,
			`INSERT OR IGNORE INTO application_packages (id, job_id, resume_id, cover_letter_id) VALUES (?, ?, ?, ?)`,
			importID(p.ID, "package", p.JobID, p.ResumeID, p.CoverLetterID),
			p.JobID, p.ResumeID, p.CoverLetterID)
		if err != nil {
			return res, fmt.Errorf("import application package %s: %w", p.ID, err)
		}
		res.Packages += n
		res.Skipped += 1 - n
	}
	for _, g := range doc.Goals {
		gt, ok := domain.ParseGoalType(string(g.GoalType))
		if !ok {
			res.Invalid++
			continue
		}
		period, ok := domain.ParseTimePeriod(string(g.TimePeriod))
		if !ok {
			res.Invalid++
			continue
		}
		target := strconv.FormatFloat(g.TargetValue, 'g', -1, 64)
		n, err := insertIgnore(tx,
			`INSERT OR IGNORE INTO goals (id, goal_type, target_value, time_period, start_date) VALUES (?, ?, ?, ?, ?)`,
			importID(g.ID, "goal", string(gt), target, string(period), stamp(g.StartDate)),
			string(gt), g.TargetValue, string(period), g.StartDate)
		if err != nil {
			return res, fmt.Errorf("import goal %s: %w", g.ID, err)
		}
		res.Goals += n
		res.Skipped += 1 - n
	}

	return res, tx.Commit()
}

func insertIgnore(tx *sql.Tx, query string, args ...any) (int, error) {
	r, err := tx.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
