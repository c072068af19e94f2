package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobtracker/internal/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// InsertJob stores r and returns its id, generating one when r.ID is empty.
func InsertJob(db *sql.DB, r domain.ApplicationRecord) (string, error) {
	r.ID = newID(r.ID)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(
		`INSERT INTO jobs (id, title, company, status, industry, company_size, role_type,
		                   source_url, description, notes, salary_range, location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Company, string(r.Status), r.Industry, r.CompanySize, r.RoleType,
		r.SourceURL, r.Description, r.Notes, r.SalaryRange, r.Location, r.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert job: %w", err)
	}
	return r.ID, nil
}

func GetJob(db *sql.DB, id string) (domain.ApplicationRecord, error) {
	row := db.QueryRow(
		`SELECT id, title, company, status, industry, company_size, role_type,
		        source_url, description, notes, salary_range, location, created_at
		 FROM jobs WHERE id = ?`, id)
	r, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (domain.ApplicationRecord, error) {
	var r domain.ApplicationRecord
	var status string
	err := s.Scan(
		&r.ID, &r.Title, &r.Company, &status, &r.Industry, &r.CompanySize, &r.RoleType,
		&r.SourceURL, &r.Description, &r.Notes, &r.SalaryRange, &r.Location, &r.CreatedAt,
	)
	r.Status = domain.ApplicationStatus(status)
	return r, err
}

// UpdateJobStatus moves a job to status and appends the transition to
// status_history in the same transaction.
func UpdateJobStatus(db *sql.DB, jobID string, status domain.ApplicationStatus, at time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var from string
	if err := tx.QueryRow(`SELECT status FROM jobs WHERE id = ?`, jobID).Scan(&from); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load job status: %w", err)
	}
	if domain.ApplicationStatus(from) == status {
		return nil
	}
	if _, err := tx.Exec(`UPDATE jobs SET status = ? WHERE id = ?`, string(status), jobID); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO status_history (id, job_id, from_status, to_status, changed_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), jobID, from, string(status), at,
	); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return tx.Commit()
}

func InsertInterview(db *sql.DB, iv domain.InterviewRecord) (string, error) {
	iv.ID = newID(iv.ID)
	_, err := db.Exec(
		`INSERT INTO interviews (id, job_id, outcome, created_at) VALUES (?, ?, ?, ?)`,
		iv.ID, iv.JobID, iv.Outcome, iv.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert interview: %w", err)
	}
	return iv.ID, nil
}

func InsertStatusTransition(db *sql.DB, t domain.StatusTransition) (string, error) {
	t.ID = newID(t.ID)
	_, err := db.Exec(
		`INSERT INTO status_history (id, job_id, from_status, to_status, changed_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.JobID, string(t.FromStatus), string(t.ToStatus), t.ChangedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert status transition: %w", err)
	}
	return t.ID, nil
}

func InsertApplicationPackage(db *sql.DB, p domain.ApplicationPackage) (string, error) {
	p.ID = newID(p.ID)
	_, err := db.Exec(
		`INSERT INTO application_packages (id, job_id, resume_id, cover_letter_id) VALUES (?, ?, ?, ?)`,
		p.ID, p.JobID, p.ResumeID, p.CoverLetterID,
	)
	if err != nil {
		return "", fmt.Errorf("insert application package: %w", err)
	}
	return p.ID, nil
}

func UpsertGoal(db *sql.DB, g domain.Goal) (string, error) {
	g.ID = newID(g.ID)
	_, err := db.Exec(
		`INSERT INTO goals (id, goal_type, target_value, time_period, start_date) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   goal_type = excluded.goal_type,
		   target_value = excluded.target_value,
		   time_period = excluded.time_period,
		   start_date = excluded.start_date`,
		g.ID, string(g.GoalType), g.TargetValue, string(g.TimePeriod), g.StartDate,
	)
	if err != nil {
		return "", fmt.Errorf("upsert goal: %w", err)
	}
	return g.ID, nil
}

func DeleteGoal(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
