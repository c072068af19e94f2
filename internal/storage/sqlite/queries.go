package sqlite

import (
	"database/sql"
	"fmt"

	"jobtracker/internal/analytics"
	"jobtracker/internal/domain"
)

func ListJobs(db *sql.DB) ([]domain.ApplicationRecord, error) {
	rows, err := db.Query(
		`SELECT id, title, company, status, industry, company_size, role_type,
		        source_url, description, notes, salary_range, location, created_at
		 FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ApplicationRecord
	for rows.Next() {
		r, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func ListInterviews(db *sql.DB) ([]domain.InterviewRecord, error) {
	rows, err := db.Query(`SELECT id, job_id, outcome, created_at FROM interviews ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InterviewRecord
	for rows.Next() {
		var iv domain.InterviewRecord
		if err := rows.Scan(&iv.ID, &iv.JobID, &iv.Outcome, &iv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

func ListStatusHistory(db *sql.DB) ([]domain.StatusTransition, error) {
	rows, err := db.Query(
		`SELECT id, job_id, from_status, to_status, changed_at
		 FROM status_history ORDER BY changed_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StatusTransition
	for rows.Next() {
		var t domain.StatusTransition
		var from, to string
		if err := rows.Scan(&t.ID, &t.JobID, &from, &to, &t.ChangedAt); err != nil {
			return nil, err
		}
		t.FromStatus = domain.ApplicationStatus(from)
		t.ToStatus = domain.ApplicationStatus(to)
		out = append(out, t)
	}
	return out, rows.Err()
}

func ListApplicationPackages(db *sql.DB) ([]domain.ApplicationPackage, error) {
	rows, err := db.Query(`SELECT id, job_id, resume_id, cover_letter_id FROM application_packages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ApplicationPackage
	for rows.Next() {
		var p domain.ApplicationPackage
		if err := rows.Scan(&p.ID, &p.JobID, &p.ResumeID, &p.CoverLetterID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func ListGoals(db *sql.DB) ([]domain.Goal, error) {
	rows, err := db.Query(`SELECT id, goal_type, target_value, time_period, start_date FROM goals ORDER BY start_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Goal
	for rows.Next() {
		var g domain.Goal
		var goalType, period string
		if err := rows.Scan(&g.ID, &goalType, &g.TargetValue, &period, &g.StartDate); err != nil {
			return nil, err
		}
		g.GoalType = domain.GoalType(goalType)
		g.TimePeriod = domain.TimePeriod(period)
		out = append(out, g)
	}
	return out, rows.Err()
}

// LoadSnapshot reads every collection the analytics engine consumes.
func LoadSnapshot(db *sql.DB) (analytics.Inputs, error) {
	var in analytics.Inputs
	var err error
	if in.Jobs, err = ListJobs(db); err != nil {
		return in, fmt.Errorf("list jobs: %w", err)
	}
	if in.Interviews, err = ListInterviews(db); err != nil {
		return in, fmt.Errorf("list interviews: %w", err)
	}
	if in.StatusHistory, err = ListStatusHistory(db); err != nil {
		return in, fmt.Errorf("list status history: %w", err)
	}
	if in.Packages, err = ListApplicationPackages(db); err != nil {
		return in, fmt.Errorf("list application packages: %w", err)
	}
	if in.Goals, err = ListGoals(db); err != nil {
		return in, fmt.Errorf("list goals: %w", err)
	}
	return in, nil
}
