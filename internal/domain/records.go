package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ApplicationRecord is one tracked job. Empty strings stand in for null
// fields coming from the hosted backend.
type ApplicationRecord struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Company     string            `json:"company"`
	Status      ApplicationStatus `json:"status"`
	Industry    string            `json:"industry,omitempty"`
	CompanySize string            `json:"company_size,omitempty"`
	RoleType    string            `json:"role_type,omitempty"`
	SourceURL   string            `json:"source_url,omitempty"`
	Description string            `json:"description,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	SalaryRange string            `json:"salary_range,omitempty"`
	Location    string            `json:"location,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (r ApplicationRecord) DescriptionLength() int {
	return utf8.RuneCountInString(r.Description)
}

func (r ApplicationRecord) HasNotes() bool    { return strings.TrimSpace(r.Notes) != "" }
func (r ApplicationRecord) HasSalary() bool   { return strings.TrimSpace(r.SalaryRange) != "" }
func (r ApplicationRecord) HasLocation() bool { return strings.TrimSpace(r.Location) != "" }

type InterviewRecord struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
	Outcome   string    `json:"outcome,omitempty"`
}

// StatusTransition is an append-only history entry.
type StatusTransition struct {
	ID         string            `json:"id"`
	JobID      string            `json:"job_id"`
	FromStatus ApplicationStatus `json:"from_status"`
	ToStatus   ApplicationStatus `json:"to_status"`
	ChangedAt  time.Time         `json:"changed_at"`
}

type ApplicationPackage struct {
	ID            string `json:"id"`
	JobID         string `json:"job_id"`
	ResumeID      string `json:"resume_id,omitempty"`
	CoverLetterID string `json:"cover_letter_id,omitempty"`
}

// Customized reports whether the package carries tailored materials.
func (p ApplicationPackage) Customized() bool {
	return strings.TrimSpace(p.ResumeID) != "" || strings.TrimSpace(p.CoverLetterID) != ""
}
