package analytics

import (
	"strings"

	"jobtracker/internal/domain"
)

const unknownLabel = "Unknown"

const (
	SourceLinkedIn          = "LinkedIn"
	SourceIndeed            = "Indeed"
	SourceGlassdoor         = "Glassdoor"
	SourceZipRecruiter      = "ZipRecruiter"
	SourceCompanyWebsite    = "Company Website"
	SourceDirectApplication = "Direct Application"
)

type Outcome string

const (
	OutcomeSuccessful   Outcome = "successful"
	OutcomeInterviewing Outcome = "interviewing"
	OutcomeRejected     Outcome = "rejected"
	OutcomeOther        Outcome = "other"
)

type Classification struct {
	Industry    string
	CompanySize string
	RoleType    string
	Source      string
	Outcome     Outcome
}

type sourceRule struct {
	matches func(url string) bool
	label   string
}

func containsFold(needle string) func(string) bool {
	return func(url string) bool {
		return strings.Contains(strings.ToLower(url), needle)
	}
}

// sourceRules is evaluated top to bottom; the first match wins. The order is
// policy: a LinkedIn URL that also mentions indeed is still LinkedIn.
var sourceRules = []sourceRule{
	{matches: containsFold("linkedin"), label: SourceLinkedIn},
	{matches: containsFold("indeed"), label: SourceIndeed},
	{matches: containsFold("glassdoor"), label: SourceGlassdoor},
	{matches: containsFold("ziprecruiter"), label: SourceZipRecruiter},
	{matches: func(url string) bool { return url != "" }, label: SourceCompanyWebsite},
}

func InferSource(url string) string {
	url = strings.TrimSpace(url)
	for _, rule := range sourceRules {
		if rule.matches(url) {
			return rule.label
		}
	}
	return SourceDirectApplication
}

func Classify(r domain.ApplicationRecord) Classification {
	return Classification{
		Industry:    orUnknown(r.Industry),
		CompanySize: orUnknown(r.CompanySize),
		RoleType:    orUnknown(r.RoleType),
		Source:      InferSource(r.SourceURL),
		Outcome:     ClassifyOutcome(r.Status, DefaultCategories),
	}
}

// ClassifyOutcome picks a single display outcome. The category sets overlap,
// so precedence is successful, interviewing, rejected.
func ClassifyOutcome(status domain.ApplicationStatus, cats StatusCategories) Outcome {
	switch {
	case cats.Successful.Has(status):
		return OutcomeSuccessful
	case cats.Interviewing.Has(status):
		return OutcomeInterviewing
	case cats.Rejected.Has(status):
		return OutcomeRejected
	default:
		return OutcomeOther
	}
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownLabel
	}
	return s
}

func industryKey(r domain.ApplicationRecord) string    { return orUnknown(r.Industry) }
func companySizeKey(r domain.ApplicationRecord) string { return orUnknown(r.CompanySize) }
func roleTypeKey(r domain.ApplicationRecord) string    { return orUnknown(r.RoleType) }
func sourceKey(r domain.ApplicationRecord) string      { return InferSource(r.SourceURL) }
