package analytics

import (
	"fmt"
	"time"

	"jobtracker/internal/domain"
)

var testNow = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC) // Monday

func job(id string, status domain.ApplicationStatus, mods ...func(*domain.ApplicationRecord)) domain.ApplicationRecord {
	r := domain.ApplicationRecord{
		ID:        id,
		Title:     "Engineer",
		Company:   "Acme",
		Status:    status,
		CreatedAt: testNow,
	}
	for _, m := range mods {
		m(&r)
	}
	return r
}

func withIndustry(s string) func(*domain.ApplicationRecord) {
	return func(r *domain.ApplicationRecord) { r.Industry = s }
}

func withCreated(t time.Time) func(*domain.ApplicationRecord) {
	return func(r *domain.ApplicationRecord) { r.CreatedAt = t }
}

func withURL(u string) func(*domain.ApplicationRecord) {
	return func(r *domain.ApplicationRecord) { r.SourceURL = u }
}

// techTen is 4 successes and 6 rejections, all in Tech.
func techTen() []domain.ApplicationRecord {
	var out []domain.ApplicationRecord
	for i := 0; i < 10; i++ {
		status := domain.StatusRejected
		switch {
		case i < 2:
			status = domain.StatusOfferReceived
		case i < 4:
			status = domain.StatusAccepted
		}
		out = append(out, job(fmt.Sprintf("tech-%d", i), status, withIndustry("Tech")))
	}
	return out
}
