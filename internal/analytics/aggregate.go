package analytics

import "jobtracker/internal/domain"

// StatusCategories names which statuses count as successful, interviewing and
// rejected for one aggregation pass.
type StatusCategories struct {
	Successful   domain.StatusSet
	Interviewing domain.StatusSet
	Rejected     domain.StatusSet
}

var DefaultCategories = StatusCategories{
	Successful:   domain.SuccessfulStatuses,
	Interviewing: domain.InterviewingStatuses,
	Rejected:     domain.RejectedStatuses,
}

type BucketCounts struct {
	Total          int `json:"total"`
	SuccessCount   int `json:"successCount"`
	InterviewCount int `json:"interviewCount"`
	RejectedCount  int `json:"rejectedCount"`
}

func (b *BucketCounts) add(status domain.ApplicationStatus, cats StatusCategories) {
	b.Total++
	if cats.Successful.Has(status) {
		b.SuccessCount++
	}
	if cats.Interviewing.Has(status) {
		b.InterviewCount++
	}
	if cats.Rejected.Has(status) {
		b.RejectedCount++
	}
}

// Buckets is an insertion-ordered map from bucket key to counts.
type Buckets struct {
	keys   []string
	counts map[string]*BucketCounts
}

func newBuckets() *Buckets {
	return &Buckets{counts: make(map[string]*BucketCounts)}
}

func (b *Buckets) bucket(key string) *BucketCounts {
	c, ok := b.counts[key]
	if !ok {
		c = &BucketCounts{}
		b.counts[key] = c
		b.keys = append(b.keys, key)
	}
	return c
}

// Keys returns bucket keys in first-seen order.
func (b *Buckets) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

func (b *Buckets) Get(key string) (BucketCounts, bool) {
	c, ok := b.counts[key]
	if !ok {
		return BucketCounts{}, false
	}
	return *c, true
}

func (b *Buckets) Len() int { return len(b.keys) }

// Total sums bucket totals, i.e. every counted record.
func (b *Buckets) Total() BucketCounts {
	var sum BucketCounts
	for _, key := range b.keys {
		c := b.counts[key]
		sum.Total += c.Total
		sum.SuccessCount += c.SuccessCount
		sum.InterviewCount += c.InterviewCount
		sum.RejectedCount += c.RejectedCount
	}
	return sum
}

// Aggregate groups records by key. Interested records are saved leads and are
// left out of every bucket.
func Aggregate(records []domain.ApplicationRecord, key func(domain.ApplicationRecord) string, cats StatusCategories) *Buckets {
	buckets := newBuckets()
	for _, r := range records {
		if !r.Status.IsApplied() {
			continue
		}
		buckets.bucket(key(r)).add(r.Status, cats)
	}
	return buckets
}

// CountAll aggregates every applied record into a single bucket.
func CountAll(records []domain.ApplicationRecord, cats StatusCategories) BucketCounts {
	var c BucketCounts
	for _, r := range records {
		if !r.Status.IsApplied() {
			continue
		}
		c.add(r.Status, cats)
	}
	return c
}
