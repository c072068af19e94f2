package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 32

// Cache memoizes Analyze on a fingerprint of its arguments. It is safe for
// concurrent use.
type Cache struct {
	reports *lru.Cache[string, Report]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, Report](size)
	if err != nil {
		return nil, fmt.Errorf("create analysis cache: %w", err)
	}
	return &Cache{reports: c}, nil
}

type fingerprintOptions struct {
	Location    string            `json:"location"`
	Now         time.Time         `json:"now"`
	TrendFrom   time.Time         `json:"trendFrom"`
	TrendTo     time.Time         `json:"trendTo"`
	TrendWindow time.Duration     `json:"trendWindow"`
	Categories  *StatusCategories `json:"categories,omitempty"`
}

// Fingerprint returns a stable hex SHA-256 over inputs and options.
func Fingerprint(in Inputs, opts Options) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(in); err != nil {
		return "", fmt.Errorf("fingerprint inputs: %w", err)
	}
	fo := fingerprintOptions{
		Location:    opts.location().String(),
		Now:         opts.Now.UTC(),
		TrendFrom:   opts.TrendFrom.UTC(),
		TrendTo:     opts.TrendTo.UTC(),
		TrendWindow: opts.TrendWindow,
		Categories:  opts.Categories,
	}
	if err := enc.Encode(fo); err != nil {
		return "", fmt.Errorf("fingerprint options: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Analyze returns the cached report for identical arguments, computing it on a
// miss. The bool reports whether the result came from the cache. A nil Cache
// always computes. Every call gets its own copy of the row slices.
func (c *Cache) Analyze(in Inputs, opts Options) (Report, bool) {
	if c == nil {
		return Analyze(in, opts), false
	}
	key, err := Fingerprint(in, opts)
	if err != nil {
		return Analyze(in, opts), false
	}
	if r, ok := c.reports.Get(key); ok {
		return r.clone(), true
	}
	r := Analyze(in, opts)
	c.reports.Add(key, r)
	return r.clone(), false
}

func (c *Cache) Len() int { return c.reports.Len() }

func (c *Cache) Purge() { c.reports.Purge() }

// clone copies every slice in r. Row types hold only values, so this is a
// full copy.
func (r Report) clone() Report {
	r.IndustryBreakdown = slices.Clone(r.IndustryBreakdown)
	r.CompanySizeBreakdown = slices.Clone(r.CompanySizeBreakdown)
	r.RoleTypeBreakdown = slices.Clone(r.RoleTypeBreakdown)
	r.SourceBreakdown = slices.Clone(r.SourceBreakdown)
	r.Significance = slices.Clone(r.Significance)
	r.Timing.ByDay = slices.Clone(r.Timing.ByDay)
	r.Timing.ByHour = slices.Clone(r.Timing.ByHour)
	r.Funnel = slices.Clone(r.Funnel)
	r.Trend.WeeklySeries = slices.Clone(r.Trend.WeeklySeries)
	r.Goals = slices.Clone(r.Goals)
	return r
}
