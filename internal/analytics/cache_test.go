package analytics

import (
	"reflect"
	"testing"

	"jobtracker/internal/domain"
)

func TestCacheHitsOnIdenticalInputs(t *testing.T) {
	c, err := NewCache(4)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	in := sampleInputs()
	opts := Options{Now: testNow}

	first, hit := c.Analyze(in, opts)
	if hit {
		t.Fatal("first call should miss")
	}
	second, hit := c.Analyze(sampleInputs(), opts)
	if !hit {
		t.Fatal("identical inputs should hit")
	}
	if first.Totals != second.Totals {
		t.Fatalf("cached totals differ: %+v vs %+v", first.Totals, second.Totals)
	}

	in.Jobs = append(in.Jobs, job("new", domain.StatusApplied))
	if _, hit := c.Analyze(in, opts); hit {
		t.Fatal("changed inputs should miss")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 cached reports, got %d", c.Len())
	}
}

func TestFingerprintDependsOnOptions(t *testing.T) {
	in := sampleInputs()
	a, err := Fingerprint(in, Options{Now: testNow})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	b, _ := Fingerprint(in, Options{Now: testNow.AddDate(0, 0, 1)})
	if a == b {
		t.Fatal("fingerprint ignored Now")
	}
	again, _ := Fingerprint(sampleInputs(), Options{Now: testNow})
	if a != again {
		t.Fatal("fingerprint is not stable")
	}
}

func TestNewCacheDefaultsSize(t *testing.T) {
	c, err := NewCache(0)
	if err != nil || c == nil {
		t.Fatalf("NewCache(0) = %v, %v", c, err)
	}
}

func TestNilCacheComputes(t *testing.T) {
	var c *Cache
	r, hit := c.Analyze(Inputs{Jobs: techTen()}, Options{Now: testNow})
	if hit {
		t.Fatalf("nil cache should never hit")
	}
	if r.Totals.TotalJobs != 10 {
		t.Fatalf("expected 10 jobs, got %d", r.Totals.TotalJobs)
	}
}

func TestCachedReportsAreIsolated(t *testing.T) {
	c, err := NewCache(4)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	opts := Options{Now: testNow}
	want := Analyze(sampleInputs(), opts)

	first, _ := c.Analyze(sampleInputs(), opts)
	if len(first.IndustryBreakdown) == 0 || len(first.Funnel) == 0 {
		t.Fatalf("expected populated rows, got %+v", first)
	}
	first.IndustryBreakdown[0].Key = "mutated"
	first.Funnel[0].Count = -1
	first.Goals = append(first.Goals, GoalProgress{GoalID: "extra"})

	second, hit := c.Analyze(sampleInputs(), opts)
	if !hit {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(second, want) {
		t.Fatalf("cached report was changed by a caller:\n got %+v\nwant %+v", second, want)
	}
}
