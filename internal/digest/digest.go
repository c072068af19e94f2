package digest

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"jobtracker/internal/analytics"
	"jobtracker/internal/config"
	"jobtracker/internal/export"
	"jobtracker/internal/report"
	"jobtracker/internal/storage/sqlite"

	"github.com/slack-go/slack"
)

// Options builds engine options from config. now is truncated to the minute
// so repeated calls within a minute share a cache entry.
func Options(cfg config.Config, now time.Time) analytics.Options {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return analytics.Options{
		Location:    loc,
		Now:         now.In(loc).Truncate(time.Minute),
		TrendWindow: cfg.TrendWindow(),
	}
}

// Analyze loads the current snapshot and runs the engine over it. cache may be
// nil.
func Analyze(db *sql.DB, cache *analytics.Cache, opts analytics.Options) (analytics.Report, error) {
	in, err := sqlite.LoadSnapshot(db)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("load snapshot: %w", err)
	}
	r, hit := cache.Analyze(in, opts)
	log.Printf("analysis jobs=%d interviews=%d goals=%d cache_hit=%v", len(in.Jobs), len(in.Interviews), len(in.Goals), hit)
	return r, nil
}

type Result struct {
	Report       analytics.Report
	Dashboard    string
	MarkdownPath string
	ExcelPath    string
}

// RunDigest analyzes the store and writes the dashboard as markdown and xlsx
// into report_output_dir.
func RunDigest(cfg config.Config, db *sql.DB, cache *analytics.Cache, now time.Time) (Result, error) {
	opts := Options(cfg, now)
	r, err := Analyze(db, cache, opts)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Report:    r,
		Dashboard: report.RenderDashboard(cfg.OwnerName, r),
	}
	res.MarkdownPath, err = report.WriteReportFile(res.Dashboard, cfg.ReportOutputDir, opts.Now, cfg.OwnerName)
	if err != nil {
		return res, fmt.Errorf("write markdown report: %w", err)
	}
	xlsxName := strings.TrimSuffix(filepath.Base(res.MarkdownPath), ".md")
	res.ExcelPath, err = export.ExportToExcel(r, filepath.Join(cfg.ReportOutputDir, xlsxName), opts.Now)
	if err != nil {
		return res, fmt.Errorf("write excel report: %w", err)
	}
	log.Printf("digest written md=%s xlsx=%s", res.MarkdownPath, res.ExcelPath)
	return res, nil
}

func FormatDigestSummary(res Result) string {
	t := res.Report.Totals
	if t.TotalJobs == 0 {
		return "Digest: no tracked jobs yet."
	}
	msg := fmt.Sprintf("Digest: %d applications, %.1f%% success, %.1f%% interview rate.",
		t.Applied, t.OverallSuccessRate, t.InterviewRate)
	achieved := 0
	for _, g := range res.Report.Goals {
		if g.Achieved {
			achieved++
		}
	}
	if len(res.Report.Goals) > 0 {
		msg += fmt.Sprintf(" Goals achieved: %d/%d.", achieved, len(res.Report.Goals))
	}
	if res.MarkdownPath != "" {
		msg += fmt.Sprintf("\nSaved to %s", res.MarkdownPath)
		if res.ExcelPath != "" {
			msg += fmt.Sprintf(" and %s", res.ExcelPath)
		}
	}
	return msg
}

// StartDigestScheduler runs RunDigest on digest_schedule (five-field cron,
// evaluated in the configured timezone) and posts the dashboard to
// report_channel_id when Slack is available. api may be nil.
func StartDigestScheduler(cfg config.Config, db *sql.DB, cache *analytics.Cache, api *slack.Client) {
	schedule := strings.TrimSpace(cfg.DigestSchedule)
	if schedule == "" {
		log.Println("Digest disabled (digest_schedule not set)")
		return
	}
	sched, err := config.ParseSchedule(schedule)
	if err != nil {
		log.Printf("Invalid digest_schedule '%s': %v, digest disabled", schedule, err)
		return
	}
	log.Printf("Digest scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next digest at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			res, runErr := RunDigest(cfg, db, cache, time.Now())
			if runErr != nil {
				log.Printf("Digest error: %v", runErr)
				if res.Dashboard == "" {
					continue
				}
			}
			log.Printf("Digest complete: %s", FormatDigestSummary(res))

			if api != nil && cfg.ReportChannelID != "" {
				_, _, postErr := api.PostMessage(cfg.ReportChannelID, slack.MsgOptionText(res.Dashboard, false))
				if postErr != nil {
					log.Printf("Digest post error: %v", postErr)
				}
			}
		}
	}()
}
