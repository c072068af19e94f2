package fetch

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"jobtracker/internal/config"
	"jobtracker/internal/storage/sqlite"

	"github.com/slack-go/slack"
)

// FormatImportSummary returns a human-readable summary of an import run.
func FormatImportSummary(res sqlite.ImportResult) string {
	if res.Total() == 0 {
		msg := "Import found nothing new"
		var reasons []string
		if res.Skipped > 0 {
			reasons = append(reasons, fmt.Sprintf("%d already tracked", res.Skipped))
		}
		if res.Invalid > 0 {
			reasons = append(reasons, fmt.Sprintf("%d invalid", res.Invalid))
		}
		if len(reasons) > 0 {
			msg += fmt.Sprintf(" (%s)", strings.Join(reasons, ", "))
		}
		return msg + "."
	}

	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(res.Jobs, "jobs")
	add(res.Interviews, "interviews")
	add(res.StatusHistory, "status changes")
	add(res.Packages, "packages")
	add(res.Goals, "goals")
	msg := fmt.Sprintf("Imported %s", strings.Join(parts, ", "))
	if res.Skipped > 0 {
		msg += fmt.Sprintf(" (%d already tracked)", res.Skipped)
	}
	if res.Invalid > 0 {
		msg += fmt.Sprintf("\nWarnings: %d records had an unknown status and were left out", res.Invalid)
	}
	return msg
}

// StartAutoImportScheduler re-imports import_path on import_schedule so the
// local store keeps up with fresh exports from the hosted backend. A summary
// is posted to report_channel_id when something new arrived. api may be nil.
func StartAutoImportScheduler(cfg config.Config, db *sql.DB, api *slack.Client) {
	schedule := strings.TrimSpace(cfg.ImportSchedule)
	if schedule == "" {
		log.Println("Auto-import disabled (import_schedule not set)")
		return
	}
	if cfg.ImportPath == "" {
		log.Println("Auto-import disabled: import_path is not set")
		return
	}
	sched, err := config.ParseSchedule(schedule)
	if err != nil {
		log.Printf("Invalid import_schedule '%s': %v, auto-import disabled", schedule, err)
		return
	}
	log.Printf("Auto-import scheduled (cron: %s) from %s", schedule, cfg.ImportPath)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next auto-import at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			res, importErr := sqlite.ImportFile(db, cfg.ImportPath)
			if importErr != nil {
				log.Printf("Auto-import error: %v", importErr)
				continue
			}
			summary := FormatImportSummary(res)
			log.Printf("Auto-import complete: %s", summary)

			if api != nil && cfg.ReportChannelID != "" && res.Total() > 0 {
				_, _, postErr := api.PostMessage(cfg.ReportChannelID, slack.MsgOptionText(
					fmt.Sprintf("Auto-import complete: %s", summary), false))
				if postErr != nil {
					log.Printf("Auto-import post error: %v", postErr)
				}
			}
		}
	}()
}
