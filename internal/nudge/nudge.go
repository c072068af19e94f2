package nudge

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"jobtracker/internal/analytics"
	"jobtracker/internal/config"
	"jobtracker/internal/digest"

	"github.com/slack-go/slack"
)

// StartNudgeScheduler posts a weekly reminder listing goals that are behind
// pace. Recipients from nudge_recipients get a DM; otherwise the reminder
// goes to report_channel_id.
func StartNudgeScheduler(cfg config.Config, db *sql.DB, cache *analytics.Cache, api *slack.Client) {
	if api == nil {
		log.Println("Slack not configured, nudge disabled")
		return
	}

	var memberIDs []string
	if len(cfg.NudgeRecipients) > 0 {
		ids, unresolved, err := resolveUserIDs(api, cfg.NudgeRecipients)
		if err != nil {
			log.Printf("Error resolving nudge_recipients: %v", err)
		}
		if len(unresolved) > 0 {
			log.Printf("Unresolved nudge_recipients: %s", strings.Join(unresolved, ", "))
		}
		memberIDs = ids
	}
	if len(memberIDs) == 0 && cfg.ReportChannelID == "" {
		log.Println("No nudge_recipients or report_channel_id configured, nudge disabled")
		return
	}

	weekday, ok := config.ParseWeekday(cfg.NudgeDay)
	if !ok {
		log.Printf("Invalid nudge_day '%s', using Friday", cfg.NudgeDay)
		weekday = time.Friday
	}
	hour, min, err := config.ParseClock(cfg.NudgeTime)
	if err != nil {
		log.Printf("Invalid nudge_time '%s': %v, using 10:00", cfg.NudgeTime, err)
		hour, min = 10, 0
	}

	log.Printf("Nudge scheduled every %s at %02d:%02d recipients=%d channel=%s", weekday, hour, min, len(memberIDs), cfg.ReportChannelID)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := nextWeekday(now, weekday, hour, min)
			wait := next.Sub(now)
			log.Printf("Next nudge at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			r, err := digest.Analyze(db, cache, digest.Options(cfg, time.Now()))
			if err != nil {
				log.Printf("Nudge analysis error: %v", err)
				continue
			}
			msg := BuildNudgeMessage(r.Goals, time.Now().In(cfg.Location))
			if msg == "" {
				log.Println("Nudge skipped: every goal is on pace")
				continue
			}
			sendNudges(api, memberIDs, cfg.ReportChannelID, msg)
		}
	}()
}

func nextWeekday(now time.Time, day time.Weekday, hour, min int) time.Time {
	daysUntil := (day - now.Weekday() + 7) % 7
	if daysUntil == 0 {
		target := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if now.Before(target) {
			return target
		}
		daysUntil = 7
	}
	return time.Date(now.Year(), now.Month(), now.Day()+int(daysUntil), hour, min, 0, 0, now.Location())
}

// elapsedPercent is the share of the goal period that has passed at now,
// clamped to [0,100].
func elapsedPercent(g analytics.GoalProgress, now time.Time) float64 {
	span := g.PeriodEnd.Sub(g.PeriodStart)
	if span <= 0 {
		return 0
	}
	pct := float64(now.Sub(g.PeriodStart)) / float64(span) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// behindPace reports whether a live goal has progressed less than the share of
// its period already elapsed.
func behindPace(g analytics.GoalProgress, now time.Time) bool {
	if g.Achieved || g.Degenerate {
		return false
	}
	if now.Before(g.PeriodStart) || !now.Before(g.PeriodEnd) {
		return false
	}
	return elapsedPercent(g, now) > g.ProgressPercent
}

// BuildNudgeMessage returns "" when no goal is behind pace.
func BuildNudgeMessage(goals []analytics.GoalProgress, now time.Time) string {
	var lines []string
	for _, g := range goals {
		if !behindPace(g, now) {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %.0f%% done with %.0f%% of the period gone, %s (ends %s)",
			strings.ReplaceAll(string(g.GoalType), "_", " "),
			g.ProgressPercent, elapsedPercent(g, now), g.Message,
			g.PeriodEnd.AddDate(0, 0, -1).Format("Jan 2")))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Friendly reminder: some goals are behind pace. Use `/job-goals` for details.\n" + strings.Join(lines, "\n")
}

func sendNudges(api *slack.Client, memberIDs []string, channelID, msg string) {
	if len(memberIDs) == 0 {
		if _, _, err := api.PostMessage(channelID, slack.MsgOptionText(msg, false)); err != nil {
			log.Printf("Error sending nudge to channel %s: %v", channelID, err)
		} else {
			log.Printf("Sent nudge to channel %s", channelID)
		}
		return
	}

	for _, userID := range memberIDs {
		channel, _, _, err := api.OpenConversation(&slack.OpenConversationParameters{
			Users: []string{userID},
		})
		if err != nil {
			log.Printf("Error opening DM with %s: %v", userID, err)
			continue
		}

		_, _, err = api.PostMessage(channel.ID, slack.MsgOptionText(msg, false))
		if err != nil {
			log.Printf("Error sending nudge to %s: %v", userID, err)
		} else {
			log.Printf("Sent nudge to %s", userID)
		}
	}
}
