package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"jobtracker/internal/analytics"
	"jobtracker/internal/digest"
	"jobtracker/internal/integrations/llm"
	"jobtracker/internal/report"

	"github.com/slack-go/slack"
)

const (
	cmdStats    = "/job-stats"
	cmdTiming   = "/job-timing"
	cmdFunnel   = "/job-funnel"
	cmdTrend    = "/job-trend"
	cmdGoals    = "/job-goals"
	cmdInsights = "/job-insights"
	cmdExport   = "/job-export"
	cmdHelp     = "/job-help"

	minTrendDays = 7
	maxTrendDays = 365
)

var generateInsights = llm.GenerateInsights

// reply is the answer to one slash command. A non-empty FilePath is uploaded
// to the channel with Text as the comment; otherwise Text is posted
// ephemerally.
type reply struct {
	Text      string
	FilePath  string
	FileTitle string
}

func textReply(format string, args ...any) reply {
	return reply{Text: fmt.Sprintf(format, args...)}
}

func (b *Bot) reply(ctx context.Context, cmd slack.SlashCommand, now time.Time) reply {
	arg := strings.TrimSpace(cmd.Text)
	opts := digest.Options(b.cfg, now)

	switch cmd.Command {
	case cmdHelp:
		return reply{Text: helpText()}
	case cmdExport:
		res, err := digest.RunDigest(b.cfg, b.db, b.cache, now)
		if err != nil {
			log.Printf("job-export error: %v", err)
			return textReply("Error generating export: %v", err)
		}
		return reply{
			Text:      digest.FormatDigestSummary(res),
			FilePath:  res.ExcelPath,
			FileTitle: fmt.Sprintf("%s analytics", b.cfg.OwnerName),
		}
	case cmdTrend:
		if arg != "" {
			days, err := strconv.Atoi(arg)
			if err != nil || days < minTrendDays || days > maxTrendDays {
				return textReply("Usage: `%s [days]` with days between %d and %d.", cmdTrend, minTrendDays, maxTrendDays)
			}
			opts.TrendWindow = time.Duration(days) * 24 * time.Hour
		}
	case cmdStats:
		if _, ok := report.ParseDimension(arg); !ok {
			return textReply("Usage: `%s [industry|size|role|source|all]`", cmdStats)
		}
	case cmdTiming, cmdFunnel, cmdGoals, cmdInsights:
	default:
		return reply{}
	}

	r, err := digest.Analyze(b.db, b.cache, opts)
	if err != nil {
		log.Printf("%s analysis error: %v", cmd.Command, err)
		return textReply("Error loading analytics: %v", err)
	}

	switch cmd.Command {
	case cmdStats:
		dim, _ := report.ParseDimension(arg)
		if dim == report.DimensionAll {
			return reply{Text: report.RenderDashboard(b.cfg.OwnerName, r)}
		}
		return reply{Text: report.RenderBreakdowns(r, dim)}
	case cmdTiming:
		return reply{Text: report.RenderTiming(r.Timing)}
	case cmdFunnel:
		return reply{Text: report.RenderFunnel(r.Funnel)}
	case cmdTrend:
		return reply{Text: report.RenderTrend(r.Trend)}
	case cmdGoals:
		return reply{Text: report.RenderGoals(r.Goals)}
	case cmdInsights:
		return b.insightsReply(ctx, r)
	}
	return reply{}
}

func (b *Bot) insightsReply(ctx context.Context, r analytics.Report) reply {
	if r.Totals.Applied == 0 {
		return reply{Text: "No applications tracked yet. Add some before asking for insights."}
	}
	insights, usage, err := generateInsights(ctx, b.cfg, r.RecommendationPayload())
	if errors.Is(err, llm.ErrNotConfigured) {
		return reply{Text: "Insights are disabled: no LLM credentials configured."}
	}
	if err != nil {
		log.Printf("job-insights error: %v", err)
		return textReply("Error generating insights: %v", err)
	}
	log.Printf("job-insights findings=%d recommendations=%d tokens=%d", len(insights.KeyFindings), len(insights.Recommendations), usage.TotalTokens())
	return textReply("%s\n_tokens used: %s_", report.RenderInsights(insights), formatTokenCount(usage.TotalTokens()))
}

// formatTokenCount shortens counts of a thousand or more to tenths of k.
func formatTokenCount(tokens int64) string {
	if tokens < 1000 {
		return strconv.FormatInt(tokens, 10)
	}
	k := math.Round(float64(tokens)/100) / 10
	return strconv.FormatFloat(k, 'f', -1, 64) + "k"
}

func helpText() string {
	lines := []string{
		"*Job Tracker Commands*",
		"",
		"`/job-stats [industry|size|role|source|all]` - Dashboard or a single breakdown.",
		"`/job-timing` - Best day and time of day to apply.",
		"`/job-funnel` - Applied to offer funnel.",
		fmt.Sprintf("`/job-trend [days]` - Activity trend, %d to %d days (default from config).", minTrendDays, maxTrendDays),
		"`/job-goals` - Goal progress.",
		"`/job-insights` - AI recommendations from your numbers.",
		"`/job-export` - Upload the dashboard as an Excel workbook.",
		"`/job-help` - Show this help.",
	}
	return strings.Join(lines, "\n")
}
