package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobtracker/internal/analytics"
	"jobtracker/internal/config"
	"jobtracker/internal/digest"
	"jobtracker/internal/fetch"
	"jobtracker/internal/httpapi"
	"jobtracker/internal/httpx"
	slackbot "jobtracker/internal/integrations/slack"
	"jobtracker/internal/nudge"
	"jobtracker/internal/storage/sqlite"

	"github.com/slack-go/slack"
)

func Main() {
	cfg := config.LoadConfig()
	appliedHTTPTimeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. Owner=%s Timezone=%s LLMProvider=%s LLMConfigured=%v SlackConfigured=%v TrendWindowDays=%d CacheSize=%d ExternalHTTPTimeout=%s",
		cfg.OwnerName,
		cfg.Timezone,
		cfg.LLMProvider,
		cfg.LLMConfigured(),
		cfg.SlackConfigured(),
		cfg.TrendWindowDays,
		cfg.AnalysisCacheSize,
		appliedHTTPTimeout,
	)

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	log.Printf("Database initialized at %s", cfg.DBPath)
	defer db.Close()

	if cfg.ImportPath != "" {
		res, err := sqlite.ImportFile(db, cfg.ImportPath)
		if err != nil {
			log.Fatalf("Failed to import %s: %v", cfg.ImportPath, err)
		}
		log.Printf("Imported %s: jobs=%d interviews=%d history=%d packages=%d goals=%d skipped=%d invalid=%d",
			cfg.ImportPath, res.Jobs, res.Interviews, res.StatusHistory, res.Packages, res.Goals, res.Skipped, res.Invalid)
	}

	if err := os.MkdirAll(cfg.ReportOutputDir, 0755); err != nil {
		log.Fatalf("Failed to create report output dir: %v", err)
	}
	log.Printf("Report output dir: %s", cfg.ReportOutputDir)

	cache, err := analytics.NewCache(cfg.AnalysisCacheSize)
	if err != nil {
		log.Fatalf("Failed to create analysis cache: %v", err)
	}

	var api *slack.Client
	if cfg.SlackConfigured() {
		api = slack.New(
			cfg.SlackBotToken,
			slack.OptionAppLevelToken(cfg.SlackAppToken),
		)
	}

	digest.StartDigestScheduler(cfg, db, cache, api)
	nudge.StartNudgeScheduler(cfg, db, cache, api)
	fetch.StartAutoImportScheduler(cfg, db, api)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.Server{Cfg: cfg, DB: db, Cache: cache}.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	if api != nil {
		go func() {
			log.Println("Starting Job Tracker Slack bot...")
			if err := slackbot.StartSlackBot(cfg, db, cache, api); err != nil {
				log.Fatalf("Slack bot error: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
}
