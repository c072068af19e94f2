package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeout = 90 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderVertexAI  = "vertexai"
)

type Config struct {
	SlackBotToken   string `yaml:"slack_bot_token"`
	SlackAppToken   string `yaml:"slack_app_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	LLMProvider         string `yaml:"llm_provider"`
	LLMModel            string `yaml:"llm_model"`
	AnthropicAPIKey     string `yaml:"anthropic_api_key"`
	OpenAIAPIKey        string `yaml:"openai_api_key"`
	GoogleCloudProject  string `yaml:"google_cloud_project"`
	GoogleCloudLocation string `yaml:"google_cloud_location"`

	DBPath                     string `yaml:"db_path"`
	ImportPath                 string `yaml:"import_path"`
	ImportSchedule             string `yaml:"import_schedule"`
	ReportOutputDir            string `yaml:"report_output_dir"`
	HTTPAddr                   string `yaml:"http_addr"`
	ExternalHTTPTimeoutSeconds int    `yaml:"external_http_timeout_seconds"`

	DigestSchedule    string   `yaml:"digest_schedule"`
	NudgeDay          string   `yaml:"nudge_day"`
	NudgeTime         string   `yaml:"nudge_time"`
	NudgeRecipients   []string `yaml:"nudge_recipients"`
	Timezone          string   `yaml:"timezone"`
	TrendWindowDays   int      `yaml:"trend_window_days"`
	AnalysisCacheSize int      `yaml:"analysis_cache_size"`
	OwnerName         string   `yaml:"owner_name"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
}

func LoadConfig() Config {
	loadDotEnv()

	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.GoogleCloudProject, "GOOGLE_CLOUD_PROJECT")
	envOverride(&cfg.GoogleCloudLocation, "GOOGLE_CLOUD_LOCATION")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverrideAllowEmpty(&cfg.ImportPath, "IMPORT_PATH")
	envOverrideAllowEmpty(&cfg.ImportSchedule, "IMPORT_SCHEDULE")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.HTTPAddr, "HTTP_ADDR")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
	envOverrideAllowEmpty(&cfg.DigestSchedule, "DIGEST_SCHEDULE")
	envOverride(&cfg.NudgeDay, "NUDGE_DAY")
	envOverride(&cfg.NudgeTime, "NUDGE_TIME")
	envOverrideList(&cfg.NudgeRecipients, "NUDGE_RECIPIENTS")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverrideInt(&cfg.TrendWindowDays, "TREND_WINDOW_DAYS")
	envOverrideInt(&cfg.AnalysisCacheSize, "ANALYSIS_CACHE_SIZE")
	envOverride(&cfg.OwnerName, "OWNER_NAME")

	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderAnthropic
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.GoogleCloudLocation == "" {
		cfg.GoogleCloudLocation = "us-central1"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./jobtracker.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
	if cfg.NudgeDay == "" {
		cfg.NudgeDay = "Friday"
	}
	if cfg.NudgeTime == "" {
		cfg.NudgeTime = "10:00"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.TrendWindowDays == 0 {
		cfg.TrendWindowDays = 90
	}
	if cfg.AnalysisCacheSize == 0 {
		cfg.AnalysisCacheSize = 32
	}
	if cfg.OwnerName == "" {
		cfg.OwnerName = "My Job Search"
	}

	// Slack is optional, but half a token pair is a misconfiguration.
	if (cfg.SlackBotToken == "") != (cfg.SlackAppToken == "") {
		log.Fatalf("Partial Slack config: slack_bot_token and slack_app_token are required together")
	}
	if !cfg.SlackConfigured() {
		log.Printf("WARNING: Slack is not configured. Serving the HTTP API only.")
	}

	switch cfg.LLMProvider {
	case ProviderAnthropic, ProviderOpenAI, ProviderVertexAI:
	default:
		log.Fatalf("llm_provider must be 'anthropic', 'openai' or 'vertexai', got '%s'", cfg.LLMProvider)
	}
	if !cfg.LLMConfigured() {
		log.Printf("WARNING: llm_provider=%s has no credentials. Insights are disabled.", cfg.LLMProvider)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if _, ok := ParseWeekday(cfg.NudgeDay); !ok {
		log.Fatalf("invalid nudge_day '%s'", cfg.NudgeDay)
	}
	if _, _, err := ParseClock(cfg.NudgeTime); err != nil {
		log.Fatalf("invalid nudge_time '%s': %v", cfg.NudgeTime, err)
	}
	if cfg.DigestSchedule != "" {
		if _, err := ParseSchedule(cfg.DigestSchedule); err != nil {
			log.Fatalf("invalid digest_schedule '%s': %v", cfg.DigestSchedule, err)
		}
	}
	if cfg.ImportSchedule != "" {
		if _, err := ParseSchedule(cfg.ImportSchedule); err != nil {
			log.Fatalf("invalid import_schedule '%s': %v", cfg.ImportSchedule, err)
		}
	}
	if cfg.ExternalHTTPTimeoutSeconds < 5 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 5", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.TrendWindowDays < 7 {
		log.Fatalf("invalid trend_window_days '%d': must be >= 7", cfg.TrendWindowDays)
	}
	if cfg.AnalysisCacheSize < 1 {
		log.Fatalf("invalid analysis_cache_size '%d': must be >= 1", cfg.AnalysisCacheSize)
	}

	return cfg
}

// loadDotEnv loads the nearest .env walking up from the working directory.
// Variables already set in the environment win.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideAllowEmpty(field *string, envKey string) {
	if val, ok := os.LookupEnv(envKey); ok {
		*field = val
	}
}

// envOverrideList splits a comma-separated value, dropping blanks.
func envOverrideList(field *[]string, envKey string) {
	val := os.Getenv(envKey)
	if val == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*field = out
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

func (c Config) LLMConfigured() bool {
	switch c.LLMProvider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderVertexAI:
		return c.GoogleCloudProject != ""
	}
	return false
}

func (c Config) TrendWindow() time.Duration {
	return time.Duration(c.TrendWindowDays) * 24 * time.Hour
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(s string) (int, int, error) {
	var hour, min int
	_, err := fmt.Sscanf(s, "%d:%d", &hour, &min)
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("time out of range: %02d:%02d", hour, min)
	}
	return hour, min, nil
}

var dayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := dayMap[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// ParseSchedule parses a standard five-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(expr)
}
