package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"jobtracker/internal/analytics"
	"jobtracker/internal/config"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"
const defaultVertexModel = "gemini-1.5-flash"

var ErrNotConfigured = errors.New("llm provider is not configured")

type Usage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheCreationInputTokens += other.CacheCreationInputTokens
	u.CacheReadInputTokens += other.CacheReadInputTokens
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Recommendation struct {
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Insights is the recommendation generator's answer.
type Insights struct {
	KeyFindings     []string         `json:"keyFindings"`
	Recommendations []Recommendation `json:"recommendations"`
	FocusAreas      []string         `json:"focusAreas"`
}

func ModelFor(cfg config.Config) string {
	if cfg.LLMModel != "" {
		return cfg.LLMModel
	}
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return defaultOpenAIModel
	case config.ProviderVertexAI:
		return defaultVertexModel
	default:
		return defaultAnthropicModel
	}
}

// complete is swapped out in tests.
var complete = func(ctx context.Context, cfg config.Config, systemPrompt, userPrompt string) (string, Usage, error) {
	model := ModelFor(cfg)
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return callOpenAI(ctx, cfg.OpenAIAPIKey, model, systemPrompt, userPrompt)
	case config.ProviderVertexAI:
		return callVertexAI(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, model, systemPrompt, userPrompt)
	default:
		return callAnthropic(ctx, cfg.AnthropicAPIKey, model, systemPrompt, userPrompt)
	}
}

// GenerateInsights asks the configured provider for findings and
// recommendations over payload. The engine's numbers are passed through
// untouched; nothing here interprets them.
func GenerateInsights(ctx context.Context, cfg config.Config, payload analytics.RecommendationPayload) (Insights, Usage, error) {
	if !cfg.LLMConfigured() {
		return Insights{}, Usage{}, ErrNotConfigured
	}
	systemPrompt, userPrompt, err := buildInsightsPrompts(cfg, payload)
	if err != nil {
		return Insights{}, Usage{}, err
	}

	log.Printf("llm insights request provider=%s model=%s applied=%d", cfg.LLMProvider, ModelFor(cfg), payload.Totals.Applied)
	text, usage, err := complete(ctx, cfg, systemPrompt, userPrompt)
	if err != nil {
		return Insights{}, usage, err
	}
	insights, err := parseInsightsResponse(text)
	if err != nil {
		return Insights{}, usage, err
	}
	log.Printf("llm insights done findings=%d recommendations=%d focus=%d tokens=%d",
		len(insights.KeyFindings), len(insights.Recommendations), len(insights.FocusAreas), usage.TotalTokens())
	return insights, usage, nil
}

func buildInsightsPrompts(cfg config.Config, payload analytics.RecommendationPayload) (string, string, error) {
	data, err := payload.JSON()
	if err != nil {
		return "", "", fmt.Errorf("encoding analytics payload: %w", err)
	}

	var sys strings.Builder
	sys.WriteString("You are a career coach reviewing job search analytics for ")
	sys.WriteString(cfg.OwnerName)
	sys.WriteString(".\n\n")
	sys.WriteString("Rules:\n")
	sys.WriteString("- Base every statement on the numbers provided. Do not invent data.\n")
	sys.WriteString("- Breakdowns only include buckets with enough samples. Small samples are noisy; say so when relevant.\n")
	sys.WriteString("- Pattern comparisons are descriptive, not causal.\n")
	sys.WriteString("- Give 3 to 5 key findings, 3 to 5 recommendations and 2 to 4 focus areas.\n")
	sys.WriteString("- priority must be one of: high, medium, low.\n\n")
	sys.WriteString("Respond with JSON only, in this shape:\n")
	sys.WriteString(`{"keyFindings": ["..."], "recommendations": [{"priority": "high", "title": "...", "description": "..."}], "focusAreas": ["..."]}`)

	user := "Job search analytics:\n\n" + string(data)
	return sys.String(), user, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func parseInsightsResponse(responseText string) (Insights, error) {
	responseText = stripCodeFence(responseText)

	var raw struct {
		KeyFindings     []string `json:"keyFindings"`
		Recommendations []struct {
			Priority    string `json:"priority"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"recommendations"`
		FocusAreas []string `json:"focusAreas"`
	}
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return Insights{}, fmt.Errorf("parsing LLM insights response: %w (response: %s)", err, responseText)
	}

	out := Insights{
		KeyFindings:     nonEmpty(raw.KeyFindings),
		FocusAreas:      nonEmpty(raw.FocusAreas),
		Recommendations: make([]Recommendation, 0, len(raw.Recommendations)),
	}
	for _, r := range raw.Recommendations {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		out.Recommendations = append(out.Recommendations, Recommendation{
			Priority:    normalizePriority(r.Priority),
			Title:       title,
			Description: strings.TrimSpace(r.Description),
		})
	}
	return out, nil
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
