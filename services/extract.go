package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/vihaanharrison/portfolio-backend/config"
	"github.com/vihaanharrison/portfolio-backend/errs"
)

// Entry is one structured project produced by the extraction model, prior
// to review and persistence.
type Entry struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Writeup     string   `json:"writeup"`
	Tags        []string `json:"tags"`
	Impact      string   `json:"impact,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date,omitempty"`
}

// Extractor turns a freeform text blob into structured entries.
type Extractor interface {
	Extract(ctx context.Context, content string) ([]Entry, error)
}

const extractionSystemPrompt = `You are an expert at parsing unstructured content about projects, achievements, and work experiences into structured JSON format.

Your task is to extract project/work entries from the provided text and format them according to this schema:

{
  "projects": [
    {
      "title": "Project name (concise, professional)",
      "category": "MUST be exactly one of: Academic & Scholarly Achievements | Technology, Coding & Innovation | Leadership, Volunteering & Environmental Action | Model United Nations (MUN) & Public Speaking | Arts, Athletics & Personal Passions | Recognition & Awards",
      "description": "2-3 sentence professional summary focusing on outcomes and capabilities demonstrated. This is the SHORT description shown on cards.",
      "writeup": "Detailed description including context, approach, methodology, and impact. This is the FULL writeup with 4-8 sentences providing comprehensive information.",
      "tags": ["relevant", "technical", "tags", "skills"],
      "impact": "Quantified impact statement if available (e.g., '23% reduction', '500+ users', 'Top 10 nationally')",
      "start_date": "YYYY-MM-DD format (use 01 for day if unknown)",
      "end_date": "YYYY-MM-DD format or null if ongoing/one-time"
    }
  ]
}

CRITICAL GUIDELINES:
1. Category MUST be exactly one of the 6 options listed above - no variations
2. "description" should be SHORT (2-3 sentences) - this appears on project cards
3. "writeup" should be DETAILED (4-8 sentences) - this is the full case study text
4. Frame all content professionally - focus on skills demonstrated, not student identity
5. Translate achievements into professional signals (e.g., "Olympiad winner" -> "Competitive problem-solving, analytical rigor")
6. Use precise, confident language without exaggeration
7. Extract dates as accurately as possible; use the 1st of the month if only month/year given
8. Tags should be specific technologies, skills, or domains (e.g., "Python", "Machine Learning", "Product Design")
9. Impact should be a concise metric or achievement statement
10. If multiple projects are described, extract each as a separate entry
11. Omit any project that lacks sufficient detail to create a meaningful entry

Return ONLY valid JSON, no additional text.`

// LLMExtractor calls an OpenAI-compatible gateway for extraction.
type LLMExtractor struct {
	llm *openai.LLM
}

// NewLLMExtractor builds an extractor from config. Required: AI_API_KEY.
// Optional: AI_GATEWAY_URL (OpenAI-compatible base URL), AI_MODEL.
func NewLLMExtractor(cfg map[string]string) (*LLMExtractor, error) {
	apiKey := config.GetString(cfg, "AI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("AI_API_KEY environment variable is required")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(config.GetString(cfg, "AI_MODEL", "google/gemini-2.5-flash")),
	}
	if baseURL := config.GetString(cfg, "AI_GATEWAY_URL", ""); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extraction model: %w", err)
	}
	return &LLMExtractor{llm: llm}, nil
}

// Extract sends the content through the extraction prompt and parses the
// returned JSON into entries.
func (e *LLMExtractor) Extract(ctx context.Context, content string) ([]Entry, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, extractionSystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman,
			fmt.Sprintf("Parse the following content into structured project entries:\n\n%s", content)),
	}

	resp, err := e.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.3))
	if err != nil {
		return nil, classifyGatewayError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, errs.NewInternalError("no response from AI")
	}

	entries, err := ParseEntries(resp.Choices[0].Content)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse extraction response")
		return nil, errs.NewInternalErrorWithCause("failed to parse AI response", err)
	}
	return entries, nil
}

// ParseEntries decodes the model's JSON payload, tolerating markdown code
// fences around it.
func ParseEntries(raw string) ([]Entry, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload struct {
		Projects []Entry `json:"projects"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("invalid extraction payload: %w", err)
	}
	return payload.Projects, nil
}

// classifyGatewayError maps gateway failures onto the error taxonomy the
// import flow reports: 429 for rate limits, 402 for exhausted credits,
// 500 for everything else upstream.
func classifyGatewayError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "rate limit"):
		return errs.NewRateLimitError("extraction")
	case strings.Contains(msg, "402") || strings.Contains(strings.ToLower(msg), "quota"):
		return errs.NewBillingQuotaError("extraction")
	default:
		return errs.NewInternalErrorWithCause("failed to process content", err)
	}
}
