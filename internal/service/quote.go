package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
	"github.com/timmy/reelquote/internal/prompts"
)

// QuoteService generates quote text with a chat-completion model.
type QuoteService struct {
	client      openai.Client
	model       string
	temperature float64
	structured  bool
	enabled     bool

	intN func(n int) int
	now  func() time.Time
}

// QuoteConfig holds configuration for the quote service.
type QuoteConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	MaxRetries       int
	Timeout          time.Duration
	StructuredOutput bool
}

// quoteResponse is the JSON object the model is asked to return.
type quoteResponse struct {
	Title   string `json:"title" jsonschema_description:"Short viral title pattern, e.g. 'Maturity is when'"`
	Content string `json:"content" jsonschema_description:"Relatable quote body, at most 25 words"`
}

// GenerateSchema reflects a JSON schema suitable for strict structured outputs.
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var quoteResponseSchema = GenerateSchema[quoteResponse]()

// NewQuoteService creates a new quote service.
// Parameters:
//   - cfg: model, endpoint and sampling settings. An empty APIKey disables model calls.
//
// Returns:
//   - *QuoteService: initialized service.
func NewQuoteService(cfg *QuoteConfig) *QuoteService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(timeout),
	)

	return &QuoteService{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		structured:  cfg.StructuredOutput,
		enabled:     cfg.APIKey != "",
		intN:        rand.IntN,
		now:         time.Now,
	}
}

// IsEnabled reports whether the model will be called.
func (s *QuoteService) IsEnabled() bool {
	return s.enabled
}

// GetModel returns the model name being used.
func (s *QuoteService) GetModel() string {
	return s.model
}

// Generate produces one quote. It never fails: when the model is unavailable or its
// answer cannot be used, a canned quote is returned with status fallback.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - theme: normalized theme.
//   - audience: normalized audience.
//   - formatPreference: optional title pattern or alias.
//
// Returns:
//   - domain.QuoteResult: the quote and how it was obtained.
func (s *QuoteService) Generate(ctx context.Context, theme domain.Theme, audience domain.Audience, formatPreference string) domain.QuoteResult {
	start := s.now()
	quote := domain.Quote{
		ID:             uuid.New().String(),
		Theme:          theme,
		TargetAudience: audience,
	}
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldQuoteID: quote.ID,
		logger.FieldTheme:   string(theme),
	})

	title, content, err := s.complete(ctx, theme, audience, formatPreference)
	quote.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	if err != nil {
		fb := prompts.Fallback(string(theme))
		quote.Title, quote.Content = fb.Title, fb.Content
		logger.With(nil).
			WithStatus(string(domain.GenerationStatusFallback)).
			Since(start).
			Warn(ctx, "Quote generation fell back: %v", err)
		return domain.QuoteResult{
			Quote:          quote,
			Status:         domain.GenerationStatusFallback,
			FallbackReason: err.Error(),
		}
	}

	quote.Title, quote.Content = title, content
	logger.With(nil).
		WithStatus(string(domain.GenerationStatusGenerated)).
		Since(start).
		Info(ctx, "Quote generated: title=%q", title)

	return domain.QuoteResult{Quote: quote, Status: domain.GenerationStatusGenerated}
}

func (s *QuoteService) complete(ctx context.Context, theme domain.Theme, audience domain.Audience, formatPreference string) (string, string, error) {
	if !s.enabled {
		return "", "", errors.New("llm api key not configured")
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompts.QuoteSystemPrompt),
			openai.UserMessage(s.buildUserPrompt(theme, audience, formatPreference)),
		},
		Model:       openai.ChatModel(s.model),
		Temperature: openai.Float(s.temperature),
	}
	if s.structured {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "viral_quote",
					Description: openai.String("A short viral quote with a title and content"),
					Schema:      quoteResponseSchema,
					Strict:      openai.Bool(true),
				},
			},
		}
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", "", fmt.Errorf("chat completion returned HTTP %d: %w", apiErr.StatusCode, err)
		}
		return "", "", fmt.Errorf("failed to call chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", "", errors.New("no choices in chat completion response")
	}

	raw := completion.Choices[0].Message.Content
	if strings.TrimSpace(raw) == "" {
		return "", "", fmt.Errorf("empty chat completion (finish reason: %s)", completion.Choices[0].FinishReason)
	}

	return parseQuoteText(raw)
}

// buildUserPrompt fills the per-request user prompt with randomized variety.
func (s *QuoteService) buildUserPrompt(theme domain.Theme, audience domain.Audience, formatPreference string) string {
	return prompts.RenderQuoteUserPrompt(prompts.QuoteUserData{
		Variety:          prompts.VarietyPhrases[s.intN(len(prompts.VarietyPhrases))],
		TitlePattern:     s.selectTitlePattern(formatPreference),
		ThemeInstruction: s.themeInstruction(theme),
		Audience:         string(audience),
		Seed:             s.now().Unix() % 1000,
	})
}

// selectTitlePattern resolves the format preference. Known aliases expand to their
// pattern, anything else is used verbatim, and empty or "string" picks at random.
func (s *QuoteService) selectTitlePattern(pref string) string {
	pref = strings.TrimSpace(pref)
	if pref == "" || pref == "string" {
		return prompts.TitlePatterns[s.intN(len(prompts.TitlePatterns))]
	}
	if pattern, ok := prompts.FormatAliases[strings.ToLower(pref)]; ok {
		return pattern
	}
	return pref
}

func (s *QuoteService) themeInstruction(theme domain.Theme) string {
	name := string(theme)
	if theme == domain.ThemeMixed || theme == "" {
		name = string(domain.ConcreteThemes[s.intN(len(domain.ConcreteThemes))])
	}
	ideas := prompts.ThemeInspirations[name]
	if len(ideas) == 0 {
		return prompts.ThemeInstruction(name, "")
	}
	return prompts.ThemeInstruction(name, ideas[s.intN(len(ideas))])
}

// parseQuoteText extracts title and content from a model answer. JSON is preferred,
// including JSON wrapped in code fences or prose. Otherwise the first line is the
// title and the rest the content, and a single line is split at its first colon.
func parseQuoteText(raw string) (string, string, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	if title, content, ok := parseQuoteJSON(text); ok {
		return title, content, nil
	}
	if i, j := strings.Index(text, "{"), strings.LastIndex(text, "}"); i >= 0 && j > i {
		if title, content, ok := parseQuoteJSON(text[i : j+1]); ok {
			return title, content, nil
		}
	}
	if strings.HasPrefix(text, "{") {
		return "", "", fmt.Errorf("incomplete quote JSON: %.80q", text)
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	switch {
	case len(lines) >= 2:
		title := cleanLine(strings.TrimPrefix(lines[0], "Title:"))
		content := cleanLine(strings.TrimPrefix(strings.Join(lines[1:], " "), "Content:"))
		if title != "" && content != "" {
			return title, content, nil
		}
	case len(lines) == 1:
		if idx := strings.Index(lines[0], ":"); idx > 0 && idx < len(lines[0])-1 {
			title := cleanLine(lines[0][:idx+1])
			content := cleanLine(lines[0][idx+1:])
			if title != "" && content != "" {
				return title, content, nil
			}
		}
	}

	return "", "", fmt.Errorf("unparseable quote response: %.80q", text)
}

func parseQuoteJSON(text string) (string, string, bool) {
	var resp quoteResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return "", "", false
	}
	title := strings.TrimSpace(resp.Title)
	content := strings.TrimSpace(resp.Content)
	if title == "" || content == "" {
		return "", "", false
	}
	return title, content, true
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"*#`)
	return strings.TrimSpace(s)
}
