package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/prompts"
)

func newTestQuoteService(t *testing.T, baseURL string) *QuoteService {
	t.Helper()
	return NewQuoteService(&QuoteConfig{
		APIKey:           "test-key",
		BaseURL:          baseURL,
		Model:            "gpt-4.1-mini",
		Temperature:      0.8,
		MaxRetries:       0,
		Timeout:          5 * time.Second,
		StructuredOutput: true,
	})
}

func TestQuoteService_GenerateSuccess(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(chatCompletionBody(`{"title":"Make money so you can","content":"leave any room that costs you your peace."}`))
	}))
	defer srv.Close()

	svc := newTestQuoteService(t, srv.URL)
	result := svc.Generate(context.Background(), domain.ThemeMoney, domain.AudienceGenZ, "")

	if result.Status != domain.GenerationStatusGenerated {
		t.Fatalf("expected generated status, got %s (%s)", result.Status, result.FallbackReason)
	}
	q := result.Quote
	if q.Title != "Make money so you can" || q.Content == "" {
		t.Errorf("unexpected quote: %+v", q)
	}
	if q.Theme != domain.ThemeMoney || q.TargetAudience != domain.AudienceGenZ {
		t.Errorf("theme/audience not preserved: %s/%s", q.Theme, q.TargetAudience)
	}
	if q.ID == "" || q.CreatedAt.IsZero() {
		t.Error("expected id and timestamp to be set")
	}
	if _, err := time.Parse(time.RFC3339, q.CreatedAt.Format(time.RFC3339)); err != nil {
		t.Errorf("created_at not ISO-8601: %v", err)
	}

	if captured["model"] != "gpt-4.1-mini" {
		t.Errorf("expected model in request, got %v", captured["model"])
	}
	if captured["temperature"] != 0.8 {
		t.Errorf("expected temperature 0.8, got %v", captured["temperature"])
	}
	format, _ := captured["response_format"].(map[string]interface{})
	if format["type"] != "json_schema" {
		t.Errorf("expected json_schema response format, got %v", captured["response_format"])
	}
	messages, _ := captured["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	user, _ := messages[1].(map[string]interface{})
	if content, _ := user["content"].(string); !strings.Contains(content, "Target audience: gen-z") {
		t.Errorf("user prompt missing audience: %q", content)
	}
}

func TestQuoteService_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   []byte
	}{
		{name: "upstream error", status: http.StatusInternalServerError, body: []byte(`{"error":{"message":"boom"}}`)},
		{name: "empty content", status: http.StatusOK, body: chatCompletionBody("")},
		{name: "unparseable content", status: http.StatusOK, body: chatCompletionBody("lol")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			svc := newTestQuoteService(t, srv.URL)

			result := svc.Generate(context.Background(), domain.ThemeBoundaries, domain.AudienceEmpaths, "")
			if !result.IsFallback() {
				t.Fatalf("expected fallback, got %s", result.Status)
			}
			if result.FallbackReason == "" {
				t.Error("expected a fallback reason")
			}
			want := prompts.Fallback("boundaries")
			if result.Quote.Title != want.Title || result.Quote.Content != want.Content {
				t.Errorf("unexpected fallback quote: %+v", result.Quote)
			}
			if result.Quote.Engagement != (domain.Engagement{}) {
				t.Error("fallback quote must not carry engagement")
			}
		})
	}
}

func TestQuoteService_DisabledWithoutKey(t *testing.T) {
	svc := NewQuoteService(&QuoteConfig{Model: "gpt-4.1-mini"})
	if svc.IsEnabled() {
		t.Fatal("expected service to be disabled")
	}

	result := svc.Generate(context.Background(), domain.ThemeMixed, domain.AudienceGenZ, "")
	if !result.IsFallback() {
		t.Fatal("expected fallback without api key")
	}
	if result.Quote.Title == "" || result.Quote.Content == "" {
		t.Error("fallback must be non-empty")
	}
}

func TestQuoteService_SelectTitlePattern(t *testing.T) {
	svc := &QuoteService{intN: func(n int) int { return 0 }}

	tests := []struct {
		pref string
		want string
	}{
		{"", prompts.TitlePatterns[0]},
		{"string", prompts.TitlePatterns[0]},
		{"dad", "When my Dad said this:"},
		{"Comparison", "MAN VS WOMAN:"},
		{"Hot girl rule:", "Hot girl rule:"},
	}

	for _, tt := range tests {
		t.Run(tt.pref, func(t *testing.T) {
			if got := svc.selectTitlePattern(tt.pref); got != tt.want {
				t.Errorf("selectTitlePattern(%q) = %q, want %q", tt.pref, got, tt.want)
			}
		})
	}
}

func TestQuoteService_ThemeInstruction(t *testing.T) {
	svc := &QuoteService{intN: func(n int) int { return n - 1 }}

	got := svc.themeInstruction(domain.ThemeGrowth)
	ideas := prompts.ThemeInspirations["growth"]
	if !strings.Contains(got, "'growth'") || !strings.Contains(got, ideas[len(ideas)-1]) {
		t.Errorf("unexpected growth instruction %q", got)
	}

	mixed := svc.themeInstruction(domain.ThemeMixed)
	if strings.Contains(mixed, "'mixed'") {
		t.Errorf("mixed theme should resolve to a concrete theme: %q", mixed)
	}
}

func TestParseQuoteText(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantTitle   string
		wantContent string
		wantErr     bool
	}{
		{
			name:        "plain json",
			raw:         `{"title":"Real talk:","content":"protect your peace."}`,
			wantTitle:   "Real talk:",
			wantContent: "protect your peace.",
		},
		{
			name:        "fenced json",
			raw:         "```json\n{\"title\": \"Normalize\", \"content\": \"leaving early.\"}\n```",
			wantTitle:   "Normalize",
			wantContent: "leaving early.",
		},
		{
			name:        "json inside prose",
			raw:         "Sure! Here you go: {\"title\":\"PSA:\",\"content\":\"rest is productive.\"} Enjoy",
			wantTitle:   "PSA:",
			wantContent: "rest is productive.",
		},
		{
			name:        "two lines",
			raw:         "Growing up means\nletting people go without a goodbye.",
			wantTitle:   "Growing up means",
			wantContent: "letting people go without a goodbye.",
		},
		{
			name:        "labelled lines",
			raw:         "Title: Love is\nContent: choosing them on bad days too.",
			wantTitle:   "Love is",
			wantContent: "choosing them on bad days too.",
		},
		{
			name:        "single line with colon",
			raw:         "Painful but true: not everyone who smiles at you is happy for you.",
			wantTitle:   "Painful but true:",
			wantContent: "not everyone who smiles at you is happy for you.",
		},
		{name: "single word", raw: "hello", wantErr: true},
		{name: "json missing content", raw: `{"title":"x"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, content, err := parseQuoteText(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseQuoteText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if content != tt.wantContent {
				t.Errorf("content = %q, want %q", content, tt.wantContent)
			}
		})
	}
}
