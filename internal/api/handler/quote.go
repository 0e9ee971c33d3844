package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
	"github.com/timmy/reelquote/internal/repository"
	"github.com/timmy/reelquote/internal/service"
)

const (
	defaultLimit       = 10
	maxLimit           = 50
	defaultStreamCount = 5
	maxStreamCount     = 20
)

// QuoteGenerator is the part of the generation pipeline the HTTP layer needs.
type QuoteGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
	Stream(ctx context.Context, req domain.GenerationRequest, count int, emit service.StreamFunc) error
}

// QuoteHandler handles quote generation and cache query endpoints.
type QuoteHandler struct {
	generator QuoteGenerator
	cache     *repository.QuoteCache
}

// NewQuoteHandler creates a new quote handler.
// Parameters:
//   - generator: generation pipeline.
//   - cache: quote cache owned by the server.
// Returns:
//   - *QuoteHandler: initialized handler.
func NewQuoteHandler(generator QuoteGenerator, cache *repository.QuoteCache) *QuoteHandler {
	return &QuoteHandler{generator: generator, cache: cache}
}

// Generate handles POST /generate.
func (h *QuoteHandler) Generate(c *gin.Context) {
	var req domain.GenerationRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, domain.NewQuoteResponse(h.generator.Generate(c.Request.Context(), req)))
}

// GenerateWithImage handles POST /generate-with-image. Image defaults to true.
func (h *QuoteHandler) GenerateWithImage(c *gin.Context) {
	req := domain.GenerationRequest{Image: true}
	if !bindOptionalJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, domain.NewQuoteResponse(h.generator.Generate(c.Request.Context(), req)))
}

type streamEvent struct {
	Type    string        `json:"type"`
	Message string        `json:"message,omitempty"`
	Data    *domain.Quote `json:"data,omitempty"`
	Status  string        `json:"status,omitempty"`
	Index   int           `json:"index,omitempty"`
	Total   int           `json:"total"`
}

// Stream handles GET /stream, sending one SSE data event per generated quote.
func (h *QuoteHandler) Stream(c *gin.Context) {
	count, err := intQuery(c, "count", defaultStreamCount, 1, maxStreamCount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req := domain.GenerationRequest{
		Theme:          c.DefaultQuery("theme", string(domain.ThemeMixed)),
		TargetAudience: c.DefaultQuery("target_audience", string(domain.AudienceGenZ)),
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		logger.CtxError(c.Request.Context(), "Response writer does not support flushing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	send := func(ev streamEvent) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send(streamEvent{Type: "start", Message: fmt.Sprintf("Starting AI generation of %d quotes...", count), Total: count}); err != nil {
		return
	}

	err = h.generator.Stream(ctx, req, count, func(i int, res domain.GenerationResult) error {
		q := res.Quote
		return send(streamEvent{Type: "quote", Data: &q, Status: string(res.Status), Index: i + 1, Total: count})
	})
	if err != nil {
		logger.CtxWarn(ctx, "Quote stream stopped: %v", err)
		return
	}

	send(streamEvent{Type: "complete", Message: fmt.Sprintf("Generated %d AI quotes successfully!", count), Total: count})
}

// Search handles GET /search.
func (h *QuoteHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'query' is required"})
		return
	}
	limit, err := intQuery(c, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, err := intQuery(c, "offset", 0, 0, -1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var theme domain.Theme
	if raw := c.Query("theme"); raw != "" {
		theme = domain.Theme(strings.ToLower(raw))
		if !theme.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown theme %q", raw)})
			return
		}
	}

	quotes, total := h.cache.Search(query, theme, limit, offset)
	c.JSON(http.StatusOK, gin.H{
		"quotes": nonNil(quotes),
		"total":  total,
		"query":  query,
		"limit":  limit,
		"offset": offset,
	})
}

// Trending handles GET /trending.
func (h *QuoteHandler) Trending(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(h.cache.Trending(limit)))
}

// ByTheme handles GET /themes/:theme.
func (h *QuoteHandler) ByTheme(c *gin.Context) {
	theme := domain.Theme(strings.ToLower(c.Param("theme")))
	if !theme.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown theme %q", c.Param("theme"))})
		return
	}
	limit, err := intQuery(c, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(h.cache.ByTheme(theme, limit)))
}

// bindOptionalJSON decodes the body into req, accepting an empty body.
// It writes a 400 response and returns false on malformed input.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return false
	}
	return true
}

// intQuery reads an integer query parameter. hi < 0 means unbounded.
func intQuery(c *gin.Context, name string, def, lo, hi int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < lo || (hi >= 0 && v > hi) {
		if hi < 0 {
			return 0, fmt.Errorf("%s must be at least %d", name, lo)
		}
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return v, nil
}

func nonNil(quotes []domain.Quote) []domain.Quote {
	if quotes == nil {
		return []domain.Quote{}
	}
	return quotes
}
