package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/repository"
)

// ServerInfo is returned by GET / and the get_server_info tool.
type ServerInfo struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	AIPowered       bool              `json:"ai_powered"`
	Model           string            `json:"model"`
	Endpoints       map[string]string `json:"endpoints"`
	Themes          []domain.Theme    `json:"themes"`
	Audiences       []domain.Audience `json:"audiences"`
	ImageStyles     []string          `json:"image_styles"`
	MCPCompatible   bool              `json:"mcp_compatible"`
	SSEStreaming    bool              `json:"sse_streaming"`
	Storage         string            `json:"storage"`
	CachedQuotes    int               `json:"cached_quotes"`
	CacheCapacity   int               `json:"cache_capacity"`
	ImageGeneration bool              `json:"image_generation"`
	VideoGeneration bool              `json:"video_generation"`
	ReelUploads     bool              `json:"reel_uploads"`
}

// Features reports which optional integrations are configured.
type Features struct {
	Model  string
	Images bool
	Videos bool
	Reels  bool
}

// HealthHandler handles health check and server info endpoints
type HealthHandler struct {
	cache    *repository.QuoteCache
	features Features
	version  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cache *repository.QuoteCache, version string, features Features) *HealthHandler {
	return &HealthHandler{cache: cache, features: features, version: version}
}

// Health returns the health status of the service
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Root handles GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, h.Info())
}

// Info builds the current server description.
func (h *HealthHandler) Info() ServerInfo {
	info := ServerInfo{
		Name:        "reelquote",
		Version:     h.version,
		Description: "Viral quote generator with image, reel video and agent tool support",
		AIPowered:   true,
		Model:       h.features.Model,
		Endpoints: map[string]string{
			"generate":            "POST /generate - Generate a single AI quote",
			"generate_with_image": "POST /generate-with-image - Generate a quote with an image",
			"search":              "GET /search - Search cached quotes",
			"trending":            "GET /trending - Get trending cached quotes",
			"themes":              "GET /themes/{theme} - Get cached quotes by theme",
			"stream":              "GET /stream - Stream AI quote generation with SSE",
			"upload":              "POST /upload - Create a reel container",
			"publish":             "POST /publish - Publish a reel container",
			"quick_upload":        "POST /quick-upload - Create, wait for and publish a reel",
			"status":              "GET /status/{container_id} - Reel container status",
			"mcp":                 "GET|POST /mcp - Agent tool endpoint",
		},
		Themes:          domain.Themes,
		Audiences:       domain.Audiences,
		ImageStyles:     []string{string(domain.ImageStylePaper), string(domain.ImageStyleModern), string(domain.ImageStyleMinimal)},
		MCPCompatible:   true,
		SSEStreaming:    true,
		Storage:         "in-memory cache",
		ImageGeneration: h.features.Images,
		VideoGeneration: h.features.Videos,
		ReelUploads:     h.features.Reels,
	}
	if h.cache != nil {
		info.CachedQuotes = h.cache.Len()
		info.CacheCapacity = h.cache.Capacity()
	}
	return info
}
