package api

import (
	"github.com/gin-gonic/gin"

	"github.com/timmy/reelquote/internal/agent"
	"github.com/timmy/reelquote/internal/api/handler"
	"github.com/timmy/reelquote/internal/api/middleware"
	"github.com/timmy/reelquote/internal/config"
	"github.com/timmy/reelquote/internal/repository"
)

// Version is reported by GET / and the agent endpoint.
const Version = "1.0.0"

// Deps are the services the router wires into handlers.
type Deps struct {
	Generator handler.QuoteGenerator
	Uploader  handler.ReelUploader
	Cache     *repository.QuoteCache
	Features  handler.Features
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(cfg *config.ServerConfig, deps Deps) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler(deps.Cache, Version, deps.Features)
	quoteHandler := handler.NewQuoteHandler(deps.Generator, deps.Cache)
	uploadHandler := handler.NewUploadHandler(deps.Uploader)
	mcpHandler := handler.NewMCPHandler(agent.NewToolServer("reelquote", Version, agent.Deps{
		Generator: deps.Generator,
		Cache:     deps.Cache,
		Uploader:  deps.Uploader,
		Info:      func() interface{} { return healthHandler.Info() },
	}))

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)

	// Generation
	r.POST("/generate", quoteHandler.Generate)
	r.POST("/generate-with-image", quoteHandler.GenerateWithImage)
	r.GET("/stream", quoteHandler.Stream)

	// Cache queries
	r.GET("/search", quoteHandler.Search)
	r.GET("/trending", quoteHandler.Trending)
	r.GET("/themes/:theme", quoteHandler.ByTheme)

	// Reels
	r.POST("/upload", uploadHandler.Upload)
	r.POST("/publish", uploadHandler.Publish)
	r.POST("/quick-upload", uploadHandler.QuickUpload)
	r.GET("/status/:container_id", uploadHandler.Status)

	// Agent tools
	r.GET("/mcp", mcpHandler.Discover)
	r.POST("/mcp", mcpHandler.Handle)

	return r
}
