// Package bootstrap builds the service graph shared by the API server and the batch CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/timmy/reelquote/internal/config"
	"github.com/timmy/reelquote/internal/logger"
	"github.com/timmy/reelquote/internal/repository"
	"github.com/timmy/reelquote/internal/service"
	"github.com/timmy/reelquote/internal/storage"
)

// Services holds every long-lived component built from configuration.
type Services struct {
	Storage    storage.ObjectStorage // nil when storage is not configured
	Cache      *repository.QuoteCache
	Quotes     *service.QuoteService
	Images     *service.ImageService
	Videos     *service.VideoService
	Reels      *service.ReelsService
	Generation *service.GenerationService
}

// Build creates storage, the quote cache and all services.
// Parameters:
//   - ctx: context used to verify the storage bucket.
//   - cfg: loaded application configuration.
//
// Returns:
//   - *Services: wired services.
//   - error: non-nil if configured storage cannot be reached.
func Build(ctx context.Context, cfg *config.Config) (*Services, error) {
	s := &Services{}

	if cfg.Storage.Enabled() {
		store, err := storage.NewStorage(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure storage bucket: %w", err)
		}
		s.Storage = store
	} else {
		logger.CtxWarn(ctx, "Object storage not configured, image and video generation will report errors")
	}

	s.Cache = repository.NewQuoteCache(cfg.Cache.Capacity)

	s.Quotes = service.NewQuoteService(&service.QuoteConfig{
		APIKey:           cfg.LLM.APIKey,
		BaseURL:          cfg.LLM.BaseURL,
		Model:            cfg.LLM.Model,
		Temperature:      cfg.LLM.Temperature,
		MaxRetries:       cfg.LLM.MaxRetries,
		Timeout:          cfg.LLM.Timeout,
		StructuredOutput: cfg.LLM.StructuredOutput,
	})
	if !s.Quotes.IsEnabled() {
		logger.CtxWarn(ctx, "LLM API key not configured, every quote will be a fallback")
	}

	var generationURL string
	if cfg.Image.Enabled() {
		generationURL = cfg.Image.GenerationURL()
	}
	s.Images = service.NewImageService(&service.ImageConfig{
		GenerationURL: generationURL,
		APIKey:        cfg.Image.APIKey,
		Size:          cfg.Image.Size,
		Quality:       cfg.Image.Quality,
		OutputFormat:  cfg.Image.OutputFormat,
		Folder:        cfg.Storage.ImageFolder,
		Timeout:       cfg.Image.Timeout,
	}, s.Storage)

	s.Videos = service.NewVideoService(&service.VideoConfig{
		FFmpegPath:      cfg.Video.FFmpegPath,
		AudioFile:       cfg.Video.AudioFile,
		Width:           cfg.Video.Width,
		Height:          cfg.Video.Height,
		FPS:             cfg.Video.FPS,
		FadeInDelay:     cfg.Video.FadeInDelay,
		FadeInDuration:  cfg.Video.FadeInDuration,
		MaxDuration:     cfg.Video.MaxDuration,
		DefaultTitle:    cfg.Video.DefaultTitle,
		BackgroundColor: cfg.Video.BackgroundColor,
		BannerY:         cfg.Video.BannerY,
		BannerHeight:    cfg.Video.BannerHeight,
		Folder:          cfg.Storage.VideoFolder,
		Timeout:         cfg.Video.Timeout,
	}, s.Storage)

	s.Reels = service.NewReelsService(&service.ReelsConfig{
		BaseURL:      cfg.Reels.BaseURL,
		AccessToken:  cfg.Reels.AccessToken,
		IGUserID:     cfg.Reels.IGUserID,
		PollInterval: cfg.Reels.PollInterval,
		MaxWait:      cfg.Reels.MaxWait,
		Timeout:      cfg.Reels.Timeout,
	})

	s.Generation = service.NewGenerationService(s.Quotes, s.Images, s.Videos, s.Cache)

	return s, nil
}

// MediaEnabled reports whether images and videos can be produced and stored.
func (s *Services) MediaEnabled() bool {
	return s.Storage != nil && s.Images.IsEnabled()
}
