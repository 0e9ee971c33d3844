package service

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
	"github.com/timmy/reelquote/internal/repository"
)

// QuoteGenerator produces quote text.
type QuoteGenerator interface {
	Generate(ctx context.Context, theme domain.Theme, audience domain.Audience, formatPreference string) domain.QuoteResult
}

// ImageGenerator renders and stores a quote image.
type ImageGenerator interface {
	Generate(ctx context.Context, quote *domain.Quote, style domain.ImageStyle) (*domain.MediaAsset, []byte, error)
}

// VideoGenerator renders and stores a quote reel.
type VideoGenerator interface {
	Generate(ctx context.Context, in VideoInput) (*domain.MediaAsset, error)
}

// GenerationService runs the quote, image and video steps and records results in the cache.
type GenerationService struct {
	quotes QuoteGenerator
	images ImageGenerator
	videos VideoGenerator
	cache  *repository.QuoteCache

	intN    func(n int) int
	float64 func() float64
}

// NewGenerationService creates a new generation pipeline.
// Parameters:
//   - quotes: quote text generator (required).
//   - images: image generator; nil records ErrImageDisabled for image requests.
//   - videos: video generator; nil records ErrVideoDisabled for video requests.
//   - cache: quote cache shared with the read endpoints.
//
// Returns:
//   - *GenerationService: initialized service.
func NewGenerationService(quotes QuoteGenerator, images ImageGenerator, videos VideoGenerator, cache *repository.QuoteCache) *GenerationService {
	return &GenerationService{
		quotes:  quotes,
		images:  images,
		videos:  videos,
		cache:   cache,
		intN:    rand.IntN,
		float64: rand.Float64,
	}
}

// Generate runs one request through the pipeline. The quote is always present;
// image and video failures are reported in ImageError and VideoError.
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	start := time.Now()
	theme := domain.ParseTheme(req.Theme)
	audience := domain.ParseAudience(req.TargetAudience)

	qr := s.quotes.Generate(ctx, theme, audience, req.FormatPreference)
	if !qr.IsFallback() {
		qr.Quote.Engagement = s.engagement()
		if s.cache != nil {
			s.cache.Add(qr.Quote)
		}
	}

	result := domain.GenerationResult{QuoteResult: qr}
	ctx = logger.SetQuoteID(ctx, qr.Quote.ID)

	if req.WantsImage() {
		imageData := s.generateImage(ctx, &result, domain.ParseImageStyle(req.ImageStyle))
		if req.Video {
			s.generateVideo(ctx, &result, imageData)
		}
	}

	logger.With(logger.Fields{
		logger.FieldTheme:    string(theme),
		logger.FieldAudience: string(audience),
	}).WithStatus(string(qr.Status)).Since(start).Info(ctx, "Generation finished: image=%t video=%t", result.Image != nil, result.Video != nil)

	return result
}

func (s *GenerationService) generateImage(ctx context.Context, result *domain.GenerationResult, style domain.ImageStyle) []byte {
	if s.images == nil {
		result.ImageError = ErrImageDisabled.Error()
		return nil
	}
	asset, data, err := s.images.Generate(ctx, &result.Quote, style)
	if err != nil {
		logger.CtxWarn(ctx, "Image generation failed: %v", err)
		result.ImageError = err.Error()
		return nil
	}
	result.Image = asset
	return data
}

func (s *GenerationService) generateVideo(ctx context.Context, result *domain.GenerationResult, imageData []byte) {
	switch {
	case s.videos == nil:
		result.VideoError = ErrVideoDisabled.Error()
		return
	case result.Image == nil:
		result.VideoError = "video skipped: no image was generated"
		return
	}

	asset, err := s.videos.Generate(ctx, VideoInput{
		ImageURL:  result.Image.URL,
		ImageData: imageData,
		Title:     result.Quote.Title,
	})
	if err != nil {
		logger.CtxWarn(ctx, "Video generation failed: %v", err)
		result.VideoError = err.Error()
		return
	}
	result.Video = asset
}

// GenerateBatch runs count copies of req with at most workers in flight.
// Results keep their input order.
func (s *GenerationService) GenerateBatch(ctx context.Context, req domain.GenerationRequest, count, workers int) ([]domain.GenerationResult, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]domain.GenerationResult, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Generate(gctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.With(nil).WithCount(count).Info(ctx, "Batch generation finished")
	return results, nil
}

// StreamFunc receives each generated result with its zero-based index.
type StreamFunc func(index int, result domain.GenerationResult) error

// Stream generates count quotes one after another and hands each to emit.
// It stops at the first emit error or when ctx is done.
func (s *GenerationService) Stream(ctx context.Context, req domain.GenerationRequest, count int, emit StreamFunc) error {
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(i, s.Generate(ctx, req)); err != nil {
			return err
		}
	}
	return nil
}

// engagement synthesizes popularity figures for a freshly generated quote.
func (s *GenerationService) engagement() domain.Engagement {
	likes := 5000 + s.intN(45001)
	shares := int(float64(likes) * (0.05 + s.float64()*0.10))
	score := 0.75 + s.float64()*0.23
	return domain.Engagement{Likes: likes, Shares: shares, Score: score}
}
