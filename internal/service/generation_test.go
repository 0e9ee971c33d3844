package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/repository"
)

type fakeQuotes struct {
	fallback bool
	calls    atomic.Int32
}

func (f *fakeQuotes) Generate(ctx context.Context, theme domain.Theme, audience domain.Audience, formatPreference string) domain.QuoteResult {
	n := f.calls.Add(1)
	q := domain.Quote{
		ID:             "q" + string(rune('0'+n)),
		Title:          "Maturity is when",
		Content:        "you stop explaining yourself.",
		Theme:          theme,
		TargetAudience: audience,
		CreatedAt:      time.Now().UTC(),
	}
	if f.fallback {
		return domain.QuoteResult{Quote: q, Status: domain.GenerationStatusFallback, FallbackReason: "llm down"}
	}
	return domain.QuoteResult{Quote: q, Status: domain.GenerationStatusGenerated}
}

type fakeImages struct {
	err error
}

func (f *fakeImages) Generate(ctx context.Context, quote *domain.Quote, style domain.ImageStyle) (*domain.MediaAsset, []byte, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.MediaAsset{URL: "https://cdn.test/img.png", Path: "img.png", ContentType: "image/png"}, []byte("png"), nil
}

type fakeVideos struct {
	mu    sync.Mutex
	input VideoInput
	err   error
}

func (f *fakeVideos) Generate(ctx context.Context, in VideoInput) (*domain.MediaAsset, error) {
	f.mu.Lock()
	f.input = in
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MediaAsset{URL: "https://cdn.test/v.mp4", Path: "v.mp4", ContentType: "video/mp4"}, nil
}

func TestGenerationService_Generate(t *testing.T) {
	tests := []struct {
		name         string
		req          domain.GenerationRequest
		images       *fakeImages
		videos       *fakeVideos
		wantImage    bool
		wantVideo    bool
		wantImageErr bool
		wantVideoErr bool
	}{
		{
			name: "quote only",
			req:  domain.GenerationRequest{Theme: "money", TargetAudience: "gen-z"},
		},
		{
			name:      "image",
			req:       domain.GenerationRequest{Theme: "growth", Image: true},
			wantImage: true,
		},
		{
			name:      "video implies image",
			req:       domain.GenerationRequest{Video: true},
			wantImage: true,
			wantVideo: true,
		},
		{
			name:         "image failure skips video",
			req:          domain.GenerationRequest{Video: true},
			images:       &fakeImages{err: errors.New("content filter")},
			wantImageErr: true,
			wantVideoErr: true,
		},
		{
			name:         "video failure keeps image",
			req:          domain.GenerationRequest{Video: true},
			videos:       &fakeVideos{err: errors.New("ffmpeg failed")},
			wantImage:    true,
			wantVideoErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images, videos := tt.images, tt.videos
			if images == nil {
				images = &fakeImages{}
			}
			if videos == nil {
				videos = &fakeVideos{}
			}
			svc := NewGenerationService(&fakeQuotes{}, images, videos, repository.NewQuoteCache(10))

			res := svc.Generate(context.Background(), tt.req)

			if res.Quote.Title == "" || res.Quote.Content == "" {
				t.Error("quote must always be present")
			}
			if (res.Image != nil) != tt.wantImage {
				t.Errorf("image = %v, want %v", res.Image, tt.wantImage)
			}
			if (res.Video != nil) != tt.wantVideo {
				t.Errorf("video = %v, want %v", res.Video, tt.wantVideo)
			}
			if (res.ImageError != "") != tt.wantImageErr {
				t.Errorf("image error = %q, want error %v", res.ImageError, tt.wantImageErr)
			}
			if (res.VideoError != "") != tt.wantVideoErr {
				t.Errorf("video error = %q, want error %v", res.VideoError, tt.wantVideoErr)
			}
		})
	}
}

func TestGenerationService_NormalizesInput(t *testing.T) {
	svc := NewGenerationService(&fakeQuotes{}, nil, nil, repository.NewQuoteCache(10))

	res := svc.Generate(context.Background(), domain.GenerationRequest{Theme: "astrology", TargetAudience: "boomers"})
	if res.Quote.Theme != domain.ThemeMixed {
		t.Errorf("expected mixed theme, got %s", res.Quote.Theme)
	}
	if res.Quote.TargetAudience != domain.AudienceGenZ {
		t.Errorf("expected gen-z audience, got %s", res.Quote.TargetAudience)
	}
}

func TestGenerationService_EngagementAndCache(t *testing.T) {
	cache := repository.NewQuoteCache(10)

	svc := NewGenerationService(&fakeQuotes{}, nil, nil, cache)
	res := svc.Generate(context.Background(), domain.GenerationRequest{})
	e := res.Quote.Engagement
	if e.Likes < 5000 || e.Likes > 50000 {
		t.Errorf("likes out of range: %d", e.Likes)
	}
	if e.Shares < e.Likes*5/100 || e.Shares > e.Likes*15/100 {
		t.Errorf("shares out of range: %d for %d likes", e.Shares, e.Likes)
	}
	if e.Score < 0.75 || e.Score > 0.98 {
		t.Errorf("score out of range: %v", e.Score)
	}
	if cache.Len() != 1 {
		t.Errorf("generated quote should be cached, len=%d", cache.Len())
	}

	fallback := NewGenerationService(&fakeQuotes{fallback: true}, nil, nil, cache)
	res = fallback.Generate(context.Background(), domain.GenerationRequest{})
	if !res.IsFallback() || res.FallbackReason == "" {
		t.Errorf("expected visible fallback, got %+v", res.QuoteResult)
	}
	if res.Quote.Engagement != (domain.Engagement{}) {
		t.Errorf("fallback quote must have zero engagement, got %+v", res.Quote.Engagement)
	}
	if cache.Len() != 1 {
		t.Errorf("fallback quote must not be cached, len=%d", cache.Len())
	}
}

func TestGenerationService_DisabledMedia(t *testing.T) {
	svc := NewGenerationService(&fakeQuotes{}, nil, nil, nil)
	res := svc.Generate(context.Background(), domain.GenerationRequest{Video: true})
	if res.ImageError != ErrImageDisabled.Error() {
		t.Errorf("unexpected image error %q", res.ImageError)
	}
	if res.VideoError != ErrVideoDisabled.Error() {
		t.Errorf("unexpected video error %q", res.VideoError)
	}
}

func TestGenerationService_VideoGetsImageAndTitle(t *testing.T) {
	videos := &fakeVideos{}
	svc := NewGenerationService(&fakeQuotes{}, &fakeImages{}, videos, nil)
	svc.Generate(context.Background(), domain.GenerationRequest{Video: true})

	if videos.input.ImageURL != "https://cdn.test/img.png" || string(videos.input.ImageData) != "png" {
		t.Errorf("video did not receive the image: %+v", videos.input)
	}
	if videos.input.Title != "Maturity is when" {
		t.Errorf("video title = %q", videos.input.Title)
	}
}

func TestGenerationService_GenerateBatch(t *testing.T) {
	quotes := &fakeQuotes{}
	cache := repository.NewQuoteCache(50)
	svc := NewGenerationService(quotes, nil, nil, cache)

	results, err := svc.GenerateBatch(context.Background(), domain.GenerationRequest{Theme: "money"}, 7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Quote.Theme != domain.ThemeMoney {
			t.Errorf("result %d has theme %s", i, r.Quote.Theme)
		}
	}
	if quotes.calls.Load() != 7 || cache.Len() != 7 {
		t.Errorf("calls=%d cached=%d", quotes.calls.Load(), cache.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.GenerateBatch(ctx, domain.GenerationRequest{}, 3, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerationService_Stream(t *testing.T) {
	svc := NewGenerationService(&fakeQuotes{}, nil, nil, nil)

	var indexes []int
	err := svc.Stream(context.Background(), domain.GenerationRequest{}, 4, func(i int, r domain.GenerationResult) error {
		indexes = append(indexes, i)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(indexes) != 4 || indexes[0] != 0 || indexes[3] != 3 {
		t.Errorf("unexpected indexes %v", indexes)
	}

	stop := errors.New("client gone")
	calls := 0
	err = svc.Stream(context.Background(), domain.GenerationRequest{}, 5, func(i int, r domain.GenerationResult) error {
		calls++
		if i == 1 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || calls != 2 {
		t.Errorf("expected stop after 2 emits, got err=%v calls=%d", err, calls)
	}
}
