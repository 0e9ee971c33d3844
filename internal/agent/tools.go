package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/repository"
)

// Generator runs the quote pipeline.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
}

// Uploader creates and publishes reels.
type Uploader interface {
	CreateContainer(ctx context.Context, req *domain.ReelRequest) (string, error)
	Publish(ctx context.Context, containerID string) (string, error)
	Status(ctx context.Context, containerID string) (*domain.UploadJob, error)
	QuickUpload(ctx context.Context, req *domain.ReelRequest) (*domain.UploadJob, error)
}

// Deps are the services the tools delegate to.
type Deps struct {
	Generator Generator
	Cache     *repository.QuoteCache
	Uploader  Uploader
	Info      func() interface{}
}

type generateArgs struct {
	Theme            string `json:"theme,omitempty" jsonschema:"enum=relationships,enum=self-worth,enum=money,enum=boundaries,enum=growth,enum=mixed" jsonschema_description:"Quote theme, defaults to mixed"`
	TargetAudience   string `json:"target_audience,omitempty" jsonschema:"enum=gen-z,enum=millennials,enum=empaths,enum=introverts,enum=overthinkers" jsonschema_description:"Audience, defaults to gen-z"`
	FormatPreference string `json:"format_preference,omitempty" jsonschema_description:"Title pattern or short alias such as maturity or never"`
	Image            bool   `json:"image,omitempty" jsonschema_description:"Also render a quote image"`
	Video            bool   `json:"video,omitempty" jsonschema_description:"Also render a reel video (implies image)"`
	ImageStyle       string `json:"image_style,omitempty" jsonschema:"enum=paper,enum=modern,enum=minimal"`
}

type searchArgs struct {
	Query  string `json:"query" jsonschema_description:"Case-insensitive text to find in title or content"`
	Theme  string `json:"theme,omitempty"`
	Limit  int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50,default=10"`
	Offset int    `json:"offset,omitempty" jsonschema:"minimum=0"`
}

type limitArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50,default=10"`
}

type themeArgs struct {
	Theme string `json:"theme" jsonschema:"enum=relationships,enum=self-worth,enum=money,enum=boundaries,enum=growth,enum=mixed"`
	Limit int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50,default=10"`
}

type emptyArgs struct{}

type containerArgs struct {
	ContainerID string `json:"container_id"`
}

// NewToolServer registers every agent tool against deps.
func NewToolServer(name, version string, deps Deps) *Server {
	s := NewServer(name, version)

	Register(s, "generate_viral_quote",
		"Generate a viral quote for a theme and audience, optionally with an image and reel video.",
		func(ctx context.Context, a generateArgs) (interface{}, error) {
			return domain.NewQuoteResponse(deps.Generator.Generate(ctx, domain.GenerationRequest{
				Theme:            a.Theme,
				TargetAudience:   a.TargetAudience,
				FormatPreference: a.FormatPreference,
				Image:            a.Image,
				Video:            a.Video,
				ImageStyle:       a.ImageStyle,
			})), nil
		})

	Register(s, "search_quotes",
		"Search cached quotes by text, ranked by engagement score.",
		func(ctx context.Context, a searchArgs) (interface{}, error) {
			if strings.TrimSpace(a.Query) == "" {
				return nil, fmt.Errorf("%w: query is required", ErrInvalidArguments)
			}
			limit, err := checkLimit(a.Limit)
			if err != nil {
				return nil, err
			}
			if a.Offset < 0 {
				return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidArguments)
			}
			var theme domain.Theme
			if a.Theme != "" {
				theme = domain.Theme(strings.ToLower(strings.TrimSpace(a.Theme)))
				if !theme.IsValid() {
					return nil, fmt.Errorf("%w: unknown theme %q", ErrInvalidArguments, a.Theme)
				}
			}
			quotes, total := deps.Cache.Search(a.Query, theme, limit, a.Offset)
			return map[string]interface{}{"quotes": quotes, "total": total}, nil
		})

	Register(s, "get_trending_quotes",
		"Get the most engaging cached quotes.",
		func(ctx context.Context, a limitArgs) (interface{}, error) {
			limit, err := checkLimit(a.Limit)
			if err != nil {
				return nil, err
			}
			return deps.Cache.Trending(limit), nil
		})

	Register(s, "get_quotes_by_theme",
		"Get cached quotes for one theme, ranked by engagement score.",
		func(ctx context.Context, a themeArgs) (interface{}, error) {
			theme := domain.Theme(strings.ToLower(a.Theme))
			if !theme.IsValid() {
				return nil, fmt.Errorf("%w: unknown theme %q", ErrInvalidArguments, a.Theme)
			}
			limit, err := checkLimit(a.Limit)
			if err != nil {
				return nil, err
			}
			return deps.Cache.ByTheme(theme, limit), nil
		})

	Register(s, "get_server_info",
		"Describe the server, its model and the available themes and audiences.",
		func(ctx context.Context, _ emptyArgs) (interface{}, error) {
			return deps.Info(), nil
		})

	Register(s, "create_reel_container",
		"Create a reel container from a public video URL.",
		func(ctx context.Context, a domain.ReelRequest) (interface{}, error) {
			if a.VideoURL == "" {
				return nil, fmt.Errorf("%w: video_url is required", ErrInvalidArguments)
			}
			id, err := deps.Uploader.CreateContainer(ctx, &a)
			if err != nil {
				return nil, err
			}
			return map[string]string{"container_id": id}, nil
		})

	Register(s, "publish_reel",
		"Publish a finished reel container.",
		func(ctx context.Context, a containerArgs) (interface{}, error) {
			if a.ContainerID == "" {
				return nil, fmt.Errorf("%w: container_id is required", ErrInvalidArguments)
			}
			mediaID, err := deps.Uploader.Publish(ctx, a.ContainerID)
			if err != nil {
				return nil, err
			}
			return domain.UploadJob{ContainerID: a.ContainerID, Status: domain.UploadStatusPublished, MediaID: mediaID}, nil
		})

	Register(s, "quick_upload_reel",
		"Create a reel container, wait until it is processed and publish it.",
		func(ctx context.Context, a domain.ReelRequest) (interface{}, error) {
			if a.VideoURL == "" {
				return nil, fmt.Errorf("%w: video_url is required", ErrInvalidArguments)
			}
			job, err := deps.Uploader.QuickUpload(ctx, &a)
			if err != nil && job != nil && job.ContainerID != "" {
				return nil, fmt.Errorf("%w (container_id=%s status=%s status_code=%s)",
					err, job.ContainerID, job.Status, job.StatusCode)
			}
			return job, err
		})

	Register(s, "get_upload_status",
		"Get the processing status of a reel container.",
		func(ctx context.Context, a containerArgs) (interface{}, error) {
			if a.ContainerID == "" {
				return nil, fmt.Errorf("%w: container_id is required", ErrInvalidArguments)
			}
			return deps.Uploader.Status(ctx, a.ContainerID)
		})

	return s
}

func checkLimit(limit int) (int, error) {
	if limit == 0 {
		return 10, nil
	}
	if limit < 1 || limit > 50 {
		return 0, fmt.Errorf("%w: limit must be between 1 and 50", ErrInvalidArguments)
	}
	return limit, nil
}
