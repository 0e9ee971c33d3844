package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
	"github.com/timmy/reelquote/internal/prompts"
	"github.com/timmy/reelquote/internal/storage"
)

// ImageService renders quote images through an Azure OpenAI image deployment
// and stores them in object storage.
type ImageService struct {
	client        *resty.Client
	downloader    *resty.Client
	generationURL string
	size          string
	quality       string
	outputFormat  string
	folder        string
	storage       storage.ObjectStorage
	enabled       bool
}

// ImageConfig holds configuration for the image service.
type ImageConfig struct {
	GenerationURL string // full images/generations URL including api-version
	APIKey        string
	Size          string
	Quality       string
	OutputFormat  string
	Folder        string // object key prefix for stored images
	Timeout       time.Duration
}

type imageGenerationRequest struct {
	Prompt       string `json:"prompt"`
	N            int    `json:"n"`
	Size         string `json:"size"`
	Quality      string `json:"quality"`
	OutputFormat string `json:"output_format"`
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewImageService creates a new image service.
// Parameters:
//   - cfg: deployment URL, key and request defaults.
//   - store: destination for generated images; nil disables uploads.
//
// Returns:
//   - *ImageService: initialized service.
func NewImageService(cfg *ImageConfig, store storage.ObjectStorage) *ImageService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	client := resty.New()
	client.SetHeader("Api-Key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	return &ImageService{
		client:        client,
		downloader:    resty.New().SetTimeout(timeout),
		generationURL: cfg.GenerationURL,
		size:          defaultString(cfg.Size, "1024x1024"),
		quality:       defaultString(cfg.Quality, "medium"),
		outputFormat:  defaultString(cfg.OutputFormat, "jpeg"),
		folder:        cfg.Folder,
		storage:       store,
		enabled:       cfg.GenerationURL != "" && cfg.APIKey != "",
	}
}

// IsEnabled reports whether images can be generated.
func (s *ImageService) IsEnabled() bool {
	return s.enabled
}

// Generate renders an image for the quote and uploads it.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - quote: quote whose title and content are drawn.
//   - style: visual template.
//
// Returns:
//   - *domain.MediaAsset: stored image location.
//   - []byte: raw image bytes, for callers that post-process the image.
//   - error: non-nil if generation, decoding or upload fails.
func (s *ImageService) Generate(ctx context.Context, quote *domain.Quote, style domain.ImageStyle) (*domain.MediaAsset, []byte, error) {
	if !s.enabled {
		return nil, nil, ErrImageDisabled
	}
	if s.storage == nil {
		return nil, nil, ErrStorageDisabled
	}

	start := time.Now()
	data, err := s.render(ctx, prompts.RenderImagePrompt(string(style), quote.Text()))
	if err != nil {
		return nil, nil, err
	}

	format, err := detectImageFormat(data)
	if err != nil {
		return nil, nil, err
	}

	key := storage.ObjectKey(s.folder, storage.PrefixImage, format, time.Now())
	contentType := "image/" + format
	url, err := storage.PutBytes(ctx, s.storage, key, data, contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store image: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldSize: len(data),
	}).Since(start).Info(ctx, "Quote image stored: key=%s", key)

	return &domain.MediaAsset{
		URL:         url,
		Path:        key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, data, nil
}

// render calls the image deployment and returns the decoded image bytes.
func (s *ImageService) render(ctx context.Context, prompt string) ([]byte, error) {
	var resp imageGenerationResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(imageGenerationRequest{
			Prompt:       prompt,
			N:            1,
			Size:         s.size,
			Quality:      s.quality,
			OutputFormat: s.outputFormat,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post(s.generationURL)
	if err != nil {
		return nil, fmt.Errorf("failed to call image API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		if resp.Error != nil && resp.Error.Message != "" {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("image API returned error: %s", errorMsg)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}

	item := resp.Data[0]
	switch {
	case item.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		return data, nil
	case item.URL != "":
		return downloadBytes(ctx, s.downloader, item.URL)
	default:
		return nil, fmt.Errorf("image response has neither b64_json nor url")
	}
}

// downloadBytes fetches a URL with the given client and checks the status.
func downloadBytes(ctx context.Context, client *resty.Client, url string) ([]byte, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to download %s: HTTP %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}

// detectImageFormat validates that data is a decodable image and returns its format.
func detectImageFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("image data is not a valid image: %w", err)
	}
	return format, nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
