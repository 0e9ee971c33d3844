package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
)

// ReelsService talks to the Instagram Graph API to create and publish reels.
type ReelsService struct {
	client       *resty.Client
	baseURL      string
	accessToken  string
	igUserID     string
	pollInterval time.Duration
	maxWait      time.Duration
}

// ReelsConfig holds configuration for the reels service.
type ReelsConfig struct {
	BaseURL      string
	AccessToken  string
	IGUserID     string
	PollInterval time.Duration
	MaxWait      time.Duration
	Timeout      time.Duration
}

type graphError struct {
	Error *struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error,omitempty"`
}

type graphIDResponse struct {
	ID string `json:"id"`
}

type containerStatusResponse struct {
	ID         string `json:"id"`
	StatusCode string `json:"status_code"`
}

// NewReelsService creates a new reels service.
// Parameters:
//   - cfg: Graph API base URL, credentials and polling settings.
//
// Returns:
//   - *ReelsService: initialized service.
func NewReelsService(cfg *ReelsConfig) *ReelsService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v21.0"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 60 * time.Second
	}
	maxWait := cfg.MaxWait
	if maxWait <= 0 {
		maxWait = 5 * time.Minute
	}

	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	return &ReelsService{
		client:       client,
		baseURL:      baseURL,
		accessToken:  cfg.AccessToken,
		igUserID:     cfg.IGUserID,
		pollInterval: pollInterval,
		maxWait:      maxWait,
	}
}

// IsEnabled reports whether credentials are configured.
func (s *ReelsService) IsEnabled() bool {
	return s.accessToken != "" && s.igUserID != ""
}

// CreateContainer registers a video as a reel container.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: public video URL and post options.
//
// Returns:
//   - string: container id to poll and publish.
//   - error: ErrReelsDisabled, or the Graph API error message.
func (s *ReelsService) CreateContainer(ctx context.Context, req *domain.ReelRequest) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReelsDisabled
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		return "", fmt.Errorf("video_url is required")
	}

	body := map[string]interface{}{
		"media_type":    "REELS",
		"video_url":     req.VideoURL,
		"caption":       req.Caption,
		"share_to_feed": req.SharesToFeed(),
		"access_token":  s.accessToken,
	}
	if req.ThumbOffset != nil {
		body["thumb_offset"] = *req.ThumbOffset
	}
	if req.LocationID != nil && *req.LocationID != "" {
		body["location_id"] = *req.LocationID
	}

	var result graphIDResponse
	if err := s.post(ctx, "/"+s.igUserID+"/media", body, &result); err != nil {
		return "", fmt.Errorf("failed to create reel container: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("failed to create reel container: response has no id")
	}

	logger.CtxInfo(logger.SetContainerID(ctx, result.ID), "Reel container created")
	return result.ID, nil
}

// Publish publishes a finished container and returns the media id.
func (s *ReelsService) Publish(ctx context.Context, containerID string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReelsDisabled
	}

	var result graphIDResponse
	body := map[string]interface{}{
		"creation_id":  containerID,
		"access_token": s.accessToken,
	}
	if err := s.post(ctx, "/"+s.igUserID+"/media_publish", body, &result); err != nil {
		return "", fmt.Errorf("failed to publish reel: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("failed to publish reel: response has no id")
	}

	logger.CtxInfo(logger.SetContainerID(ctx, containerID), "Reel published: media_id=%s", result.ID)
	return result.ID, nil
}

// Status fetches the processing state of a container.
func (s *ReelsService) Status(ctx context.Context, containerID string) (*domain.UploadJob, error) {
	if !s.IsEnabled() {
		return nil, ErrReelsDisabled
	}

	var result containerStatusResponse
	var apiErr graphError
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fields":       "status_code",
			"access_token": s.accessToken,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Get(s.baseURL + "/" + containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to call Graph API: %w", err)
	}
	if err := checkGraphResponse(resp, &apiErr); err != nil {
		return nil, fmt.Errorf("failed to get container status: %w", err)
	}

	return &domain.UploadJob{
		ContainerID: containerID,
		Status:      domain.UploadStatusFromCode(result.StatusCode),
		StatusCode:  result.StatusCode,
	}, nil
}

// WaitReady polls the container until it is ready, fails, or the wait window ends.
// Returns:
//   - *domain.UploadJob: the last observed state.
//   - error: ErrContainerFailed, ErrContainerTimeout, a Graph API error or ctx.Err().
func (s *ReelsService) WaitReady(ctx context.Context, containerID string) (*domain.UploadJob, error) {
	ctx = logger.SetContainerID(ctx, containerID)
	deadline := time.NewTimer(s.maxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		job, err := s.Status(ctx, containerID)
		if err != nil {
			return nil, err
		}

		logger.With(nil).WithAttempt(attempt).WithStatus(job.StatusCode).Debug(ctx, "Polled reel container")

		switch job.Status {
		case domain.UploadStatusReady, domain.UploadStatusPublished:
			return job, nil
		case domain.UploadStatusError:
			return job, fmt.Errorf("%w: status %s", ErrContainerFailed, job.StatusCode)
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-deadline.C:
			return job, fmt.Errorf("%w after %s", ErrContainerTimeout, s.maxWait)
		case <-ticker.C:
		}
	}
}

// QuickUpload creates a container, waits for it and publishes it.
func (s *ReelsService) QuickUpload(ctx context.Context, req *domain.ReelRequest) (*domain.UploadJob, error) {
	containerID, err := s.CreateContainer(ctx, req)
	if err != nil {
		return nil, err
	}

	job, err := s.WaitReady(ctx, containerID)
	if err != nil {
		if job == nil {
			job = &domain.UploadJob{ContainerID: containerID, Status: domain.UploadStatusError}
		}
		return job, err
	}

	mediaID, err := s.Publish(ctx, containerID)
	if err != nil {
		return job, err
	}

	return &domain.UploadJob{
		ContainerID: containerID,
		Status:      domain.UploadStatusPublished,
		StatusCode:  domain.ContainerPublished,
		MediaID:     mediaID,
	}, nil
}

func (s *ReelsService) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	var apiErr graphError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Post(s.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to call Graph API: %w", err)
	}
	return checkGraphResponse(resp, &apiErr)
}

func checkGraphResponse(resp *resty.Response, apiErr *graphError) error {
	if resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
		return nil
	}
	if apiErr.Error != nil && apiErr.Error.Message != "" {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), string(resp.Body()))
}
