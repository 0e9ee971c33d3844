package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
	"github.com/timmy/reelquote/internal/storage"
)

// commandRunner executes an external command and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// VideoService assembles vertical quote reels with ffmpeg and stores them.
type VideoService struct {
	cfg        VideoConfig
	storage    storage.ObjectStorage
	downloader *resty.Client
	run        commandRunner
}

// VideoConfig holds rendering settings for the video service.
type VideoConfig struct {
	FFmpegPath      string
	AudioFile       string
	Width           int
	Height          int
	FPS             int
	FadeInDelay     float64 // seconds
	FadeInDuration  float64 // seconds
	MaxDuration     float64 // seconds; 0 keeps the full audio length
	DefaultTitle    string
	BackgroundColor string
	BannerY         int
	BannerHeight    int
	Folder          string
	Timeout         time.Duration
}

// VideoInput is the image and title a reel is built from.
// ImageData is used when present, otherwise ImageURL is downloaded.
type VideoInput struct {
	ImageURL  string
	ImageData []byte
	Title     string
}

// NewVideoService creates a new video service.
// Parameters:
//   - cfg: frame geometry, timing and ffmpeg location.
//   - store: destination for rendered videos; nil disables uploads.
//
// Returns:
//   - *VideoService: initialized service.
func NewVideoService(cfg *VideoConfig, store storage.ObjectStorage) *VideoService {
	c := *cfg
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.DefaultTitle == "" {
		c.DefaultTitle = "Daily Vibe"
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = "0x141414"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Minute
	}

	return &VideoService{
		cfg:        c,
		storage:    store,
		downloader: resty.New().SetTimeout(30 * time.Second),
		run:        execRunner,
	}
}

// Generate renders a reel from the quote image and the configured audio track.
// Parameters:
//   - ctx: context for cancellation; ffmpeg is killed when it is done.
//   - in: source image and banner title.
//
// Returns:
//   - *domain.MediaAsset: stored video location.
//   - error: non-nil if the audio is missing, ffmpeg fails or upload fails.
func (s *VideoService) Generate(ctx context.Context, in VideoInput) (*domain.MediaAsset, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if _, err := os.Stat(s.cfg.AudioFile); err != nil {
		return nil, fmt.Errorf("audio file not found: %s", s.cfg.AudioFile)
	}

	start := time.Now()
	workDir, err := os.MkdirTemp("", "reelquote-video-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	imageData := in.ImageData
	if len(imageData) == 0 {
		if in.ImageURL == "" {
			return nil, errors.New("video needs an image url or image data")
		}
		if imageData, err = downloadBytes(ctx, s.downloader, in.ImageURL); err != nil {
			return nil, err
		}
	}
	format, err := detectImageFormat(imageData)
	if err != nil {
		return nil, err
	}
	imagePath := filepath.Join(workDir, "quote."+format)
	if err := os.WriteFile(imagePath, imageData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	title := in.Title
	if title == "" {
		title = s.cfg.DefaultTitle
	}
	banner, err := RenderBanner(title, s.cfg.Width, s.cfg.BannerHeight)
	if err != nil {
		return nil, err
	}
	bannerPath := filepath.Join(workDir, "banner.png")
	if err := os.WriteFile(bannerPath, banner, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write banner: %w", err)
	}

	outPath := filepath.Join(workDir, "reel.mp4")
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if out, err := s.run(runCtx, s.cfg.FFmpegPath, s.buildFFmpegArgs(imagePath, bannerPath, outPath)...); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w: %s", err, tail(out, 512))
	}

	asset, err := s.upload(ctx, outPath)
	if err != nil {
		return nil, err
	}

	logger.With(logger.Fields{
		logger.FieldSize: asset.Size,
	}).Since(start).Info(ctx, "Quote video stored: key=%s", asset.Path)

	return asset, nil
}

// buildFFmpegArgs composes the reel: background colour, banner at BannerY, and the
// quote image scaled to frame width, centered, fading in after FadeInDelay.
func (s *VideoService) buildFFmpegArgs(imagePath, bannerPath, outPath string) []string {
	c := s.cfg
	fps := strconv.Itoa(c.FPS)
	background := fmt.Sprintf("color=c=%s:s=%dx%d:r=%d", c.BackgroundColor, c.Width, c.Height, c.FPS)

	filter := fmt.Sprintf(
		"[2:v]scale=%d:-2,format=rgba,fade=t=in:st=%s:d=%s:alpha=1[img];"+
			"[0:v][1:v]overlay=x=0:y=%d[bg];"+
			"[bg][img]overlay=x=(W-w)/2:y=(H-h)/2,format=yuv420p[v]",
		c.Width, formatSeconds(c.FadeInDelay), formatSeconds(c.FadeInDuration), c.BannerY,
	)

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", background,
		"-loop", "1", "-i", bannerPath,
		"-loop", "1", "-i", imagePath,
		"-i", c.AudioFile,
		"-filter_complex", filter,
		"-map", "[v]", "-map", "3:a",
		"-c:v", "libx264", "-preset", "veryfast", "-pix_fmt", "yuv420p", "-r", fps,
		"-c:a", "aac",
		"-shortest",
	}
	if c.MaxDuration > 0 {
		args = append(args, "-t", formatSeconds(c.MaxDuration))
	}
	return append(args, "-movflags", "+faststart", outPath)
}

func (s *VideoService) upload(ctx context.Context, path string) (*domain.MediaAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat video: %w", err)
	}

	key := storage.ObjectKey(s.cfg.Folder, storage.PrefixVideo, "mp4", time.Now())
	if err := s.storage.Upload(ctx, key, f, info.Size(), "video/mp4"); err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}

	return &domain.MediaAsset{
		URL:         s.storage.GetURL(key),
		Path:        key,
		ContentType: "video/mp4",
		Size:        info.Size(),
	}, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// tail returns at most n trailing bytes of out, for error messages.
func tail(out []byte, n int) string {
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return string(out)
}
