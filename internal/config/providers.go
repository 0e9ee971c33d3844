package config

import (
	"fmt"
	"strings"
	"time"
)

// LLMConfig configures the chat-completion provider used for quote text.
type LLMConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	Temperature      float64       `mapstructure:"temperature"`
	MaxRetries       int           `mapstructure:"max_retries"`
	Timeout          time.Duration `mapstructure:"timeout"`
	StructuredOutput bool          `mapstructure:"structured_output"` // request a JSON schema response format
}

// Validate checks the LLM settings. A missing API key is allowed; generation then falls back.
func (c *LLMConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm: temperature must be within [0, 2], got %v", c.Temperature)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm: max_retries must not be negative")
	}
	return nil
}

// ImageConfig configures the Azure-hosted image generation deployment.
type ImageConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	APIKey       string        `mapstructure:"api_key"`
	Deployment   string        `mapstructure:"deployment"`
	APIVersion   string        `mapstructure:"api_version"`
	Size         string        `mapstructure:"size"`
	Quality      string        `mapstructure:"quality"`
	OutputFormat string        `mapstructure:"output_format"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether image generation can be attempted.
func (c *ImageConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Deployment != ""
}

// GenerationURL builds the images/generations URL for the configured deployment.
func (c *ImageConfig) GenerationURL() string {
	endpoint := strings.TrimSuffix(c.Endpoint, "/")
	return fmt.Sprintf("%s/openai/deployments/%s/images/generations?api-version=%s",
		endpoint, c.Deployment, c.APIVersion)
}

// VideoConfig configures reel rendering with ffmpeg.
type VideoConfig struct {
	AudioFile       string        `mapstructure:"audio_file"`
	FFmpegPath      string        `mapstructure:"ffmpeg_path"`
	Width           int           `mapstructure:"width"`
	Height          int           `mapstructure:"height"`
	FPS             int           `mapstructure:"fps"`
	FadeInDelay     float64       `mapstructure:"fade_in_delay"`    // seconds before the quote image appears
	FadeInDuration  float64       `mapstructure:"fade_in_duration"` // seconds
	MaxDuration     float64       `mapstructure:"max_duration"`     // seconds; 0 means audio length
	DefaultTitle    string        `mapstructure:"default_title"`
	BackgroundColor string        `mapstructure:"background_color"`
	BannerY         int           `mapstructure:"banner_y"`
	BannerHeight    int           `mapstructure:"banner_height"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Validate checks frame geometry and timing.
func (c *VideoConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("video: invalid size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("video: fps must be positive")
	}
	if c.BannerHeight <= 0 || c.BannerY < 0 || c.BannerY+c.BannerHeight > c.Height {
		return fmt.Errorf("video: banner does not fit in frame")
	}
	if c.FadeInDelay < 0 || c.FadeInDuration < 0 || c.MaxDuration < 0 {
		return fmt.Errorf("video: durations must not be negative")
	}
	return nil
}

// ReelsConfig configures the Instagram Graph API client.
type ReelsConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	AccessToken  string        `mapstructure:"access_token"`
	IGUserID     string        `mapstructure:"ig_user_id"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxWait      time.Duration `mapstructure:"max_wait"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether reel uploads have credentials.
func (c *ReelsConfig) Enabled() bool {
	return c.AccessToken != "" && c.IGUserID != ""
}

// Validate checks the polling window.
func (c *ReelsConfig) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("reels: poll_interval must be positive")
	}
	if c.MaxWait < c.PollInterval {
		return fmt.Errorf("reels: max_wait (%s) shorter than poll_interval (%s)", c.MaxWait, c.PollInterval)
	}
	return nil
}
