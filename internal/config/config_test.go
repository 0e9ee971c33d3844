package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.LLM.Model != "gpt-4.1-mini" {
		t.Errorf("expected model gpt-4.1-mini, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.8 {
		t.Errorf("expected temperature 0.8, got %v", cfg.LLM.Temperature)
	}
	if cfg.Cache.Capacity != 500 {
		t.Errorf("expected cache capacity 500, got %d", cfg.Cache.Capacity)
	}
	if cfg.Video.Width != 1080 || cfg.Video.Height != 1920 {
		t.Errorf("unexpected video size %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Reels.PollInterval != 60*time.Second {
		t.Errorf("expected 60s poll interval, got %s", cfg.Reels.PollInterval)
	}
	if cfg.Image.Enabled() {
		t.Error("expected image generation disabled without credentials")
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9000
cache:
  capacity: 42
video:
  default_title: "Hello"
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("INSTAGRAM_ACCESS_TOKEN", "token")
	t.Setenv("INSTAGRAM_USER_ID", "1789")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("host", "localhost", "")
	flags.Int("port", 8000, "")
	if err := flags.Parse([]string{"--port", "9100"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected flag to override port, got %d", cfg.Server.Port)
	}
	if cfg.Cache.Capacity != 42 {
		t.Errorf("expected capacity from file, got %d", cfg.Cache.Capacity)
	}
	if cfg.Video.DefaultTitle != "Hello" {
		t.Errorf("expected default title from file, got %q", cfg.Video.DefaultTitle)
	}
	if !cfg.Reels.Enabled() {
		t.Error("expected reels enabled from env")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8000},
			LLM:    LLMConfig{Model: "m", Temperature: 0.8},
			Video: VideoConfig{
				Width: 1080, Height: 1920, FPS: 24,
				BannerY: 300, BannerHeight: 160,
			},
			Reels: ReelsConfig{PollInterval: time.Second, MaxWait: time.Minute},
			Cache: CacheConfig{Capacity: 10},
			Batch: BatchConfig{Workers: 2},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "zero capacity", mutate: func(c *Config) { c.Cache.Capacity = 0 }, wantErr: true},
		{name: "temperature too high", mutate: func(c *Config) { c.LLM.Temperature = 3 }, wantErr: true},
		{name: "banner outside frame", mutate: func(c *Config) { c.Video.BannerY = 1900 }, wantErr: true},
		{name: "max wait below interval", mutate: func(c *Config) { c.Reels.MaxWait = time.Millisecond }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestImageConfig_GenerationURL(t *testing.T) {
	c := ImageConfig{
		Endpoint:   "https://example.cognitiveservices.azure.com/",
		Deployment: "gpt-image-1",
		APIVersion: "2025-04-01-preview",
	}
	want := "https://example.cognitiveservices.azure.com/openai/deployments/gpt-image-1/images/generations?api-version=2025-04-01-preview"
	if got := c.GenerationURL(); got != want {
		t.Errorf("GenerationURL() = %q, want %q", got, want)
	}
}
