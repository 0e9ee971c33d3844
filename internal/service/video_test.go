package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testVideoConfig(t *testing.T) *VideoConfig {
	t.Helper()
	audio := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(audio, []byte("fake audio"), 0o600); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return &VideoConfig{
		AudioFile:      audio,
		Width:          1080,
		Height:         1920,
		FPS:            24,
		FadeInDelay:    9,
		FadeInDuration: 4,
		MaxDuration:    30,
		BannerY:        300,
		BannerHeight:   160,
		Folder:         "video-gen",
	}
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestVideoService_BuildFFmpegArgs(t *testing.T) {
	svc := NewVideoService(testVideoConfig(t), newMemoryStorage())
	args := svc.buildFFmpegArgs("/tmp/img.jpeg", "/tmp/banner.png", "/tmp/out.mp4")

	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("output path must be last, got %q", args[len(args)-1])
	}
	if got := argAfter(args, "-t"); got != "30" {
		t.Errorf("expected -t 30, got %q", got)
	}
	if got := argAfter(args, "-r"); got != "24" {
		t.Errorf("expected -r 24, got %q", got)
	}
	if got := argAfter(args, "-c:v"); got != "libx264" {
		t.Errorf("expected libx264, got %q", got)
	}
	if got := argAfter(args, "-c:a"); got != "aac" {
		t.Errorf("expected aac, got %q", got)
	}

	filter := argAfter(args, "-filter_complex")
	for _, want := range []string{
		"scale=1080:-2",
		"fade=t=in:st=9:d=4:alpha=1",
		"overlay=x=0:y=300",
		"overlay=x=(W-w)/2:y=(H-h)/2",
	} {
		if !strings.Contains(filter, want) {
			t.Errorf("filter missing %q: %s", want, filter)
		}
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "color=c=0x141414:s=1080x1920:r=24") {
		t.Errorf("missing background source: %s", joined)
	}
	if !strings.Contains(joined, "-shortest") {
		t.Error("expected -shortest to bound video by audio")
	}
}

func TestVideoService_BuildFFmpegArgs_NoMaxDuration(t *testing.T) {
	cfg := testVideoConfig(t)
	cfg.MaxDuration = 0
	svc := NewVideoService(cfg, newMemoryStorage())

	if got := argAfter(svc.buildFFmpegArgs("i", "b", "o"), "-t"); got != "" {
		t.Errorf("expected no -t flag, got %q", got)
	}
}

func TestVideoService_Generate(t *testing.T) {
	store := newMemoryStorage()
	svc := NewVideoService(testVideoConfig(t), store)

	var gotName string
	var gotArgs []string
	svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return nil, os.WriteFile(args[len(args)-1], []byte("fake mp4"), 0o600)
	}

	asset, err := svc.Generate(context.Background(), VideoInput{ImageData: tinyPNG(t), Title: "Real talk:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotName != "ffmpeg" {
		t.Errorf("expected ffmpeg binary, got %q", gotName)
	}
	if len(gotArgs) == 0 || argAfter(gotArgs, "-filter_complex") == "" {
		t.Error("expected ffmpeg to receive a filter graph")
	}
	if !strings.HasPrefix(asset.Path, "video-gen/quote_video_") || !strings.HasSuffix(asset.Path, ".mp4") {
		t.Errorf("unexpected key %q", asset.Path)
	}
	if asset.ContentType != "video/mp4" || asset.Size != int64(len("fake mp4")) {
		t.Errorf("unexpected asset %+v", asset)
	}
	if string(store.objects[asset.Path]) != "fake mp4" {
		t.Error("video bytes not uploaded")
	}
}

func TestVideoService_GenerateDownloadsImage(t *testing.T) {
	pngData := tinyPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngData)
	}))
	defer srv.Close()

	svc := NewVideoService(testVideoConfig(t), newMemoryStorage())
	var imageInput []byte
	svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		for i, a := range args {
			if a == "-i" && strings.HasPrefix(filepath.Base(args[i+1]), "quote.") {
				imageInput, _ = os.ReadFile(args[i+1])
			}
		}
		return nil, os.WriteFile(args[len(args)-1], []byte("mp4"), 0o600)
	}

	if _, err := svc.Generate(context.Background(), VideoInput{ImageURL: srv.URL + "/img.png"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(imageInput) != string(pngData) {
		t.Error("downloaded image was not handed to ffmpeg")
	}
}

func TestVideoService_GenerateErrors(t *testing.T) {
	t.Run("missing audio", func(t *testing.T) {
		cfg := testVideoConfig(t)
		cfg.AudioFile = filepath.Join(t.TempDir(), "missing.mp3")
		svc := NewVideoService(cfg, newMemoryStorage())
		_, err := svc.Generate(context.Background(), VideoInput{ImageData: tinyPNG(t)})
		if err == nil || !strings.Contains(err.Error(), "audio file not found") {
			t.Errorf("expected audio error, got %v", err)
		}
	})

	t.Run("ffmpeg failure", func(t *testing.T) {
		store := newMemoryStorage()
		svc := NewVideoService(testVideoConfig(t), store)
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("Invalid filter"), errors.New("exit status 1")
		}
		_, err := svc.Generate(context.Background(), VideoInput{ImageData: tinyPNG(t)})
		if err == nil || !strings.Contains(err.Error(), "Invalid filter") {
			t.Errorf("expected ffmpeg output in error, got %v", err)
		}
		if store.count() != 0 {
			t.Error("nothing should be uploaded on failure")
		}
	})

	t.Run("no image", func(t *testing.T) {
		svc := NewVideoService(testVideoConfig(t), newMemoryStorage())
		if _, err := svc.Generate(context.Background(), VideoInput{}); err == nil {
			t.Error("expected error without image")
		}
	})

	t.Run("no storage", func(t *testing.T) {
		svc := NewVideoService(testVideoConfig(t), nil)
		if _, err := svc.Generate(context.Background(), VideoInput{ImageData: tinyPNG(t)}); !errors.Is(err, ErrStorageDisabled) {
			t.Errorf("expected ErrStorageDisabled, got %v", err)
		}
	})
}
