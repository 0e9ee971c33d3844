package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/timmy/reelquote/internal/bootstrap"
	"github.com/timmy/reelquote/internal/config"
	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
)

// batchItem is one line of CLI output.
type batchItem struct {
	domain.QuoteResponse
	Upload      *domain.UploadJob `json:"upload,omitempty"`
	UploadError string            `json:"upload_error,omitempty"`
}

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		Output:      os.Stderr,
		ServiceName: "reelquote-quotegen",
	})
	logger.SetDefaultLogger(appLogger)

	flags := pflag.NewFlagSet("quotegen", pflag.ExitOnError)
	count := flags.IntP("count", "n", 5, "Number of quotes to generate")
	theme := flags.String("theme", "mixed", "Quote theme")
	audience := flags.String("audience", "gen-z", "Target audience")
	format := flags.String("format", "", "Title pattern or alias (maturity, painful, rules, ...)")
	withImage := flags.Bool("image", false, "Render a quote image")
	withVideo := flags.Bool("video", false, "Render a reel video (implies --image)")
	style := flags.String("style", "paper", "Image style: paper, modern, minimal")
	upload := flags.Bool("upload", false, "Publish each rendered video as a reel")
	caption := flags.String("caption", "", "Caption for uploaded reels; defaults to the quote text")
	workers := flags.Int("workers", 0, "Concurrent generations (0 uses batch.workers)")
	configPath := flags.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		appLogger.WithError(err).Error("Failed to load config")
		os.Exit(1)
	}
	if *count < 1 {
		appLogger.WithField("count", *count).Error("count must be positive")
		os.Exit(2)
	}
	if *workers <= 0 {
		*workers = cfg.Batch.Workers
	}

	ctx, cancel := context.WithCancel(logger.SetComponent(context.Background(), "quotegen"))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	services, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Error("Failed to initialize services")
		os.Exit(1)
	}

	appLogger.WithFields(logger.Fields{
		"count":   *count,
		"theme":   *theme,
		"workers": *workers,
		"video":   *withVideo,
		"upload":  *upload,
	}).Info("Starting batch generation")

	results, err := services.Generation.GenerateBatch(ctx, domain.GenerationRequest{
		Theme:            *theme,
		TargetAudience:   *audience,
		FormatPreference: *format,
		Image:            *withImage,
		Video:            *withVideo || *upload,
		ImageStyle:       *style,
	}, *count, *workers)
	if err != nil {
		appLogger.WithError(err).Error("Batch generation failed")
		os.Exit(1)
	}

	items := make([]batchItem, len(results))
	var fallbacks, uploaded int
	for i, res := range results {
		items[i] = batchItem{QuoteResponse: domain.NewQuoteResponse(res)}
		if res.IsFallback() {
			fallbacks++
		}
		if !*upload || res.Video == nil {
			continue
		}

		text := *caption
		if text == "" {
			text = res.Quote.Text()
		}
		job, err := services.Reels.QuickUpload(ctx, &domain.ReelRequest{VideoURL: res.Video.URL, Caption: text})
		if err != nil {
			items[i].UploadError = err.Error()
			logger.CtxWarn(ctx, "Reel upload failed for quote %s: %v", res.Quote.ID, err)
			continue
		}
		items[i].Upload = job
		uploaded++
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		appLogger.WithError(err).Error("Failed to write results")
		os.Exit(1)
	}

	appLogger.WithFields(logger.Fields{
		"total":     len(items),
		"fallbacks": fallbacks,
		"uploaded":  uploaded,
	}).Info("Batch generation completed")
}
