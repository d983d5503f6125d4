package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/controller"
	"github.com/ytget/yt-web-client/internal/log"
	"github.com/ytget/yt-web-client/internal/model"
	"github.com/ytget/yt-web-client/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2

	shutdownTimeout = 5 * time.Second
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ytweb", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv(config.EnvConfigFile), "path to a YAML config file")
	videoURL := fs.String("url", "", "YouTube video or playlist URL")
	quality := fs.String("quality", "", "quality tier (2160p, 1440p, 1080p, 720p, 480p, best)")
	outDir := fs.String("out", "", "directory for downloaded files")
	playlist := fs.Bool("playlist", false, "download every video of the playlist in -url")
	check := fs.Bool("check", false, "check server health and exit")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Println("ytweb", version)
		return exitOK
	}

	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		boot.Warn().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load(*configPath, boot)
	if err != nil {
		boot.Error().Err(err).Msg("invalid configuration")
		return exitUsage
	}
	if *quality != "" {
		cfg.Quality = *quality
	}
	if *outDir != "" {
		cfg.DownloadDir = *outDir
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		boot.Error().Err(err).Msg("invalid flags")
		return exitUsage
	}
	if cfg.DownloadDir == "" {
		if dir, err := platform.GetHomeDownloadsDir(); err == nil {
			cfg.DownloadDir = dir
		} else {
			cfg.DownloadDir = "."
		}
	}

	log.Configure(cfg.LogOptions("ytweb"))
	logger := log.WithComponent("cli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.ServerURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUserAgent("ytweb/"+version),
		api.WithLogger(log.WithComponent("api")),
	)

	if *check {
		if err := client.Health(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "server %s: %v\n", cfg.ServerURL, err)
			return exitFail
		}
		fmt.Printf("server %s is healthy\n", cfg.ServerURL)
		return exitOK
	}

	if *videoURL == "" {
		fmt.Fprintln(os.Stderr, "ytweb: -url is required")
		fs.Usage()
		return exitUsage
	}

	d := &downloader{
		client: client,
		opts: []controller.Option{
			controller.WithPollInterval(cfg.PollInterval),
			controller.WithMaxPollFailures(cfg.MaxPollFailures),
			controller.WithLinkNoticeDelay(cfg.LinkNoticeDelay),
		},
		quality:  cfg.QualityTier(),
		outDir:   cfg.DownloadDir,
		expander: platform.NewPlaylistExpander(),
		out:      os.Stdout,
		logger:   logger,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsHandler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	failed := false
	g.Go(func() error {
		defer cancel()
		if *playlist {
			batch, err := d.playlist(gctx, *videoURL)
			if batch != nil {
				fmt.Printf("done: %d saved, %d failed\n", len(batch.Completed()), len(batch.Failed()))
				failed = batch.Status != model.BatchStatusCompleted
			}
			return err
		}

		path, err := d.one(gctx, *videoURL)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s\n", path)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Debug().Err(err).Msg("run failed")
		fmt.Fprintf(os.Stderr, "ytweb: %s\n", controller.UserMessage(err, model.MsgDownloadFailed))
		return exitFail
	}
	if failed {
		return exitFail
	}
	return exitOK
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
