package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/controller"
	"github.com/ytget/yt-web-client/internal/log"
	"github.com/ytget/yt-web-client/internal/platform"
)

const (
	AppID   = "com.ytget.yt-web-client"
	AppName = "YT Web Client"

	WindowWidth  = 720
	WindowHeight = 480

	healthCheckTimeout = 5 * time.Second
)

// Run opens the desktop window and blocks until it is closed
func Run(cfg config.Config, version string) {
	logger := log.WithComponent("ui")

	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(NewBrandTheme())

	settings := config.NewSettings(fyneApp, cfg)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		logger.Warn().Err(err).Str("dir", settings.GetDownloadDirectory()).Msg("failed to ensure downloads dir")
	}

	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	serverURL := settings.GetServerURL()
	client := api.New(serverURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUserAgent("yt-web-client/"+version),
		api.WithLogger(log.WithComponent("api")),
	)
	ctrl := controller.New(client,
		controller.WithPollInterval(cfg.PollInterval),
		controller.WithMaxPollFailures(cfg.MaxPollFailures),
		controller.WithLinkNoticeDelay(cfg.LinkNoticeDelay),
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		defer cancel()
		if err := client.Health(ctx); err != nil {
			logger.Warn().Err(err).Str("server", serverURL).Msg("server health check failed")
			return
		}
		logger.Info().Str("server", serverURL).Msg("server healthy")
	}()

	root := NewRootUI(window, fyneApp, ctrl, client, settings, logger)
	window.SetOnClosed(func() {
		root.Close()
		ctrl.Close()
	})

	logger.Info().Str("version", version).Str("server", serverURL).Msg("window ready")
	window.ShowAndRun()
}
