package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/log"
	"github.com/ytget/yt-web-client/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigFile), "path to a YAML config file")
	flag.Parse()

	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		boot.Warn().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load(*configPath, boot)
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Configure(cfg.LogOptions("yt-web-client"))

	log.WithComponent("main").Info().Str("version", version).Msg("YT Web Client starting")
	ui.Run(cfg, version)
}
