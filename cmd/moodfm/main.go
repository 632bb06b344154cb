// Command moodfm runs the moodfm backend API server.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/accounts"
	"github.com/moodfm/moodfm/internal/api"
	"github.com/moodfm/moodfm/internal/config"
	"github.com/moodfm/moodfm/internal/db"
	"github.com/moodfm/moodfm/internal/emotions"
	"github.com/moodfm/moodfm/internal/lastfm"
	"github.com/moodfm/moodfm/internal/logger"
	"github.com/moodfm/moodfm/internal/playlists"
	"github.com/moodfm/moodfm/internal/tracks"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	client := lastfm.NewClient(lastfm.Config{
		APIKey:    cfg.LastFM.APIKey,
		APISecret: cfg.LastFM.APISecret,
	})

	handlers := api.NewHandlers(
		accounts.NewService(database.Sessions(), client, log.Named("accounts")),
		emotions.NewService(database.Emotions(), database.Sessions(), log.Named("emotions")),
		playlists.NewService(database.Playlists(), database.Emotions(), log.Named("playlists")),
		tracks.NewService(client, log.Named("tracks")),
		log.Named("api"),
	)

	server := api.NewServer(api.ServerConfig{Addr: cfg.ListenAddr}, handlers, database, log.Named("server"))

	log.Info("moodfm backend starting", zap.String("addr", cfg.ListenAddr))
	return server.Run()
}
