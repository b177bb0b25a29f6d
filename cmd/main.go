package main

import (
	"context"
	"os"

	"github.com/desertthunder/ytmix/internal/repositories"
	"github.com/desertthunder/ytmix/internal/services"
	"github.com/desertthunder/ytmix/internal/shared"
	"github.com/desertthunder/ytmix/internal/sharing"
	"github.com/desertthunder/ytmix/internal/shortener"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	// Persistence is best-effort: a broken database downgrades the app to an
	// unsaved playlist instead of refusing to start.
	store := repositories.NewStore(nil, logger)
	if db, err := shared.NewDatabase(config.Storage.Path); err != nil {
		logger.Warn("storage unavailable, playlist will not persist", "error", err)
	} else {
		shared.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("storage unavailable, playlist will not persist", "error", err)
			db.Close()
		} else {
			store = repositories.NewStore(repositories.NewPlaylistRepository(db), logger)
		}
	}

	var providers []shortener.Provider
	if config.Sharing.BitlyToken != "" {
		providers = append(providers, shortener.NewBitly(config.Sharing.BitlyToken, nil))
	}
	providers = append(providers, shortener.NewTinyURL(nil), shortener.NewIsGd(nil))

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  store,
		OEmbed: services.NewOEmbedService(nil),
		Codec:  sharing.NewCodec(config.Sharing.BaseURL),
		Chain:  shortener.NewChain(providers, logger),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "ytmix",
		Usage:    "Build, play and share YouTube audio playlists from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
