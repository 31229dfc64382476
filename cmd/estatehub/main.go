package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"estatehub/internal/config"
	"estatehub/internal/filestore"
	"estatehub/internal/http/handlers"
	"estatehub/internal/http/httpserver"
	applog "estatehub/internal/log"
	"estatehub/internal/repos"
)

func main() {
	app := &cli.App{
		Name:   "estatehub",
		Usage:  "property listing catalog backend",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applog.Configure(cfg)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	repo, err := repos.Open(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return err
	}
	defer repo.Close()

	files, err := openFileStore(ctx, cfg)
	if err != nil {
		return err
	}

	app := httpserver.New(cfg, handlers.NewDeps(repo, files))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr()).Msg("server running")
		errCh <- app.Listen(cfg.ListenAddr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
}

func openFileStore(ctx context.Context, cfg *config.Config) (filestore.Store, error) {
	if cfg.UploadBackend == "s3" {
		return filestore.NewS3(ctx, filestore.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	return filestore.NewLocal(cfg.UploadDir)
}
