package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quizhaus/quizhaus/internal/api"
	"github.com/quizhaus/quizhaus/internal/config"
	"github.com/quizhaus/quizhaus/internal/factory"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quiz server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return runServer(cmd.Context(), cfg)
	},
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))
	slog.SetDefault(logger)

	app, err := factory.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := app.Storage.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	// Prefer the configured questions file, fall back to the sets
	// already in storage, and finally to the built-in set so the
	// server always comes up playable.
	if err := app.QuestionBank.LoadFromFile(ctx, cfg.Questions.Path); err != nil {
		logger.Warn("could not load questions file",
			slog.String("path", cfg.Questions.Path),
			slog.String("error", err.Error()),
		)
		if err := app.QuestionBank.LoadFromStorage(ctx); err != nil {
			if err := app.QuestionBank.LoadFallback(ctx); err != nil {
				return err
			}
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		HallOfFame:      app.HallOfFame,
		QuestionBank:    app.QuestionBank,
		SocketHandler:   app.SocketHandler,
		StaticAssetsDir: cfg.Server.StaticDir,
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	return server.Shutdown(context.Background())
}
