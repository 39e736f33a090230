package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/config"
	"github.com/Simplici0/ggr-quote/internal/db"
	"github.com/Simplici0/ggr-quote/internal/emailjs"
	"github.com/Simplici0/ggr-quote/internal/logging"
	"github.com/Simplici0/ggr-quote/internal/migrations"
	"github.com/Simplici0/ggr-quote/internal/pricing"
	"github.com/Simplici0/ggr-quote/internal/quote"
	"github.com/Simplici0/ggr-quote/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return err
	}

	stats, err := seed.Run(ctx, database, seed.Defaults())
	if err != nil {
		return err
	}
	logger.Info("catalog seeded", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	lines, err := loadLines(ctx, database, cfg, logger)
	if err != nil {
		return err
	}

	srv := &server{lines: lines, pdfFont: cfg.PDFFont, logger: logger}
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// loadLines reads every product line catalog and binds it to its configured
// policy and an EmailJS mailer.
func loadLines(ctx context.Context, database *sql.DB, cfg *config.Config, logger *zap.Logger) (map[catalog.Line]*lineService, error) {
	client := emailjs.NewClient(cfg.EmailJS)

	lines := make(map[catalog.Line]*lineService, len(catalog.Lines))
	for _, line := range catalog.Lines {
		cat, err := catalog.Load(ctx, database, line)
		if err != nil {
			return nil, err
		}
		lines[line] = &lineService{
			engine: pricing.New(cat, cfg.Policy(line)),
			sender: &quote.Mailer{
				Catalog: cat,
				Client:  client,
				Logger:  logger,
			},
		}
	}
	return lines, nil
}
