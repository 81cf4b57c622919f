package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MatusOllah/slogcolor"
	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"

	httpadapter "github.com/nasreldeenmohamed/sera-pro-server/internal/adapter/http"
	repo "github.com/nasreldeenmohamed/sera-pro-server/internal/adapter/repository"
	"github.com/nasreldeenmohamed/sera-pro-server/internal/infrastructure/migration"
	"github.com/nasreldeenmohamed/sera-pro-server/internal/usecase"
	"github.com/nasreldeenmohamed/sera-pro-server/pkg/ai"
	"github.com/nasreldeenmohamed/sera-pro-server/pkg/config"
	infra "github.com/nasreldeenmohamed/sera-pro-server/pkg/infrastructure"
)

func main() {
	opts := slogcolor.DefaultOptions
	opts.MsgColor = color.New(color.FgCyan)
	opts.SrcFileMode = slogcolor.Nop
	slog.SetDefault(slog.New(slogcolor.NewHandler(os.Stderr, opts)))

	cfg := config.Load()
	ctx := context.Background()

	// infra setup; the server still boots without a database, with the
	// storage-backed endpoints answering 503
	pool, err := infra.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Warn("cv database not available", "error", err)
		pool = nil
	}

	var (
		cvRepo   httpadapter.CVRepo
		payments httpadapter.PaymentFlows
		dbPing   func(context.Context) error
	)
	if pool != nil {
		if err := migration.RunMigrations(ctx, pool); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		cvs := repo.NewCVsRepo(pool)
		txs := repo.NewTransactionsRepo(pool)
		cvRepo = cvs
		payments = usecase.NewPayments(txs, cvs, cfg.KashierMerchantID, cfg.KashierAPIKey, cfg.KashierBaseURL, cfg.KashierMode)
		dbPing = pool.Ping
	}

	aiClient := ai.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	if !aiClient.Enabled() {
		slog.Warn("no Anthropic API key configured, enhancement runs in stub mode")
	}

	renderer := infra.NewChromedpRenderer(cfg.ChromePath)
	exporter := usecase.NewExporter(renderer, cfg.TemplateDir, cfg.OutputDir)

	app := fiber.New(fiber.Config{AppName: "sera-pro"})
	h := httpadapter.NewHandler(cvRepo, payments, aiClient, exporter, cfg, dbPing)
	h.Register(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down")
		_ = app.Shutdown()
	}()

	slog.Info("server listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		pool.Close()
	}
}
