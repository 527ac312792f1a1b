package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dompetapp/dompet-api/internal/config"
	"github.com/dompetapp/dompet-api/internal/handler"
	"github.com/dompetapp/dompet-api/internal/logging"
	"github.com/dompetapp/dompet-api/internal/middleware"
	"github.com/dompetapp/dompet-api/internal/repository"
	"github.com/dompetapp/dompet-api/internal/service"
	"github.com/dompetapp/dompet-api/internal/service/ledger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("dompet-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.MigrateUp(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	accountSvc := service.NewAccountService(accountRepo)
	categorySvc := service.NewCategoryService(categoryRepo, db)
	ledgerSvc := ledger.NewService(accountRepo, categoryRepo, transactionRepo, db)

	accountHandler := handler.NewAccountHandler(accountSvc, ledgerSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	transactionHandler := handler.NewTransactionHandler(ledgerSvc)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/accounts", accountHandler.List)
	api.HandleFunc("POST /api/v1/accounts", accountHandler.Create)
	api.HandleFunc("GET /api/v1/accounts/summary", accountHandler.Summary)
	api.HandleFunc("PATCH /api/v1/accounts/{id}", accountHandler.Update)
	api.HandleFunc("GET /api/v1/categories", categoryHandler.List)
	api.HandleFunc("POST /api/v1/categories", categoryHandler.Create)
	api.HandleFunc("PATCH /api/v1/categories/{id}", categoryHandler.Update)
	api.HandleFunc("DELETE /api/v1/categories/{id}", categoryHandler.Delete)
	api.HandleFunc("GET /api/v1/transactions", transactionHandler.List)
	api.HandleFunc("POST /api/v1/transactions", transactionHandler.Create)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", middleware.Auth(cfg.JWTSecret)(api))
	mux.HandleFunc("GET /health", handleHealth)
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	var root http.Handler = mux
	root = middleware.Logging(root)
	root = middleware.Metrics(root)
	root = middleware.Tracing(root)
	root = middleware.Recovery(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}
