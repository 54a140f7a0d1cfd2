package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/age-of-tension/internal/config"
	"github.com/jwebster45206/age-of-tension/internal/handlers"
	"github.com/jwebster45206/age-of-tension/internal/logger"
	"github.com/jwebster45206/age-of-tension/internal/middleware"
	"github.com/jwebster45206/age-of-tension/internal/services"
	"github.com/jwebster45206/age-of-tension/internal/storage"
	"github.com/jwebster45206/age-of-tension/pkg/state"
	pkgstorage "github.com/jwebster45206/age-of-tension/pkg/storage"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// auditLog is both ends of the territory change log.
type auditLog interface {
	state.AuditLog
	handlers.AuditReader
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Age of Tension API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend,
		"model_name", cfg.ModelName)

	startCtx, startCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer startCancel()

	store, audit, err := openStorage(startCtx, cfg, log)
	if err != nil {
		log.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	worldStore := state.NewWorldStore(store, world.DefaultRegistry(), log)
	if audit != nil {
		worldStore.WithAudit(audit)
	}
	ws := worldStore.Load(startCtx)
	log.Info("World state loaded",
		"countries", len(ws.Ownership),
		"turn", ws.TurnCount,
		"year", ws.Year)

	llmService := services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, cfg.LLMTimeout, log)
	if err := llmService.InitModel(startCtx, cfg.ModelName); err != nil {
		// The game master can come up later; /health reports it meanwhile.
		log.Warn("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
	}

	var auditReader handlers.AuditReader
	if audit != nil {
		auditReader = audit
	}

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, llmService, log))
	mux.Handle("/api/turn", handlers.NewTurnHandler(llmService, worldStore, log).
		WithHistoryLimit(cfg.HistoryLimit).
		WithMaxContinuations(cfg.MaxContinuations).
		WithNumCtx(cfg.LLMContext))
	mux.Handle("/api/briefing", handlers.NewBriefingHandler(llmService, worldStore, log))
	mux.Handle("/api/reset", handlers.NewResetHandler(worldStore, log))
	mux.Handle("/api/state", handlers.NewStateHandler(worldStore, log))
	mux.Handle("/api/audit", handlers.NewAuditHandler(auditReader, log))
	mux.Handle("/api/models", handlers.NewModelsHandler(llmService, log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.CORS(middleware.Logger(log, mux)),
		ReadTimeout: 15 * time.Second,
		// Turns wait on the model, so writes get the LLM timeout plus slack
		WriteTimeout: cfg.LLMTimeout*time.Duration(cfg.MaxContinuations+1) + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

// openStorage builds the snapshot backend named by the config and, when
// enabled, the audit log that goes with it.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (pkgstorage.Storage, auditLog, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rs, err := storage.NewRedisStorage(cfg.RedisURL, log)
		if err != nil {
			return nil, nil, err
		}
		if err := rs.WaitForConnection(ctx, 10, 2*time.Second); err != nil {
			return nil, nil, err
		}
		if !cfg.AuditEnabled {
			return rs, nil, nil
		}
		return rs, storage.NewRedisAuditLog(rs.Client(), log), nil

	case config.BackendSQLite:
		ss, err := storage.OpenSQLite(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		if !cfg.AuditEnabled {
			return ss, nil, nil
		}
		return ss, ss, nil

	case config.BackendFile:
		fs := storage.NewFileStorage(cfg.StateFile, log)
		if !cfg.AuditEnabled {
			return fs, nil, nil
		}
		rs, err := storage.NewRedisStorage(cfg.RedisURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("audit log: %w", err)
		}
		if err := rs.WaitForConnection(ctx, 5, 2*time.Second); err != nil {
			return nil, nil, fmt.Errorf("audit log: %w", err)
		}
		return fs, storage.NewRedisAuditLog(rs.Client(), log), nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
