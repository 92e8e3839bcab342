package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/username/portfolion/backend/src/config"
	"github.com/username/portfolion/backend/src/database"
	"github.com/username/portfolion/backend/src/fx"
	"github.com/username/portfolion/backend/src/handlers"
	"github.com/username/portfolion/backend/src/importer"
	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/parsers"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Portfolion backend starting...", "baseCurrency", config.Cfg.BaseCurrency)

	historical, err := fx.LoadHistoricalStore(config.Cfg.HistoricalRatesPath)
	if err != nil {
		logger.L.Error("Failed to load historical rates, continuing with external sources only",
			"path", config.Cfg.HistoricalRatesPath, "error", err)
		historical = fx.NewHistoricalStore(nil)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	primary := fx.NewFrankfurterClient(config.Cfg.FxPrimaryURL, config.Cfg.FxRequestTimeout, config.Cfg.FxRequestsPerSecond)
	secondary := fx.NewExchangerateHostClient(config.Cfg.FxSecondaryURL, config.Cfg.FxRequestTimeout, config.Cfg.FxRequestsPerSecond)

	registry := parsers.NewRegistry()
	store := database.NewStore(database.DB)
	imp := importer.New(registry, store, historical, primary, secondary, config.Cfg.BaseCurrency)

	if len(os.Args) > 1 {
		runOnce(imp, os.Args[1:])
		return
	}

	importHandler := handlers.NewImportHandler(imp)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(rateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Post("/api/import", importHandler.HandleImport)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}

// runOnce imports the given statement files as one batch and prints the
// per-file results as JSON to stdout.
func runOnce(imp *importer.Importer, paths []string) {
	var files []importer.File
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			stdlog.Fatalf("failed to read %s: %v", path, err)
		}
		files = append(files, importer.File{Name: path, Data: data})
	}

	results, err := imp.ImportBatch(context.Background(), files, func(percent int, message string) {
		logger.L.Info("Import progress", "percent", percent, "message", message)
	})
	if err != nil {
		stdlog.Fatalf("import failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		stdlog.Fatalf("failed to encode results: %v", err)
	}
}
