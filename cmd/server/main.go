package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/config"
	"github.com/lexhelp/platform/internal/db"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	log := newLogger(cfg.App.Env)
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar()

	dbConn, err := db.Connect(cfg.App.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "err", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			sugar.Fatalw("migration failed", "err", err)
		}
		sugar.Info("migrations completed successfully")
		return
	}

	if err := db.Migrate(dbConn); err != nil {
		sugar.Fatalw("migration failed", "err", err)
	}

	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			sugar.Fatalw("seeding failed", "err", err)
		}
		sugar.Info("seeding completed successfully")
		return
	}

	// Seed demo users and assistants when the database is empty
	if err := db.Seed(dbConn); err != nil {
		sugar.Fatalw("seeding failed", "err", err)
	}

	sessions := auth.NewSessions(cfg.Session.Secret, time.Duration(cfg.Session.Lifetime)*time.Second)
	recorder := audit.NewRecorder(dbConn, sugar)
	appHandler := NewApp(dbConn, cfg, sessions, recorder)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(sugar, appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "port", cfg.Server.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server error", "err", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("error during shutdown", "err", err)
	}
	sugar.Info("server stopped gracefully")
}

// newLogger builds the process logger; production mode emits JSON.
func newLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}

// withLogging adds request logging middleware.
func withLogging(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Infow("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
