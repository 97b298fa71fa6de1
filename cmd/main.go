package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/auth"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/config"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/middleware"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/routes"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/validation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := setupLogger(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if err := validation.Setup(); err != nil {
		log.Error("setup validation", "error", err)
		os.Exit(1)
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		log.Error("init db", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("init db", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := services.EnsureAdmin(ctx, db, cfg.Admin, log); err != nil {
		log.Error("bootstrap admin", "error", err)
		os.Exit(1)
	}
	services.StartReminders(ctx, db, cfg.Reminders.Interval, log)

	iss := auth.NewIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	r := gin.New()
	r.Use(middleware.WithLogger(log), middleware.Recovery(), middleware.AccessLog())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  cfg.CORS.OriginMatcher(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Debug.Requests {
		r.Use(middleware.RequestLogger())
	}

	routes.SetupRoutes(r, db, sqlDB, iss)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		log.Info("starting server", slog.String("addr", cfg.Server.Addr), slog.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Error starting server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	log.Info("server stopped")
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	log := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}),
	)
	slog.SetDefault(log)
	return log
}
