package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"oceaneye-service/internal/config"
	"oceaneye-service/internal/db"
	httphandler "oceaneye-service/internal/http"
	"oceaneye-service/internal/repository"
	"oceaneye-service/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var repo *repository.AnalysisRepository
	if cfg.Database.DSN != "" {
		gormDB, err := db.Connect(cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		repo = repository.NewAnalysisRepository(gormDB)
		log.Info().Msg("analysis history enabled")
	} else {
		log.Info().Msg("no database configured, analysis history disabled")
	}

	analysisService := service.NewAnalysisService(repo, cfg.Upload.AllowedExtensions, log)
	handler := httphandler.NewHandler(analysisService, cfg, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httphandler.CORSMiddleware())
	r.MaxMultipartMemory = cfg.Upload.MaxSizeBytes

	handler.Register(r, httphandler.JWTAuth(cfg.Auth.JWTSecret))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if repo != nil && cfg.Retention.Days > 0 {
		go runRetentionSweep(ctx, analysisService, cfg.Retention.Days, log)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting OceanEye backend")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func runRetentionSweep(ctx context.Context, svc *service.AnalysisService, days int, log zerolog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if _, err := svc.CleanupOldAnalyses(ctx, days); err != nil {
			log.Error().Err(err).Msg("retention sweep failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
