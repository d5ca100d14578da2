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
	"github.com/rs/zerolog/log"

	"github.com/servicehub-pro/servicehub-api/config"
	"github.com/servicehub-pro/servicehub-api/controllers"
	"github.com/servicehub-pro/servicehub-api/lifecycle"
	"github.com/servicehub-pro/servicehub-api/services"
	"github.com/servicehub-pro/servicehub-api/session"
	"github.com/servicehub-pro/servicehub-api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "servicehub-api").Logger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	router, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start application")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.GoEnv).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// newApp opens the database, wires the engines and collaborators and
// returns the HTTP router.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*gin.Engine, error) {
	db, err := config.OpenDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithLogger(logger.With().Str("component", "store").Logger()),
		store.WithPayout(lifecycle.NewBandPayout(cfg.PayoutMin, cfg.PayoutMax, nil)),
		store.WithPaymentConfirmer(services.GatewayConfirmer{
			Gateway: services.SimulatedGateway{Delay: cfg.PaymentConfirmDelay, Log: logger},
			Timeout: cfg.PaymentConfirmDelay + 30*time.Second,
		}),
	}
	if cfg.RequirePassword {
		opts = append(opts, store.WithAuthenticator(session.PasswordAuthenticator{}))
	}
	st := store.New(db, opts...)

	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}
	logger.Info().Msg("database migration completed")
	if cfg.SeedDemoData {
		if err := st.Seed(ctx); err != nil {
			return nil, err
		}
	}

	var assistant services.Assistant
	if cfg.AssistantEnabled() {
		assistant = services.NewOpenAICompatAssistant(cfg.AssistantURL, cfg.AssistantModel, cfg.AssistantAPIKey)
	} else {
		logger.Info().Msg("no assistant configured, serving static text")
	}
	text := services.NewTextService(assistant, logger)

	var reports *services.ReportService
	if cfg.ReportExportEnabled() {
		s3, err := services.NewS3Service(ctx, services.S3Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("report storage: %w", err)
		}
		reports = services.NewReportService(s3, st, logger)
	}

	verifier := services.StaticCodeVerifier{Code: cfg.VerificationCode}
	ctl := controllers.New(st, text, verifier, reports, logger)
	return controllers.NewRouter(cfg, ctl)
}
