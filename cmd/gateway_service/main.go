package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/arogyamitra/gateway/internal/platform/config"
	"github.com/arogyamitra/gateway/internal/platform/database"
	"github.com/arogyamitra/gateway/internal/platform/logger"

	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/channel"
	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/nlpengine"
	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/translator"
	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/tts"
	"github.com/arogyamitra/gateway/internal/gateway_service/app"
	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
	"github.com/arogyamitra/gateway/internal/gateway_service/repository/postgres"
	transporthttp "github.com/arogyamitra/gateway/internal/gateway_service/transport/http"
)

const (
	serviceName     = "gateway_service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)
	appLogger.Info("Starting service...")

	if cfg.WebhookAppSecret == "" {
		appLogger.Warn("WEBHOOK SIGNATURE VERIFICATION IS DISABLED (no app secret configured) - do not run this in production")
	}

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"port", cfg.GatewayServicePort,
		"metrics_port", cfg.MetricsPort,
		"postgres_dsn_present", cfg.PostgresDSN != "",
		"working_language", cfg.WorkingLanguage,
		"workers", cfg.WorkerCount,
		"queue_size", cfg.QueueSize,
		"mock_adapters", cfg.UseMockAdapters,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	interactionRepo := postgres.NewPgInteractionRepository(dbPool, appLogger)
	locationRepo := postgres.NewPgUserLocationRepository(dbPool, appLogger)

	tr, cl, sy, channels := buildAdapters(cfg, appLogger)

	orch := app.NewOrchestrator(tr, cl, sy, channels, interactionRepo, locationRepo, app.OrchestratorConfig{
		WorkingLanguage: cfg.WorkingLanguage,
		VoiceEnabled:    cfg.VoiceEnabled,
		MaxQueryLength:  cfg.MaxQueryLength,
		CallTimeout:     time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second,
	}, appLogger)

	normalizer := app.NewNormalizer(appLogger)
	dispatcher := app.NewDispatcher(normalizer, orch, cfg.WorkerCount, cfg.QueueSize, appLogger)

	validate := validator.New()
	webhookHandler := transporthttp.NewWebhookHandler(dispatcher, cfg.WebhookVerifyToken, cfg.WebhookAppSecret, appLogger)
	messageHandler := transporthttp.NewMessageHandler(channels, interactionRepo, validate, appLogger)
	analyticsHandler := transporthttp.NewAnalyticsHandler(interactionRepo, appLogger)
	authMiddleware := transporthttp.JWTAuthMiddleware(cfg.JWTAccessSecret, appLogger)

	router := transporthttp.NewRouter(webhookHandler, messageHandler, analyticsHandler, authMiddleware)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GatewayServicePort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("Starting dispatcher worker pool")
		err := dispatcher.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		appLogger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Metrics server listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown error", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown error", "error", err)
		}
		return nil
	})

	appLogger.Info("Service components initialized. Service is ready.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		appLogger.Info("Received termination signal", "signal", sig.String())
	case <-groupCtx.Done():
		appLogger.Error("A critical component failed, initiating shutdown")
	}

	appLogger.Info("Attempting graceful shutdown...")
	mainCancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Error during graceful shutdown of components", "error", err)
	}

	appLogger.Info("Service shutdown complete.")
}

// buildAdapters wires either the in-process mocks (development) or the real
// HTTP clients, based on configuration.
func buildAdapters(cfg *config.Config, appLogger *slog.Logger) (translator.Translator, nlpengine.Classifier, tts.Synthesizer, map[domain.Channel]channel.Adapter) {
	if cfg.UseMockAdapters {
		appLogger.Warn("Running with mock adapters; no external services will be called")
		return translator.NewMockTranslator(appLogger, cfg.WorkingLanguage),
			nlpengine.NewMockClassifier(appLogger),
			tts.NewMockSynthesizer(appLogger),
			map[domain.Channel]channel.Adapter{
				domain.ChannelWhatsApp: channel.NewMockAdapter(appLogger, "mock-whatsapp"),
				domain.ChannelSMS:      channel.NewMockAdapter(appLogger, "mock-sms"),
			}
	}

	httpTimeout := time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second
	httpClient := &http.Client{Timeout: httpTimeout}

	return translator.NewHTTPTranslator(appLogger, cfg.TranslatorAPIURL, cfg.TranslatorAPIKey, cfg.WorkingLanguage, httpClient),
		nlpengine.NewHTTPClassifier(appLogger, cfg.NLPEngineAPIURL, cfg.NLPEngineAPIKey, httpClient),
		tts.NewHTTPSynthesizer(appLogger, cfg.TTSAPIURL, cfg.TTSAPIKey, httpClient),
		map[domain.Channel]channel.Adapter{
			domain.ChannelWhatsApp: channel.NewWhatsAppAdapter(appLogger, cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken, cfg.WhatsAppNumberID, httpClient),
			domain.ChannelSMS:      channel.NewSMSAdapter(appLogger, cfg.SMSProviderAPIURL, cfg.SMSProviderAPIKey, cfg.SMSSenderNumber, httpClient),
		}
}
