package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/adapters/http/api"
	"github.com/okian/focusfork/internal/adapters/http/swagger"
	"github.com/okian/focusfork/internal/adapters/llm"
	service "github.com/okian/focusfork/internal/app"
	"github.com/okian/focusfork/internal/chat"
	"github.com/okian/focusfork/internal/coach"
	"github.com/okian/focusfork/internal/config"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/scout"
	"github.com/okian/focusfork/pkg/logger"
	"github.com/okian/focusfork/pkg/telemetry"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	minWriteTimeout       = 60 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()
	loggerInstance := logger.Get()

	tp, shutdownTracing, err := telemetry.Setup(
		telemetry.WithExporter(cfg.TraceExporter),
		telemetry.WithServiceName(cfg.ServiceName),
	)
	if err != nil {
		loggerInstance.Error(ctx, "failed to set up tracing", logger.Error(err))
		return
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			loggerInstance.Warn(ctx, "tracer shutdown failed", logger.Error(err))
		}
	}()

	svc, err := buildService(ctx, cfg, tp, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		return
	}

	go startSystemMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("llm_provider", cfg.LLMProvider),
			logger.Bool("chat_enabled", svc.ChatEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildService wires the gateway, scout, resolver, coach and chat assistant
// from cfg.
func buildService(ctx context.Context, cfg *config.Config, tp trace.TracerProvider, log logger.Logger) (*service.Service, error) {
	gw, err := github.New(
		github.WithToken(cfg.GitHubToken),
		github.WithBaseURL(cfg.GitHubBaseURL),
		github.WithTimeout(cfg.SearchTimeout()),
		github.WithLogger(log.Named("github")),
	)
	if err != nil {
		return nil, err
	}

	resolver, err := scout.NewResolver(cfg.DirectIssueMode, gw, time.Now)
	if err != nil {
		return nil, err
	}

	skill, err := issue.ParseSkillLevel(cfg.DefaultSkillLevel)
	if err != nil {
		return nil, err
	}

	gen, err := llm.New(ctx, cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel, llm.WithLogger(log.Named("llm")))
	if err != nil {
		if !errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, err
		}
		log.Warn(ctx, "no llm api key configured; every plan will be the fallback plan",
			logger.String("llm_provider", cfg.LLMProvider))
		gen = llm.Unavailable{Reason: errors.New("no api key for " + cfg.LLMProvider)}
	}

	planner := coach.New(gen,
		coach.WithTimeout(cfg.PlanTimeout()),
		coach.WithTemperature(float32(cfg.PlanTemperature)),
		coach.WithTracerProvider(tp),
		coach.WithLogger(log.Named("coach")),
	)

	opts := []service.Option{
		service.WithScout(scout.New(gw, scout.WithLogger(log.Named("scout")))),
		service.WithResolver(resolver),
		service.WithPlanner(planner),
		service.WithSearcher(gw),
		service.WithDefaultLanguage(cfg.DefaultLanguage),
		service.WithDefaultSkillLevel(skill),
		service.WithLogger(log.Named("service")),
	}

	if cfg.ChatEnabled {
		assistant, err := buildChat(ctx, cfg, gw, log)
		switch {
		case err != nil:
			return nil, err
		case assistant == nil:
			log.Warn(ctx, "chat enabled without a gemini api key; /chat will return 503")
		default:
			opts = append(opts, service.WithChat(assistant))
		}
	}

	return service.New(opts...), nil
}

// buildChat returns nil without error when no Gemini key is available.
func buildChat(ctx context.Context, cfg *config.Config, gw github.Searcher, log logger.Logger) (*chat.Assistant, error) {
	key := cfg.ResolvedChatAPIKey()
	if key == "" {
		return nil, nil
	}
	models, err := llm.NewGeminiModels(ctx, key)
	if err != nil {
		return nil, err
	}
	return chat.New(models, gw,
		chat.WithModel(cfg.ChatModel),
		chat.WithLogger(log.Named("chat")),
	), nil
}

// writeTimeout leaves room for a session: a search, an optional issue fetch
// and a full plan generation.
func writeTimeout(cfg *config.Config) time.Duration {
	need := 2*cfg.SearchTimeout() + cfg.PlanTimeout() + readTimeout
	if need < minWriteTimeout {
		return minWriteTimeout
	}
	return need
}

// startSystemMetricsUpdater refreshes the runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.GetStats()
		}
	}
}
