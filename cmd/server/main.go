package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinsight/internal/bot"
	"coinsight/internal/cache"
	"coinsight/internal/config"
	"coinsight/internal/db"
	"coinsight/internal/handler"
	"coinsight/internal/job"
	"coinsight/internal/narrative"
	"coinsight/internal/provider"
	"coinsight/internal/repository"
	"coinsight/internal/service"
	"coinsight/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "coinsight/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newBackendFunc   = func(ctx context.Context, cfg *config.Config) (narrative.Backend, error) {
		if cfg.LLMBackend == "gemini" {
			return narrative.NewGeminiBackend(ctx, cfg.GeminiKey, cfg.GeminiModel)
		}
		return narrative.NewOpenAIBackend(cfg.OpenAIKey, cfg.OpenAIModel), nil
	}
	newMarketProviderFunc = func(cfg *config.Config, tracer trace.Tracer) service.MarketProvider {
		return provider.NewCoinMarketCapClient(cfg.CMCAPIKey, cfg.CMCBaseURL, tracer)
	}
	newAnalysisRepoFunc    = repository.NewAnalysisRepository
	newMarketRefresherFunc = job.NewMarketRefresher
	startRefresherFunc     = func(r *job.MarketRefresher, ctx context.Context) { go r.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           CoinSight API
// @version         1.0
// @description     Cryptocurrency market data with AI-generated analysis.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Cache: Redis when configured, in-memory otherwise
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisStore, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable (%v), falling back to in-memory cache", err)
		} else {
			store = redisStore
		}
	}

	// Postgres is optional; without it analysis history is disabled
	if err := initPostgresFunc(ctx, cfg.DatabaseURL); err != nil {
		log.Printf("postgres unavailable (%v), analysis history disabled", err)
	}
	defer db.Close()

	// Market data gateway over the CoinMarketCap client
	cmcProvider := newMarketProviderFunc(cfg, tracer)
	marketService := service.NewMarketService(tracer, cmcProvider, store)

	// Narrative generation backend
	backend, err := newBackendFunc(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize %s backend: %v", cfg.LLMBackend, err)
	}
	generator := narrative.NewGenerator(tracer, backend, store)

	// Analysis persistence when Postgres is up
	var recorder service.AnalysisRecorder
	var history handler.AnalysisHistory
	if db.Pool != nil {
		repo := newAnalysisRepoFunc(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		recorder = repo
		history = repo
	}

	analysisService := service.NewAnalysisService(tracer, marketService, generator, recorder)

	// Keep the hot market caches warm (stopped by ctx cancel)
	refresher := newMarketRefresherFunc(tracer, marketService, cfg.MarketRefreshSecs)
	startRefresherFunc(refresher, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(marketService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, marketService, analysisService)
	if history != nil {
		h.SetAnalysisHistory(history)
	}

	// cors.New panics when every origin is disabled, so an empty allow-list
	// falls back to the config default rather than aborting startup.
	corsOrigins := cfg.CORSAllowedOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:3000"}
	}

	r := newRouterFunc()
	r.Use(otelgin.Middleware("coinsight"))
	r.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
