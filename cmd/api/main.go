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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/fittrack/internal/api"
	"example.com/fittrack/internal/catalog"
	"example.com/fittrack/internal/config"
	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/llm"
	"example.com/fittrack/internal/logging"
	"example.com/fittrack/internal/mealplan"
	"example.com/fittrack/internal/outbox"
	persistence "example.com/fittrack/internal/persistence/postgres"
	"example.com/fittrack/internal/session"
	httptransport "example.com/fittrack/internal/transport/http"
	"example.com/fittrack/pkg/auth"
)

const dlqBatchSize = 50

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fittrack-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := persistence.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// The database must answer within the session window or the process gives up.
	if err := session.Race(ctx, cfg.SessionCheckTimeout, pool.Ping); err != nil {
		return fmt.Errorf("postgres not reachable: %w", err)
	}

	if cfg.MigrateOnStart {
		if err := persistence.Migrate(ctx, pool); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	repo := persistence.NewRepository(pool)
	cat := catalog.New()

	gen, err := llm.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if cfg.LLMAPIKey == "" {
		logger.Warn("no llm api key configured; meal plans and estimates use built-in defaults",
			zap.String("provider", cfg.LLMProvider))
	}
	planner := mealplan.NewPlanner(gen, mealplan.WithLogger(logger))
	estimator := mealplan.NewEstimator(gen, cat, mealplan.WithLogger(logger))

	handler := api.NewHandler(api.Services{
		Workouts:  domain.NewWorkoutService(repo, cat),
		Body:      domain.NewBodyWeightService(repo),
		Nutrition: domain.NewNutritionService(repo, repo, estimator),
		MealPlans: domain.NewMealPlanService(repo, repo, planner),
		Sessions:  session.NewChecker(repo, cfg.SessionCheckTimeout),
		Catalog:   cat,
	}, logger)

	authMiddleware := auth.NewMiddleware(
		auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL},
		auth.PublicPaths("/healthz", "/metrics"),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(httptransport.RequestLogger(logger))
	router.Use(httptransport.CORS(cfg.CORSOrigin))
	router.Use(authMiddleware.Wrap)
	router.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(router)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}, router)

	producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
	defer producer.Close()

	store := outbox.NewPostgresStore(pool, outbox.Backoff{Base: cfg.DLQBaseDelay})
	dispatcher := outbox.NewDispatcher(store, producer, logger.Named("outbox"), cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	dlq := outbox.NewDLQManager(pool, logger.Named("dlq"), cfg.DLQMaxRetries, cfg.DLQBaseDelay)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("fittrack api listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		dispatcher.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return dlq.Run(gctx, cfg.DLQPollInterval, dlqBatchSize)
	})

	err = g.Wait()
	dispatcher.Wait()
	logger.Info("fittrack api stopped")
	return err
}
