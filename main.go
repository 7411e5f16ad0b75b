package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"amalTrackerAPI/handlers"
	"amalTrackerAPI/internal/cache"
	"amalTrackerAPI/internal/config"
	"amalTrackerAPI/middleware"
	"amalTrackerAPI/migrations"
	"amalTrackerAPI/pkg/logger"
	"amalTrackerAPI/services"
)

var (
	cfg                *config.Config
	dbPool             *pgxpool.Pool
	boardCache         *cache.Cache
	taskService        *services.TaskService
	statsService       *services.StatsService
	leaderboardService *services.LeaderboardService
	achievementService *services.AchievementService
	userService        *services.UserService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse database URL")
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create connection pool")
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to Postgres")

	if err := migrations.Run(cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	if cfg.Redis.Addr != "" {
		boardCache, err = cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Leaderboard cache enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set, leaderboard cache disabled")
	}

	taskService = services.NewTaskService(dbPool, boardCache)
	statsService = services.NewStatsService(dbPool)
	leaderboardService = services.NewLeaderboardService(dbPool, boardCache)
	achievementService = services.NewAchievementService(dbPool)
	userService = services.NewUserService(dbPool)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Info().Msg("Closing database connection pool...")
		dbPool.Close()
		if err := boardCache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}()

	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService, statsService, achievementService, leaderboardService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.Metrics.User, cfg.Metrics.Password)(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "amalTracker-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/tasks", taskHandler.GetTasks).Methods("GET")
	api.HandleFunc("/tasks/submit", taskHandler.Submit).Methods("POST")
	api.HandleFunc("/tasks/progress/{id}/{date}", taskHandler.GetDailyProgress).Methods("GET")
	api.HandleFunc("/tasks/history/{id}", taskHandler.GetHistory).Methods("GET")

	api.HandleFunc("/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")

	api.HandleFunc("/users/{id}", userHandler.GetProfile).Methods("GET")
	api.HandleFunc("/users/{id}/statistics", userHandler.GetStatistics).Methods("GET")
	api.HandleFunc("/users/{id}/calendar", userHandler.GetCalendar).Methods("GET")
	api.HandleFunc("/users/{id}/achievements/progress", userHandler.GetAchievementsProgress).Methods("GET")
	api.HandleFunc("/users/{id}/rank", userHandler.GetRank).Methods("GET")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	server := http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Error starting server")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
}
