package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codelab/internal/api"
	"codelab/internal/app/service"
	"codelab/internal/common/security"
	"codelab/internal/domain/repository"
	"codelab/internal/platform/cache"
	"codelab/internal/platform/config"
	"codelab/internal/platform/database"
	"codelab/internal/platform/judge0"
	"codelab/internal/platform/logger"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Initialize Logging
	logger.Init(config.AppConfig.LogDir)
	log := logger.NewNamedLogger("server")
	log.Info("Configuration loaded.")

	// 3. Initialize JWT
	security.InitJWT()
	log.Info("JWT initialized.")

	// 4. Initialize Database
	db, err := database.Connect(config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connected.")

	// 5. Initialize Redis
	rdb, err := cache.Connect(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisDB)
	if err != nil {
		log.Fatalf("Could not connect to redis: %v", err)
	}
	defer rdb.Close()
	log.Info("Redis connected.")

	// 6. Initialize Judge Client
	judge := judge0.NewHTTPClient(judge0.ClientConfig{
		BaseURL:       config.AppConfig.Judge0URL,
		AuthToken:     config.AppConfig.Judge0AuthToken,
		SubmitTimeout: config.AppConfig.Judge0SubmitTimeout,
		PollInterval:  config.AppConfig.Judge0PollInterval,
		PollMaxTries:  config.AppConfig.Judge0PollMaxTries,
	}, logger.NewNamedLogger("judge0"))

	// 7. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	problemRepo := repository.NewPgProblemRepository(db)
	submissionRepo := repository.NewPgSubmissionRepository(db)
	playlistRepo := repository.NewPgPlaylistRepository(db)

	// 8. Initialize Services
	authService := service.NewAuthService(userRepo)
	leaderboardService := service.NewLeaderboardService(rdb, userRepo)
	problemService := service.NewProblemService(problemRepo, judge, db, logger.NewNamedLogger("problems"))
	executionService := service.NewExecutionService(submissionRepo, problemRepo, judge, leaderboardService, rdb, db, logger.NewNamedLogger("execution"))
	submissionService := service.NewSubmissionService(submissionRepo, rdb, logger.NewNamedLogger("submissions"))
	playlistService := service.NewPlaylistService(playlistRepo, logger.NewNamedLogger("playlists"))

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, executionService, submissionService, playlistService, leaderboardService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // batch execution can outlive a short write window
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()
	log.Info("Server started successfully.")

	<-stop

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server stopped gracefully.")
}
