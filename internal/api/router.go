package api

import (
	"net/http"
	"time"

	"codelab/internal/api/handler"
	"codelab/internal/app/service"
	"codelab/internal/common/security"
	"codelab/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	executionService *service.ExecutionService,
	submissionService *service.SubmissionService,
	playlistService *service.PlaylistService,
	leaderboardService *service.LeaderboardService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	// The request budget must outlast a full judge poll cycle, or slow but
	// legitimate runs get cancelled mid-poll.
	pollBudget := config.AppConfig.Judge0PollInterval * time.Duration(config.AppConfig.Judge0PollMaxTries)
	r.Use(chiMiddleware.Timeout(pollBudget + 30*time.Second))

	// Verifies the "Authorization: Bearer T" token and puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(problemService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		executionHandler := handler.NewExecutionHandler(executionService)
		v1.Route("/execute", executionHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(submissionService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		playlistHandler := handler.NewPlaylistHandler(playlistService)
		v1.Route("/playlists", playlistHandler.RegisterRoutes)

		leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
		v1.Route("/leaderboard", leaderboardHandler.RegisterRoutes)
	})

	return r
}
