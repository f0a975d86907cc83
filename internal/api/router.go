package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rpsduel/rpsduel-go/internal/api/handler"
	"github.com/rpsduel/rpsduel-go/internal/api/middleware"
	"github.com/rpsduel/rpsduel-go/internal/services/archive"
	"github.com/rpsduel/rpsduel-go/internal/services/auth"
	"github.com/rpsduel/rpsduel-go/internal/services/match"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	MatchController *match.Controller
	ArchiveService  *archive.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.ArchiveService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.ArchiveService)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/history", playerHandler.GetHistory).Methods(http.MethodGet)

	// Match routes (all require auth)
	matches := api.PathPrefix("/matches").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", matchHandler.Create).Methods(http.MethodPost)
	matches.HandleFunc("", matchHandler.List).Methods(http.MethodGet)
	matches.HandleFunc("/{id}", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/{id}", matchHandler.End).Methods(http.MethodDelete)
	matches.HandleFunc("/{id}/respond", matchHandler.Respond).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/deck", matchHandler.SelectDeck).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/draw", matchHandler.Draw).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/play", matchHandler.Play).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/resolve", matchHandler.Resolve).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/tiebreak", matchHandler.Tiebreak).Methods(http.MethodPost)

	// Leaderboard (no auth, read-only)
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
