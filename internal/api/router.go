package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizhaus/quizhaus/internal/middleware"
	"github.com/quizhaus/quizhaus/internal/services/auth"
	"github.com/quizhaus/quizhaus/internal/services/halloffame"
	"github.com/quizhaus/quizhaus/internal/services/questionbank"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	HallOfFame      *halloffame.Service
	QuestionBank    *questionbank.Service
	SocketHandler   http.Handler
	StaticAssetsDir string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := newPlayerHandler(cfg.AuthService)
	hofHandler := newHallOfFameHandler(cfg.HallOfFame)
	categoriesHandler := newCategoriesHandler(cfg.QuestionBank)

	// The websocket endpoint stays outside the middleware chain:
	// upgrades need the raw hijackable ResponseWriter, and a session
	// is not a request worth a request log line.
	r.Handle("/ws", cfg.SocketHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	api.HandleFunc("/categories", categoriesHandler.List).Methods(http.MethodGet)

	api.HandleFunc("/hall-of-fame", hofHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/hall-of-fame/{questionSet}/top", hofHandler.Top).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.StaticAssetsDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticAssetsDir)))
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
