package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tomkite/dropfour/internal/api/handler"
	apimiddleware "github.com/tomkite/dropfour/internal/api/middleware"
	"github.com/tomkite/dropfour/internal/middleware"
	"github.com/tomkite/dropfour/internal/services/game"
	"github.com/tomkite/dropfour/internal/services/room"
	"github.com/tomkite/dropfour/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController room.ControllerInterface
	GameController game.ControllerInterface
	SessionManager *ws.SessionManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	gameHandler := handler.NewGameHandler(cfg.RoomController, cfg.GameController, cfg.SessionManager)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{room_id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{room_id}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{room_id}/join-computer", roomHandler.JoinVsComputer).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{room_id}/leave", roomHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{room_id}/game", gameHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket channel; the logging middleware's wrapped writer does not
	// implement http.Hijacker, so the upgrade route sits outside it
	wsRoute := r.PathPrefix("/ws").Subrouter()
	wsRoute.Use(recoveryMiddleware)
	wsRoute.HandleFunc("/{room_id}/{player_id}", gameHandler.Connect).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
