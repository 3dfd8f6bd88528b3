package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relaywire/roomrelay/relay/service"
	ws "github.com/relaywire/roomrelay/transport/websocket"
)

// Info identifies the server in the status response.
type Info struct {
	Name    string
	Version string
}

// Server is the HTTP server for status, room inspection, metrics, and the
// WebSocket mount.
type Server struct {
	service service.RelayService
	hub     *ws.Hub
	info    Info
	router  *mux.Router
}

// NewServer creates the API server around the relay service and hub.
func NewServer(svc service.RelayService, hub *ws.Hub, info Info) *Server {
	s := &Server{
		service: svc,
		hub:     hub,
		info:    info,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/status", s.handleStatus).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{game}/{room}", s.handleGetRoom).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleStatus reports registry aggregates. It answers every caller
// identically and sets permissive cross-origin headers so browser-based
// dashboards can poll it directly.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	status := s.service.Status(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"server":  s.info.Name,
		"version": s.info.Version,
		"status":  "ok",
		"rooms":   status.Rooms,
		"players": status.Players,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Room inspection handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.service.ListRooms(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	detail, err := s.service.GetRoom(r.Context(), vars["game"], vars["room"])
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// WebSocket mount

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "WebSocket transport not enabled")
		return
	}
	s.hub.ServeWS(w, r)
}
