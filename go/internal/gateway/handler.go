package gateway

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/internal/views"
)

//go:embed assets/app.js
var assets embed.FS

// Handler serves the page shell, the browser script and the session websocket
type Handler struct {
	connectionManager *ConnectionManager
	title             string
	base              context.Context
}

// NewHandler creates a new gateway handler. Sessions are cancelled when base is done.
func NewHandler(base context.Context, cm *ConnectionManager, title string) *Handler {
	return &Handler{
		connectionManager: cm,
		title:             title,
		base:              base,
	}
}

// HandlePage renders the page shell. Every load starts a new session once the script connects.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/race" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Home(h.title).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("failed to render page")
	}
}

// HandleScript serves the browser script that applies render messages and forwards clicks
func (h *Handler) HandleScript(w http.ResponseWriter, r *http.Request) {
	script, err := assets.ReadFile("assets/app.js")
	if err != nil {
		http.Error(w, "script not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(script)
}

// HandleRaceConnection upgrades the request to a race session websocket
func (h *Handler) HandleRaceConnection(w http.ResponseWriter, r *http.Request) {
	// The session outlives the request, so it is not bound to r.Context().
	if _, err := h.connectionManager.UpgradeConnection(h.base, w, r); err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}
}

// HandleHealth is a liveness probe
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}

// HandleInfo returns statistics about active connections
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(struct {
		Service     string          `json:"service"`
		Connections ConnectionStats `json:"connections"`
	}{
		Service:     "podracer",
		Connections: h.connectionManager.GetConnectionStats(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to write info response")
	}
}

// RegisterRoutes registers the gateway routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.HandlePage)
	mux.HandleFunc(views.ScriptPath, h.HandleScript)
	mux.HandleFunc("/ws/race", h.HandleRaceConnection)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/info", h.HandleInfo)
}
