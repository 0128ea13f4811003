package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/infrastructure"
	ws "salespulse/internal/websocket"
)

// WebSocketHandler upgrades /ws requests and attaches them to the hub
type WebSocketHandler struct {
	hub          *ws.Hub
	upgrader     *websocket.Upgrader
	timing       ws.Timing
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewWebSocketHandler creates a WebSocket handler
func NewWebSocketHandler(hub *ws.Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		upgrader:     ws.NewUpgrader(cfg, allowedOrigins),
		timing:       ws.TimingFromConfig(cfg),
		logger:       logger.With(slog.String("handler", "websocket")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !websocket.IsWebSocketUpgrade(r) {
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusBadRequest,
			apierrors.CodeWebSocketUpgrade, "Expected a WebSocket upgrade request"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		h.logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := ws.NewClient(h.hub, ws.WrapConn(conn), h.timing, infrastructure.GetTraceID(ctx), h.logger)
	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", r.RemoteAddr))
	client.Serve()
}
