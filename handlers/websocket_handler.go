package handlers

import (
	"log/slog"
	"net/http"

	"github.com/contestly/competition-hub/middleware"
	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/realtime"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub           *realtime.Hub
	authenticator *middleware.Authenticator
	logger        *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, authenticator *middleware.Authenticator, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, authenticator: authenticator, logger: logger}
}

// ServeWs handles GET /ws. The token travels as a query parameter because
// browsers cannot set headers on the upgrade request. Only admins receive
// the moderation feed.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		unauthorizedResponse(w, r, "missing token query parameter")
		return
	}

	user, err := h.authenticator.AuthenticateToken(r.Context(), token)
	if err != nil {
		unauthorizedResponse(w, r, "invalid token")
		return
	}
	if user.Role != models.RoleAdmin {
		forbiddenResponse(w, r, "admin role required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
