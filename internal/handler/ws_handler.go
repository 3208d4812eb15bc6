package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ideahub-backend/internal/container"
	"ideahub-backend/internal/gateway"
	"ideahub-backend/internal/middleware"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// WSHandler admits real-time sessions. The bearer token is validated before
// the upgrade, so an unauthenticated socket is never admitted.
type WSHandler struct {
	container *container.Container
	upgrader  websocket.Upgrader
	logger    *logger.Logger
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(c *container.Container) *WSHandler {
	cfg := c.GetConfig()

	allowedOrigins := make(map[string]bool)
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return &WSHandler{
		container: c,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header
				return origin == "" || allowedOrigins["*"] || allowedOrigins[origin]
			},
		},
		logger: c.GetLogger(),
	}
}

// Serve handles GET /ws. The token comes from the Authorization header or,
// for browser websocket clients that cannot set headers, the token query
// parameter.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := ""
	if t, err := middleware.BearerToken(r); err == nil {
		token = t
	} else if q := r.URL.Query().Get("token"); q != "" {
		token = q
	}

	if token == "" {
		writeError(w, apperrors.NewConnectionAuthError("bearer token is required"), h.logger)
		return
	}

	claims, err := h.container.GetAuthService().ValidateToken(r.Context(), token)
	if err != nil {
		writeError(w, apperrors.NewConnectionAuthError("invalid or expired bearer token"), h.logger)
		return
	}

	conn, uerr := h.upgrader.Upgrade(w, r, nil)
	if uerr != nil {
		// Upgrade already wrote the HTTP error
		h.logger.WithError(uerr).Debug("Websocket upgrade failed")
		return
	}

	hub := h.container.GetHub()
	client := gateway.NewClient(hub, conn, claims.Sub, h.logger)
	hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
