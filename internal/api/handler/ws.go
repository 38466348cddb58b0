package handler

import (
	"grievanceportal/backend/internal/feed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades to the live refresh feed. Browsers cannot set headers
// on a WebSocket handshake, so the token may also come as ?token=.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	p, err := h.Sessions.Current(c.Request.Context(), token)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}

	// The hub starts the client's pumps once it is registered.
	client := feed.NewWebSocketClient(p, conn, h.Hub)
	if !h.Hub.Register(client) {
		conn.Close()
	}
}
