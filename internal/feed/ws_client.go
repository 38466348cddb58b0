package feed

import (
	"encoding/json"
	"grievanceportal/backend/internal/models"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// WebSocketClient implements Client for a browser connection. The feed is
// one-way; anything the browser sends is read and discarded.
type WebSocketClient struct {
	UserID string
	Role   models.Role
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.Event

	closeOnce sync.Once
}

var _ Client = (*WebSocketClient)(nil)

func NewWebSocketClient(p *models.Principal, conn *websocket.Conn, hub *Hub) *WebSocketClient {
	return &WebSocketClient{
		UserID: p.ID,
		Role:   p.Role,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.Event, sendBuffer),
	}
}

func (c *WebSocketClient) GetUserID() string                   { return c.UserID }
func (c *WebSocketClient) GetRole() models.Role                { return c.Role }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which makes writePump send a close frame and exit.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from feed client %s: %v", c.UserID, err)
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error encoding event for feed client %s: %v", c.UserID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
