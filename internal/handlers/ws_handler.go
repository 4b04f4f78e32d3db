package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"scavenger-hunt-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait    = 5 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsMaxInbound   = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled by the router
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient is one subscriber connection. Events for a team can be published from
// concurrent requests, so data frames are written under mu.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Send implements realtime.Client.
func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

// heartbeat pings the peer until stop is closed or a ping fails.
func (c *wsClient) heartbeat(stop <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

// drain discards inbound frames and returns once the peer goes away or stops
// answering pings. Clients only listen, so nothing they send is acted on.
func (c *wsClient) drain() {
	c.conn.SetReadLimit(wsMaxInbound)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WebSocket upgrades the connection and subscribes it to the caller's team channel,
// or to the admin channel for admins, until the peer disconnects.
func (h *Handler) WebSocket(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	channel := realtime.AdminChannel
	if !sess.IsAdmin() {
		channel = realtime.TeamChannel(sess.TeamID)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}
	client := &wsClient{conn: conn}
	h.hub.Register(channel, client)

	stop := make(chan struct{})
	go client.heartbeat(stop)
	defer func() {
		close(stop)
		h.hub.Unregister(channel, client)
		client.Close()
	}()

	client.drain()
}
