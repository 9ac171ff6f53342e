package chathub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"videomatch/backend/internal/config"
	"videomatch/backend/internal/logger"
	"videomatch/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const identityTimeout = 5 * time.Second

// IdentityResolver turns a register-friend-system payload into a stable
// identity. It may do I/O, so it runs on the connection's read goroutine.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID, token string) (*models.Identity, error)
}

// WebSocketClient implements Client over a gorilla WebSocket connection.
type WebSocketClient struct {
	ConnID   string
	Conn     *websocket.Conn
	Hub      *ManagerService
	Send     chan models.Outbound
	Identity IdentityResolver

	closeOnce sync.Once
}

func NewWebSocketClient(conn *websocket.Conn, hub *ManagerService, identity IdentityResolver, buffer int) *WebSocketClient {
	if buffer <= 0 {
		buffer = config.DefaultClientSendBuffer
	}
	return &WebSocketClient{
		ConnID:   uuid.New().String(),
		Conn:     conn,
		Hub:      hub,
		Send:     make(chan models.Outbound, buffer),
		Identity: identity,
	}
}

func (c *WebSocketClient) GetConnID() string                       { return c.ConnID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Outbound { return c.Send }

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

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error", "conn", c.ConnID, "err", err)
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(message, &env); err != nil || env.Event == "" {
			logger.Debug("undecodable frame dropped", "conn", c.ConnID, "err", err)
			continue
		}

		in := models.Inbound{ConnID: c.ConnID, Event: env.Event, Data: env.Data}
		if env.Event == models.EventRegisterFriendSystem {
			in.Identity = c.resolveIdentity(env.Data)
		}

		if !c.Hub.Submit(in) {
			return
		}
	}
}

func (c *WebSocketClient) resolveIdentity(data json.RawMessage) *models.Identity {
	if c.Identity == nil {
		return nil
	}
	var p models.FriendSystemPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), identityTimeout)
	defer cancel()

	id, err := c.Identity.Resolve(ctx, p.UserID, p.Token)
	if err != nil {
		logger.Debug("identity not resolved", "conn", c.ConnID, "err", err)
		return nil
	}
	return id
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(config.PingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Debug("websocket write failed", "conn", c.ConnID, "err", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
