package hub

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one websocket connection owned by the Hub. A user may hold many
// clients at once; connID distinguishes them.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	connID string
	send   chan []byte

	// lists the client subscribed to; guarded by hub.mu.
	lists map[uuid.UUID]struct{}
}

// NewClient wraps an upgraded connection. The caller still has to register it
// with the Hub and call Run.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		connID: uuid.New().String(),
		send:   make(chan []byte, 256),
		lists:  make(map[uuid.UUID]struct{}),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump pumps messages from the socket into the Hub's channel. It runs in
// its own goroutine and requests unregistration on exit.
func (c *Client) ReadPump() {
	defer func() {
		unregisterMsg := HubMessage{Type: "unregister", Client: c}
		select {
		case c.hub.messageChan <- unregisterMsg:
		case <-time.After(1 * time.Second):
			logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID}).Warn("Timeout sending unregister message to Hub channel")
		}
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID}).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}

		if messageType != websocket.TextMessage {
			logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID}).Debugf("Ignoring non-text message type: %d", messageType)
			continue
		}

		opMsg := HubMessage{
			Type:    "client_op",
			Client:  c,
			RawData: message,
		}
		select {
		case c.hub.messageChan <- opMsg:
		default:
			logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID}).Warn("Hub message channel full, dropping client message")
		}
	}
}

// WritePump pumps messages from the send channel onto the socket and keeps the
// connection alive with pings. It runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID}).Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel during unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID}).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": c.connID}).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}

// sendError pushes an error frame to this client only, best effort.
func (c *Client) sendError(message string) {
	data, err := json.Marshal(map[string]string{"event": "Error", "message": message})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) UserID() uuid.UUID { return c.userID }
func (c *Client) ConnID() string    { return c.connID }
