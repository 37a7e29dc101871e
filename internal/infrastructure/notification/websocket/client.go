package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1024
	commandTimeout = 5 * time.Second
)

// Client WebSocket-соединение одного браузера
type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	send   chan Message
	logger *logger.Logger
}

// NewClient создает нового WebSocket клиента
func NewClient(hub *Hub, conn *websocket.Conn, logger *logger.Logger) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		send:   make(chan Message, 256),
		logger: logger,
	}
}

// Serve регистрирует клиента и запускает обе помпы
func (c *Client) Serve() {
	c.hub.Register(c)
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump читает команды клиента
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("WebSocket close error", "error", err.Error())
		}
	}()

	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(extend)
	if err := extend(""); err != nil {
		c.logger.Error("WebSocket set read deadline error", err)
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error", err)
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		c.hub.handleCommand(ctx, c, raw)
		cancel()
	}
}

// WritePump отправляет сообщения и ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		var err error
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.writeFrame(func() error {
					return c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				})
				return
			}
			err = c.writeFrame(func() error { return c.conn.WriteJSON(message) })
		case <-ticker.C:
			err = c.writeFrame(func() error { return c.conn.WriteMessage(websocket.PingMessage, nil) })
		}
		if err != nil {
			c.logger.Debug("WebSocket write failed, closing client", "error", err.Error())
			return
		}
	}
}

func (c *Client) writeFrame(write func() error) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return write()
}
