package ws

import (
	"net/http"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	applogger "StockCast/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// reconciledMessage is the frame pushed when a sweep fills in actual prices.
type reconciledMessage struct {
	Type    string                        `json:"type"`
	Updates []models.ReconciledPrediction `json:"updates"`
}

type client struct {
	conn *websocket.Conn
	send chan reconciledMessage
}

// Hub fans sweep results out to the websocket connections of one user. A user
// may hold several connections (multiple tabs); each gets every update.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}

	upgrader websocket.Upgrader
	l        *applogger.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetLogger injects a structured logger.
func (h *Hub) SetLogger(l *applogger.Logger) { h.l = l }

// Serve upgrades the request and keeps the connection registered until the
// peer goes away. Requires a userId query parameter.
func (h *Hub) Serve(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan reconciledMessage, 8)}
	h.add(userID, cl)

	go h.writePump(userID, cl)
	h.readPump(userID, cl)
	return nil
}

// NotifyReconciled implements the sweep's update push. Slow consumers have
// their frame dropped rather than blocking the sweep.
func (h *Hub) NotifyReconciled(userID string, updates []models.ReconciledPrediction) {
	msg := reconciledMessage{Type: models.EventPredictionReconciled, Updates: updates}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients[userID] {
		select {
		case cl.send <- msg:
		default:
			if h.l != nil {
				h.l.Warn("dropping update for slow websocket client",
					applogger.String("user_id", userID),
				)
			}
		}
	}
}

// Close tears down every registered connection.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		for cl := range set {
			cl.conn.Close()
		}
		delete(h.clients, userID)
	}
	return nil
}

func (h *Hub) add(userID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[userID] = set
	}
	set[cl] = struct{}{}
}

func (h *Hub) remove(userID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		return
	}
	delete(set, cl)
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) readPump(userID string, cl *client) {
	defer func() {
		h.remove(userID, cl)
		close(cl.send)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(userID string, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			if !ok {
				cl.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(msg); err != nil {
				if h.l != nil {
					h.l.Debug("websocket write failed",
						applogger.String("user_id", userID),
						applogger.Error(err),
					)
				}
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
