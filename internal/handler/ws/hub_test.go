package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockCast/internal/domain/models"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.GET("/ws/predictions", hub.Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/predictions?userId=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServeRejectsAnonymous(t *testing.T) {
	srv := newTestServer(t, NewHub())

	resp, err := http.Get(srv.URL + "/ws/predictions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestNotifyReachesConnectedClient(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(t, hub)
	conn := dial(t, srv, "u1")

	// Registration happens inside Serve; give the handler a moment.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		n := len(hub.clients["u1"])
		hub.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.NotifyReconciled("u1", []models.ReconciledPrediction{
		{ID: "rec-1", Symbol: "AAPL", ActualPrice: "187.44"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg reconciledMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != models.EventPredictionReconciled {
		t.Fatalf("unexpected type %q", msg.Type)
	}
	if len(msg.Updates) != 1 || msg.Updates[0].ID != "rec-1" {
		t.Fatalf("unexpected updates %+v", msg.Updates)
	}
}

func TestNotifyIgnoresOtherUsers(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(t, hub)
	conn := dial(t, srv, "u1")

	hub.NotifyReconciled("someone-else", []models.ReconciledPrediction{
		{ID: "rec-1", Symbol: "AAPL", ActualPrice: "187.44"},
	})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("received a frame meant for another user")
	}
}
