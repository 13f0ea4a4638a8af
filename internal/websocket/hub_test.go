package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"postboard/internal/event"
)

func TestHubBroadcastsBusEvents(t *testing.T) {
	bus := event.NewBus()
	hub := NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := &websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(upgrader, w, r, "alice")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// The client may not be registered yet when the dial returns, so keep
	// publishing until the first message arrives.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				bus.Publish(event.New(event.TypePostCreated, "alice", map[string]string{"id": "p1"}))
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got event.Event
	require.NoError(t, json.Unmarshal(msg, &got))
	require.Equal(t, event.TypePostCreated, got.Type)
	require.Equal(t, "alice", got.ActorID)
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub(event.NewBus())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := &websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(upgrader, w, r, "bob")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}
