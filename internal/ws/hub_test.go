package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastSegment(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastSegment("req-1", "http", []string{"回答", "问题"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, TypeSegment, msg.Type)
	assert.Equal(t, "req-1", msg.RequestID)
	assert.Equal(t, []string{"回答", "问题"}, msg.Tokens)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestHub_NilBroadcast(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.BroadcastSegment("r", "cli", nil) })
}
