package ws_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RpheeD/ClassMate/internal/services"
	"github.com/RpheeD/ClassMate/internal/ws"
)

// countingSnapshot hands out sequence-numbered payloads so tests can tell
// deliveries apart without a database.
func countingSnapshot() ws.SnapshotFunc {
	var seq int64
	return func(topic ws.Topic) ([]byte, error) {
		n := atomic.AddInt64(&seq, 1)
		return []byte(fmt.Sprintf(`{"type":"snapshot","query":%q,"seq":%d}`, topic.Query, n)), nil
	}
}

func newWSServer(t *testing.T, snapshot ws.SnapshotFunc) (*ws.Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub(snapshot)
	go hub.Run()

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		ws.Serve(hub, c.Writer, c.Request)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]string) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// readMessage fails the test if nothing arrives before the deadline.
func readMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

// expectSilence asserts nothing is delivered before the deadline.
func expectSilence(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline"))
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	_, srv := newWSServer(t, countingSnapshot())
	conn := dial(t, srv)

	send(t, conn, map[string]string{"action": "subscribe", "query": "feed"})

	msg := readMessage(t, conn, 2*time.Second)
	assert.Equal(t, "snapshot", msg["type"])
	assert.Equal(t, "feed", msg["query"])
}

func TestRefreshFansOutToAllSubscribers(t *testing.T) {
	hub, srv := newWSServer(t, countingSnapshot())

	first := dial(t, srv)
	second := dial(t, srv)
	send(t, first, map[string]string{"action": "subscribe", "query": "feed"})
	send(t, second, map[string]string{"action": "subscribe", "query": "feed"})
	readMessage(t, first, 2*time.Second)
	readMessage(t, second, 2*time.Second)

	hub.Refresh(ws.FeedTopic())

	assert.Equal(t, "snapshot", readMessage(t, first, 2*time.Second)["type"])
	assert.Equal(t, "snapshot", readMessage(t, second, 2*time.Second)["type"])
}

func TestSubscriptionsAreIndependentPerTopic(t *testing.T) {
	hub, srv := newWSServer(t, countingSnapshot())

	feedConn := dial(t, srv)
	commentsConn := dial(t, srv)
	send(t, feedConn, map[string]string{"action": "subscribe", "query": "feed"})
	send(t, commentsConn, map[string]string{"action": "subscribe", "query": "comments", "post_id": "p1"})
	readMessage(t, feedConn, 2*time.Second)
	readMessage(t, commentsConn, 2*time.Second)

	hub.Refresh(ws.CommentsTopic("p1"))

	msg := readMessage(t, commentsConn, 2*time.Second)
	assert.Equal(t, "comments", msg["query"])
	expectSilence(t, feedConn, 300*time.Millisecond)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub, srv := newWSServer(t, countingSnapshot())
	conn := dial(t, srv)

	send(t, conn, map[string]string{"action": "subscribe", "query": "feed"})
	readMessage(t, conn, 2*time.Second)

	send(t, conn, map[string]string{"action": "unsubscribe", "query": "feed"})
	// Give the hub time to process the unsubscribe before refreshing.
	time.Sleep(100 * time.Millisecond)

	hub.Refresh(ws.FeedTopic())
	expectSilence(t, conn, 300*time.Millisecond)
}

func TestMalformedRequestsReportErrors(t *testing.T) {
	_, srv := newWSServer(t, countingSnapshot())
	conn := dial(t, srv)

	send(t, conn, map[string]string{"action": "subscribe", "query": "votes"})
	msg := readMessage(t, conn, 2*time.Second)
	assert.Equal(t, "error", msg["type"])

	// user_posts without a user id is rejected.
	send(t, conn, map[string]string{"action": "subscribe", "query": "user_posts"})
	msg = readMessage(t, conn, 2*time.Second)
	assert.Equal(t, "error", msg["type"])
}

func TestUpgradeHonorsConfiguredOrigin(t *testing.T) {
	ws.AllowOrigin("https://app.classmate.example")
	t.Cleanup(func() { ws.AllowOrigin("*") })

	_, srv := newWSServer(t, countingSnapshot())
	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://elsewhere.example"}})
	require.Error(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://app.classmate.example"}})
	require.NoError(t, err)
	conn.Close()

	// Native clients send no Origin header and are accepted.
	conn, _, err = websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.Close()
}

func TestRefresherSchedulesSnapshotPush(t *testing.T) {
	hub, srv := newWSServer(t, countingSnapshot())
	refresher := services.NewRefresher(hub)
	go refresher.Run()

	conn := dial(t, srv)
	send(t, conn, map[string]string{"action": "subscribe", "query": "feed"})
	readMessage(t, conn, 2*time.Second)

	// A burst of schedules for one topic collapses into few pushes.
	for i := 0; i < 100; i++ {
		refresher.Schedule(ws.FeedTopic())
	}

	assert.Equal(t, "snapshot", readMessage(t, conn, 2*time.Second)["type"])

	received := 0
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(500*time.Millisecond)))
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		received++
	}
	assert.LessOrEqual(t, received, 2)
}
