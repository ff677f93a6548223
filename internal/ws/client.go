package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// allowedOrigin mirrors the CORS origin configured for the HTTP surface.
// "*" accepts any origin. Native mobile clients send no Origin header and
// are always accepted.
var allowedOrigin = "*"

// AllowOrigin restricts websocket upgrades to the given origin. Call once
// at startup, before the server accepts connections.
func AllowOrigin(origin string) {
	allowedOrigin = origin
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		if allowedOrigin == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowedOrigin
	},
}

// Client is one websocket connection and its set of subscriptions.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// done is closed by the hub when it drops the client. send stays open
	// so the read pump can keep queueing without racing the close.
	done chan struct{}
}

// request is the client-to-server subscription control message.
type request struct {
	Action string `json:"action"` // subscribe | unsubscribe
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Serve upgrades the request and starts the read/write pumps.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 16), done: make(chan struct{})}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read: %v", err)
			}
			return
		}

		var req request
		if err := json.Unmarshal(message, &req); err != nil {
			c.sendError("malformed message")
			continue
		}

		topic, ok := topicFromRequest(req)
		if !ok {
			c.sendError("unknown query")
			continue
		}

		switch req.Action {
		case "subscribe":
			c.hub.subscribe <- subRequest{client: c, topic: topic}
		case "unsubscribe":
			c.hub.unsubscribe <- subRequest{client: c, topic: topic}
		default:
			c.sendError("unknown action")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			// The hub dropped us.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(msg string) {
	data, err := json.Marshal(errorMessage{Type: "error", Error: msg})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
	}
}

func topicFromRequest(req request) (Topic, bool) {
	switch req.Query {
	case QueryFeed:
		return FeedTopic(), true
	case QueryUserPosts:
		if req.UserID == "" {
			return Topic{}, false
		}
		return UserPostsTopic(req.UserID), true
	case QueryComments:
		if req.PostID == "" {
			return Topic{}, false
		}
		return CommentsTopic(req.PostID), true
	}
	return Topic{}, false
}
