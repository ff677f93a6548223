package ws

import (
	"log"
)

// SnapshotFunc materializes the full current result set for a topic as a
// ready-to-send message. The hub calls it once on subscribe and once per
// scheduled refresh.
type SnapshotFunc func(Topic) ([]byte, error)

type subRequest struct {
	client *Client
	topic  Topic
}

// Hub owns every live subscription. All registration state is confined to
// the Run goroutine, so no locks are needed.
type Hub struct {
	clients map[*Client]map[Topic]bool
	topics  map[Topic]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subRequest
	unsubscribe chan subRequest
	refresh     chan Topic

	snapshot SnapshotFunc
}

func NewHub(snapshot SnapshotFunc) *Hub {
	return &Hub{
		clients:     make(map[*Client]map[Topic]bool),
		topics:      make(map[Topic]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subRequest),
		unsubscribe: make(chan subRequest),
		refresh:     make(chan Topic, 256),
		snapshot:    snapshot,
	}
}

// Refresh asks the hub to push a fresh snapshot of topic to its current
// subscribers. Non-blocking; if the queue is full the refresh is dropped
// and the next write to the same topic will catch up.
func (h *Hub) Refresh(topic Topic) {
	select {
	case h.refresh <- topic:
	default:
		log.Printf("ws: refresh queue full, dropping %v", topic)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = make(map[Topic]bool)

		case client := <-h.unregister:
			h.drop(client)

		case req := <-h.subscribe:
			subs, ok := h.clients[req.client]
			if !ok {
				break
			}
			if subs[req.topic] {
				break // already subscribed, do not resend the snapshot
			}
			subs[req.topic] = true
			if h.topics[req.topic] == nil {
				h.topics[req.topic] = make(map[*Client]bool)
			}
			h.topics[req.topic][req.client] = true

			data, err := h.snapshot(req.topic)
			if err != nil {
				log.Printf("ws: snapshot %v: %v", req.topic, err)
				break
			}
			h.send(req.client, data)

		case req := <-h.unsubscribe:
			if subs, ok := h.clients[req.client]; ok {
				delete(subs, req.topic)
			}
			h.removeFromTopic(req.client, req.topic)

		case topic := <-h.refresh:
			subscribers := h.topics[topic]
			if len(subscribers) == 0 {
				break
			}
			data, err := h.snapshot(topic)
			if err != nil {
				log.Printf("ws: snapshot %v: %v", topic, err)
				break
			}
			for client := range subscribers {
				h.send(client, data)
			}
		}
	}
}

// send queues data for the client. A subscriber that cannot keep up is
// dropped rather than blocking the hub.
func (h *Hub) send(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.drop(client)
	}
}

// drop removes every registration and signals the client's pumps via done.
// send is left open: the read pump writes error replies to it and must
// never race a close.
func (h *Hub) drop(client *Client) {
	subs, ok := h.clients[client]
	if !ok {
		return
	}
	for topic := range subs {
		h.removeFromTopic(client, topic)
	}
	delete(h.clients, client)
	close(client.done)
}

func (h *Hub) removeFromTopic(client *Client, topic Topic) {
	if subscribers, ok := h.topics[topic]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.topics, topic)
		}
	}
}
