package services

import (
	"log"
	"sync"
	"time"

	"github.com/RpheeD/ClassMate/internal/ws"
)

// Refresher decouples mutations from snapshot fan-out: handlers report the
// topics a write touched, a background worker batches them and asks the hub
// to push fresh snapshots. Deduplication keeps a burst of writes to the
// same topic from recomputing its snapshot once per write.
type Refresher struct {
	hub     *ws.Hub
	queue   chan ws.Topic
	pending map[ws.Topic]bool
	mu      sync.Mutex
}

func NewRefresher(hub *ws.Hub) *Refresher {
	return &Refresher{
		hub:     hub,
		queue:   make(chan ws.Topic, 1000),
		pending: make(map[ws.Topic]bool),
	}
}

// Schedule enqueues topics for refresh. Non-blocking; if the queue is full
// the topic is skipped and logged.
func (r *Refresher) Schedule(topics ...ws.Topic) {
	for _, topic := range topics {
		r.mu.Lock()
		if r.pending[topic] {
			r.mu.Unlock()
			continue
		}
		r.pending[topic] = true
		r.mu.Unlock()

		select {
		case r.queue <- topic:
		default:
			r.mu.Lock()
			delete(r.pending, topic)
			r.mu.Unlock()
			log.Printf("refresh queue full, skipping %v", topic)
		}
	}
}

// Run drains the queue in small batches. Call it once, in a goroutine.
func (r *Refresher) Run() {
	batch := make([]ws.Topic, 0, 32)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case topic := <-r.queue:
			batch = append(batch, topic)
			if len(batch) >= 32 {
				r.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (r *Refresher) processBatch(topics []ws.Topic) {
	for _, topic := range topics {
		r.mu.Lock()
		delete(r.pending, topic)
		r.mu.Unlock()

		r.hub.Refresh(topic)
	}
}
