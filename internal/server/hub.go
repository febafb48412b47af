package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// keepAlive is how often an idle stream gets a comment line.
var keepAlive = 30 * time.Second

// subscriber is one connected SSE client.
type subscriber struct {
	events chan []byte
}

// hub fans events out to the SSE clients of one view. Publish never
// blocks: a slow client loses its oldest queued frames instead of stalling
// the layout, so the settled positions and colours always arrive.
type hub struct {
	mu      sync.RWMutex
	clients map[*subscriber]struct{}
	closed  bool
	logger  *log.Logger
}

func newHub(logger *log.Logger) *hub {
	return &hub{clients: make(map[*subscriber]struct{}), logger: logger}
}

func (h *hub) subscribe() *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub := &subscriber{events: make(chan []byte, 256)}
	if h.closed {
		close(sub.events)
		return sub
	}
	h.clients[sub] = struct{}{}
	return sub
}

func (h *hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[sub]; ok {
		delete(h.clients, sub)
		close(sub.events)
	}
}

// close ends every stream.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.clients {
		delete(h.clients, sub)
		close(sub.events)
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// publish sends v as an SSE event named event.
func (h *hub) publish(event string, v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}
	msg, err := encodeEvent(event, v)
	if err != nil {
		h.logger.Error("encode event", "event", event, "err", err)
		return
	}
	for sub := range h.clients {
		sub.push(msg, h.logger)
	}
}

// push queues msg, discarding the oldest queued events while the buffer
// is full.
func (s *subscriber) push(msg []byte, logger *log.Logger) {
	for {
		select {
		case s.events <- msg:
			return
		default:
		}
		select {
		case <-s.events:
			logger.Debug("slow SSE client, dropping oldest event")
		default:
		}
	}
}

func encodeEvent(event string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)), nil
}

// serve streams events to one client until it disconnects or the hub
// closes. first, if not nil, is written before anything else.
func (h *hub) serve(w http.ResponseWriter, r *http.Request, first []byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := h.subscribe()
	defer h.unsubscribe(sub)

	fmt.Fprint(w, ": connected\n\n")
	if first != nil {
		_, _ = w.Write(first)
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.events:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
