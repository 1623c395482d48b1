package notifier

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/coder/websocket"
)

// Conn is the slice of *websocket.Conn the hub needs. Tests substitute
// in-memory fakes.
type Conn interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// Hub is a registry of live notification channels keyed by job id, one
// channel per job. It is constructed once at process start and injected
// into every orchestrator; sends to unregistered job ids are silent
// no-ops, since a client may disconnect before its job finishes.
//
// Unregistering a job does not cancel the underlying scan; it only makes
// subsequent sends no-ops.
type Hub struct {
	mu    sync.Mutex
	conns map[string]Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]Conn)}
}

// Register stores the channel for a job, replacing and closing any
// previous one.
func (h *Hub) Register(jobID string, conn Conn) {
	h.mu.Lock()
	previous := h.conns[jobID]
	h.conns[jobID] = conn
	h.mu.Unlock()

	if previous != nil {
		previous.Close(websocket.StatusPolicyViolation, "superseded by a new subscriber")
	}
}

// Unregister removes the job's channel. The connection itself is owned by
// the subscribe handler and closed there.
func (h *Hub) Unregister(jobID string) {
	h.mu.Lock()
	delete(h.conns, jobID)
	h.mu.Unlock()
}

// SendProgress forwards a human-readable progress message as a text frame.
func (h *Hub) SendProgress(ctx context.Context, jobID, message string) {
	h.send(ctx, jobID, websocket.MessageText, []byte(message))
}

// SendResult forwards the final payload as a JSON text frame,
// conventionally the last message before teardown.
func (h *Hub) SendResult(ctx context.Context, jobID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal result for job %s: %v", jobID, err)
		return
	}
	h.send(ctx, jobID, websocket.MessageText, data)
}

func (h *Hub) send(ctx context.Context, jobID string, typ websocket.MessageType, data []byte) {
	h.mu.Lock()
	conn := h.conns[jobID]
	h.mu.Unlock()

	if conn == nil {
		return
	}

	if err := conn.Write(ctx, typ, data); err != nil {
		log.Printf("Write failed for job %s, dropping channel: %v", jobID, err)
		h.Unregister(jobID)
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

// Shutdown closes every registered channel and empties the registry.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]Conn)
	h.mu.Unlock()

	for jobID, conn := range conns {
		if err := conn.Close(websocket.StatusGoingAway, "server shutting down"); err != nil {
			log.Printf("Closing channel for job %s: %v", jobID, err)
		}
	}
}
