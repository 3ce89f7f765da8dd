package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/types"
	"github.com/Conversly/support-orchestrator/internal/utils"
)

const defaultChannelCapacity = 1024

// Observer receives new-message events. The push hub and the polling
// GET endpoint are interchangeable delivery strategies; the orchestrator
// only publishes here after the message is durably stored.
type Observer interface {
	NotifyNewMessage(msg types.ChatMessage)
}

// Hub fans new messages out to in-process observers from a single worker
// goroutine. Publish never blocks the orchestration cycle: when the
// buffer is full the event is dropped (observers are a convenience;
// durability lives in Postgres).
type Hub struct {
	mu        sync.RWMutex
	observers []Observer

	ch        chan types.ChatMessage
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewHub() *Hub {
	h := &Hub{
		ch:        make(chan types.ChatMessage, defaultChannelCapacity),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) Subscribe(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
}

// Publish enqueues a new-message event.
func (h *Hub) Publish(msg types.ChatMessage) {
	select {
	case h.ch <- msg:
	default:
		utils.Zlog.Warn("Notify buffer full, dropping event",
			zap.String("session_id", msg.SessionID))
	}
}

func (h *Hub) run() {
	defer close(h.stoppedCh)
	for {
		select {
		case msg := <-h.ch:
			h.dispatch(msg)
		case <-h.stopCh:
			// Drain remaining events before stopping
			for {
				select {
				case msg := <-h.ch:
					h.dispatch(msg)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) dispatch(msg types.ChatMessage) {
	h.mu.RLock()
	observers := h.observers
	h.mu.RUnlock()
	for _, o := range observers {
		o.NotifyNewMessage(msg)
	}
}

// Stop drains and stops the worker.
func (h *Hub) Stop() {
	close(h.stopCh)
	<-h.stoppedCh
}
