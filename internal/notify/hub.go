// Package notify is the change-notification hook the core exposes to its
// collaborators. The core publishes events after a successful mutation;
// subscribers (telegram, email, UI pollers) attach without the core knowing
// about any particular delivery mechanism.
package notify

import (
	"sync"
	"time"

	"workhub/internal/logger"
	"workhub/internal/models"
)

type EventType string

const (
	TaskPublished   EventType = "task_published"
	TaskCompleted   EventType = "task_completed"
	TaskCancelled   EventType = "task_cancelled"
	ModuleStarted   EventType = "module_started"
	ModuleSubmitted EventType = "module_submitted"
	ModuleApproved  EventType = "module_approved"
	ModuleRejected  EventType = "module_rejected"
	UserTerminated  EventType = "user_terminated"
)

type Event struct {
	Type     EventType
	Task     *models.Task
	ModuleID string
	ActorID  string
	Reason   string
	At       time.Time
}

type Handler func(Event)

// Hub fans events out to subscribers. Delivery is asynchronous; a slow or
// panicking subscriber cannot stall or fail the workflow transaction that
// produced the event.
type Hub struct {
	mu   sync.RWMutex
	subs []Handler
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) Subscribe(fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs, fn)
}

func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	h.mu.RLock()
	subs := make([]Handler, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, fn := range subs {
		go func(fn Handler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("[notify][publish] subscriber panic: %v", r)
				}
			}()
			fn(e)
		}(fn)
	}
}
