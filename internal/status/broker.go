// Package status is an in-process publish/subscribe registry for
// analysis progress, keyed by project id. Delivery is synchronous and
// fire-and-forget; the broker has no feedback into the pipeline.
package status

import (
	"log"
	"sync"
	"time"
)

// Update is one ephemeral progress message. It exists only in the
// delivery path and is never persisted.
type Update struct {
	ProjectID string `json:"projectId"`
	Status    string `json:"status"`
	Stage     string `json:"stage,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Listener receives updates for one project.
type Listener func(Update)

// Broker maps project ids to listener sets. Instances are injected
// rather than shared as process-wide state, so tests can run isolated
// brokers without cross-test leakage.
type Broker struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]Listener
}

func NewBroker() *Broker {
	return &Broker{listeners: make(map[string]map[int]Listener)}
}

// Subscribe registers a listener for a project and returns its
// unsubscribe function. Unsubscribing the last listener removes the
// project entry entirely.
func (b *Broker) Subscribe(projectID string, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.listeners[projectID]
	if !ok {
		set = make(map[int]Listener)
		b.listeners[projectID] = set
	}
	id := b.nextID
	b.nextID++
	set[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.listeners[projectID]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(b.listeners, projectID)
			}
		}
	}
}

// Emit delivers an update synchronously to every listener currently
// registered for the project. A panicking listener is logged and does
// not affect the other listeners or the emitter.
func (b *Broker) Emit(projectID, statusText, stage string) {
	update := Update{
		ProjectID: projectID,
		Status:    statusText,
		Stage:     stage,
		Timestamp: time.Now().UnixMilli(),
	}

	b.mu.Lock()
	snapshot := make([]Listener, 0, len(b.listeners[projectID]))
	for _, fn := range b.listeners[projectID] {
		snapshot = append(snapshot, fn)
	}
	b.mu.Unlock()

	for _, fn := range snapshot {
		deliver(fn, update)
	}

	log.Printf("status %s: %s", projectID, statusText)
}

func deliver(fn Listener, update Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("status listener panicked: %v", r)
		}
	}()
	fn(update)
}

// HasListeners reports whether any listener is registered for the
// project.
func (b *Broker) HasListeners(projectID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[projectID]) > 0
}

// ListenerCount returns the listener count for one project, or the
// total across all projects when projectID is empty.
func (b *Broker) ListenerCount(projectID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if projectID != "" {
		return len(b.listeners[projectID])
	}
	total := 0
	for _, set := range b.listeners {
		total += len(set)
	}
	return total
}
