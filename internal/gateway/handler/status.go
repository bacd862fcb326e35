package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"codeappraise/internal/status"

	"github.com/gorilla/websocket"
)

type StatusHandler struct {
	broker *status.Broker
}

func NewStatusHandler(broker *status.Broker) *StatusHandler {
	return &StatusHandler{broker: broker}
}

const sseHeartbeatEvery = 15 * time.Second

// HandleStream relays status updates for one project as server-sent
// events until the client disconnects.
func (h *StatusHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates := make(chan status.Update, 32)
	unsubscribe := h.broker.Subscribe(projectID, func(u status.Update) {
		pushUpdate(updates, u)
	})
	defer unsubscribe()

	ticker := time.NewTicker(sseHeartbeatEvery)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			payload, err := json.Marshal(u)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

const (
	statusWSWriteWait = 10 * time.Second
	statusWSPongWait  = 60 * time.Second
	statusWSPingEvery = (statusWSPongWait * 9) / 10
)

var statusWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleStatusWS relays the same updates over a websocket, with
// ping/pong keepalive.
func (h *StatusHandler) HandleStatusWS(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}

	conn, err := statusWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(statusWSPongWait)); err != nil {
		log.Printf("status ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(statusWSPongWait))
	})

	updates := make(chan status.Update, 32)
	unsubscribe := h.broker.Subscribe(projectID, func(u status.Update) {
		pushUpdate(updates, u)
	})
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statusWSPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case u := <-updates:
			if err := conn.SetWriteDeadline(time.Now().Add(statusWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(u); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(statusWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// pushUpdate enqueues without blocking; when the buffer is full the
// oldest update is dropped in favor of the newest.
func pushUpdate(ch chan status.Update, u status.Update) {
	select {
	case ch <- u:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- u:
	default:
	}
}
