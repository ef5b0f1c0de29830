// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/marine_dashboard/internal/vessel"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPingPeriod = 30 * time.Second
	wsSendBuffer = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is served on the boat LAN
	},
}

// hub fans out dashboard state to websocket clients. A client that falls
// behind skips views; it always receives the newest one next.
type hub struct {
	store *vessel.Store

	mu      sync.Mutex
	clients map[string]chan []byte
}

func newHub(store *vessel.Store) *hub {
	return &hub{store: store, clients: make(map[string]chan []byte)}
}

// publish is registered with Store.Subscribe.
func (h *hub) publish(v *vessel.View) {
	payload, err := json.Marshal(stateFor(v, h.store.Order()))
	if err != nil {
		log.Printf("web: state marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		select {
		case ch <- payload:
		default:
			log.Printf("web: client %s is slow, dropping view %d", id, v.Seq)
		}
	}
}

func (h *hub) add() (string, chan []byte) {
	id := uuid.NewString()
	ch := make(chan []byte, wsSendBuffer)
	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()
	return id, ch
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// serveWS streams StateResponse messages, starting with the current state.
func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	id, ch := h.add()
	defer h.remove(id)
	log.Printf("web: websocket client %s connected", id)

	// Reader: the browser never sends anything we need, but reading is how
	// we notice it went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket client %s error: %v", id, err)
				}
				return
			}
		}
	}()

	initial, err := json.Marshal(stateFor(h.store.Current(), h.store.Order()))
	if err != nil {
		log.Printf("web: state marshal error: %v", err)
		return
	}
	if err := h.write(conn, websocket.TextMessage, initial); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case payload := <-ch:
			if err := h.write(conn, websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ping.C:
			if err := h.write(conn, websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			log.Printf("web: websocket client %s disconnected", id)
			return
		}
	}
}

func (h *hub) write(conn *websocket.Conn, kind int, payload []byte) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteMessage(kind, payload); err != nil {
		log.Printf("web: websocket write error: %v", err)
		return err
	}
	return nil
}
