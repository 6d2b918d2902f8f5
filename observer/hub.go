// Package observer streams read-only simulation frames to websocket clients.
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// AntFrame is one ant as seen by an observer.
type AntFrame struct {
	ID      uint32  `json:"id"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Mode    string  `json:"mode"`
	Profile string  `json:"profile"`
	Carry   string  `json:"carry,omitempty"`
}

// FoodFrame is one food item.
type FoodFrame struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Amount int `json:"amount"`
}

// Frame is the world state published after a tick.
type Frame struct {
	Type   string      `json:"type"`
	Tick   int32       `json:"tick"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Rows   []string    `json:"rows"`
	Ants   []AntFrame  `json:"ants"`
	Food   []FoodFrame `json:"food,omitempty"`
	Marker *[2]int     `json:"marker,omitempty"`
}

// FrameType tags every published frame.
const FrameType = "FRAME"

// Hub fans frames out to connected clients. Slow clients drop frames
// rather than stall the simulation.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[uint64]chan []byte
	nextID uint64
	last   []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: make(map[uint64]chan []byte),
	}
}

// Publish encodes f and offers it to every client.
func (h *Hub) Publish(f Frame) error {
	f.Type = FrameType
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for _, ch := range h.subs {
		select {
		case ch <- b:
		default:
		}
	}
	return nil
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) join() (uint64, chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	ch := make(chan []byte, 4)
	if h.last != nil {
		ch <- h.last
	}
	h.subs[h.nextID] = ch
	return h.nextID, ch
}

func (h *Hub) leave(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Handler upgrades loopback requests to a websocket and streams frames
// until the client goes away.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out := h.join()
		defer h.leave(id)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Clients never send anything meaningful; reading detects close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		cancel()

		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// LatestHandler serves the most recent frame as plain JSON.
func (h *Hub) LatestHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		b := h.last
		h.mu.Unlock()
		if b == nil {
			http.Error(rw, "no frame yet", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(b)
	}
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.Handler())
	mux.HandleFunc("/frame", h.LatestHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("observer listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
