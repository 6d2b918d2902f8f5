package observer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_StreamsFrames(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.Count() == 1 })

	if err := hub.Publish(Frame{Tick: 7, Width: 2, Height: 1, Rows: []string{".s"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Frame
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != FrameType || got.Tick != 7 || got.Rows[0] != ".s" {
		t.Errorf("unexpected frame: %+v", got)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Count() == 0 })
}

func TestHub_LateJoinerGetsLastFrame(t *testing.T) {
	hub := NewHub()
	if err := hub.Publish(Frame{Tick: 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(msg), `"tick":3`) {
		t.Errorf("expected last frame, got %s", msg)
	}
}

func TestHub_PublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 100; i++ {
		if err := hub.Publish(Frame{Tick: int32(i)}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
}

func TestHub_LatestHandler(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.LatestHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d before any frame, want 503", resp.StatusCode)
	}

	_ = hub.Publish(Frame{Tick: 11})
	resp, err = http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"tick":11`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:5000", true},
		{"[::1]:80", true},
		{"10.0.0.2:80", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := isLoopbackRemote(tt.addr); got != tt.want {
				t.Errorf("isLoopbackRemote(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}
