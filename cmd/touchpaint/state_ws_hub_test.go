package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// NOTE: The hub tests construct Clients with a nil websocket.Conn; the hub
// guards every Close against nil so no network I/O is needed.

// newTestHub returns a hub with small buffers for deterministic tests.
func newTestHub(t *testing.T, sendBuf int, broadcastBuf int) *Hub {
	t.Helper()
	return NewHub(slog.Default(), nil, HubConfig{
		SendBuf:      sendBuf,
		BroadcastBuf: broadcastBuf,
	})
}

func registerTestClient(t *testing.T, hub *Hub, name string, buf int) *Client {
	t.Helper()
	c := &Client{
		hub:        hub,
		conn:       nil,
		send:       make(chan []byte, buf),
		remoteAddr: name,
		logger:     slog.Default(),
	}
	hub.register <- c
	waitUntil(t, 500*time.Millisecond, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		_, ok := hub.clients[c]
		return ok
	}, name+" not registered in time")
	return c
}

func TestHub_BroadcastDeliveredToAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := newTestHub(t, 4, 8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()

	c1 := registerTestClient(t, hub, "c1", 4)
	c2 := registerTestClient(t, hub, "c2", 4)

	msg := []byte(`{"type":"color_changed","data":{"color":"0x07E0","name":"green"}}`)

	// BroadcastBytes drops when the queue is full; push directly for a
	// deterministic delivery.
	hub.broadcast <- msg

	for _, c := range []*Client{c1, c2} {
		select {
		case got := <-c.send:
			if string(got) != string(msg) {
				t.Fatalf("%s got %q, want %q", c.remoteAddr, string(got), string(msg))
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for %s to receive broadcast", c.remoteAddr)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for hub to stop")
	}

	// Shutdown closes every client's queue.
	for _, c := range []*Client{c1, c2} {
		if _, ok := <-c.send; ok {
			t.Fatalf("%s send channel still open after shutdown", c.remoteAddr)
		}
	}
}

func TestHub_SlowClientDisconnectedOnFullSendBuffer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := NewMetrics()
	hub := NewHub(slog.Default(), metrics, HubConfig{SendBuf: 1, BroadcastBuf: 8})
	go hub.Run(ctx)

	slow := registerTestClient(t, hub, "slow", 1)
	fast := registerTestClient(t, hub, "fast", 8)

	waitUntil(t, 500*time.Millisecond, func() bool {
		return counterValue(t, metrics.wsClients) == 2
	}, "ws_clients gauge not updated after register")

	// Pre-fill the slow client's queue to simulate it being stuck.
	slow.send <- []byte(`"already queued"`)

	msg := []byte(`{"type":"dot_painted","data":{"x":1,"y":2,"radius":5,"color":"0xFFFF"}}`)
	hub.broadcast <- msg

	select {
	case got := <-fast.send:
		if string(got) != string(msg) {
			t.Fatalf("fast client got %q, want %q", string(got), string(msg))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for fast client to receive broadcast")
	}

	// Drain the pre-filled frame, then the channel must be closed.
	select {
	case <-slow.send:
	default:
	}

	waitUntil(t, 750*time.Millisecond, func() bool {
		select {
		case _, ok := <-slow.send:
			return !ok
		default:
			return false
		}
	}, "expected slow send channel to be closed")

	waitUntil(t, 500*time.Millisecond, func() bool {
		return counterValue(t, metrics.wsClients) == 1
	}, "ws_clients gauge not updated after eviction")
}

func TestRunBroadcaster_WrapsBroadcastsInEnvelopes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := newTestHub(t, 8, 8)
	go hub.Run(ctx)
	c := registerTestClient(t, hub, "listener", 8)

	src := make(chan StateBroadcast, 4)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		RunBroadcaster(ctx, hub, src, slog.Default())
	}()

	at := time.Unix(1700000000, 0).UTC()
	src <- BroadcastThicknessChanged{Index: 3, Thickness: 9, At: at}
	src <- BroadcastDotPainted{Center: Point{X: 160, Y: 180}, Radius: 9, Color: ColorGreen, At: at}
	close(src)

	var frames []map[string]json.RawMessage
	for len(frames) < 2 {
		select {
		case raw := <-c.send:
			var f map[string]json.RawMessage
			if err := json.Unmarshal(raw, &f); err != nil {
				t.Fatalf("frame is not JSON: %v", err)
			}
			frames = append(frames, f)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for frames, got %d", len(frames))
		}
	}

	if string(frames[0]["type"]) != `"thickness_changed"` {
		t.Fatalf("frame 0 type = %s", frames[0]["type"])
	}
	if string(frames[0]["data"]) != `{"index":3,"thickness":9}` {
		t.Fatalf("frame 0 data = %s", frames[0]["data"])
	}
	if string(frames[0]["ts"]) != `"2023-11-14T22:13:20Z"` {
		t.Fatalf("frame 0 ts = %s", frames[0]["ts"])
	}
	if string(frames[1]["data"]) != `{"x":160,"y":180,"radius":9,"color":"0x07E0"}` {
		t.Fatalf("frame 1 data = %s", frames[1]["data"])
	}

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("broadcaster did not stop when its source closed")
	}
}

func TestConvertBroadcast(t *testing.T) {
	ev, ok := convertBroadcast(BroadcastColorChanged{Color: ColorMagenta})
	if !ok || ev.Type != "color_changed" {
		t.Fatalf("convert = %+v, %v", ev, ok)
	}
	if d := ev.Data.(wsColorChangedData); d != (wsColorChangedData{Color: "0xF81F", Name: "magenta"}) {
		t.Fatalf("data = %+v", d)
	}
	if _, ok := convertBroadcast(nil); ok {
		t.Fatalf("nil broadcast should not convert")
	}
}

func TestStateFeed_FirstFrameIsStateInit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLayout(DefaultConfig())
	store := &snapshotStore{}
	s := NewAppState()
	s.Brush.ActiveColor = ColorBlue
	store.Store(s.Snapshot(l))

	feed := NewStateFeed(slog.Default(), store, nil, HubConfig{})
	go feed.Hub().Run(ctx)

	srv := httptest.NewServer(newHTTPMux(DefaultConfig(), feed, nil, nil, slog.Default()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read state_init: %v", err)
	}

	var env struct {
		Type string        `json:"type"`
		Data StateSnapshot `json:"data"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != "state_init" {
		t.Fatalf("first frame type = %q", env.Type)
	}
	if env.Data.ColorName != "blue" || env.Data.Thickness != 5 {
		t.Fatalf("state_init data = %+v", env.Data)
	}

	// Later broadcasts reach the same connection.
	hub := feed.Hub()
	waitUntil(t, 500*time.Millisecond, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, "ws client not registered in time")
	hub.BroadcastBytes([]byte(`{"type":"thickness_changed"}`))
	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if !strings.Contains(string(msg), "thickness_changed") {
		t.Fatalf("unexpected frame %s", msg)
	}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout: %s", msg)
}
