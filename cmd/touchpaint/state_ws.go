package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ============================================================================
// State WebSocket: hub + per-client pumps + broadcaster
// ============================================================================
//
// This file implements:
//   - A Hub that tracks connected WebSocket clients
//   - Per-client write pumps so one slow client doesn't block others
//   - A broadcaster loop that reads reducer-emitted broadcasts and fans out
//
// Messages are JSON text frames with an envelope: {type, ts, data}. The first
// message on connect is "state_init" with the latest StateSnapshot.
//
// ============================================================================

// wsColorChangedData is the JSON `data` payload for "color_changed".
type wsColorChangedData struct {
	Color string `json:"color"`
	Name  string `json:"name"`
}

// wsThicknessChangedData is the JSON `data` payload for "thickness_changed".
type wsThicknessChangedData struct {
	Index     int `json:"index"`
	Thickness int `json:"thickness"`
}

// wsDotPaintedData is the JSON `data` payload for "dot_painted".
type wsDotPaintedData struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
	Color  string `json:"color"`
}

// wsOutboundEvent is a pre-typed, externally-consumable state event.
type wsOutboundEvent struct {
	Type string
	Data any
	At   time.Time // zero means use now
}

// envelope is the wire format envelope for WS messages.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// ============================================================================
// Hub
// ============================================================================

type Hub struct {
	logger  *slog.Logger
	metrics *Metrics

	// Buffered broadcast channel for already-serialized JSON frames.
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}

	sendBuf int
}

type HubConfig struct {
	// SendBuf is the per-client outbound queue size. Zero uses a default.
	SendBuf int

	// BroadcastBuf is the hub inbound broadcast queue size. Zero uses a default.
	BroadcastBuf int
}

// NewHub constructs a hub. Call Run(ctx) to start it.
func NewHub(logger *slog.Logger, metrics *Metrics, cfg HubConfig) *Hub {
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 64
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 256
	}

	return &Hub{
		logger:     logger,
		metrics:    metrics,
		broadcast:  make(chan []byte, bcastBuf),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		clients:    make(map[*Client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Run processes hub events until ctx is canceled.
// It disconnects all clients on shutdown.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("ws hub starting")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("ws hub stopping (context canceled)")
			h.closeAllClients()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.setWSClients(n)
			h.logger.Info("ws client registered", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.removeClient(c, "unregister")

		case msg := <-h.broadcast:
			// Collect slow clients first, then remove them after we unlock.
			var slow []*Client

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.removeClient(c, "slow_client")
			}
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		safeCloseChan(c.send)
		delete(h.clients, c)
	}
	h.metrics.setWSClients(0)
}

func (h *Hub) removeClient(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		// Closing send signals writePump to exit.
		safeCloseChan(c.send)

		h.metrics.setWSClients(n)
		h.logger.Info("ws client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
	}
}

func safeCloseChan(ch chan []byte) {
	defer func() {
		_ = recover() // ignore "close of closed channel"
	}()
	close(ch)
}

// BroadcastBytes enqueues a pre-serialized JSON WS frame for broadcast.
// It never blocks; if the hub queue is full it drops the message.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("ws hub broadcast queue full, dropping message", "bytes", len(msg))
	}
}

// ============================================================================
// Client
// ============================================================================

type Client struct {
	hub *Hub

	conn *websocket.Conn
	send chan []byte

	remoteAddr string
	logger     *slog.Logger
}

// NewClient creates a client with a buffered send channel.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, logger *slog.Logger) *Client {
	sendBuf := 64
	if hub != nil && hub.sendBuf > 0 {
		sendBuf = hub.sendBuf
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuf),
		remoteAddr: remoteAddr,
		logger:     logger,
	}
}

const (
	writeWait = 5 * time.Second

	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

// closeStatus extracts a human-readable websocket close code / text when possible.
func closeStatus(err error) (code int, text string, ok bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}

func (c *Client) logExit(where string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	if code, text, ok := closeStatus(err); ok {
		c.logger.Info("ws "+where+" exiting (close)", "remote_addr", c.remoteAddr, "code", code, "reason", text)
		return
	}
	c.logger.Info("ws "+where+" exiting", "remote_addr", c.remoteAddr, "error", err)
}

// writePump writes messages from the send queue to the websocket.
// It exits on write error or when send is closed.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed: hub is disconnecting us.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("writePump", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("writePump", err)
				return
			}
		}
	}
}

// readPump reads and discards incoming messages to detect disconnects and
// handle control frames. It exits on read error, then unregisters the client.
func (c *Client) readPump(ctx context.Context) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logExit("readPump", err)
			if c.hub != nil {
				c.hub.unregister <- c
			}
			return
		}
	}
}

// ============================================================================
// HTTP handler
// ============================================================================

// StateFeed serves the websocket state feed.
type StateFeed struct {
	logger    *slog.Logger
	hub       *Hub
	snapshots *snapshotStore
}

// NewStateFeed constructs the feed. Start Hub().Run(ctx) and RunBroadcaster
// alongside it.
func NewStateFeed(logger *slog.Logger, snapshots *snapshotStore, metrics *Metrics, cfg HubConfig) *StateFeed {
	return &StateFeed{
		logger:    logger,
		hub:       NewHub(logger, metrics, cfg),
		snapshots: snapshots,
	}
}

func (s *StateFeed) Hub() *Hub { return s.hub }

// Register registers the WS handler on the provided mux.
func (s *StateFeed) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleStateWS)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStateWS upgrades and registers a client, then sends state_init.
func (s *StateFeed) handleStateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, r.RemoteAddr, s.logger)

	// Queue state_init before registering so it is the first frame the
	// client sees.
	initMsg, err := stateInitMessage(s.snapshots.Load(), time.Now().UTC())
	if err != nil {
		s.logger.Warn("ws state_init marshal failed", "error", err)
	} else {
		client.send <- initMsg
	}

	s.hub.register <- client

	// The pumps outlive the HTTP handler; their lifetime is managed by the
	// hub and by websocket read/write errors, not by r.Context().
	go client.writePump(context.Background())
	go client.readPump(context.Background())
}

func stateInitMessage(snap StateSnapshot, now time.Time) ([]byte, error) {
	return json.Marshal(envelope{
		Type: "state_init",
		Ts:   &now,
		Data: snap,
	})
}

// ============================================================================
// Broadcaster
// ============================================================================

// RunBroadcaster reads reducer-emitted broadcasts, marshals them, and
// broadcasts them to all hub clients. Intended to run as a single goroutine.
func RunBroadcaster(ctx context.Context, hub *Hub, src <-chan StateBroadcast, logger *slog.Logger) {
	if hub == nil || src == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case b, ok := <-src:
			if !ok {
				logger.Info("ws broadcaster stopping (source ended)")
				return
			}

			ev, ok := convertBroadcast(b)
			if !ok {
				// Unknown broadcasts are dropped.
				continue
			}

			ts := ev.At
			if ts.IsZero() {
				ts = time.Now().UTC()
			}

			msg, err := json.Marshal(envelope{
				Type: ev.Type,
				Ts:   &ts,
				Data: ev.Data,
			})
			if err != nil {
				logger.Warn("ws broadcaster marshal failed", "error", err, "type", ev.Type)
				continue
			}

			hub.BroadcastBytes(msg)
		}
	}
}

func convertBroadcast(b StateBroadcast) (wsOutboundEvent, bool) {
	switch ev := b.(type) {
	case BroadcastColorChanged:
		return wsOutboundEvent{
			Type: "color_changed",
			Data: wsColorChangedData{Color: ev.Color.String(), Name: ev.Color.Name()},
			At:   ev.At,
		}, true

	case BroadcastThicknessChanged:
		return wsOutboundEvent{
			Type: "thickness_changed",
			Data: wsThicknessChangedData{Index: ev.Index, Thickness: ev.Thickness},
			At:   ev.At,
		}, true

	case BroadcastDotPainted:
		return wsOutboundEvent{
			Type: "dot_painted",
			Data: wsDotPaintedData{X: ev.Center.X, Y: ev.Center.Y, Radius: ev.Radius, Color: ev.Color.String()},
			At:   ev.At,
		}, true

	default:
		return wsOutboundEvent{}, false
	}
}
