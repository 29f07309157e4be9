package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// envelope mirrors the daemon's state feed frames.
type envelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type dotPainted struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
	Color  string `json:"color"`
}

func main() {
	var (
		wsURL = flag.String("ws", "ws://127.0.0.1:8080/ws", "touchpaint state feed URL")
		dots  = flag.Bool("dots", false, "Print every dot_painted event (noisy while drawing)")
	)
	flag.Parse()

	u, err := url.Parse(*wsURL)
	if err != nil {
		log.Fatalf("invalid websocket URL: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	log.Printf("connecting to %s...", u.String())
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("connected! (press Ctrl+C to exit)")

	// Mutex to protect concurrent writes to websocket
	var writeMu sync.Mutex

	// The daemon pings every 20s; answer with pongs and keep the read
	// deadline ahead of that.
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second))
	})

	var painted int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("websocket error: %v", err)
				}
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			handleTextMessage(message, *dots, &painted)
		}
	}()

	select {
	case <-sigc:
		log.Printf("shutting down...")
		writeMu.Lock()
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		writeMu.Unlock()
		if err != nil {
			log.Printf("error closing connection: %v", err)
		}
	case <-done:
		log.Printf("connection closed")
	}
	log.Printf("%d dots painted while connected", painted)
}

// handleTextMessage prints one feed frame.
func handleTextMessage(message []byte, printDots bool, painted *int) {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		fmt.Printf("[TEXT] %s\n", string(message))
		return
	}

	switch env.Type {
	case "dot_painted":
		*painted++
		if !printDots {
			return
		}
		var d dotPainted
		if err := json.Unmarshal(env.Data, &d); err == nil {
			fmt.Printf("[DOT] (%d,%d) r=%d %s\n", d.X, d.Y, d.Radius, d.Color)
			return
		}

	case "state_init", "color_changed", "thickness_changed":
		var data any
		if err := json.Unmarshal(env.Data, &data); err == nil {
			pretty, _ := json.MarshalIndent(data, "", "  ")
			fmt.Printf("[%s]\n%s\n\n", env.Type, string(pretty))
			return
		}
	}

	fmt.Printf("[%s] %s\n", env.Type, string(env.Data))
}
