package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	"tinygo.org/x/drivers/touch"
)

// ============================================================================
// IPC Server - Unix Domain Socket Interface
// ============================================================================
// Protocol: Line-delimited JSON
//   - Client sends: {"type": "touch_sample", "data": {"x": 1, "y": 2, "z": 3}}
//   - Server responds: {"status": "ok"} or {"status": "error", "error": "msg"}
//   - get_state responses carry the latest snapshot in "state".
// ============================================================================

// IPCResponse represents the response sent back to IPC clients
type IPCResponse struct {
	Status string         `json:"status"`          // "ok" or "error"
	Error  string         `json:"error,omitempty"` // error message if status == "error"
	State  *StateSnapshot `json:"state,omitempty"`
}

// ipcHandler answers IPC requests. queue is nil unless the daemon reads its
// touches from IPC.
type ipcHandler struct {
	queue     *queueSensor
	snapshots *snapshotStore
}

func (h ipcHandler) handle(req Request) IPCResponse {
	switch r := req.(type) {
	case TouchSample:
		if h.queue == nil {
			return IPCResponse{Status: "error", Error: "touch source is not ipc"}
		}
		if err := h.queue.Push(touch.Point{X: r.X, Y: r.Y, Z: r.Z}); err != nil {
			return IPCResponse{Status: "error", Error: err.Error()}
		}
		return IPCResponse{Status: "ok"}

	case GetState:
		snap := h.snapshots.Load()
		return IPCResponse{Status: "ok", State: &snap}

	default:
		return IPCResponse{Status: "error", Error: fmt.Sprintf("unsupported request %T", req)}
	}
}

// runIPCServer starts the Unix domain socket server.
// It runs until ctx is canceled, at which point it closes the listener and exits.
func runIPCServer(ctx context.Context, socketPath string, h ipcHandler, logger *slog.Logger) error {
	// Remove existing socket file if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	if err := os.Chmod(socketPath, 0666); err != nil {
		return fmt.Errorf("chmod socket: %w", err)
	}

	logger.Info("IPC listening", "socket", socketPath)

	// Close the listener on shutdown. This unblocks Accept().
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("IPC listener closed (shutdown)")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				logger.Debug("IPC listener closed")
				return nil
			}

			logger.Error("IPC accept error", "error", err)
			continue
		}

		go handleIPCConnection(conn, h, logger)
	}
}

// handleIPCConnection handles a single IPC connection
func handleIPCConnection(conn net.Conn, h ipcHandler, logger *slog.Logger) {
	defer conn.Close()

	logger.Debug("IPC connection", "remote_addr", conn.RemoteAddr())

	scanner := bufio.NewScanner(conn)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		logger.Debug("IPC received", "line", line)

		var response IPCResponse
		req, err := UnmarshalRequest([]byte(line))
		if err != nil {
			response = IPCResponse{Status: "error", Error: fmt.Sprintf("parse request: %v", err)}
		} else {
			response = h.handle(req)
		}

		if encErr := encoder.Encode(response); encErr != nil {
			logger.Error("IPC failed to send response", "error", encErr)
			return
		}
	}

	logger.Debug("IPC connection closed")
}
