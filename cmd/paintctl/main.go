package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// ============================================================================
// paintctl - Command-line IPC Client
// ============================================================================
// Sends requests to the touchpaint daemon via IPC.
//
// Usage:
//   paintctl touch 580 600 300
//   paintctl tap 580 600
//   paintctl state
//
// Options:
//   -socket PATH    Unix domain socket path (default: /tmp/touchpaint.sock)
// ============================================================================

// Request types (duplicated from the daemon for a standalone binary)
type touchSample struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// requestEnvelope wraps requests for JSON
type requestEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ipcResponse represents the daemon's response
type ipcResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	State  json.RawMessage `json:"state,omitempty"`
}

// tapPressure sits comfortably inside the default pressure window.
const tapPressure = 500

func main() {
	socketPath := "/tmp/touchpaint.sock"

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "-socket" || args[0] == "--socket" {
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "error: -socket requires an argument\n")
			os.Exit(1)
		}
		socketPath = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var reqs []requestEnvelope

	switch args[0] {
	case "touch":
		if len(args) < 4 {
			fmt.Fprintf(os.Stderr, "error: touch requires X Y Z\n")
			os.Exit(1)
		}
		s, err := parseSample(args[1], args[2], args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		reqs = append(reqs, touchRequest(s))

	case "tap":
		if len(args) < 3 {
			fmt.Fprintf(os.Stderr, "error: tap requires X Y\n")
			os.Exit(1)
		}
		s, err := parseSample(args[1], args[2], strconv.Itoa(tapPressure))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		// Press then lift, like a finger.
		reqs = append(reqs, touchRequest(s), touchRequest(touchSample{X: s.X, Y: s.Y}))

	case "state":
		reqs = append(reqs, requestEnvelope{Type: "get_state"})

	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	for _, req := range reqs {
		resp, err := send(socketPath, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if len(resp.State) > 0 {
			var pretty any
			if err := json.Unmarshal(resp.State, &pretty); err == nil {
				out, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Println(string(out))
				continue
			}
			fmt.Println(string(resp.State))
		}
	}

	if args[0] != "state" {
		fmt.Println("ok")
	}
}

func parseSample(xs, ys, zs string) (touchSample, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return touchSample{}, fmt.Errorf("invalid X: %w", err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return touchSample{}, fmt.Errorf("invalid Y: %w", err)
	}
	z, err := strconv.Atoi(zs)
	if err != nil {
		return touchSample{}, fmt.Errorf("invalid Z: %w", err)
	}
	return touchSample{X: x, Y: y, Z: z}, nil
}

func touchRequest(s touchSample) requestEnvelope {
	data, _ := json.Marshal(s) // plain struct of ints
	return requestEnvelope{Type: "touch_sample", Data: data}
}

func send(socketPath string, req requestEnvelope) (ipcResponse, error) {
	conn, err := net.DialTimeout("unix", socketPath, 2*time.Second)
	if err != nil {
		return ipcResponse{}, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		return ipcResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	// Send request (line-delimited JSON)
	if _, err := fmt.Fprintf(conn, "%s\n", data); err != nil {
		return ipcResponse{}, fmt.Errorf("send request: %w", err)
	}

	var response ipcResponse
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return ipcResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if response.Status == "error" {
		return ipcResponse{}, fmt.Errorf("daemon error: %s", response.Error)
	}
	return response, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `paintctl - Control the touchpaint daemon via IPC

Usage:
  paintctl [options] <command> [args]

Options:
  -socket PATH    Unix domain socket path (default: /tmp/touchpaint.sock)

Commands:
  touch X Y Z        Inject one raw touch sample (daemon must use touch-source ipc)
  tap X Y            Inject a press at raw X Y followed by a release
  state              Print the daemon's current brush state and counters
  help, -h, --help   Show this help message

Examples:
  paintctl tap 400 600
  paintctl touch 580 600 300
  paintctl -socket /run/touchpaint.sock state
`)
}
