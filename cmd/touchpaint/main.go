package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"tinygo.org/x/drivers/touch"
)

const version = "1.0.0"

func printVersion() {
	fmt.Printf("touchpaint v%s\n", version)
	fmt.Println("Touch painting daemon for resistive touchscreen panels")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  touchpaint [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Reads raw touch samples, maps them through the panel calibration and")
	fmt.Println("  paints onto a canvas with a 9 colour palette and 4 brush sizes.")
	fmt.Println("  The panel is kept in memory and optionally mirrored to a Linux")
	fmt.Println("  framebuffer; state is published over a websocket feed and IPC.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML config file (optional; defaults match the ILI9486 shield)")
	fmt.Println()
	fmt.Println("  -touch-source string")
	fmt.Println("        Touch source: evdev|ipc|script (default \"evdev\")")
	fmt.Println()
	fmt.Println("  -touch-device string")
	fmt.Println("        Linux input event device for the touchscreen (default \"/dev/input/event0\")")
	fmt.Println()
	fmt.Println("  -touch-script string")
	fmt.Println("        YAML replay script (touch-source script)")
	fmt.Println()
	fmt.Println("  -acquire-timeout-ms int")
	fmt.Println("        Bound on each wait for a touch; 0 waits forever (default 0)")
	fmt.Println()
	fmt.Println("  -fb-device string")
	fmt.Println("        Linux framebuffer device to mirror the panel to, e.g. /dev/fb1")
	fmt.Println()
	fmt.Println("  -listen string")
	fmt.Printf("        HTTP listen address for /ws, /metrics and /snapshot.png; empty disables (default %q)\n", defaultListenAddr)
	fmt.Println()
	fmt.Println("  -ipc-socket string")
	fmt.Printf("        Unix domain socket path for IPC; empty disables (default %q)\n", defaultIPCSocket)
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -log-format string")
	fmt.Println("        Log format: text, json (default \"text\")")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  touchpaint -touch-device /dev/input/event2 -fb-device /dev/fb1")
	fmt.Println("  touchpaint -touch-source ipc -log-level debug")
	fmt.Println("  touchpaint -touch-source script -touch-script ~/strokes.yaml")
}

func main() {
	var (
		configPath     = flag.String("config", "", "Path to YAML config file")
		touchSource    = flag.String("touch-source", "evdev", "Touch source: evdev|ipc|script")
		touchDevice    = flag.String("touch-device", "/dev/input/event0", "Linux input event device for the touchscreen")
		touchScript    = flag.String("touch-script", "", "YAML replay script")
		acquireTimeout = flag.Int("acquire-timeout-ms", 0, "Bound on each wait for a touch; 0 waits forever")
		fbDevice       = flag.String("fb-device", "", "Linux framebuffer device to mirror the panel to")
		listenAddr     = flag.String("listen", defaultListenAddr, "HTTP listen address; empty disables")
		ipcSocketPath  = flag.String("ipc-socket", defaultIPCSocket, "Unix domain socket path for IPC; empty disables")
		logLevelStr    = flag.String("log-level", "info", "Log level: error, warn, info, debug")
		logFormat      = flag.String("log-format", "text", "Log format: text, json")
		showVersion    = flag.Bool("version", false, "Print version and exit")
		showHelp       = flag.Bool("help", false, "Print help message")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	// Only flags given on the command line override the file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	var o FlagOverrides
	if set["touch-source"] {
		o.TouchSource = touchSource
	}
	if set["touch-device"] {
		o.TouchDevice = touchDevice
	}
	if set["touch-script"] {
		o.TouchScript = touchScript
	}
	if set["acquire-timeout-ms"] {
		o.AcquireTimeout = acquireTimeout
	}
	if set["fb-device"] {
		o.Framebuffer = fbDevice
	}
	if set["listen"] {
		o.Listen = listenAddr
	}
	if set["ipc-socket"] {
		o.IPCSocketPath = ipcSocketPath
	}
	if set["log-level"] {
		o.LogLevel = logLevelStr
	}
	if set["log-format"] {
		o.LogFormat = logFormat
	}
	o.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid config: %v\n", err)
		os.Exit(1)
	}

	logLevel, _ := parseLogLevel(cfg.Logging.Level) // validated above
	logger := setupLogger(os.Stdout, logLevel, cfg.Logging.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error("touchpaint stopped", "error", err)
		os.Exit(1)
	}
}

// run builds every component from cfg and supervises them until a signal
// arrives or one of them fails.
func run(cfg Config, logger *slog.Logger) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	metrics := NewMetrics()
	layout := NewLayout(cfg)

	pins := NewPinBus(logger)
	pins.onOverlap = metrics.pinOverlap

	fb := NewFramebuffer(cfg.Display.Width, cfg.Display.Height)
	display := newPinnedDisplay(fb, pins)

	var out presenter
	if cfg.Output.Framebuffer != "" {
		dev, err := openFbdev(ExpandPath(cfg.Output.Framebuffer), cfg.Display.Width, cfg.Display.Height)
		if err != nil {
			return fmt.Errorf("framebuffer output: %w", err)
		}
		defer dev.Close()
		out = dev
		logger.Info("framebuffer output", "device", cfg.Output.Framebuffer)
	}

	g, gctx := errgroup.WithContext(ctx)

	// Touch source
	var (
		sensor touch.Pointer
		queue  *queueSensor
	)
	switch cfg.Touch.Source {
	case "evdev":
		dev, err := openTouchDevice(ExpandPath(cfg.Touch.Device), cfg.Touch.Grab)
		if err != nil {
			return fmt.Errorf("touch device: %w", err)
		}
		defer dev.Close()
		logger.Info("touch device", append([]any{"device", cfg.Touch.Device}, dev.logAttrs()...)...)

		ev := newEvdevSensor(dev.hasPressure, (cfg.Pressure.Low+cfg.Pressure.High)/2)
		events := make(chan inputEvent, 64)
		readErr := make(chan error, 1)
		// Blocks in read(2); closing the device on return unblocks it.
		go readInputEvents(gctx, dev.file, events, readErr)
		g.Go(func() error {
			if err := ev.run(gctx, events, readErr); err != nil {
				return fmt.Errorf("touch device read: %w", err)
			}
			return nil
		})
		sensor = ev

	case "ipc":
		queue = newQueueSensor(cfg.Touch.QueueSize)
		sensor = queue

	case "script":
		script, err := LoadScriptFile(cfg.Touch.Script)
		if err != nil {
			return err
		}
		ss := newScriptSensor(script)
		if cfg.Touch.ExitAfterScript {
			g.Go(func() error {
				select {
				case <-ss.Done():
					logger.Info("touch script finished")
					cancel()
				case <-gctx.Done():
				}
				return nil
			})
		}
		sensor = ss
	}

	mapper := NewTouchMapper(sensor, cfg, layout, pins, metrics, logger)
	app := NewApp(AppDeps{
		Config:  cfg,
		Layout:  layout,
		Mapper:  mapper,
		Display: display,
		FB:      fb,
		Output:  out,
		Metrics: metrics,
		Logger:  logger,
	})

	g.Go(func() error { return app.Run(gctx) })

	// State feed + HTTP
	if cfg.Server.Listen != "" {
		feed := NewStateFeed(logger, app.Snapshots(), metrics, HubConfig{SendBuf: cfg.Server.SendBuf})
		g.Go(func() error {
			feed.Hub().Run(gctx)
			return nil
		})
		g.Go(func() error {
			RunBroadcaster(gctx, feed.Hub(), app.Broadcasts(), logger)
			return nil
		})
		mux := newHTTPMux(cfg, feed, metrics, fb, logger)
		g.Go(func() error { return runHTTPServer(gctx, cfg.Server.Listen, mux, logger) })
	} else {
		g.Go(func() error {
			for range app.Broadcasts() {
			}
			return nil
		})
	}

	if cfg.IPC.SocketPath != "" {
		h := ipcHandler{queue: queue, snapshots: app.Snapshots()}
		g.Go(func() error { return runIPCServer(gctx, cfg.IPC.SocketPath, h, logger) })
	}

	logger.Info("touchpaint starting",
		"version", version,
		"touch_source", cfg.Touch.Source,
		"display", fmt.Sprintf("%dx%d", layout.Width, layout.Height),
		"listen", cfg.Server.Listen,
		"ipc", cfg.IPC.SocketPath)

	err := g.Wait()
	logger.Info("shutting down")
	return err
}
