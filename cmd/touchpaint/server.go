package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"time"
)

// ============================================================================
// HTTP Server
// ============================================================================
// Serves the websocket state feed, Prometheus metrics and a PNG snapshot of
// the panel.
// ============================================================================

// newHTTPMux wires the HTTP endpoints. feed, metrics and panel may be nil.
func newHTTPMux(cfg Config, feed *StateFeed, metrics *Metrics, panel image.Image, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	if feed != nil {
		feed.Register(mux, cfg.Server.WSPath)
	}
	if metrics != nil && cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	if panel != nil {
		mux.HandleFunc("/snapshot.png", snapshotHandler(panel, logger))
	}
	return mux
}

// snapshotHandler encodes the panel as PNG on every request.
func snapshotHandler(panel image.Image, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, panel); err != nil {
			logger.Error("snapshot encode failed", "error", err)
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	}
}

// runHTTPServer serves handler on addr and shuts it down gracefully when ctx
// is canceled.
func runHTTPServer(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	logger.Info("HTTP server listening", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		// ListenAndServe returns http.ErrServerClosed on Shutdown; treat that as clean exit.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		<-errCh
		return nil

	case err := <-errCh:
		return err
	}
}
