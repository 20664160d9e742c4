package api

import (
	"log/slog"
	"time"
)

// HTTPServerConfig configures the sidecar's listeners and lifecycle.
type HTTPServerConfig struct {
	// ListenAddr is where the API is served.
	ListenAddr string

	// MetricsAddr is where Prometheus metrics are served. Empty disables
	// the metrics listener.
	MetricsAddr string

	// EnablePprof mounts the pprof handlers under /debug.
	EnablePprof bool

	Log *slog.Logger

	// RequestBodyLimit caps API request bodies in bytes. Zero means
	// DefaultRequestBodyLimit.
	RequestBodyLimit int64

	// DrainDuration is how long Shutdown keeps readiness failing before it
	// closes the listeners.
	DrainDuration time.Duration

	// GracefulShutdownDuration bounds how long Shutdown waits for in-flight
	// requests.
	GracefulShutdownDuration time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRequestBodyLimit fits any request carrying 2048-bit keys and a
// maximum-size plaintext with ample room.
const DefaultRequestBodyLimit = 64 * 1024
