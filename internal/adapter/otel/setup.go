// Package otel provides metric instruments and HTTP instrumentation.
// Exporter wiring is deliberately left to the environment; without a
// configured provider the instruments are no-ops.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc is called to flush and shut down the telemetry provider.
type ShutdownFunc func(ctx context.Context) error

// Init returns a no-op shutdown function. A real provider can be dropped
// in here without touching the instrument call sites.
func Init(serviceName string) ShutdownFunc {
	slog.Info("telemetry using default no-op provider", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}
