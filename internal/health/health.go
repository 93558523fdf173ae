// Package health provides health check implementations for external dependencies.
package health

import (
	"context"
	"time"
)

// Checker is implemented by every dependency health probe.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// checkTimeout bounds each individual probe so one slow dependency cannot
// stall the whole health response.
const checkTimeout = 3 * time.Second

// CheckAll runs every named probe and returns per-dependency errors. A nil
// map value means the dependency is healthy.
func CheckAll(ctx context.Context, checkers map[string]Checker) map[string]error {
	results := make(map[string]error, len(checkers))
	for name, c := range checkers {
		probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		results[name] = c.HealthCheck(probeCtx)
		cancel()
	}
	return results
}
