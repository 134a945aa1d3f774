// Package besteffort runs side effects whose failure must never reach the
// caller, such as tracking counters and cache bookkeeping.
package besteffort

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samdevvv/telofundi/internal/metrics"
)

// Run executes fn and swallows its error or panic. Failures are logged at
// warn level and counted; they are never propagated.
func Run(ctx context.Context, log *slog.Logger, op string, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			report(log, op, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := fn(ctx); err != nil {
		report(log, op, err)
	}
}

func report(log *slog.Logger, op string, err error) {
	metrics.BestEffortFailures.WithLabelValues(op).Inc()
	if log != nil {
		log.Warn("best-effort operation failed", "op", op, "err", err)
	}
}
