// Package audit records operator actions as structured events. Events
// go through the service logger today; the API leaves room for an
// external sink later.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// Log writes a structured audit event.
func Log(ctx context.Context, event string, fields map[string]any) {
	zf := make([]zap.Field, 0, len(fields)+2)
	zf = append(zf,
		logger.String("event", event),
		logger.String("ts", time.Now().UTC().Format(time.RFC3339Nano)),
	)
	for k, v := range fields {
		zf = append(zf, logger.Any(k, v))
	}
	logger.From(ctx).Named("audit").Info("audit", zf...)
}
