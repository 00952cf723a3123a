package logger

import (
	"context"

	"go.uber.org/zap"
)

// S returns the singleton's SugaredLogger.
// Handy for printf-style logs in CLI commands.
//
// Example:
//
//	logger.S().Infof("session %s revoked", sid)
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// SFrom extracts the SugaredLogger from the context.
func SFrom(ctx context.Context) *zap.SugaredLogger {
	return From(ctx).Sugar()
}
