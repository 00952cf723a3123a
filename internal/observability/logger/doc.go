// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: one global instance initialized with Init().
//   - Context scoping: each request can carry its own scoped logger with
//     extra fields (request_id, orcid, etc.) without building a new core.
//   - Environments: "dev" logs to a colored console, "prod" logs JSON.
//   - Levels: debug, info, warn, error (configurable via log.level).
//
// # Usage
//
// Initialization (once, in main.go):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,   // "dev" or "prod"
//	    Level: cfg.Log.Level, // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// In controllers/services (with context):
//
//	log := logger.From(ctx)
//	log.Info("session created", logger.ORCID(id))
//
// Without context (falls back to the singleton):
//
//	logger.L().Info("service started")
package logger
