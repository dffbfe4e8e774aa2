// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Log Levels:
//   - Debug: Verbose debugging information (morph steps, content substitution)
//   - Info: General informational messages
//   - Warn: Warning messages (morph watchdog, view-state apply failures)
//   - Error: Error messages
//
// Features:
//   - Zero-allocation logging in production
//   - Structured fields for context
//   - Configurable output paths
//   - No-op fallback so engine constructors accept a nil logger
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("workgroup switched", zap.String("name", "editor"))
//	logger.Warn("morph watchdog exceeded", zap.Int("steps", 200))
package logging
