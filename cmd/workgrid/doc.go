// Package main is a scripted demonstration of the workgrid engine.
//
// The demo runs against the in-memory surface simulator: it builds two
// workgroups, switches between them with an animated morph, walks the
// undo history, and persists the registry to a workgroup file.
//
// Configuration:
//   - Environment variables (WORKGRID_*)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Run the demo, saving to the default store path
//	./workgrid
//
//	# Render every intermediate morph frame
//	./workgrid -frames
//
//	# Development mode (colored logs, debug level) and a custom store
//	./workgrid -dev -store /tmp/work.yaml.zst
//
// Signals:
//   - SIGINT, SIGTERM: cancel the running demo
package main
