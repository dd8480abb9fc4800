// Package log provides structured logging for parmacl.
//
// Package: log
// Title: parmacl Structured Logging
// Description: Structured logging with contextual fields and levels. The
//              Logger keeps the immutable With* API used across parmacl
//              packages and writes through zerolog in JSON or console form.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2025-10-19 v0.2.0: zerolog output backend, dropped async and audit entries
//
// Usage:
//
//	logger := pmlog.NewWithConfig(pmlog.Config{
//		Level:  pmlog.LevelDebug,
//		Format: pmlog.FormatConsole,
//	}).WithField("component", "cmdline-parser")
//
//	logger.Debug("parse started", pmlog.Fields{"length": 12})
//	logger.ErrorWithErr("parse failed", err)
package log
