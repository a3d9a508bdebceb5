package logging

import (
	"log/slog"
)

// WithFile creates a logger with database file context.
// Use this in the pager and table layers so every log line carries the
// file it concerns.
//
// Example:
//
//	log := logging.WithFile(path)
//	log.Debug("page loaded", "page", pageNo)
func WithFile(path string) *slog.Logger {
	return GetLogger().With("file", path)
}

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("tui")
//	log.Info("component initialized")
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithError creates a logger with error context.
// Use this when logging errors to include the error in structured format.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("operation failed", "operation", "insert")
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
