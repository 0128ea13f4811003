package services

import (
	"log/slog"

	"salespulse/internal/infrastructure"
)

// serviceLogger tags an injected logger with the service component,
// falling back to the process logger.
func serviceLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return infrastructure.WithComponent(logger, component)
}
