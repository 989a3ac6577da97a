package database

import (
	"context"

	"ghost-detector-bot/internal/database/models"
)

// ScanLogger defines the interface for recording scan invocations.
type ScanLogger interface {
	// LogScan records an audit entry for a completed (or failed) scan.
	LogScan(ctx context.Context, entry models.ScanLog) error
}
