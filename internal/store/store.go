package store

import (
	"context"

	"github.com/nhle/brandwatch/internal/model"
)

// Store defines the persistence interface for messages and alerts. Both
// tables are append-only: rows are inserted once and never updated or
// deleted in normal operation.
type Store interface {
	// SaveMessage persists one message record and returns its assigned id.
	// It must succeed before any alert can reference the message.
	SaveMessage(ctx context.Context, msg model.Message) (int64, error)

	// SaveAlert persists one alert. MessageRefID must name an existing
	// message row.
	SaveAlert(ctx context.Context, alert model.Alert) (int64, error)

	// RecentAlerts returns up to limit alerts, newest first, each joined
	// with its message's group name.
	RecentAlerts(ctx context.Context, limit int) ([]model.RecentAlert, error)

	// Stats returns an aggregate snapshot. Two calls with no intervening
	// writes return identical results.
	Stats(ctx context.Context) (model.Stats, error)

	Close() error
}
