package repository

import (
	"context"
	"time"

	"ZoneFlow/internal/domain/models"
)

// SampleStore provides read-only access to sample frames for detection.
// Indicator columns are produced upstream; the store passes every numeric
// column through by name without interpreting it.
type SampleStore interface {
	GetFrame(ctx context.Context, symbol string, from, to time.Time) (*models.Frame, error)
	GetLatestFrame(ctx context.Context, symbol string, n int) (*models.Frame, error)
}
