package service

import (
	"context"

	"ZoneFlow/internal/domain/models"
)

// Detection strategy names (closed set).
const (
	StrategyZeroCrossing  = "zero_crossing"
	StrategyThresholdBand = "threshold_band"
	StrategyLineCrossing  = "line_crossing"
)

// ZoneDetector segments a frame into ordered, non-overlapping zones, stamping
// each with the indicator context that produced it. Detection is a stateful
// single pass; one detector instance must not be shared across concurrent
// series.
type ZoneDetector interface {
	Name() string
	Detect(ctx context.Context, frame *models.Frame) ([]*models.Zone, error)
}
