package service

import "ZoneFlow/internal/domain/models"

// ShapeStrategy computes distribution metrics of the named indicator column
// inside a zone's data slice. The column is explicit; no inference happens.
type ShapeStrategy interface {
	Calculate(frame *models.Frame, indicatorCol string) (models.ShapeMetrics, error)
}

// DivergenceStrategy classifies price/indicator extremum disagreements inside
// a zone. indicatorLineCol is descriptive context only and never drives a
// second extremum search.
type DivergenceStrategy interface {
	Calculate(frame *models.Frame, indicatorCol string, indicatorLineCol *string) (models.DivergenceMetrics, error)
}

// VolumeStrategy computes volume metrics for a zone. baselineVolume and
// indicatorCol are optional; their metrics degrade to nil when absent.
type VolumeStrategy interface {
	Calculate(frame *models.Frame, baselineVolume *float64, indicatorCol *string) (models.VolumeMetrics, error)
}
