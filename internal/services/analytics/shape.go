package analytics

import (
	"ZoneFlow/internal/domain/models"
	applogger "ZoneFlow/pkg/logger"
)

// minShapeSamples is the smallest non-NaN sample count that still yields a
// meaningful distribution. Below it the strategy returns a neutral record.
const minShapeSamples = 3

// Shape computes distribution metrics of the indicator values inside a zone:
// skewness, Pearson kurtosis and smoothness (standard deviation of the first
// difference).
type Shape struct {
	l *applogger.Logger
}

func NewShape(l *applogger.Logger) *Shape {
	return &Shape{l: l}
}

func (s *Shape) Calculate(frame *models.Frame, indicatorCol string) (models.ShapeMetrics, error) {
	vals, ok := frame.Column(indicatorCol)
	if !ok {
		return models.ShapeMetrics{}, models.NewDataError(indicatorCol, frame.Columns(), "indicator column not present in zone data")
	}

	clean := dropNaN(vals)
	m := models.ShapeMetrics{
		Kurtosis: 3,
		StrategyParams: map[string]any{
			"indicator_col": indicatorCol,
			"sample_count":  len(clean),
		},
	}
	if len(clean) < minShapeSamples {
		if s.l != nil {
			s.l.Debug("shape: too few samples, neutral record",
				applogger.String("indicator", indicatorCol),
				applogger.Int("samples", len(clean)),
			)
		}
		return m, nil
	}

	m.Skewness = skewness(clean)
	m.Kurtosis = kurtosis(clean)
	if d := diff(vals); len(d) >= 2 {
		sm := stdDev(d)
		m.Smoothness = &sm
	}
	return m, nil
}
