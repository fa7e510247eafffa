package analytics

import (
	"math"

	"ZoneFlow/internal/domain/models"
	applogger "ZoneFlow/pkg/logger"
)

// minCorrSamples is the smallest pair count the volume/indicator correlation
// is computed over.
const minCorrSamples = 3

// Volume computes volume activity metrics for a zone: the average zone
// volume, its ratio to a pre-zone baseline, the relative volume change at
// zone entry, and the correlation between volume and the indicator. Metrics
// whose inputs are absent come back nil rather than failing the zone.
type Volume struct {
	l *applogger.Logger
}

func NewVolume(l *applogger.Logger) *Volume {
	return &Volume{l: l}
}

func (s *Volume) Calculate(frame *models.Frame, baselineVolume *float64, indicatorCol *string) (models.VolumeMetrics, error) {
	vol, ok := frame.Column(models.ColVolume)
	if !ok {
		return models.VolumeMetrics{}, models.NewDataError(models.ColVolume, frame.Columns(), "volume column not present in zone data")
	}

	m := models.VolumeMetrics{
		StrategyParams: map[string]any{
			"sample_count": frame.Len(),
		},
	}
	clean := dropNaN(vol)
	if len(clean) > 0 {
		m.AvgZoneVolume = mean(clean)
	}

	if baselineVolume != nil && *baselineVolume > 0 {
		m.StrategyParams["baseline_volume"] = *baselineVolume
		ratio := m.AvgZoneVolume / *baselineVolume
		m.ZoneVolumeRatio = &ratio
		if len(vol) > 0 && !math.IsNaN(vol[0]) {
			change := (vol[0] - *baselineVolume) / *baselineVolume
			m.EntryVolumeChange = &change
		}
	}

	if indicatorCol != nil {
		if ind, ok := frame.Column(*indicatorCol); ok && len(clean) >= minCorrSamples {
			if r, ok := pearson(vol, ind); ok {
				m.VolumeIndicatorCorr = &r
			}
		}
		m.StrategyParams["indicator_col"] = *indicatorCol
	}

	if s.l != nil && m.ZoneVolumeRatio == nil {
		s.l.Debug("volume: no baseline, ratio metrics skipped",
			applogger.Int("samples", frame.Len()),
		)
	}
	return m, nil
}
