package detect

import (
	"context"
	"math"

	"ZoneFlow/internal/domain/models"
	domsvc "ZoneFlow/internal/domain/service"
	applogger "ZoneFlow/pkg/logger"
)

// ThresholdBand segments a frame by band membership of one indicator column
// against an upper and a lower threshold. A zone opens when the value enters
// the above-upper or below-lower band and closes on return to neutral or a
// flip to the opposite band. Neutral stretches produce no zone.
type ThresholdBand struct {
	cfg Config
	l   *applogger.Logger
}

func (d *ThresholdBand) Name() string { return domsvc.StrategyThresholdBand }

func (d *ThresholdBand) Detect(ctx context.Context, frame *models.Frame) ([]*models.Zone, error) {
	if err := preScan(frame, d.cfg.IndicatorCol); err != nil {
		return nil, err
	}
	vals, _ := frame.Column(d.cfg.IndicatorCol)
	upper := *d.cfg.UpperThreshold
	lower := *d.cfg.LowerThreshold

	spans := scan(frame.Len(), func(i int) (regime, bool) {
		v := vals[i]
		if math.IsNaN(v) {
			return regimeNeutral, false
		}
		switch {
		case v > upper:
			return regimePositive, true
		case v < lower:
			return regimeNegative, true
		default:
			return regimeNeutral, true
		}
	})

	// Band zones only; the neutral regime is the gap between zones.
	banded := spans[:0:0]
	for _, sp := range spans {
		if sp.r != regimeNeutral {
			banded = append(banded, sp)
		}
	}
	banded = trimEdges(banded, d.cfg.MinZoneLength, d.cfg.KeepShortEdges)

	zctx := models.NewIndicatorContext()
	zctx.DetectionIndicator = strPtr(d.cfg.IndicatorCol)
	zctx.DetectionStrategy = strPtr(d.Name())
	zctx.DetectionRules["upper_threshold"] = upper
	zctx.DetectionRules["lower_threshold"] = lower
	zctx.DetectionRules["min_zone_length"] = d.cfg.MinZoneLength

	zones := buildZones(frame, banded, zctx)
	if d.l != nil {
		d.l.Debug("threshold_band detect done",
			applogger.String("indicator", d.cfg.IndicatorCol),
			applogger.Int("samples", frame.Len()),
			applogger.Int("zones", len(zones)),
		)
	}
	return zones, nil
}
