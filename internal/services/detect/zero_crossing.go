package detect

import (
	"context"
	"math"
	"strings"

	"ZoneFlow/internal/domain/models"
	domsvc "ZoneFlow/internal/domain/service"
	applogger "ZoneFlow/pkg/logger"
)

// ZeroCrossing segments a frame by the sign of one indicator column.
// A boundary occurs when the sign flips.
type ZeroCrossing struct {
	cfg Config
	l   *applogger.Logger
}

func (d *ZeroCrossing) Name() string { return domsvc.StrategyZeroCrossing }

func (d *ZeroCrossing) Detect(ctx context.Context, frame *models.Frame) ([]*models.Zone, error) {
	if err := preScan(frame, d.cfg.IndicatorCol); err != nil {
		return nil, err
	}
	vals, _ := frame.Column(d.cfg.IndicatorCol)

	spans := scan(frame.Len(), func(i int) (regime, bool) {
		v := vals[i]
		if math.IsNaN(v) {
			return regimeNeutral, false
		}
		return signOf(v), true
	})
	spans = trimEdges(spans, d.cfg.MinZoneLength, d.cfg.KeepShortEdges)

	zctx := models.NewIndicatorContext()
	zctx.DetectionIndicator = strPtr(d.cfg.IndicatorCol)
	zctx.DetectionStrategy = strPtr(d.Name())
	zctx.DetectionRules["min_zone_length"] = d.cfg.MinZoneLength

	zones := buildZones(frame, spans, zctx)
	if d.l != nil {
		d.l.Debug("zero_crossing detect done",
			applogger.String("indicator", d.cfg.IndicatorCol),
			applogger.Int("samples", frame.Len()),
			applogger.Int("zones", len(zones)),
		)
	}
	return zones, nil
}

// preScan runs the fail-fast checks shared by all variants: structural frame
// validation (DataError) and column bindings (ConfigError) before scanning.
func preScan(frame *models.Frame, cols ...string) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	if missing := frame.MissingColumns(cols...); len(missing) > 0 {
		return models.NewConfigError(strings.Join(missing, ","), "detection column not present in frame")
	}
	return nil
}

func signOf(v float64) regime {
	switch {
	case v > 0:
		return regimePositive
	case v < 0:
		return regimeNegative
	default:
		return regimeNeutral
	}
}

func strPtr(s string) *string { return &s }
