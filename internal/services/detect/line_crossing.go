package detect

import (
	"context"
	"math"

	"ZoneFlow/internal/domain/models"
	domsvc "ZoneFlow/internal/domain/service"
	applogger "ZoneFlow/pkg/logger"
)

// LineCrossing segments a frame by the sign of line1 - line2 over two named
// columns. A boundary occurs when the difference changes sign. The second
// column is recorded as the signal line in the zone context.
type LineCrossing struct {
	cfg Config
	l   *applogger.Logger
}

func (d *LineCrossing) Name() string { return domsvc.StrategyLineCrossing }

func (d *LineCrossing) Detect(ctx context.Context, frame *models.Frame) ([]*models.Zone, error) {
	if err := preScan(frame, d.cfg.Line1Col, d.cfg.Line2Col); err != nil {
		return nil, err
	}
	line1, _ := frame.Column(d.cfg.Line1Col)
	line2, _ := frame.Column(d.cfg.Line2Col)

	spans := scan(frame.Len(), func(i int) (regime, bool) {
		a, b := line1[i], line2[i]
		if math.IsNaN(a) || math.IsNaN(b) {
			return regimeNeutral, false
		}
		return signOf(a - b), true
	})
	spans = trimEdges(spans, d.cfg.MinZoneLength, d.cfg.KeepShortEdges)

	zctx := models.NewIndicatorContext()
	zctx.DetectionIndicator = strPtr(d.cfg.Line1Col)
	zctx.DetectionStrategy = strPtr(d.Name())
	zctx.SignalLine = strPtr(d.cfg.Line2Col)
	zctx.DetectionRules["line1_col"] = d.cfg.Line1Col
	zctx.DetectionRules["line2_col"] = d.cfg.Line2Col
	zctx.DetectionRules["min_zone_length"] = d.cfg.MinZoneLength

	zones := buildZones(frame, spans, zctx)
	if d.l != nil {
		d.l.Debug("line_crossing detect done",
			applogger.String("line1", d.cfg.Line1Col),
			applogger.String("line2", d.cfg.Line2Col),
			applogger.Int("samples", frame.Len()),
			applogger.Int("zones", len(zones)),
		)
	}
	return zones, nil
}
