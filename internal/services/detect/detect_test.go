package detect

import (
	"context"
	"math"
	"testing"
	"time"

	"ZoneFlow/internal/domain/models"
	domsvc "ZoneFlow/internal/domain/service"
)

func newTestFrame(t *testing.T, n int, extra map[string][]float64, extraOrder ...string) *models.Frame {
	t.Helper()
	times := make([]time.Time, n)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = base.Add(time.Duration(i) * time.Minute)
	}
	f := models.NewFrame(times)
	for _, name := range models.RequiredColumns {
		col := make([]float64, n)
		for i := range col {
			col[i] = 100 + float64(i)
		}
		if err := f.AddColumn(name, col); err != nil {
			t.Fatalf("add column %s: %v", name, err)
		}
	}
	for _, name := range extraOrder {
		if err := f.AddColumn(name, extra[name]); err != nil {
			t.Fatalf("add column %s: %v", name, err)
		}
	}
	return f
}

func TestZeroCrossingOscillator(t *testing.T) {
	// Two full sine periods sampled over [0, 4pi]. The endpoints sit on the
	// zero line, so trimming undersized edge zones leaves one zone per
	// half-period.
	const n = 50
	osc := make([]float64, n)
	for i := 0; i < n; i++ {
		osc[i] = math.Sin(4 * math.Pi * float64(i) / float64(n-1))
	}
	f := newTestFrame(t, n, map[string][]float64{"osc": osc}, "osc")

	d, err := New(Config{Strategy: domsvc.StrategyZeroCrossing, IndicatorCol: "osc", MinZoneLength: 2}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	zones, err := d.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones) != 4 {
		t.Fatalf("expected 4 zones, got %d", len(zones))
	}
	wantTypes := []models.ZoneType{models.ZoneBullish, models.ZoneBearish, models.ZoneBullish, models.ZoneBearish}
	for i, z := range zones {
		if z.Type != wantTypes[i] {
			t.Fatalf("zone %d: expected %s, got %s", i, wantTypes[i], z.Type)
		}
	}
	assertZoneInvariants(t, zones, n)
}

func TestZeroCrossingContext(t *testing.T) {
	f := newTestFrame(t, 6, map[string][]float64{"osc": {1, 1, 1, -1, -1, -1}}, "osc")
	d, err := New(Config{Strategy: domsvc.StrategyZeroCrossing, IndicatorCol: "osc"}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	zones, err := d.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	ctx := zones[0].Context
	if ctx.DetectionIndicator == nil || *ctx.DetectionIndicator != "osc" {
		t.Fatalf("expected detection indicator osc, got %v", ctx.DetectionIndicator)
	}
	if ctx.DetectionStrategy == nil || *ctx.DetectionStrategy != domsvc.StrategyZeroCrossing {
		t.Fatalf("expected strategy in context, got %v", ctx.DetectionStrategy)
	}
	if ctx.SignalLine != nil {
		t.Fatalf("zero crossing should not set a signal line")
	}
}

func TestThresholdBandBoundaries(t *testing.T) {
	vals := []float64{0, 50, 80, 90, 60, -80, -90, -20, 0, 0}
	f := newTestFrame(t, len(vals), map[string][]float64{"rsi": vals}, "rsi")

	upper, lower := 70.0, -70.0
	d, err := New(Config{
		Strategy:       domsvc.StrategyThresholdBand,
		IndicatorCol:   "rsi",
		UpperThreshold: &upper,
		LowerThreshold: &lower,
	}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	zones, err := d.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 band zones, got %d", len(zones))
	}
	if zones[0].Type != models.ZoneBullish || zones[0].StartIdx != 2 || zones[0].EndIdx != 3 {
		t.Fatalf("unexpected first zone: %+v", zones[0])
	}
	if zones[1].Type != models.ZoneBearish || zones[1].StartIdx != 5 || zones[1].EndIdx != 6 {
		t.Fatalf("unexpected second zone: %+v", zones[1])
	}
}

func TestLineCrossing(t *testing.T) {
	line1 := []float64{1, 2, 4, 5}
	line2 := []float64{3, 3, 3, 3}
	f := newTestFrame(t, 4, map[string][]float64{"macd": line1, "signal": line2}, "macd", "signal")

	d, err := New(Config{Strategy: domsvc.StrategyLineCrossing, Line1Col: "macd", Line2Col: "signal"}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	zones, err := d.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	if zones[0].Type != models.ZoneBearish || zones[1].Type != models.ZoneBullish {
		t.Fatalf("unexpected zone types: %s, %s", zones[0].Type, zones[1].Type)
	}
	if zones[0].Context.SignalLine == nil || *zones[0].Context.SignalLine != "signal" {
		t.Fatalf("expected signal line in context, got %v", zones[0].Context.SignalLine)
	}
}

func TestNaNNeverOpensOrClosesZones(t *testing.T) {
	nan := math.NaN()
	vals := []float64{nan, 1, nan, 1, -1, nan}
	f := newTestFrame(t, len(vals), map[string][]float64{"osc": vals}, "osc")

	d, err := New(Config{Strategy: domsvc.StrategyZeroCrossing, IndicatorCol: "osc"}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	zones, err := d.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	if zones[0].StartIdx != 1 || zones[0].EndIdx != 3 {
		t.Fatalf("leading NaN should be excluded, interior NaN kept: %+v", zones[0])
	}
	if zones[1].StartIdx != 4 || zones[1].EndIdx != 5 {
		t.Fatalf("trailing NaN should stay inside the last zone: %+v", zones[1])
	}
}

func TestMinZoneLengthTrimsEdgesOnly(t *testing.T) {
	vals := []float64{1, -1, -1, -1, -1, 1}
	f := newTestFrame(t, len(vals), map[string][]float64{"osc": vals}, "osc")

	d, err := New(Config{Strategy: domsvc.StrategyZeroCrossing, IndicatorCol: "osc", MinZoneLength: 3}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	zones, err := d.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("short edge zones should be dropped, got %d zones", len(zones))
	}
	if zones[0].StartIdx != 1 || zones[0].EndIdx != 4 {
		t.Fatalf("unexpected surviving zone: %+v", zones[0])
	}

	// Interior short zones are always kept.
	vals2 := []float64{1, 1, 1, -1, 1, 1, 1}
	f2 := newTestFrame(t, len(vals2), map[string][]float64{"osc": vals2}, "osc")
	zones2, err := d.Detect(context.Background(), f2)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones2) != 3 {
		t.Fatalf("interior short zone must survive, got %d zones", len(zones2))
	}

	// KeepShortEdges retains undersized edge zones.
	keep, err := New(Config{Strategy: domsvc.StrategyZeroCrossing, IndicatorCol: "osc", MinZoneLength: 3, KeepShortEdges: true}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	zones3, err := keep.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(zones3) != 3 {
		t.Fatalf("keep_short_edges should retain all zones, got %d", len(zones3))
	}
}

func TestConfigErrors(t *testing.T) {
	if _, err := New(Config{Strategy: "unknown"}, nil); !models.IsConfigError(err) {
		t.Fatalf("unknown strategy: expected ConfigError, got %v", err)
	}
	if _, err := New(Config{Strategy: domsvc.StrategyZeroCrossing}, nil); !models.IsConfigError(err) {
		t.Fatalf("missing indicator_col: expected ConfigError, got %v", err)
	}
	if _, err := New(Config{Strategy: domsvc.StrategyThresholdBand, IndicatorCol: "rsi"}, nil); !models.IsConfigError(err) {
		t.Fatalf("missing thresholds: expected ConfigError, got %v", err)
	}
	upper, lower := 10.0, 20.0
	if _, err := New(Config{
		Strategy: domsvc.StrategyThresholdBand, IndicatorCol: "rsi",
		UpperThreshold: &upper, LowerThreshold: &lower,
	}, nil); !models.IsConfigError(err) {
		t.Fatalf("inverted thresholds: expected ConfigError, got %v", err)
	}
	if _, err := New(Config{Strategy: domsvc.StrategyLineCrossing, Line1Col: "macd"}, nil); !models.IsConfigError(err) {
		t.Fatalf("missing line2_col: expected ConfigError, got %v", err)
	}
}

func TestDetectDataAndColumnErrors(t *testing.T) {
	d, err := New(Config{Strategy: domsvc.StrategyZeroCrossing, IndicatorCol: "osc"}, nil)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}

	empty := models.NewFrame(nil)
	if _, err := d.Detect(context.Background(), empty); !models.IsDataError(err) {
		t.Fatalf("empty frame: expected DataError, got %v", err)
	}

	// Frame is structurally valid but lacks the bound indicator column.
	f := newTestFrame(t, 5, nil)
	if _, err := d.Detect(context.Background(), f); !models.IsConfigError(err) {
		t.Fatalf("missing indicator column: expected ConfigError, got %v", err)
	}
}

func assertZoneInvariants(t *testing.T, zones []*models.Zone, n int) {
	t.Helper()
	for i, z := range zones {
		if z.StartIdx > z.EndIdx {
			t.Fatalf("zone %d: inverted bounds %d..%d", i, z.StartIdx, z.EndIdx)
		}
		if z.StartIdx < 0 || z.EndIdx >= n {
			t.Fatalf("zone %d: bounds %d..%d outside frame of %d rows", i, z.StartIdx, z.EndIdx, n)
		}
		if z.Len() != z.EndIdx-z.StartIdx+1 {
			t.Fatalf("zone %d: length mismatch", i)
		}
		if z.Data.Len() != z.Len() {
			t.Fatalf("zone %d: data slice length %d != zone length %d", i, z.Data.Len(), z.Len())
		}
		if i > 0 && z.StartIdx <= zones[i-1].EndIdx {
			t.Fatalf("zone %d overlaps zone %d", i, i-1)
		}
		if z.ID != i {
			t.Fatalf("zone %d: expected sequential id, got %d", i, z.ID)
		}
	}
}
