package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"ZoneFlow/internal/domain/models"
)

type stubShape struct {
	err   error
	delay time.Duration
}

func (s stubShape) Calculate(f *models.Frame, col string) (models.ShapeMetrics, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return models.ShapeMetrics{}, s.err
	}
	return models.ShapeMetrics{Skewness: 0.5, Kurtosis: 3, StrategyParams: map[string]any{"indicator_col": col}}, nil
}

type stubDivergence struct{ err error }

func (s stubDivergence) Calculate(f *models.Frame, col string, line *string) (models.DivergenceMetrics, error) {
	if s.err != nil {
		return models.DivergenceMetrics{}, s.err
	}
	return models.DivergenceMetrics{DominantType: models.DivergenceNone, Direction: models.DivergenceNone}, nil
}

type stubVolume struct {
	err          error
	gotBaselines []*float64
}

func (s *stubVolume) Calculate(f *models.Frame, baseline *float64, col *string) (models.VolumeMetrics, error) {
	s.gotBaselines = append(s.gotBaselines, baseline)
	if s.err != nil {
		return models.VolumeMetrics{}, s.err
	}
	return models.VolumeMetrics{AvgZoneVolume: 7}, nil
}

func extractorFrame(t *testing.T, n int) *models.Frame {
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
			col[i] = float64(i + 1)
		}
		if err := f.AddColumn(name, col); err != nil {
			t.Fatalf("add column: %v", err)
		}
	}
	osc := make([]float64, n)
	for i := range osc {
		osc[i] = float64(i%5) - 2
	}
	if err := f.AddColumn("osc", osc); err != nil {
		t.Fatalf("add column: %v", err)
	}
	return f
}

func zoneOver(f *models.Frame, id, start, end int) *models.Zone {
	ctx := models.NewIndicatorContext()
	ind := "osc"
	ctx.DetectionIndicator = &ind
	return models.NewZone(id, models.ZoneBullish, f, start, end, ctx)
}

func TestExtractAllStrategiesSucceed(t *testing.T) {
	f := extractorFrame(t, 20)
	z := zoneOver(f, 0, 5, 9)

	vol := &stubVolume{}
	e := NewFeatureExtractor(stubShape{}, stubDivergence{}, vol, 2, 0, nil)
	feats := e.Extract(context.Background(), f, z)

	if feats.Shape == nil || feats.Divergence == nil || feats.Volume == nil {
		t.Fatalf("all groups should be populated: %+v", feats)
	}
	if feats.Errors != nil {
		t.Fatalf("no errors expected, got %v", feats.Errors)
	}
	if feats.ResolvedColumn == nil || *feats.ResolvedColumn != "osc" {
		t.Fatalf("expected context indicator to win, got %v", feats.ResolvedColumn)
	}
}

func TestExtractFailureIsolation(t *testing.T) {
	f := extractorFrame(t, 20)
	z := zoneOver(f, 0, 5, 9)

	e := NewFeatureExtractor(stubShape{err: errors.New("degenerate")}, stubDivergence{}, &stubVolume{}, 2, 0, nil)
	feats := e.Extract(context.Background(), f, z)

	if feats.Shape != nil {
		t.Fatalf("failed strategy must leave a nil group")
	}
	if feats.Divergence == nil || feats.Volume == nil {
		t.Fatalf("other strategies must still run: %+v", feats)
	}
	if feats.Errors["shape"] != "degenerate" {
		t.Fatalf("expected recorded failure reason, got %v", feats.Errors)
	}
}

func TestExtractIdempotent(t *testing.T) {
	f := extractorFrame(t, 20)
	e := NewFeatureExtractor(stubShape{}, stubDivergence{}, &stubVolume{}, 2, 0, nil)

	a := e.Extract(context.Background(), f, zoneOver(f, 0, 5, 9))
	b := e.Extract(context.Background(), f, zoneOver(f, 0, 5, 9))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("extraction must be deterministic: %+v vs %+v", a, b)
	}
}

func TestExtractAllPreservesOrderAcrossWorkers(t *testing.T) {
	f := extractorFrame(t, 40)
	var zones []*models.Zone
	for i := 0; i < 8; i++ {
		zones = append(zones, zoneOver(f, i, i*5, i*5+4))
	}

	e := NewFeatureExtractor(stubShape{}, stubDivergence{}, &stubVolume{}, 4, 0, nil)
	e.ExtractAll(context.Background(), f, zones)

	for i, z := range zones {
		if z.Features == nil {
			t.Fatalf("zone %d missing features", i)
		}
		if z.ID != i {
			t.Fatalf("zone order disturbed at %d", i)
		}
	}
}

func TestExtractTimeout(t *testing.T) {
	f := extractorFrame(t, 20)
	z := zoneOver(f, 0, 5, 9)

	e := NewFeatureExtractor(stubShape{delay: 200 * time.Millisecond}, stubDivergence{}, &stubVolume{}, 1, 10*time.Millisecond, nil)
	feats := e.Extract(context.Background(), f, z)

	if !feats.TimedOut {
		t.Fatalf("expected timed out feature bag, got %+v", feats)
	}
	if feats.Shape != nil || feats.Divergence != nil || feats.Volume != nil {
		t.Fatalf("timeout must null every metric group, got %+v", feats)
	}
}

func TestBaselineVolume(t *testing.T) {
	f := extractorFrame(t, 20)

	if b := baselineVolume(f, zoneOver(f, 0, 0, 4)); b != nil {
		t.Fatalf("zone at row zero has no baseline, got %v", *b)
	}

	// Zone rows 10..14; baseline window is rows 5..9 with volumes 6..10.
	b := baselineVolume(f, zoneOver(f, 1, 10, 14))
	if b == nil || *b != 8 {
		t.Fatalf("expected baseline 8, got %v", b)
	}

	// Window clips at the frame start when fewer rows precede the zone.
	b = baselineVolume(f, zoneOver(f, 2, 3, 9))
	if b == nil || *b != 2 {
		t.Fatalf("expected clipped baseline 2, got %v", b)
	}
}

func TestExtractNoIndicator(t *testing.T) {
	// Frame with only structural columns: nothing to resolve.
	times := make([]time.Time, 6)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = base.Add(time.Duration(i) * time.Minute)
	}
	f := models.NewFrame(times)
	for _, name := range models.RequiredColumns {
		if err := f.AddColumn(name, []float64{1, 2, 3, 4, 5, 6}); err != nil {
			t.Fatalf("add column: %v", err)
		}
	}
	z := models.NewZone(0, models.ZoneBullish, f, 1, 4, models.NewIndicatorContext())

	vol := &stubVolume{}
	e := NewFeatureExtractor(stubShape{}, stubDivergence{}, vol, 1, 0, nil)
	feats := e.Extract(context.Background(), f, z)

	if feats.ResolvedColumn != nil {
		t.Fatalf("expected nil resolved column, got %q", *feats.ResolvedColumn)
	}
	if feats.Errors["shape"] == "" || feats.Errors["divergence"] == "" {
		t.Fatalf("indicator-dependent strategies must record an error: %v", feats.Errors)
	}
	if feats.Volume == nil {
		t.Fatalf("volume must still run without an indicator")
	}
}
