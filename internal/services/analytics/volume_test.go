package analytics

import (
	"math"
	"testing"

	"ZoneFlow/internal/domain/models"
)

func TestVolumeAgainstBaseline(t *testing.T) {
	f := buildFrame(t, 4, map[string][]float64{
		models.ColVolume: {10, 10, 10, 10},
	}, models.ColVolume)

	baseline := 5.0
	m, err := NewVolume(nil).Calculate(f, &baseline, nil)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.AvgZoneVolume != 10 {
		t.Fatalf("expected avg volume 10, got %v", m.AvgZoneVolume)
	}
	if m.ZoneVolumeRatio == nil || *m.ZoneVolumeRatio != 2 {
		t.Fatalf("expected ratio 2, got %v", m.ZoneVolumeRatio)
	}
	if m.EntryVolumeChange == nil || *m.EntryVolumeChange != 1 {
		t.Fatalf("expected entry change 1, got %v", m.EntryVolumeChange)
	}
}

func TestVolumeWithoutBaseline(t *testing.T) {
	f := buildFrame(t, 3, map[string][]float64{
		models.ColVolume: {4, 6, 8},
	}, models.ColVolume)

	m, err := NewVolume(nil).Calculate(f, nil, nil)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.ZoneVolumeRatio != nil || m.EntryVolumeChange != nil {
		t.Fatalf("ratio metrics must be nil without a baseline, got %+v", m)
	}
	if m.AvgZoneVolume != 6 {
		t.Fatalf("expected avg volume 6, got %v", m.AvgZoneVolume)
	}
}

func TestVolumeIndicatorCorrelation(t *testing.T) {
	vol := []float64{1, 2, 3, 4, 5}
	f := buildFrame(t, 5, map[string][]float64{
		models.ColVolume: vol,
		"osc":            {2, 4, 6, 8, 10},
	}, models.ColVolume, "osc")

	col := "osc"
	m, err := NewVolume(nil).Calculate(f, nil, &col)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.VolumeIndicatorCorr == nil {
		t.Fatalf("expected a correlation value")
	}
	if math.Abs(*m.VolumeIndicatorCorr-1) > 1e-6 {
		t.Fatalf("perfectly correlated series should give r=1, got %v", *m.VolumeIndicatorCorr)
	}
}

func TestVolumeDegenerateCorrelation(t *testing.T) {
	f := buildFrame(t, 4, map[string][]float64{
		models.ColVolume: {3, 3, 3, 3},
		"osc":            {1, 2, 3, 4},
	}, models.ColVolume, "osc")

	col := "osc"
	m, err := NewVolume(nil).Calculate(f, nil, &col)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.VolumeIndicatorCorr != nil {
		t.Fatalf("zero-variance volume must yield nil correlation, got %v", *m.VolumeIndicatorCorr)
	}
}

func TestVolumeMissingColumn(t *testing.T) {
	f := buildFrame(t, 3, map[string][]float64{models.ColClose: {1, 2, 3}}, models.ColClose)
	if _, err := NewVolume(nil).Calculate(f, nil, nil); !models.IsDataError(err) {
		t.Fatalf("expected DataError for missing volume column, got %v", err)
	}
}
