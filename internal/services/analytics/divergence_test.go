package analytics

import (
	"testing"

	"ZoneFlow/internal/domain/models"
)

func divergenceFrame(t *testing.T, lows, ind []float64) *models.Frame {
	t.Helper()
	n := len(lows)
	return buildFrame(t, n, map[string][]float64{
		models.ColClose: lows,
		models.ColHigh:  constCol(n, 110),
		models.ColLow:   lows,
		"osc":           ind,
	}, models.ColClose, models.ColHigh, models.ColLow, "osc")
}

func TestDivergenceBullish(t *testing.T) {
	// Price makes a lower low while the indicator makes a higher low.
	lows := []float64{100, 95, 100, 90, 100}
	ind := []float64{0, -3, 0, -1, 0}
	f := divergenceFrame(t, lows, ind)

	s := NewDivergence(DivergenceConfig{MinPeakDistance: 2, MinStrength: 0.01, ProminenceFrac: 0.1}, nil)
	m, err := s.Calculate(f, "osc", nil)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.BullishCount != 1 {
		t.Fatalf("expected 1 bullish divergence, got %+v", m)
	}
	if m.DominantType != models.DivergenceBullish || m.Direction != models.DivergenceBullish {
		t.Fatalf("expected bullish dominant type, got %s", m.DominantType)
	}
	if m.AvgStrength < 0.01 {
		t.Fatalf("expected non-trivial strength, got %v", m.AvgStrength)
	}
}

func TestDivergenceNoneOnAgreement(t *testing.T) {
	// Price and indicator lows move together: no disagreement.
	lows := []float64{100, 95, 100, 90, 100}
	ind := []float64{0, -1, 0, -3, 0}
	f := divergenceFrame(t, lows, ind)

	s := NewDivergence(DivergenceConfig{MinPeakDistance: 2, MinStrength: 0.01, ProminenceFrac: 0.1}, nil)
	m, err := s.Calculate(f, "osc", nil)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.DivergenceCount != 0 || m.DominantType != models.DivergenceNone {
		t.Fatalf("expected no divergence, got %+v", m)
	}
}

func TestDivergenceShortZone(t *testing.T) {
	lows := []float64{100, 95, 100}
	ind := []float64{0, -1, 0}
	f := divergenceFrame(t, lows, ind)

	s := NewDivergence(DivergenceConfig{MinPeakDistance: 2, MinStrength: 0.01, ProminenceFrac: 0.1}, nil)
	m, err := s.Calculate(f, "osc", nil)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.DivergenceCount != 0 || m.DominantType != models.DivergenceNone {
		t.Fatalf("zones shorter than two extremum windows must yield an empty record, got %+v", m)
	}
}

func TestDivergenceMissingColumn(t *testing.T) {
	f := buildFrame(t, 3, map[string][]float64{models.ColClose: {1, 2, 3}}, models.ColClose)
	s := NewDivergence(DivergenceConfig{}, nil)
	if _, err := s.Calculate(f, "osc", nil); !models.IsDataError(err) {
		t.Fatalf("expected DataError for missing inputs, got %v", err)
	}
}

func TestFindPeaksMinDistance(t *testing.T) {
	// Two close peaks: the higher one wins under the distance constraint.
	xs := []float64{0, 5, 0, 6, 0, 0, 0, 4, 0}
	peaks := findPeaks(xs, 3, 1)
	if len(peaks) != 2 {
		t.Fatalf("expected 2 peaks after suppression, got %v", peaks)
	}
	if peaks[0] != 3 || peaks[1] != 7 {
		t.Fatalf("expected peaks at 3 and 7, got %v", peaks)
	}
}
