package analytics

import (
	"math"
	"testing"

	"ZoneFlow/internal/domain/models"
)

func TestShapeSymmetricDistribution(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	f := buildFrame(t, 5, map[string][]float64{"osc": vals}, "osc")

	m, err := NewShape(nil).Calculate(f, "osc")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if math.Abs(m.Skewness) > 1e-9 {
		t.Fatalf("symmetric data should have zero skewness, got %v", m.Skewness)
	}
	if m.Smoothness == nil {
		t.Fatalf("expected smoothness for a 5-sample series")
	}
	// First differences are all 1, so their deviation is zero.
	if *m.Smoothness != 0 {
		t.Fatalf("linear series should be perfectly smooth, got %v", *m.Smoothness)
	}
}

func TestShapeRightTailedDistribution(t *testing.T) {
	vals := []float64{1, 1, 1, 1, 10}
	f := buildFrame(t, 5, map[string][]float64{"osc": vals}, "osc")

	m, err := NewShape(nil).Calculate(f, "osc")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.Skewness < 0.3 {
		t.Fatalf("right-tailed data should be clearly positively skewed, got %v", m.Skewness)
	}
}

func TestShapeTooFewSamples(t *testing.T) {
	nan := math.NaN()
	vals := []float64{1, nan, 2, nan, nan}
	f := buildFrame(t, 5, map[string][]float64{"osc": vals}, "osc")

	m, err := NewShape(nil).Calculate(f, "osc")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if m.Skewness != 0 || m.Kurtosis != 3 || m.Smoothness != nil {
		t.Fatalf("expected neutral record for 2 usable samples, got %+v", m)
	}
}

func TestShapeMissingColumn(t *testing.T) {
	f := buildFrame(t, 3, map[string][]float64{"close": {1, 2, 3}}, "close")
	_, err := NewShape(nil).Calculate(f, "osc")
	if !models.IsDataError(err) {
		t.Fatalf("expected DataError for missing column, got %v", err)
	}
}
