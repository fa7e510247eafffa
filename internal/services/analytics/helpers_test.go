package analytics

import (
	"testing"
	"time"

	"ZoneFlow/internal/domain/models"
)

// buildFrame creates a frame with the named columns added in order.
func buildFrame(t *testing.T, n int, cols map[string][]float64, order ...string) *models.Frame {
	t.Helper()
	times := make([]time.Time, n)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = base.Add(time.Duration(i) * time.Minute)
	}
	f := models.NewFrame(times)
	for _, name := range order {
		if err := f.AddColumn(name, cols[name]); err != nil {
			t.Fatalf("add column %s: %v", name, err)
		}
	}
	return f
}

func constCol(n int, v float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = v
	}
	return col
}
