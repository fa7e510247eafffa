package analytics

import (
	"testing"
)

func TestResolveIndicatorColumn(t *testing.T) {
	cols := map[string][]float64{
		"open": {1}, "high": {1}, "low": {1}, "close": {1}, "volume": {1},
		"ATR": {1}, "CUSTOM_X": {1}, "rsi": {1},
	}
	f := buildFrame(t, 1, cols, "open", "high", "low", "close", "volume", "ATR", "CUSTOM_X", "rsi")

	got := ResolveIndicatorColumn(f)
	if got == nil || *got != "CUSTOM_X" {
		t.Fatalf("expected first non-structural column CUSTOM_X, got %v", got)
	}
}

func TestResolveIndicatorColumnNone(t *testing.T) {
	cols := map[string][]float64{
		"open": {1}, "high": {1}, "low": {1}, "close": {1}, "volume": {1},
	}
	f := buildFrame(t, 1, cols, "open", "high", "low", "close", "volume")

	if got := ResolveIndicatorColumn(f); got != nil {
		t.Fatalf("all-structural frame should resolve to nil, got %q", *got)
	}
}
