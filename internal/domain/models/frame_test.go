package models

import (
	"testing"
	"time"
)

func testTimes(n int) []time.Time {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.Add(time.Duration(i) * time.Minute)
	}
	return times
}

func ohlcvFrame(t *testing.T, n int) *Frame {
	t.Helper()
	f := NewFrame(testTimes(n))
	for _, name := range RequiredColumns {
		col := make([]float64, n)
		for i := range col {
			col[i] = float64(i + 1)
		}
		if err := f.AddColumn(name, col); err != nil {
			t.Fatalf("add column %s: %v", name, err)
		}
	}
	return f
}

func TestAddColumnErrors(t *testing.T) {
	f := NewFrame(testTimes(3))

	if err := f.AddColumn("osc", []float64{1, 2}); !IsDataError(err) {
		t.Fatalf("length mismatch should be a DataError, got %v", err)
	}
	if err := f.AddColumn("osc", []float64{1, 2, 3}); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := f.AddColumn("osc", []float64{4, 5, 6}); !IsDataError(err) {
		t.Fatalf("duplicate column should be a DataError, got %v", err)
	}
}

func TestColumnsStableOrder(t *testing.T) {
	f := NewFrame(testTimes(1))
	for _, name := range []string{"b", "a", "c"} {
		if err := f.AddColumn(name, []float64{0}); err != nil {
			t.Fatalf("add column: %v", err)
		}
	}
	got := f.Columns()
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected insertion order %v, got %v", want, got)
		}
	}
}

func TestSliceSharesStorage(t *testing.T) {
	f := ohlcvFrame(t, 10)
	sub := f.Slice(3, 6)

	if sub.Len() != 4 {
		t.Fatalf("expected 4 rows in slice, got %d", sub.Len())
	}
	if !sub.Time(0).Equal(f.Time(3)) {
		t.Fatalf("slice must start at the parent's row 3")
	}

	// The view aliases the parent's storage.
	parent, _ := f.Column(ColClose)
	parent[4] = 999
	if sub.Value(1, ColClose) != 999 {
		t.Fatalf("slice should observe writes to the parent column")
	}
}

func TestValidate(t *testing.T) {
	if err := NewFrame(nil).Validate(); !IsDataError(err) {
		t.Fatalf("empty frame should fail validation, got %v", err)
	}

	partial := NewFrame(testTimes(2))
	if err := partial.AddColumn(ColClose, []float64{1, 2}); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := partial.Validate(); !IsDataError(err) {
		t.Fatalf("missing OHLCV columns should fail validation, got %v", err)
	}

	times := testTimes(3)
	times[1], times[2] = times[2], times[1]
	unordered := NewFrame(times)
	for _, name := range RequiredColumns {
		if err := unordered.AddColumn(name, []float64{1, 2, 3}); err != nil {
			t.Fatalf("add column: %v", err)
		}
	}
	if err := unordered.Validate(); !IsDataError(err) {
		t.Fatalf("non-ascending timestamps should fail validation, got %v", err)
	}

	if err := ohlcvFrame(t, 3).Validate(); err != nil {
		t.Fatalf("complete frame should validate, got %v", err)
	}
}

func TestZoneSpan(t *testing.T) {
	f := ohlcvFrame(t, 10)
	z := NewZone(2, ZoneBearish, f, 4, 7, NewIndicatorContext())

	if z.Len() != 4 {
		t.Fatalf("expected span of 4 rows, got %d", z.Len())
	}
	if !z.StartTime.Equal(f.Time(4)) || !z.EndTime.Equal(f.Time(7)) {
		t.Fatalf("zone bounds do not match frame timestamps")
	}
	if z.Duration != 3*time.Minute {
		t.Fatalf("expected 3m duration, got %v", z.Duration)
	}
	if z.Data.Len() != 4 {
		t.Fatalf("zone data slice must cover the span, got %d rows", z.Data.Len())
	}
}

func TestSummarize(t *testing.T) {
	f := ohlcvFrame(t, 20)
	zones := []*Zone{
		NewZone(0, ZoneBullish, f, 0, 2, NewIndicatorContext()),
		NewZone(1, ZoneBearish, f, 3, 9, NewIndicatorContext()),
		NewZone(2, ZoneBullish, f, 10, 14, NewIndicatorContext()),
	}

	s := Summarize("AAPL", "zero_crossing", zones)
	if s.ZoneCount != 3 {
		t.Fatalf("expected 3 zones, got %d", s.ZoneCount)
	}
	if s.CountByType[ZoneBullish] != 2 || s.CountByType[ZoneBearish] != 1 {
		t.Fatalf("unexpected type counts: %v", s.CountByType)
	}
	if s.MinDuration != 2*time.Minute || s.MaxDuration != 6*time.Minute {
		t.Fatalf("unexpected min/max: %v / %v", s.MinDuration, s.MaxDuration)
	}
	if s.AvgDuration != 4*time.Minute {
		t.Fatalf("expected 4m average, got %v", s.AvgDuration)
	}

	empty := Summarize("AAPL", "zero_crossing", nil)
	if empty.ZoneCount != 0 || len(empty.CountByType) != 0 {
		t.Fatalf("empty run should summarize to zero, got %+v", empty)
	}
}
