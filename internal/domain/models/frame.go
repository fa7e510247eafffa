package models

import (
	"math"
	"strings"
	"time"
)

// Required structural columns every frame carries.
const (
	ColOpen   = "open"
	ColHigh   = "high"
	ColLow    = "low"
	ColClose  = "close"
	ColVolume = "volume"
)

// RequiredColumns lists the OHLCV columns a frame must contain.
var RequiredColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// Frame is an ordered sample table: ascending timestamps plus named numeric
// columns in a stable order. Cells may be NaN. Frames are treated as read-only
// by detectors and strategies; Slice returns a view sharing storage.
type Frame struct {
	times   []time.Time
	columns map[string][]float64
	order   []string
}

// NewFrame creates an empty frame for the given timestamps.
func NewFrame(times []time.Time) *Frame {
	return &Frame{
		times:   times,
		columns: make(map[string][]float64),
	}
}

// AddColumn appends a named column. Column order is insertion order.
// Adding a column whose length differs from the timestamp count, or a
// duplicate name, returns a DataError.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.times) {
		return NewDataError(name, f.order, "column length does not match row count")
	}
	if _, ok := f.columns[name]; ok {
		return NewDataError(name, f.order, "duplicate column")
	}
	f.columns[name] = values
	f.order = append(f.order, name)
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.times) }

// Times returns the timestamp column.
func (f *Frame) Times() []time.Time { return f.times }

// Time returns the timestamp at row i.
func (f *Frame) Time(i int) time.Time { return f.times[i] }

// Column returns the named column's values, or false if absent.
func (f *Frame) Column(name string) ([]float64, bool) {
	v, ok := f.columns[name]
	return v, ok
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Columns returns column names in stable order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Value returns the cell at (row, column); NaN if the column is absent.
func (f *Frame) Value(i int, name string) float64 {
	v, ok := f.columns[name]
	if !ok {
		return math.NaN()
	}
	return v[i]
}

// Slice returns a view over rows [from, to] inclusive. The view shares the
// underlying storage; callers must not mutate it.
func (f *Frame) Slice(from, to int) *Frame {
	sub := &Frame{
		times:   f.times[from : to+1],
		columns: make(map[string][]float64, len(f.columns)),
		order:   f.order,
	}
	for name, vals := range f.columns {
		sub.columns[name] = vals[from : to+1]
	}
	return sub
}

// MissingColumns returns the subset of names absent from the frame.
func (f *Frame) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !f.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Validate checks the structural invariants a detection run relies on:
// non-empty rows, required OHLCV columns, ascending timestamps.
func (f *Frame) Validate() error {
	if f.Len() == 0 {
		return NewDataError("", f.order, "empty frame")
	}
	if missing := f.MissingColumns(RequiredColumns...); len(missing) > 0 {
		return NewDataError(strings.Join(missing, ","), f.order, "required columns missing")
	}
	for i := 1; i < len(f.times); i++ {
		if f.times[i].Before(f.times[i-1]) {
			return NewDataError("", f.order, "timestamps not ascending")
		}
	}
	return nil
}
