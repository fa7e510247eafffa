package models

import "time"

// ZoneType classifies the regime a zone belongs to.
type ZoneType string

const (
	ZoneBullish ZoneType = "bullish"
	ZoneBearish ZoneType = "bearish"
	ZoneNeutral ZoneType = "neutral"
)

// IndicatorContext is the self-describing record a zone carries, naming which
// column(s) and strategy produced it. It is written once by the detector at
// zone creation and never mutated afterward. Unset fields are nil pointers;
// Rules is always non-nil.
type IndicatorContext struct {
	DetectionIndicator *string        `json:"detection_indicator"`
	DetectionStrategy  *string        `json:"detection_strategy"`
	SignalLine         *string        `json:"signal_line"`
	DetectionRules     map[string]any `json:"detection_rules"`
}

// NewIndicatorContext creates a context with an empty rules map.
func NewIndicatorContext() IndicatorContext {
	return IndicatorContext{DetectionRules: map[string]any{}}
}

// PrimaryIndicatorColumn returns the column the detector segmented on, or nil
// when unknown. Callers treat nil as "use fallback", not as an error.
func (c IndicatorContext) PrimaryIndicatorColumn() *string { return c.DetectionIndicator }

// SignalLineColumn returns the secondary line column for two-line detectors,
// or nil when unset.
func (c IndicatorContext) SignalLineColumn() *string { return c.SignalLine }

// Zone is a contiguous index range of the sample table sharing one detected
// regime. Immutable after creation except for the single Features write
// performed by the feature extractor.
type Zone struct {
	ID        int              `json:"id"`
	Type      ZoneType         `json:"type"`
	StartIdx  int              `json:"start_idx"`
	EndIdx    int              `json:"end_idx"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Duration  time.Duration    `json:"duration"`
	Data      *Frame           `json:"-"`
	Features  *ZoneFeatures    `json:"features,omitempty"`
	Context   IndicatorContext `json:"indicator_context"`
}

// NewZone builds a zone over frame rows [startIdx, endIdx] with its context.
func NewZone(id int, ztype ZoneType, frame *Frame, startIdx, endIdx int, ctx IndicatorContext) *Zone {
	start := frame.Time(startIdx)
	end := frame.Time(endIdx)
	return &Zone{
		ID:        id,
		Type:      ztype,
		StartIdx:  startIdx,
		EndIdx:    endIdx,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Data:      frame.Slice(startIdx, endIdx),
		Context:   ctx,
	}
}

// Len returns the number of samples inside the zone span.
func (z *Zone) Len() int { return z.EndIdx - z.StartIdx + 1 }
