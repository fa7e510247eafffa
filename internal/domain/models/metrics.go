package models

import "time"

// ShapeMetrics describes the distribution of indicator values inside a zone.
// Kurtosis is the Pearson definition (normal distribution = 3). Smoothness is
// the standard deviation of the first difference, nil when not computable.
type ShapeMetrics struct {
	Skewness       float64        `json:"skewness"`
	Kurtosis       float64        `json:"kurtosis"`
	Smoothness     *float64       `json:"smoothness"`
	StrategyParams map[string]any `json:"strategy_params"`
}

// DivergenceType classifies the dominant disagreement between price and
// indicator extrema.
type DivergenceType string

const (
	DivergenceBullish DivergenceType = "bullish"
	DivergenceBearish DivergenceType = "bearish"
	DivergenceMixed   DivergenceType = "mixed"
	DivergenceNone    DivergenceType = "none"
)

// DivergenceMetrics aggregates the divergences found inside a zone.
type DivergenceMetrics struct {
	DivergenceCount int            `json:"divergence_count"`
	BullishCount    int            `json:"bullish_count"`
	BearishCount    int            `json:"bearish_count"`
	DominantType    DivergenceType `json:"dominant_type"`
	AvgStrength     float64        `json:"avg_strength"`
	Direction       DivergenceType `json:"direction"`
	StrategyParams  map[string]any `json:"strategy_params"`
}

// VolumeMetrics describes zone volume relative to a baseline and to the
// detection indicator. Optional metrics are nil when their inputs are missing.
type VolumeMetrics struct {
	ZoneVolumeRatio     *float64       `json:"zone_volume_ratio"`
	EntryVolumeChange   *float64       `json:"entry_volume_change"`
	VolumeIndicatorCorr *float64       `json:"volume_indicator_corr"`
	AvgZoneVolume       float64        `json:"avg_zone_volume"`
	StrategyParams      map[string]any `json:"strategy_params"`
}

// ZoneFeatures is the merged per-zone feature bag assembled by the extractor.
// A nil metric group means that strategy failed or timed out for this zone;
// Errors records why, keyed by group name.
type ZoneFeatures struct {
	Shape          *ShapeMetrics      `json:"shape"`
	Divergence     *DivergenceMetrics `json:"divergence"`
	Volume         *VolumeMetrics     `json:"volume"`
	ResolvedColumn *string            `json:"resolved_column"`
	TimedOut       bool               `json:"timed_out,omitempty"`
	Errors         map[string]string  `json:"errors,omitempty"`
}

// RunSummary holds run-level aggregates over the detected zones.
type RunSummary struct {
	Symbol      string           `json:"symbol"`
	Strategy    string           `json:"strategy"`
	ZoneCount   int              `json:"zone_count"`
	CountByType map[ZoneType]int `json:"count_by_type"`
	MinDuration time.Duration    `json:"min_duration"`
	MaxDuration time.Duration    `json:"max_duration"`
	AvgDuration time.Duration    `json:"avg_duration"`
}

// Summarize computes run-level aggregates for an ordered zone list.
func Summarize(symbol, strategy string, zones []*Zone) RunSummary {
	s := RunSummary{
		Symbol:      symbol,
		Strategy:    strategy,
		ZoneCount:   len(zones),
		CountByType: map[ZoneType]int{},
	}
	if len(zones) == 0 {
		return s
	}
	var total time.Duration
	s.MinDuration = zones[0].Duration
	for _, z := range zones {
		s.CountByType[z.Type]++
		total += z.Duration
		if z.Duration < s.MinDuration {
			s.MinDuration = z.Duration
		}
		if z.Duration > s.MaxDuration {
			s.MaxDuration = z.Duration
		}
	}
	s.AvgDuration = total / time.Duration(len(zones))
	return s
}
