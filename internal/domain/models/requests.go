package models

// Requests for the zones HTTP endpoints. Defined in domain for consistency and reuse.

type DetectRequest struct {
	Symbol         string   `query:"symbol" json:"symbol" validate:"required"`
	From           string   `query:"from" json:"from"`
	To             string   `query:"to" json:"to"`
	N              int      `query:"n" json:"n" default:"600" validate:"gte=1,lte=50000"`
	Strategy       string   `query:"strategy" json:"strategy" default:"zero_crossing" validate:"oneof=zero_crossing threshold_band line_crossing"`
	IndicatorCol   string   `query:"indicator_col" json:"indicator_col"`
	UpperThreshold *float64 `query:"upper_threshold" json:"upper_threshold"`
	LowerThreshold *float64 `query:"lower_threshold" json:"lower_threshold"`
	Line1Col       string   `query:"line1_col" json:"line1_col"`
	Line2Col       string   `query:"line2_col" json:"line2_col"`
	MinZoneLength  int      `query:"min_zone_length" json:"min_zone_length" default:"1" validate:"gte=0,lte=10000"`
	KeepShortEdges bool     `query:"keep_short_edges" json:"keep_short_edges"`
}

type SummaryRequest struct {
	Symbol       string `query:"symbol" json:"symbol" validate:"required"`
	N            int    `query:"n" json:"n" default:"600" validate:"gte=1,lte=50000"`
	Strategy     string `query:"strategy" json:"strategy" default:"zero_crossing" validate:"oneof=zero_crossing threshold_band line_crossing"`
	IndicatorCol string `query:"indicator_col" json:"indicator_col"`
}

// DetectResult is the HTTP payload for a completed detection run.
type DetectResult struct {
	Summary RunSummary `json:"summary"`
	Zones   []*Zone    `json:"zones"`
}
