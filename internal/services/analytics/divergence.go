package analytics

import (
	"math"

	"ZoneFlow/internal/domain/models"
	applogger "ZoneFlow/pkg/logger"
)

// DivergenceConfig tunes the extremum search and pair classification.
type DivergenceConfig struct {
	// MinStrength is the smallest relative indicator move between two matched
	// extrema that still counts as a divergence.
	MinStrength float64 `yaml:"min_strength" json:"min_strength" default:"0.01"`
	// MinPeakDistance is the minimum index distance between kept extrema and
	// the matching tolerance between price and indicator extrema.
	MinPeakDistance int `yaml:"min_peak_distance" json:"min_peak_distance" default:"5"`
	// ProminenceFrac scales the series standard deviation into the minimum
	// extremum prominence.
	ProminenceFrac float64 `yaml:"prominence_frac" json:"prominence_frac" default:"0.5"`
}

func (c *DivergenceConfig) applyDefaults() {
	if c.MinStrength <= 0 {
		c.MinStrength = 0.01
	}
	if c.MinPeakDistance <= 0 {
		c.MinPeakDistance = 5
	}
	if c.ProminenceFrac <= 0 {
		c.ProminenceFrac = 0.5
	}
}

// Divergence finds disagreements between price and indicator extrema inside a
// zone. A bullish divergence is a lower price low against a higher indicator
// low; bearish is a higher price high against a lower indicator high.
type Divergence struct {
	cfg DivergenceConfig
	l   *applogger.Logger
}

func NewDivergence(cfg DivergenceConfig, l *applogger.Logger) *Divergence {
	cfg.applyDefaults()
	return &Divergence{cfg: cfg, l: l}
}

func (s *Divergence) Calculate(frame *models.Frame, indicatorCol string, indicatorLineCol *string) (models.DivergenceMetrics, error) {
	required := []string{models.ColClose, models.ColHigh, models.ColLow, indicatorCol}
	if missing := frame.MissingColumns(required...); len(missing) > 0 {
		return models.DivergenceMetrics{}, models.NewDataError(missing[0], frame.Columns(), "divergence input column not present in zone data")
	}

	m := models.DivergenceMetrics{
		DominantType: models.DivergenceNone,
		Direction:    models.DivergenceNone,
		StrategyParams: map[string]any{
			"indicator_col":     indicatorCol,
			"min_strength":      s.cfg.MinStrength,
			"min_peak_distance": s.cfg.MinPeakDistance,
			"prominence_frac":   s.cfg.ProminenceFrac,
		},
	}
	if indicatorLineCol != nil {
		m.StrategyParams["indicator_line_col"] = *indicatorLineCol
	}

	// Zones shorter than two extremum windows cannot carry a pair of extrema.
	if frame.Len() < 2*s.cfg.MinPeakDistance {
		return m, nil
	}

	highs, _ := frame.Column(models.ColHigh)
	lows, _ := frame.Column(models.ColLow)
	ind, _ := frame.Column(indicatorCol)

	indProm := s.cfg.ProminenceFrac * stdDev(dropNaN(ind))

	var strengths []float64

	// Bearish: higher price highs with weakening indicator highs.
	pricePeaks := findPeaks(highs, s.cfg.MinPeakDistance, s.cfg.ProminenceFrac*stdDev(dropNaN(highs)))
	indPeaks := findPeaks(ind, s.cfg.MinPeakDistance, indProm)
	for _, pair := range pairDivergences(matchExtrema(pricePeaks, indPeaks, s.cfg.MinPeakDistance), highs, ind) {
		if pair.priceDelta > 0 && pair.indDelta < 0 && pair.strength >= s.cfg.MinStrength {
			m.BearishCount++
			strengths = append(strengths, pair.strength)
		}
	}

	// Bullish: lower price lows with strengthening indicator lows.
	priceTroughs := findTroughs(lows, s.cfg.MinPeakDistance, s.cfg.ProminenceFrac*stdDev(dropNaN(lows)))
	indTroughs := findTroughs(ind, s.cfg.MinPeakDistance, indProm)
	for _, pair := range pairDivergences(matchExtrema(priceTroughs, indTroughs, s.cfg.MinPeakDistance), lows, ind) {
		if pair.priceDelta < 0 && pair.indDelta > 0 && pair.strength >= s.cfg.MinStrength {
			m.BullishCount++
			strengths = append(strengths, pair.strength)
		}
	}

	m.DivergenceCount = m.BullishCount + m.BearishCount
	if len(strengths) > 0 {
		m.AvgStrength = mean(strengths)
	}
	switch {
	case m.BullishCount > m.BearishCount:
		m.DominantType = models.DivergenceBullish
	case m.BearishCount > m.BullishCount:
		m.DominantType = models.DivergenceBearish
	case m.DivergenceCount > 0:
		m.DominantType = models.DivergenceMixed
	}
	m.Direction = m.DominantType

	if s.l != nil && m.DivergenceCount > 0 {
		s.l.Debug("divergence: pairs classified",
			applogger.String("indicator", indicatorCol),
			applogger.Int("bullish", m.BullishCount),
			applogger.Int("bearish", m.BearishCount),
		)
	}
	return m, nil
}

// extremumPair holds the price and indicator movement between two consecutive
// matched extrema, plus the relative indicator move as strength.
type extremumPair struct {
	priceDelta float64
	indDelta   float64
	strength   float64
}

// pairDivergences walks consecutive matched extrema and measures the price
// and indicator movement between them. Pairs with NaN cells or a zero
// indicator base are skipped.
func pairDivergences(matched [][2]int, price, ind []float64) []extremumPair {
	var out []extremumPair
	for i := 1; i < len(matched); i++ {
		prevP, prevI := matched[i-1][0], matched[i-1][1]
		curP, curI := matched[i][0], matched[i][1]
		p0, p1 := price[prevP], price[curP]
		v0, v1 := ind[prevI], ind[curI]
		if math.IsNaN(p0) || math.IsNaN(p1) || math.IsNaN(v0) || math.IsNaN(v1) || v0 == 0 {
			continue
		}
		out = append(out, extremumPair{
			priceDelta: p1 - p0,
			indDelta:   v1 - v0,
			strength:   math.Abs((v1 - v0) / v0),
		})
	}
	return out
}
