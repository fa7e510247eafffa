package detect

import (
	"ZoneFlow/internal/domain/models"
)

// regime is the classification driving zone boundaries: sign, band
// membership, or crossing direction.
type regime int8

const (
	regimeNegative regime = -1
	regimeNeutral  regime = 0
	regimePositive regime = 1
)

func (r regime) zoneType() models.ZoneType {
	switch r {
	case regimePositive:
		return models.ZoneBullish
	case regimeNegative:
		return models.ZoneBearish
	default:
		return models.ZoneNeutral
	}
}

// span is a half-open zone candidate produced by the scanner.
type span struct {
	start, end int
	r          regime
}

// regimeFunc classifies row i. ok=false means the signal is missing (NaN)
// at that row; the scanner keeps such rows inside the current span.
type regimeFunc func(i int) (r regime, ok bool)

// scan performs the single stateful pass shared by all detector variants.
// Rules: the first span opens at the first row with a known regime (leading
// unknown rows belong to no span); a missing value neither opens nor closes
// a span; a boundary is declared only at the first non-missing row whose
// regime differs from the last known regime.
func scan(n int, at regimeFunc) []span {
	var spans []span
	cur := regimeNeutral
	start := -1
	for i := 0; i < n; i++ {
		r, ok := at(i)
		if !ok {
			continue
		}
		if start < 0 {
			start = i
			cur = r
			continue
		}
		if r != cur {
			spans = append(spans, span{start: start, end: i - 1, r: cur})
			start = i
			cur = r
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: n - 1, r: cur})
	}
	return spans
}

// trimEdges applies the minimum-length policy: undersized first/last spans
// are dropped unless keepShortEdges is set. Interior spans are always kept.
func trimEdges(spans []span, minLen int, keepShortEdges bool) []span {
	if minLen <= 1 || keepShortEdges || len(spans) == 0 {
		return spans
	}
	if first := spans[0]; first.end-first.start+1 < minLen {
		spans = spans[1:]
	}
	if len(spans) > 0 {
		if last := spans[len(spans)-1]; last.end-last.start+1 < minLen {
			spans = spans[:len(spans)-1]
		}
	}
	return spans
}

// buildZones materializes spans into zones over the frame, stamping each with
// the detector-provided context. IDs are sequential within the run.
func buildZones(frame *models.Frame, spans []span, ctx models.IndicatorContext) []*models.Zone {
	zones := make([]*models.Zone, 0, len(spans))
	for i, sp := range spans {
		zones = append(zones, models.NewZone(i, sp.r.zoneType(), frame, sp.start, sp.end, ctx))
	}
	return zones
}
