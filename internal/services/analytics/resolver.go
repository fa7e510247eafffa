package analytics

import (
	"strings"

	"ZoneFlow/internal/domain/models"
)

// structuralColumns are never indicator candidates: price, volume, time and
// bookkeeping columns. Matching is case-insensitive.
var structuralColumns = map[string]struct{}{
	"open": {}, "high": {}, "low": {}, "close": {}, "volume": {},
	"time": {}, "timestamp": {}, "date": {}, "datetime": {},
	"atr": {}, "true_range": {}, "tr": {},
	"index": {}, "id": {}, "zone_id": {},
}

// ResolveIndicatorColumn picks the first non-structural column of the frame
// in its stable column order. It is the fallback when a zone's context names
// no usable indicator. Nil when every column is structural.
func ResolveIndicatorColumn(f *models.Frame) *string {
	for _, name := range f.Columns() {
		if _, structural := structuralColumns[strings.ToLower(name)]; !structural {
			col := name
			return &col
		}
	}
	return nil
}
