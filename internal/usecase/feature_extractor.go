package usecase

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"ZoneFlow/internal/domain/models"
	domsvc "ZoneFlow/internal/domain/service"
	"ZoneFlow/internal/services/analytics"
	applogger "ZoneFlow/pkg/logger"
)

// FeatureExtractor runs every analytical strategy over every detected zone.
// A strategy failure degrades that zone's metric group to nil with the reason
// recorded; it never fails the zone or the run.
type FeatureExtractor struct {
	shape      domsvc.ShapeStrategy
	divergence domsvc.DivergenceStrategy
	volume     domsvc.VolumeStrategy
	workers    int
	perZoneTO  time.Duration
	l          *applogger.Logger
}

func NewFeatureExtractor(
	shape domsvc.ShapeStrategy,
	divergence domsvc.DivergenceStrategy,
	volume domsvc.VolumeStrategy,
	workers int,
	perZoneTimeout time.Duration,
	l *applogger.Logger,
) *FeatureExtractor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &FeatureExtractor{
		shape:      shape,
		divergence: divergence,
		volume:     volume,
		workers:    workers,
		perZoneTO:  perZoneTimeout,
		l:          l,
	}
}

// ExtractAll annotates zones in place over a bounded worker pool. Zone order
// is preserved; each zone's Features is written exactly once. The parent
// frame supplies the pre-zone volume baseline.
func (e *FeatureExtractor) ExtractAll(ctx context.Context, frame *models.Frame, zones []*models.Zone) {
	if len(zones) == 0 {
		return
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				zones[i].Features = e.Extract(ctx, frame, zones[i])
			}
		}()
	}
	// Cancellation stops dispatch; in-flight zones finish so no feature bag
	// is left partially written.
dispatch:
	for i := range zones {
		select {
		case <-ctx.Done():
			break dispatch
		case idx <- i:
		}
	}
	close(idx)
	wg.Wait()
}

// Extract computes the full feature bag for one zone. The zone context's
// detection indicator wins when its column exists in the zone data; otherwise
// the generic resolver picks a candidate. With no indicator at all, the
// indicator-dependent strategies record an error and the rest still run.
func (e *FeatureExtractor) Extract(ctx context.Context, frame *models.Frame, z *models.Zone) *models.ZoneFeatures {
	feats := &models.ZoneFeatures{Errors: map[string]string{}}

	indicator := z.Context.PrimaryIndicatorColumn()
	if indicator == nil || !z.Data.HasColumn(*indicator) {
		indicator = analytics.ResolveIndicatorColumn(z.Data)
	}
	feats.ResolvedColumn = indicator

	if e.perZoneTO > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.perZoneTO)
		defer cancel()
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 3)
	launched := 0

	if indicator != nil {
		launched++
		go func() {
			v, err := e.shape.Calculate(z.Data, *indicator)
			ch <- item{"shape", v, err}
		}()
		launched++
		go func() {
			v, err := e.divergence.Calculate(z.Data, *indicator, z.Context.SignalLineColumn())
			ch <- item{"divergence", v, err}
		}()
	} else {
		feats.Errors["shape"] = "no indicator column available"
		feats.Errors["divergence"] = "no indicator column available"
	}

	launched++
	go func() {
		v, err := e.volume.Calculate(z.Data, baselineVolume(frame, z), indicator)
		ch <- item{"volume", v, err}
	}()

	for received := 0; received < launched; received++ {
		select {
		case <-ctx.Done():
			feats.Shape, feats.Divergence, feats.Volume = nil, nil, nil
			feats.TimedOut = true
			feats.Errors["timeout"] = ctx.Err().Error()
			if e.l != nil {
				e.l.Warn("feature extraction timed out",
					applogger.Int("zone_id", z.ID),
					applogger.Int("received", received),
				)
			}
			return pruneErrors(feats)
		case it := <-ch:
			if it.err != nil {
				feats.Errors[it.name] = it.err.Error()
				if e.l != nil {
					e.l.Debug("strategy failed for zone",
						applogger.String("strategy", it.name),
						applogger.Int("zone_id", z.ID),
						applogger.Error(it.err),
					)
				}
				continue
			}
			switch it.name {
			case "shape":
				v := it.val.(models.ShapeMetrics)
				feats.Shape = &v
			case "divergence":
				v := it.val.(models.DivergenceMetrics)
				feats.Divergence = &v
			case "volume":
				v := it.val.(models.VolumeMetrics)
				feats.Volume = &v
			}
		}
	}
	return pruneErrors(feats)
}

func pruneErrors(f *models.ZoneFeatures) *models.ZoneFeatures {
	if len(f.Errors) == 0 {
		f.Errors = nil
	}
	return f
}

// baselineVolume averages up to one zone-length of volume samples directly
// preceding the zone in the parent frame. Nil for zones starting at row zero
// or when no usable sample exists; ratio metrics then degrade to nil.
func baselineVolume(frame *models.Frame, z *models.Zone) *float64 {
	if frame == nil || z.StartIdx == 0 {
		return nil
	}
	vol, ok := frame.Column(models.ColVolume)
	if !ok {
		return nil
	}
	from := z.StartIdx - z.Len()
	if from < 0 {
		from = 0
	}
	sum, n := 0.0, 0
	for _, v := range vol[from:z.StartIdx] {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
