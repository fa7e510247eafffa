package usecase

import (
	"context"
	"time"

	"ZoneFlow/internal/domain/models"
	domrepo "ZoneFlow/internal/domain/repository"
	"ZoneFlow/internal/services/detect"
	applogger "ZoneFlow/pkg/logger"
	"ZoneFlow/pkg/util"
)

// ZoneRunUseCase executes a full detection run: load samples, detect zones,
// extract features, summarize, and route the annotated zones to the
// configured backend. Persistence failures are logged and counted but never
// discard the computed result.
type ZoneRunUseCase struct {
	samples domrepo.SampleStore
	pub     domrepo.ZonePublisher
	store   domrepo.ZoneStorage
	metrics domrepo.Metrics
	extract *FeatureExtractor
	backend string
	l       *applogger.Logger
}

func NewZoneRunUseCase(
	samples domrepo.SampleStore,
	pub domrepo.ZonePublisher,
	store domrepo.ZoneStorage,
	metrics domrepo.Metrics,
	extract *FeatureExtractor,
	backend string,
	l *applogger.Logger,
) *ZoneRunUseCase {
	return &ZoneRunUseCase{
		samples: samples,
		pub:     pub,
		store:   store,
		metrics: metrics,
		extract: extract,
		backend: backend,
		l:       l,
	}
}

// Run executes one detection run for the request. Configuration problems and
// unusable data surface as ConfigError / DataError; zone-level analytical
// failures stay inside the zones' feature bags.
func (uc *ZoneRunUseCase) Run(ctx context.Context, req models.DetectRequest) (*models.DetectResult, error) {
	start := time.Now()

	frame, err := uc.loadFrame(ctx, req)
	if err != nil {
		uc.metrics.RecordError("load_samples")
		return nil, err
	}
	uc.metrics.RecordRunSamples(req.Symbol, frame.Len())

	detector, err := detect.New(detect.Config{
		Strategy:       req.Strategy,
		IndicatorCol:   req.IndicatorCol,
		UpperThreshold: req.UpperThreshold,
		LowerThreshold: req.LowerThreshold,
		Line1Col:       req.Line1Col,
		Line2Col:       req.Line2Col,
		MinZoneLength:  req.MinZoneLength,
		KeepShortEdges: req.KeepShortEdges,
	}, uc.l)
	if err != nil {
		uc.metrics.RecordError("detector_config")
		return nil, err
	}

	zones, err := detector.Detect(ctx, frame)
	if err != nil {
		uc.metrics.RecordError("detect")
		return nil, err
	}

	uc.extract.ExtractAll(ctx, frame, zones)

	summary := models.Summarize(req.Symbol, req.Strategy, zones)
	for ztype, n := range summary.CountByType {
		uc.metrics.RecordZones(req.Strategy, string(ztype), n)
	}
	uc.metrics.RecordLatency("run", time.Since(start).Seconds())

	uc.persist(ctx, req.Symbol, zones)

	if uc.l != nil {
		uc.l.Info("detection run complete",
			applogger.String("symbol", req.Symbol),
			applogger.String("strategy", req.Strategy),
			applogger.Int("samples", frame.Len()),
			applogger.Int("zones", len(zones)),
			applogger.Duration("took", time.Since(start)),
		)
	}
	return &models.DetectResult{Summary: summary, Zones: zones}, nil
}

func (uc *ZoneRunUseCase) loadFrame(ctx context.Context, req models.DetectRequest) (*models.Frame, error) {
	from, okFrom := util.ParseTime(req.From)
	to, okTo := util.ParseTime(req.To)
	if okFrom && okTo {
		return uc.samples.GetFrame(ctx, req.Symbol, from, to)
	}
	n := req.N
	if n <= 0 {
		n = 600
	}
	return uc.samples.GetLatestFrame(ctx, req.Symbol, n)
}

func (uc *ZoneRunUseCase) persist(ctx context.Context, symbol string, zones []*models.Zone) {
	if len(zones) == 0 {
		return
	}
	start := time.Now()
	var err error
	switch uc.backend {
	case "kafka":
		err = uc.pub.PublishBatch(ctx, symbol, zones)
	case "clickhouse":
		err = uc.store.StoreBatch(ctx, symbol, zones)
	default:
		return
	}
	if err != nil {
		uc.metrics.RecordError("persist")
		if uc.l != nil {
			uc.l.Warn("zone persistence failed",
				applogger.String("backend", uc.backend),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return
	}
	uc.metrics.RecordLatency("persist", time.Since(start).Seconds())
}

// Close releases the backend resources held by the run pipeline.
func (uc *ZoneRunUseCase) Close() {
	if uc.pub != nil {
		_ = uc.pub.Close()
	}
	if uc.store != nil {
		_ = uc.store.Close()
	}
}
