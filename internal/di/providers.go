package di

import (
	"context"
	"fmt"
	"time"

	domrepo "ZoneFlow/internal/domain/repository"
	domsvc "ZoneFlow/internal/domain/service"
	"ZoneFlow/internal/handler/api"
	internalrepo "ZoneFlow/internal/repository"
	icache "ZoneFlow/internal/service/cache"
	"ZoneFlow/internal/services/analytics"
	"ZoneFlow/internal/usecase"
	pkgch "ZoneFlow/pkg/clickhouse"
	"ZoneFlow/pkg/config"
	xhttp "ZoneFlow/pkg/http"
	pkgkafka "ZoneFlow/pkg/kafka"
	applogger "ZoneFlow/pkg/logger"
	"ZoneFlow/pkg/metrics"
	"ZoneFlow/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS zoneflow",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            ts DateTime64(3), symbol String,
            open Float64, high Float64, low Float64, close Float64, volume Float64
        ) ENGINE=MergeTree ORDER BY (symbol, ts)`, cfg.ClickHouse.SamplesTable),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, nil when the backend is not
// Kafka.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideSampleStore creates the ClickHouse sample frame loader.
func ProvideSampleStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) domrepo.SampleStore {
	store := internalrepo.NewCHSampleStore(chClient, cfg.ClickHouse.SamplesTable)
	store.SetLogger(l)
	return store
}

// ProvideZoneStorage creates ClickHouse zone storage and ensures its table.
func ProvideZoneStorage(chClient *pkgch.Client, cfg *config.Config) (domrepo.ZoneStorage, error) {
	store := internalrepo.NewCHZoneStorage(chClient.DB(), cfg.ClickHouse.ZonesTable)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("zone storage init: %w", err)
	}
	return store, nil
}

// ProvideZonePublisher creates the Kafka zone publisher, nil without a
// producer.
func ProvideZonePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.ZonePublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaZonePublisher(producer, cfg.Kafka.ZonesTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer for queued runs, nil when no
// runs topic is configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Kafka.RunsTopic == "" || len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideShapeStrategy creates the shape metrics strategy.
func ProvideShapeStrategy(l *applogger.Logger) domsvc.ShapeStrategy {
	return analytics.NewShape(l)
}

// ProvideDivergenceStrategy creates the divergence strategy from config.
func ProvideDivergenceStrategy(cfg *config.Config, l *applogger.Logger) domsvc.DivergenceStrategy {
	return analytics.NewDivergence(analytics.DivergenceConfig{
		MinStrength:     cfg.Detection.Divergence.MinStrength,
		MinPeakDistance: cfg.Detection.Divergence.MinPeakDistance,
		ProminenceFrac:  cfg.Detection.Divergence.ProminenceFrac,
	}, l)
}

// ProvideVolumeStrategy creates the volume metrics strategy.
func ProvideVolumeStrategy(l *applogger.Logger) domsvc.VolumeStrategy {
	return analytics.NewVolume(l)
}

// ProvideFeatureExtractor creates the per-zone strategy orchestrator.
func ProvideFeatureExtractor(
	shape domsvc.ShapeStrategy,
	divergence domsvc.DivergenceStrategy,
	volume domsvc.VolumeStrategy,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.FeatureExtractor {
	return usecase.NewFeatureExtractor(shape, divergence, volume,
		cfg.Detection.Workers, cfg.Detection.ZoneTimeout, l)
}

// ProvideZoneRunUseCase creates the detection run pipeline.
func ProvideZoneRunUseCase(
	samples domrepo.SampleStore,
	pub domrepo.ZonePublisher,
	store domrepo.ZoneStorage,
	m domrepo.Metrics,
	extract *usecase.FeatureExtractor,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.ZoneRunUseCase {
	return usecase.NewZoneRunUseCase(samples, pub, store, m, extract, cfg.Backend.Type, l)
}

// ProvideKafkaRunsHandler registers the handler for the runs topic.
func ProvideKafkaRunsHandler(runs *usecase.ZoneRunUseCase, m domrepo.Metrics, cfg *config.Config, l *applogger.Logger) pkgkafka.MessageHandler {
	return usecase.NewKafkaRunsHandler(cfg.Kafka.RunsTopic, runs, m, l)
}

// ProvideCache creates the summary response cache: Redis when configured,
// in-process TTL otherwise.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideZonesHandler creates the HTTP handler for the zones API.
func ProvideZonesHandler(runs *usecase.ZoneRunUseCase, cache icache.BytesCache, cfg *config.Config, l *applogger.Logger) xhttp.Handler {
	h := api.NewZonesHandler(runs, l)
	h.SetCache(cache, cfg.Cache.TTL)
	return h
}

// ProvideApp creates the application server. With a producer and a logs topic
// configured, error logs are aggregated and shipped to Kafka.
func ProvideApp(
	cfg *config.Config,
	runs *usecase.ZoneRunUseCase,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	l *applogger.Logger,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			Topic:     cfg.Kafka.LogsTopic,
			Publisher: producer,
		})
	}
	return server.New(cfg, runs, handler, consumer, kh, chClient, l)
}
