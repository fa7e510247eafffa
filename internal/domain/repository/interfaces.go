package repository

import (
	"context"

	"ZoneFlow/internal/domain/models"
)

// ZonePublisher emits detected zones to a message backend.
type ZonePublisher interface {
	Publish(ctx context.Context, symbol string, z *models.Zone) error
	PublishBatch(ctx context.Context, symbol string, zones []*models.Zone) error
	Close() error
}

// ZoneStorage persists detected zones with their feature bags.
type ZoneStorage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, symbol string, z *models.Zone) error
	StoreBatch(ctx context.Context, symbol string, zones []*models.Zone) error
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records pipeline counters and latencies.
type Metrics interface {
	RecordZones(strategy string, ztype string, n int)
	RecordError(kind string)
	RecordRunSamples(symbol string, n int)
	RecordLatency(op string, seconds float64)
}
