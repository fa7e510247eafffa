package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ZoneFlow/internal/domain/models"
	domrepo "ZoneFlow/internal/domain/repository"
	pkgkafka "ZoneFlow/pkg/kafka"
)

// CHZoneStorage persists annotated zones in ClickHouse. Context and feature
// bags are stored as JSON strings; the scalar columns cover the fields
// downstream queries filter on.
type CHZoneStorage struct {
	db    *sql.DB
	table string
}

func NewCHZoneStorage(db *sql.DB, table string) domrepo.ZoneStorage {
	return &CHZoneStorage{db: db, table: table}
}

func (s *CHZoneStorage) Init(ctx context.Context) error {
	q := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            symbol     String,
            zone_id    Int32,
            zone_type  LowCardinality(String),
            strategy   LowCardinality(String),
            indicator  String,
            start_ts   DateTime64(3),
            end_ts     DateTime64(3),
            duration_s Float64,
            context    String,
            features   String
        ) ENGINE = MergeTree()
        ORDER BY (symbol, start_ts, zone_id)
    `, s.table)
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *CHZoneStorage) Store(ctx context.Context, symbol string, z *models.Zone) error {
	return s.StoreBatch(ctx, symbol, []*models.Zone{z})
}

func (s *CHZoneStorage) StoreBatch(ctx context.Context, symbol string, zones []*models.Zone) error {
	if len(zones) == 0 {
		return nil
	}
	const chunkSize = 500
	for start := 0; start < len(zones); start += chunkSize {
		end := start + chunkSize
		if end > len(zones) {
			end = len(zones)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*10)
		for _, z := range zones[start:end] {
			if z == nil {
				continue
			}
			ctxJSON, err := json.Marshal(z.Context)
			if err != nil {
				return fmt.Errorf("marshal zone context: %w", err)
			}
			featJSON := []byte("{}")
			if z.Features != nil {
				featJSON, err = json.Marshal(z.Features)
				if err != nil {
					return fmt.Errorf("marshal zone features: %w", err)
				}
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				symbol,
				int32(z.ID),
				string(z.Type),
				strOrEmpty(z.Context.DetectionStrategy),
				strOrEmpty(z.Context.DetectionIndicator),
				z.StartTime,
				z.EndTime,
				z.Duration.Seconds(),
				string(ctxJSON),
				string(featJSON),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (symbol, zone_id, zone_type, strategy, indicator, start_ts, end_ts, duration_s, context, features) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *CHZoneStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHZoneStorage) Close() error {
	return nil // pool owned by pkg client
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// KafkaZonePublisher emits annotated zones to a Kafka topic, keyed by symbol
// so one symbol's zones stay ordered within a partition.
type KafkaZonePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaZonePublisher(producer *pkgkafka.Producer, topic string) domrepo.ZonePublisher {
	return &KafkaZonePublisher{producer: producer, topic: topic}
}

func (p *KafkaZonePublisher) Publish(ctx context.Context, symbol string, z *models.Zone) error {
	return p.producer.Publish(ctx, p.topic, []byte(symbol), zoneEnvelope(symbol, z))
}

func (p *KafkaZonePublisher) PublishBatch(ctx context.Context, symbol string, zones []*models.Zone) error {
	if len(zones) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(zones))
	for i, z := range zones {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(symbol),
			Value: zoneEnvelope(symbol, z),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaZonePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func zoneEnvelope(symbol string, z *models.Zone) map[string]interface{} {
	return map[string]interface{}{
		"symbol":     symbol,
		"emitted_at": time.Now().UTC(),
		"zone":       z,
	}
}
