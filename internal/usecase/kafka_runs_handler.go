package usecase

import (
	"context"
	"encoding/json"

	"ZoneFlow/internal/domain/models"
	domrepo "ZoneFlow/internal/domain/repository"
	pkgkafka "ZoneFlow/pkg/kafka"
	applogger "ZoneFlow/pkg/logger"
)

// KafkaRunsHandler consumes detection run requests from Kafka and executes
// them. The message body is the same JSON shape the HTTP endpoint accepts.
type KafkaRunsHandler struct {
	topic   string
	runs    *ZoneRunUseCase
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewKafkaRunsHandler(topic string, runs *ZoneRunUseCase, metrics domrepo.Metrics, l *applogger.Logger) *KafkaRunsHandler {
	return &KafkaRunsHandler{topic: topic, runs: runs, metrics: metrics, l: l}
}

func (h *KafkaRunsHandler) Topic() string { return h.topic }

func (h *KafkaRunsHandler) Handle(ctx context.Context, b []byte) error {
	var req models.DetectRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if req.Symbol == "" {
		h.metrics.RecordError("consumer_bad_request")
		return models.NewConfigError("symbol", "required")
	}

	res, err := h.runs.Run(ctx, req)
	if err != nil {
		h.metrics.RecordError("consumer_run")
		return err
	}
	if h.l != nil {
		h.l.Info("queued run executed",
			applogger.String("symbol", req.Symbol),
			applogger.String("strategy", req.Strategy),
			applogger.Int("zones", res.Summary.ZoneCount),
		)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaRunsHandler)(nil)
