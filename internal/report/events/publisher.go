// Package events publishes report lifecycle events to the message broker.
package events

import (
	"context"
	"time"

	"github.com/shiftpay/shiftpay-backend/pkg/logger"
	"github.com/shiftpay/shiftpay-backend/pkg/messaging"
)

// Publisher exposes the report event surface so services can run with a
// no-op or recording publisher in tests.
type Publisher interface {
	PublishExportCreated(ctx context.Context, filePath, month string, rowCount int)
	PublishCacheInvalidated(ctx context.Context, keys []string, reason string)
}

// ReportEventPublisher publishes report events to RabbitMQ.
type ReportEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewReportEventPublisher creates a new report event publisher
func NewReportEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ReportEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeReportEvents, "report-service", log)
	if err != nil {
		return nil, err
	}

	return &ReportEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishExportCreated publishes an export created event
func (p *ReportEventPublisher) PublishExportCreated(ctx context.Context, filePath, month string, rowCount int) {
	data := messaging.ExportCreatedEvent{
		FilePath:    filePath,
		Month:       month,
		RowCount:    rowCount,
		GeneratedAt: time.Now().UTC(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventExportCreated, data); err != nil {
		p.logger.Error().Err(err).Str("file_path", filePath).Msg("failed to publish export created event")
	}
}

// PublishCacheInvalidated publishes a cache invalidated event
func (p *ReportEventPublisher) PublishCacheInvalidated(ctx context.Context, keys []string, reason string) {
	data := messaging.CacheInvalidatedEvent{
		Keys:   keys,
		Reason: reason,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCacheInvalidated, data); err != nil {
		p.logger.Error().Err(err).Str("reason", reason).Msg("failed to publish cache invalidated event")
	}
}

// NopPublisher drops all events. The warmer and tests use it when no
// broker connection exists.
type NopPublisher struct{}

func (NopPublisher) PublishExportCreated(ctx context.Context, filePath, month string, rowCount int) {
}

func (NopPublisher) PublishCacheInvalidated(ctx context.Context, keys []string, reason string) {}
