package consumers

import (
	"context"

	"github.com/shiftpay/shiftpay-backend/internal/report/cache"
	"github.com/shiftpay/shiftpay-backend/internal/report/events"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
	"github.com/shiftpay/shiftpay-backend/pkg/messaging"
)

// AllowanceEventHandler reacts to allowance pipeline events (testable without RabbitMQ)
type AllowanceEventHandler struct {
	store     cache.Store
	publisher events.Publisher
	logger    *logger.Logger
}

// NewAllowanceEventHandler creates a new allowance event handler
func NewAllowanceEventHandler(store cache.Store, publisher events.Publisher, log *logger.Logger) *AllowanceEventHandler {
	return &AllowanceEventHandler{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// HandleEvent processes an allowance pipeline event
func (h *AllowanceEventHandler) HandleEvent(ctx context.Context, event *messaging.Event) error {
	switch event.Type {
	case messaging.EventFactsUploaded:
		return h.handleFactsUploaded(ctx, event)
	case messaging.EventRatesUpdated:
		return h.handleRatesUpdated(ctx, event)
	default:
		h.logger.Warn().Str("event_type", event.Type).Msg("unknown event type received")
		return nil
	}
}

func (h *AllowanceEventHandler) handleFactsUploaded(ctx context.Context, event *messaging.Event) error {
	var data messaging.FactsUploadedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	h.logger.Info().
		Str("upload_id", data.UploadID).
		Strs("months", data.Months).
		Int("row_count", data.RowCount).
		Msg("received facts uploaded event")

	h.invalidate(ctx, "facts uploaded")
	return nil
}

func (h *AllowanceEventHandler) handleRatesUpdated(ctx context.Context, event *messaging.Event) error {
	var data messaging.RatesUpdatedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	h.logger.Info().
		Str("payroll_year", data.PayrollYear).
		Strs("shift_types", data.ShiftTypes).
		Msg("received rates updated event")

	h.invalidate(ctx, "rates updated")
	return nil
}

// invalidate removes both latest-period entries so the next default
// request rebuilds from fresh rows. The export file itself stays on
// disk; the next default export overwrites it.
func (h *AllowanceEventHandler) invalidate(ctx context.Context, reason string) {
	keys := []string{cache.KeyLatestSummary, cache.KeyLatestExport}
	for _, key := range keys {
		h.store.Delete(key)
	}

	h.publisher.PublishCacheInvalidated(ctx, keys, reason)

	h.logger.Info().
		Strs("keys", keys).
		Str("reason", reason).
		Msg("latest-period cache invalidated")
}

// AllowanceEventConsumer consumes allowance pipeline events from the
// upload service and keeps the latest-period cache honest.
type AllowanceEventConsumer struct {
	consumer *messaging.Consumer
	handler  *AllowanceEventHandler
	logger   *logger.Logger
}

// NewAllowanceEventConsumer creates a new allowance event consumer
func NewAllowanceEventConsumer(
	rmq *messaging.RabbitMQ,
	store cache.Store,
	publisher events.Publisher,
	log *logger.Logger,
) (*AllowanceEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "report-service.allowance-events", log)
	if err != nil {
		return nil, err
	}

	// Subscribe to allowance pipeline events
	if err := consumer.Subscribe(messaging.ExchangeAllowanceEvents, "allowance.#"); err != nil {
		return nil, err
	}

	handler := NewAllowanceEventHandler(store, publisher, log)

	c := &AllowanceEventConsumer{
		consumer: consumer,
		handler:  handler,
		logger:   log,
	}

	// Register handlers
	consumer.RegisterHandler(messaging.EventFactsUploaded, handler.handleFactsUploaded)
	consumer.RegisterHandler(messaging.EventRatesUpdated, handler.handleRatesUpdated)

	return c, nil
}

// Start starts consuming messages
func (c *AllowanceEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}
