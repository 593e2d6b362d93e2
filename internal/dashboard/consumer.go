package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox/payloads"
)

const dashboardConsumerName = "dashboard"

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer feeds order change events from Pub/Sub into a ranked view. The
// transport is at-least-once and unordered, so every apply path goes through
// the view's idempotent reconcile.
type Consumer struct {
	subscription *gcppubsub.Subscriber
	view         *RankedView
	manager      idempotencyChecker
	logg         *logger.Logger
	now          func() time.Time
}

// NewConsumer builds the dashboard consumer.
func NewConsumer(subscription *gcppubsub.Subscriber, view *RankedView, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("dashboard subscription is required")
	}
	if view == nil {
		return nil, errors.New("ranked view is required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		view:         view,
		manager:      manager,
		logg:         logg,
		now:          time.Now,
	}, nil
}

type processResult struct {
	nack bool
}

// Run consumes messages until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if c.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{"message_id": msg.ID}
	logCtx := c.logg.WithFields(ctx, fields)

	eventType, err := enums.ParseOrderEventType(strings.TrimSpace(msg.Attributes["event_type"]))
	if err != nil {
		c.logg.Warn(logCtx, "unknown event type dropped")
		return processResult{}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Warn(logCtx, "invalid payload envelope dropped")
		return processResult{}
	}

	fields["event_id"] = envelope.EventID
	fields["event_type"] = eventType
	fields["occurred_at"] = envelope.OccurredAt.Format(time.RFC3339Nano)
	logCtx = c.logg.WithFields(ctx, fields)

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Warn(logCtx, "invalid event id dropped")
		return processResult{}
	}

	already, err := c.manager.CheckAndMarkProcessed(logCtx, dashboardConsumerName, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	if err := c.Apply(logCtx, eventType, envelope); err != nil {
		c.logg.Warn(logCtx, "event payload rejected")
		_ = c.manager.Delete(logCtx, dashboardConsumerName, eventID)
		return processResult{}
	}

	c.logg.Info(logCtx, "order event reconciled")
	return processResult{}
}

// Apply decodes the envelope and reconciles the view. Decoding failures are
// returned to the caller; reconcile itself never fails.
func (c *Consumer) Apply(ctx context.Context, eventType enums.OrderEventType, envelope outbox.PayloadEnvelope) error {
	event, err := decodeEvent(eventType, envelope)
	if err != nil {
		return err
	}
	c.view.Reconcile(event, c.now())
	return nil
}

func decodeEvent(eventType enums.OrderEventType, envelope outbox.PayloadEnvelope) (Event, error) {
	switch eventType {
	case enums.EventOrderDeleted:
		var payload payloads.OrderDeletedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return Event{}, fmt.Errorf("decode deleted payload: %w", err)
		}
		if payload.OrderID == uuid.Nil {
			return Event{}, errors.New("deleted payload missing order id")
		}
		return Event{Type: eventType, OrderID: payload.OrderID}, nil
	default:
		var payload payloads.OrderEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return Event{}, fmt.Errorf("decode order payload: %w", err)
		}
		if payload.Order.ID == uuid.Nil {
			return Event{}, errors.New("order payload missing id")
		}
		order := payload.Order.ToModel()
		return Event{Type: eventType, OrderID: order.ID, Order: orderPtr(order)}, nil
	}
}

func orderPtr(order models.Order) *models.Order {
	return &order
}
