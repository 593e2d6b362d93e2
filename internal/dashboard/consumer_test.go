package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox/payloads"
)

type stubIdempotency struct {
	processed map[uuid.UUID]bool
	checkErr  error
	deleted   []uuid.UUID
}

func (s *stubIdempotency) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	if s.processed == nil {
		s.processed = make(map[uuid.UUID]bool)
	}
	if s.processed[eventID] {
		return true, nil
	}
	s.processed[eventID] = true
	return false, nil
}

func (s *stubIdempotency) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	s.deleted = append(s.deleted, eventID)
	delete(s.processed, eventID)
	return nil
}

func testConsumer(t *testing.T, view *RankedView, manager idempotencyChecker) *Consumer {
	t.Helper()
	return &Consumer{
		view:    view,
		manager: manager,
		logg:    logger.New(logger.Options{ServiceName: "dashboard-test"}),
		now:     func() time.Time { return time.Now() },
	}
}

func orderEnvelope(t *testing.T, order models.Order) outbox.PayloadEnvelope {
	t.Helper()
	data, err := json.Marshal(payloads.OrderEvent{Order: payloads.SnapshotOrder(order)})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       data,
	}
}

func orderMessage(t *testing.T, eventType enums.OrderEventType, envelope outbox.PayloadEnvelope) *gcppubsub.Message {
	t.Helper()
	raw, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &gcppubsub.Message{
		Data:       raw,
		Attributes: map[string]string{"event_type": eventType.String()},
	}
}

func TestProcessReconcilesCreatedEvent(t *testing.T) {
	view := NewRankedView(nil)
	consumer := testConsumer(t, view, &stubIdempotency{})

	order := activeOrder(time.Now(), models.OrderProductLine{ProductName: "Stickers"})
	result := consumer.process(context.Background(), orderMessage(t, enums.EventOrderCreated, orderEnvelope(t, order)))
	if result.nack {
		t.Fatal("expected ack")
	}
	if len(view.Rows(time.Now())) != 1 {
		t.Fatal("expected one row after created event")
	}
}

func TestProcessSkipsDuplicateEvent(t *testing.T) {
	view := NewRankedView(nil)
	manager := &stubIdempotency{}
	consumer := testConsumer(t, view, manager)

	order := activeOrder(time.Now(), models.OrderProductLine{ProductName: "Stickers"})
	envelope := orderEnvelope(t, order)

	first := consumer.process(context.Background(), orderMessage(t, enums.EventOrderCreated, envelope))
	second := consumer.process(context.Background(), orderMessage(t, enums.EventOrderCreated, envelope))
	if first.nack || second.nack {
		t.Fatal("expected both messages acked")
	}
	if len(view.Rows(time.Now())) != 1 {
		t.Fatal("duplicate event must not duplicate rows")
	}
}

func TestProcessNacksOnIdempotencyFailure(t *testing.T) {
	view := NewRankedView(nil)
	consumer := testConsumer(t, view, &stubIdempotency{checkErr: errors.New("redis down")})

	order := activeOrder(time.Now(), models.OrderProductLine{ProductName: "Stickers"})
	result := consumer.process(context.Background(), orderMessage(t, enums.EventOrderCreated, orderEnvelope(t, order)))
	if !result.nack {
		t.Fatal("expected nack when idempotency store is unavailable")
	}
}

func TestProcessDropsUnknownEventType(t *testing.T) {
	view := NewRankedView(nil)
	consumer := testConsumer(t, view, &stubIdempotency{})

	msg := &gcppubsub.Message{
		Data:       []byte(`{}`),
		Attributes: map[string]string{"event_type": "order_shipped"},
	}
	if consumer.process(context.Background(), msg).nack {
		t.Fatal("unknown event types must be acked, not retried")
	}
	if len(view.Rows(time.Now())) != 0 {
		t.Fatal("unknown event must not change the view")
	}
}

func TestProcessDeletedEventEvicts(t *testing.T) {
	view := NewRankedView(nil)
	consumer := testConsumer(t, view, &stubIdempotency{})

	order := activeOrder(time.Now(), models.OrderProductLine{ProductName: "Stickers"})
	view.Replace([]models.Order{order}, time.Now())

	data, err := json.Marshal(payloads.OrderDeletedEvent{OrderID: order.ID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope := outbox.PayloadEnvelope{Version: 1, EventID: uuid.NewString(), OccurredAt: time.Now(), Data: data}

	result := consumer.process(context.Background(), orderMessage(t, enums.EventOrderDeleted, envelope))
	if result.nack {
		t.Fatal("expected ack")
	}
	if len(view.Rows(time.Now())) != 0 {
		t.Fatal("expected rows evicted after deleted event")
	}
}

func TestApplyRejectsPayloadWithoutOrderID(t *testing.T) {
	view := NewRankedView(nil)
	consumer := testConsumer(t, view, &stubIdempotency{})

	envelope := outbox.PayloadEnvelope{Data: []byte(`{"order":{}}`)}
	if err := consumer.Apply(context.Background(), enums.EventOrderUpdated, envelope); err == nil {
		t.Fatal("expected error for payload without order id")
	}
}
