package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	pkgerrors "github.com/Zisou1/2MNumerik-backend/pkg/errors"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox/payloads"
	"github.com/Zisou1/2MNumerik-backend/pkg/pagination"
	"github.com/Zisou1/2MNumerik-backend/pkg/visibility"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the write path for orders: every successful mutation queues a
// change event in the same transaction, so subscribed dashboards converge.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ListActiveOrders(ctx context.Context, params pagination.Params, filters ActiveOrderFilters) (*OrderList, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	EditField(ctx context.Context, input EditFieldInput) (*EditFieldResult, error)
	DeleteOrder(ctx context.Context, input DeleteOrderInput) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outbox}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CommercialName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commercial name required")
	}
	if strings.TrimSpace(input.ClientDisplay) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client display required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product line required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	lines := make([]models.OrderProductLine, 0, len(input.Lines))
	for i, line := range input.Lines {
		if strings.TrimSpace(line.ProductName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: product name required", i))
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: quantity must be at least 1", i))
		}
		if line.EstimatedWorkMinutes != nil && *line.EstimatedWorkMinutes < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: estimated work minutes must be positive", i))
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: unit price must not be negative", i))
		}
		lines = append(lines, models.OrderProductLine{
			ProductID:            line.ProductID,
			ProductName:          strings.TrimSpace(line.ProductName),
			Quantity:             line.Quantity,
			Status:               enums.OrderStatusWaiting,
			ProducerName:         line.ProducerName,
			ProductionStage:      line.ProductionStage,
			Workshop:             line.Workshop,
			EstimatedDeliveryAt:  normalizeTimePtr(line.EstimatedDeliveryAt),
			EstimatedWorkMinutes: line.EstimatedWorkMinutes,
			Rush:                 line.Rush,
			UnitPrice:            line.UnitPrice,
			Notes:                line.Notes,
		})
	}

	order := &models.Order{
		CommercialName:      strings.TrimSpace(input.CommercialName),
		ClientID:            input.ClientID,
		ClientDisplay:       strings.TrimSpace(input.ClientDisplay),
		RequestedDeliveryAt: normalizeTimePtr(input.RequestedDeliveryAt),
		Status:              AggregateStatus(LineStatuses(lines)),
		Notes:               input.Notes,
		Lines:               lines,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeRemoteRejected, err, "persist order")
		}
		order = created
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data:          payloads.OrderEvent{Order: payloads.SnapshotOrder(*order)},
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListActiveOrders(ctx context.Context, params pagination.Params, filters ActiveOrderFilters) (*OrderList, error) {
	list, err := s.repo.ListActiveOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active orders")
	}
	return list, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// EditField applies one scoped field mutation. The write is the only
// suspension point; the in-memory snapshot returned to the caller reflects the
// state after the write committed, never before.
func (s *service) EditField(ctx context.Context, input EditFieldInput) (*EditFieldResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	scope, ok := FieldScopeOf(input.Field)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("field %q is not editable", input.Field))
	}
	if !visibility.CanEdit(input.Actor.Role, input.Field) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("role %s may not edit %s", input.Actor.Role, input.Field))
	}
	if scope == enums.FieldScopeLine && (input.LineID == nil || *input.LineID == uuid.Nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required for line-scoped field")
	}

	value, err := NormalizeFieldValue(input.Field, input.Value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid field value")
	}

	result := &EditFieldResult{Scope: scope, Field: input.Field, Applied: value}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		switch scope {
		case enums.FieldScopeOrder:
			if orderFieldEqual(order, input.Field, value) {
				result.NoOp = true
				result.Order = order
				return nil
			}
			if err := repo.UpdateOrderFields(ctx, order.ID, map[string]any{input.Field: value}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeRemoteRejected, err, "persist order field")
			}
		case enums.FieldScopeLine:
			line, err := repo.FindLine(ctx, *input.LineID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product line not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product line")
			}
			if line.OrderID != order.ID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "product line does not belong to order")
			}
			if lineFieldEqual(line, input.Field, value) {
				result.NoOp = true
				result.Order = order
				return nil
			}
			if err := repo.UpdateLineFields(ctx, line.ID, map[string]any{input.Field: value}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeRemoteRejected, err, "persist line field")
			}
			if input.Field == "status" {
				if err := s.recomputeAggregate(ctx, repo, order); err != nil {
					return err
				}
			}
		}

		updated, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result.Order = updated

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderUpdated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   updated.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data:          payloads.OrderEvent{Order: payloads.SnapshotOrder(*updated)},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) DeleteOrder(ctx context.Context, input DeleteOrderInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		for _, line := range order.Lines {
			if !line.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeConflict, "order still has active product lines")
			}
		}

		if err := repo.DeleteOrder(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeRemoteRejected, err, "delete order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDeleted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data:          payloads.OrderDeletedEvent{OrderID: order.ID},
		})
	})
}

// recomputeAggregate re-derives the order status from its lines after a line
// status write. Counting happens over the freshly persisted rows so concurrent
// line edits within other transactions cannot skew the reduction.
func (s *service) recomputeAggregate(ctx context.Context, repo Repository, order *models.Order) error {
	lines, err := repo.FindLinesByOrder(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product lines")
	}
	aggregate := AggregateStatus(LineStatuses(lines))
	if aggregate == order.Status {
		return nil
	}
	if err := repo.UpdateOrderFields(ctx, order.ID, map[string]any{"status": aggregate}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteRejected, err, "persist aggregate status")
	}
	return nil
}

func buildActor(actor ActorContext) *outbox.ActorRef {
	return &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()}
}

func normalizeTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}
