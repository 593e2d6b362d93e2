package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their product lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	ListActiveOrders(ctx context.Context, params pagination.Params, filters ActiveOrderFilters) (*OrderList, error)
	FindAllActiveOrders(ctx context.Context) ([]models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindLine(ctx context.Context, lineID uuid.UUID) (*models.OrderProductLine, error)
	FindLinesByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderProductLine, error)
	UpdateOrderFields(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	UpdateLineFields(ctx context.Context, lineID uuid.UUID, updates map[string]any) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}
