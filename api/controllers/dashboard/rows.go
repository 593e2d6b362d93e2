package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/Zisou1/2MNumerik-backend/api/responses"
	internaldashboard "github.com/Zisou1/2MNumerik-backend/internal/dashboard"
	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	pkgerrors "github.com/Zisou1/2MNumerik-backend/pkg/errors"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
)

// OrdersSource loads every active order for projection.
type OrdersSource interface {
	FindAllActiveOrders(ctx context.Context) ([]models.Order, error)
}

type rowsResponse struct {
	Rows     []internaldashboard.OrderProductRow `json:"rows"`
	RankedAt time.Time                           `json:"rankedAt"`
}

// Rows projects the active orders into urgency-ranked product rows. The
// projection is rebuilt on every request so urgency reflects the current
// clock, not the last write.
func Rows(source OrdersSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := source.FindAllActiveOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active orders"))
			return
		}

		now := time.Now().UTC()
		view := internaldashboard.NewRankedView(logg)
		view.Replace(orders, now)

		responses.WriteSuccess(w, rowsResponse{
			Rows:     view.Rows(now),
			RankedAt: view.RankedAt(),
		})
	}
}
