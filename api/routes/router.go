package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Zisou1/2MNumerik-backend/api/controllers"
	dashboardcontrollers "github.com/Zisou1/2MNumerik-backend/api/controllers/dashboard"
	ordercontrollers "github.com/Zisou1/2MNumerik-backend/api/controllers/orders"
	"github.com/Zisou1/2MNumerik-backend/api/middleware"
	internalorders "github.com/Zisou1/2MNumerik-backend/internal/orders"
	"github.com/Zisou1/2MNumerik-backend/pkg/config"
	"github.com/Zisou1/2MNumerik-backend/pkg/db"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
	"github.com/Zisou1/2MNumerik-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	ordersSvc internalorders.Service,
	ordersRepo internalorders.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersSvc, logg))
			r.Post("/", ordercontrollers.Create(ordersSvc, logg))
			r.Get("/{orderID}", ordercontrollers.Detail(ordersSvc, logg))
			r.Patch("/{orderID}/fields", ordercontrollers.EditOrderField(ordersSvc, logg))
			r.Patch("/{orderID}/lines/{lineID}/fields", ordercontrollers.EditLineField(ordersSvc, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Delete("/{orderID}", ordercontrollers.Delete(ordersSvc, logg))
		})

		r.Get("/dashboard/rows", dashboardcontrollers.Rows(ordersRepo, logg))
	})

	return r
}
