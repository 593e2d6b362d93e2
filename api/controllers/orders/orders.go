package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Zisou1/2MNumerik-backend/api/middleware"
	"github.com/Zisou1/2MNumerik-backend/api/responses"
	"github.com/Zisou1/2MNumerik-backend/api/validators"
	internalorders "github.com/Zisou1/2MNumerik-backend/internal/orders"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	pkgerrors "github.com/Zisou1/2MNumerik-backend/pkg/errors"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
	"github.com/Zisou1/2MNumerik-backend/pkg/pagination"
)

type createLineRequest struct {
	ProductID            *uuid.UUID `json:"product_id"`
	ProductName          string     `json:"product_name" validate:"required"`
	Quantity             int        `json:"quantity" validate:"required,min=1"`
	ProducerName         *string    `json:"producer_name"`
	ProductionStage      *string    `json:"production_stage"`
	Workshop             *string    `json:"workshop"`
	EstimatedDeliveryAt  *time.Time `json:"estimated_delivery_at"`
	EstimatedWorkMinutes *int       `json:"estimated_work_minutes"`
	Rush                 bool       `json:"rush"`
	UnitPrice            string     `json:"unit_price" validate:"required"`
	Notes                *string    `json:"notes"`
}

type createOrderRequest struct {
	CommercialName      string              `json:"commercial_name" validate:"required"`
	ClientID            *uuid.UUID          `json:"client_id"`
	ClientDisplay       string              `json:"client_display" validate:"required"`
	RequestedDeliveryAt *time.Time          `json:"requested_delivery_at"`
	Notes               *string             `json:"notes"`
	Lines               []createLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type editFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

// List returns one page of active orders with their product lines.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters := internalorders.ActiveOrderFilters{
			Commercial: validators.ParseQueryString(r, "commercial"),
			Workshop:   validators.ParseQueryString(r, "workshop"),
		}
		if raw := validators.ParseQueryString(r, "status"); raw != nil {
			status, err := enums.ParseOrderStatus(*raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.ListActiveOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Detail returns one order with its product lines.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Create registers a new order with at least one product line.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.CreateOrderInput{
			CommercialName:      req.CommercialName,
			ClientID:            req.ClientID,
			ClientDisplay:       req.ClientDisplay,
			RequestedDeliveryAt: req.RequestedDeliveryAt,
			Notes:               req.Notes,
			Actor:               actor,
		}
		for _, line := range req.Lines {
			price, err := decimal.NewFromString(line.UnitPrice)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price"))
				return
			}
			input.Lines = append(input.Lines, internalorders.CreateLineInput{
				ProductID:            line.ProductID,
				ProductName:          line.ProductName,
				Quantity:             line.Quantity,
				ProducerName:         line.ProducerName,
				ProductionStage:      line.ProductionStage,
				Workshop:             line.Workshop,
				EstimatedDeliveryAt:  line.EstimatedDeliveryAt,
				EstimatedWorkMinutes: line.EstimatedWorkMinutes,
				Rush:                 line.Rush,
				UnitPrice:            price,
				Notes:                line.Notes,
			})
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// EditOrderField applies one order-scoped field mutation.
func EditOrderField(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req editFieldRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.EditField(r.Context(), internalorders.EditFieldInput{
			OrderID: orderID,
			Field:   req.Field,
			Value:   req.Value,
			Actor:   actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// EditLineField applies one line-scoped field mutation.
func EditLineField(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := parseLineID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req editFieldRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.EditField(r.Context(), internalorders.EditFieldInput{
			OrderID: orderID,
			LineID:  &lineID,
			Field:   req.Field,
			Value:   req.Value,
			Actor:   actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Delete removes an order once every product line reached a terminal status.
func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), internalorders.DeleteOrderInput{
			OrderID: orderID,
			Actor:   actor,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func actorFromContext(r *http.Request) (internalorders.ActorContext, error) {
	rawID := middleware.UserIDFromContext(r.Context())
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return internalorders.ActorContext{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return internalorders.ActorContext{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor role missing")
	}
	return internalorders.ActorContext{UserID: userID, Role: role}, nil
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

func parseLineID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "lineID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id")
	}
	return id, nil
}
