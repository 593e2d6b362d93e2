package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Zisou1/2MNumerik-backend/api/middleware"
	internalorders "github.com/Zisou1/2MNumerik-backend/internal/orders"
	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	"github.com/Zisou1/2MNumerik-backend/pkg/pagination"
)

type stubControllerOrdersService struct {
	create func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error)
	list   func(ctx context.Context, params pagination.Params, filters internalorders.ActiveOrderFilters) (*internalorders.OrderList, error)
	get    func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	edit   func(ctx context.Context, input internalorders.EditFieldInput) (*internalorders.EditFieldResult, error)
	delete func(ctx context.Context, input internalorders.DeleteOrderInput) error
}

func (s *stubControllerOrdersService) CreateOrder(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
	if s.create != nil {
		return s.create(ctx, input)
	}
	return &models.Order{}, nil
}

func (s *stubControllerOrdersService) ListActiveOrders(ctx context.Context, params pagination.Params, filters internalorders.ActiveOrderFilters) (*internalorders.OrderList, error) {
	if s.list != nil {
		return s.list(ctx, params, filters)
	}
	return &internalorders.OrderList{}, nil
}

func (s *stubControllerOrdersService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.get != nil {
		return s.get(ctx, orderID)
	}
	return &models.Order{}, nil
}

func (s *stubControllerOrdersService) EditField(ctx context.Context, input internalorders.EditFieldInput) (*internalorders.EditFieldResult, error) {
	if s.edit != nil {
		return s.edit(ctx, input)
	}
	return &internalorders.EditFieldResult{}, nil
}

func (s *stubControllerOrdersService) DeleteOrder(ctx context.Context, input internalorders.DeleteOrderInput) error {
	if s.delete != nil {
		return s.delete(ctx, input)
	}
	return nil
}

func authedRequest(req *http.Request, role enums.UserRole) *http.Request {
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func decimalFromString(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal: %v", err)
	}
	return d
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestListParsesFilters(t *testing.T) {
	svc := &stubControllerOrdersService{
		list: func(ctx context.Context, params pagination.Params, filters internalorders.ActiveOrderFilters) (*internalorders.OrderList, error) {
			if params.Limit != 10 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if filters.Status == nil || *filters.Status != enums.OrderStatusInProgress {
				t.Fatal("status filter not parsed")
			}
			if filters.Workshop == nil || *filters.Workshop != "offset" {
				t.Fatal("workshop filter not parsed")
			}
			return &internalorders.OrderList{}, nil
		},
	}

	handler := List(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=10&status=in_progress&workshop=offset", nil)
	req = authedRequest(req, enums.UserRoleCommercial)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	handler := List(&stubControllerOrdersService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=shipped", nil)
	req = authedRequest(req, enums.UserRoleCommercial)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateReturnsCreated(t *testing.T) {
	var captured internalorders.CreateOrderInput
	svc := &stubControllerOrdersService{
		create: func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
			captured = input
			return &models.Order{ID: uuid.New()}, nil
		},
	}

	body := `{
		"commercial_name": "Sofiane",
		"client_display": "Imprimerie Atlas",
		"lines": [{"product_name": "Flyers A5", "quantity": 500, "unit_price": "0.12"}]
	}`
	handler := Create(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req = authedRequest(req, enums.UserRoleCommercial)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.CommercialName != "Sofiane" {
		t.Fatalf("unexpected commercial name %q", captured.CommercialName)
	}
	if len(captured.Lines) != 1 || !captured.Lines[0].UnitPrice.Equal(decimalFromString(t, "0.12")) {
		t.Fatalf("unit price not parsed: %+v", captured.Lines)
	}
	if captured.Actor.Role != enums.UserRoleCommercial {
		t.Fatalf("actor role not seeded: %q", captured.Actor.Role)
	}
}

func TestCreateRejectsMissingLines(t *testing.T) {
	handler := Create(&stubControllerOrdersService{}, nil)
	body := `{"commercial_name": "Sofiane", "client_display": "Imprimerie Atlas", "lines": []}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req = authedRequest(req, enums.UserRoleCommercial)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestEditLineFieldSeedsInput(t *testing.T) {
	orderID := uuid.New()
	lineID := uuid.New()
	svc := &stubControllerOrdersService{
		edit: func(ctx context.Context, input internalorders.EditFieldInput) (*internalorders.EditFieldResult, error) {
			if input.OrderID != orderID {
				t.Fatalf("unexpected order id %s", input.OrderID)
			}
			if input.LineID == nil || *input.LineID != lineID {
				t.Fatal("line id not seeded")
			}
			if input.Field != "status" || input.Value != "done" {
				t.Fatalf("unexpected field mutation %q=%v", input.Field, input.Value)
			}
			return &internalorders.EditFieldResult{Field: input.Field}, nil
		},
	}

	handler := EditLineField(svc, nil)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/lines/"+lineID.String()+"/fields", strings.NewReader(`{"field":"status","value":"done"}`))
	req = authedRequest(req, enums.UserRoleWorkshop)
	req = withURLParams(req, map[string]string{"orderID": orderID.String(), "lineID": lineID.String()})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestEditOrderFieldRejectsBadOrderID(t *testing.T) {
	handler := EditOrderField(&stubControllerOrdersService{}, nil)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/not-a-uuid/fields", strings.NewReader(`{"field":"commercial_name","value":"x"}`))
	req = authedRequest(req, enums.UserRoleCommercial)
	req = withURLParams(req, map[string]string{"orderID": "not-a-uuid"})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestEditOrderFieldRequiresIdentity(t *testing.T) {
	handler := EditOrderField(&stubControllerOrdersService{}, nil)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+uuid.NewString()+"/fields", strings.NewReader(`{"field":"commercial_name","value":"x"}`))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestDeleteReturnsStatus(t *testing.T) {
	orderID := uuid.New()
	svc := &stubControllerOrdersService{
		delete: func(ctx context.Context, input internalorders.DeleteOrderInput) error {
			if input.OrderID != orderID {
				t.Fatalf("unexpected order id %s", input.OrderID)
			}
			return nil
		},
	}

	handler := Delete(svc, nil)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+orderID.String(), nil)
	req = authedRequest(req, enums.UserRoleAdmin)
	req = withURLParams(req, map[string]string{"orderID": orderID.String()})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "deleted" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}
