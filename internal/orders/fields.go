package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// fieldScopes is the static classification consulted by the field mutation
// gateway. It decides which table a named field belongs to; it is deliberately
// separate from the role-based editability table in pkg/visibility, because
// the two vary independently.
var fieldScopes = map[string]enums.FieldScope{
	"commercial_name":       enums.FieldScopeOrder,
	"client_display":        enums.FieldScopeOrder,
	"requested_delivery_at": enums.FieldScopeOrder,

	"status":                 enums.FieldScopeLine,
	"production_stage":       enums.FieldScopeLine,
	"workshop":               enums.FieldScopeLine,
	"producer_name":          enums.FieldScopeLine,
	"estimated_delivery_at":  enums.FieldScopeLine,
	"estimated_work_minutes": enums.FieldScopeLine,
	"rush":                   enums.FieldScopeLine,
	"approved":               enums.FieldScopeLine,
	"quantity":               enums.FieldScopeLine,
	"unit_price":             enums.FieldScopeLine,
	"notes":                  enums.FieldScopeLine,
}

// FieldScopeOf returns the mutation scope for a field name.
func FieldScopeOf(field string) (enums.FieldScope, bool) {
	scope, ok := fieldScopes[field]
	return scope, ok
}

// NormalizeFieldValue validates the raw JSON value for a field and coerces it
// into the typed representation stored on the models. Date-valued fields are
// normalized to absolute UTC timestamps here, before any write is dispatched.
func NormalizeFieldValue(field string, raw any) (any, error) {
	switch field {
	case "commercial_name", "client_display":
		return requireString(field, raw)
	case "requested_delivery_at", "estimated_delivery_at":
		return parseOptionalTime(field, raw)
	case "status":
		text, err := requireString(field, raw)
		if err != nil {
			return nil, err
		}
		return enums.ParseOrderStatus(text)
	case "production_stage", "workshop", "producer_name", "notes":
		return parseOptionalString(raw), nil
	case "estimated_work_minutes":
		minutes, err := parseOptionalInt(field, raw)
		if err != nil {
			return nil, err
		}
		if minutes != nil && *minutes < 1 {
			return nil, fmt.Errorf("%s must be positive", field)
		}
		return minutes, nil
	case "rush", "approved":
		value, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%s must be a boolean", field)
		}
		return value, nil
	case "quantity":
		qty, err := requireInt(field, raw)
		if err != nil {
			return nil, err
		}
		if qty < 1 {
			return nil, fmt.Errorf("quantity must be at least 1")
		}
		return qty, nil
	case "unit_price":
		price, err := parseDecimal(field, raw)
		if err != nil {
			return nil, err
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("unit_price must not be negative")
		}
		return price, nil
	default:
		return nil, fmt.Errorf("unknown field %q", field)
	}
}

func requireString(field string, raw any) (string, error) {
	text, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", field)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s must not be empty", field)
	}
	return text, nil
}

func parseOptionalString(raw any) *string {
	text, ok := raw.(string)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}

func parseOptionalTime(field string, raw any) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp or null", field)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", field, err)
	}
	utc := parsed.UTC()
	return &utc, nil
}

func parseOptionalInt(field string, raw any) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := requireInt(field, raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func requireInt(field string, raw any) (int, error) {
	switch typed := raw.(type) {
	case float64:
		if typed != float64(int(typed)) {
			return 0, fmt.Errorf("%s must be an integer", field)
		}
		return int(typed), nil
	case int:
		return typed, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", field)
	}
}

func parseDecimal(field string, raw any) (decimal.Decimal, error) {
	switch typed := raw.(type) {
	case string:
		value, err := decimal.NewFromString(strings.TrimSpace(typed))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s must be a decimal amount: %w", field, err)
		}
		return value, nil
	case float64:
		return decimal.NewFromFloat(typed), nil
	default:
		return decimal.Zero, fmt.Errorf("%s must be a decimal amount", field)
	}
}

func orderFieldEqual(order *models.Order, field string, value any) bool {
	switch field {
	case "commercial_name":
		return order.CommercialName == value.(string)
	case "client_display":
		return order.ClientDisplay == value.(string)
	case "requested_delivery_at":
		return timePtrEqual(order.RequestedDeliveryAt, value.(*time.Time))
	default:
		return false
	}
}

func lineFieldEqual(line *models.OrderProductLine, field string, value any) bool {
	switch field {
	case "status":
		return line.Status == value.(enums.OrderStatus)
	case "production_stage":
		return stringPtrEqual(line.ProductionStage, value.(*string))
	case "workshop":
		return stringPtrEqual(line.Workshop, value.(*string))
	case "producer_name":
		return stringPtrEqual(line.ProducerName, value.(*string))
	case "notes":
		return stringPtrEqual(line.Notes, value.(*string))
	case "estimated_delivery_at":
		return timePtrEqual(line.EstimatedDeliveryAt, value.(*time.Time))
	case "estimated_work_minutes":
		return intPtrEqual(line.EstimatedWorkMinutes, value.(*int))
	case "rush":
		return line.Rush == value.(bool)
	case "approved":
		return line.Approved == value.(bool)
	case "quantity":
		return line.Quantity == value.(int)
	case "unit_price":
		return line.UnitPrice.Equal(value.(decimal.Decimal))
	default:
		return false
	}
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
