package enums

import "fmt"

// OrderEventType names the change-propagation topics carried over the order event stream.
type OrderEventType string

const (
	EventOrderCreated OrderEventType = "order_created"
	EventOrderUpdated OrderEventType = "order_updated"
	EventOrderDeleted OrderEventType = "order_deleted"
)

var validOrderEventTypes = []OrderEventType{
	EventOrderCreated,
	EventOrderUpdated,
	EventOrderDeleted,
}

// String implements fmt.Stringer.
func (o OrderEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderEventType.
func (o OrderEventType) IsValid() bool {
	for _, candidate := range validOrderEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderEventType converts raw input into an OrderEventType.
func ParseOrderEventType(value string) (OrderEventType, error) {
	for _, candidate := range validOrderEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event type %q", value)
}
