package enums

import "fmt"

// OrderStatus describes the allowed values for the orders.status column.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// orderStatusSuccessor maps each status to the next step of the delivery flow.
// Completed and cancelled are terminal; completion is reached through the
// client's reception confirmation, cancellation only from pending.
var orderStatusSuccessor = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusPreparing,
	OrderStatusPreparing:  OrderStatusDelivering,
	OrderStatusDelivering: OrderStatusDelivered,
	OrderStatusDelivered:  OrderStatusCompleted,
}

// IsValid reports whether the value matches the canonical order status enum.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusCancelled
}

// CanTransitionTo reports whether target is the immediate successor of the
// current status.
func (o OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		return o == OrderStatusPending
	}
	return orderStatusSuccessor[o] == target
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
