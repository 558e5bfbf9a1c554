package order

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusBasket     OrderStatus = "basket"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCanceled   OrderStatus = "canceled"
)

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusBasket, StatusConfirmed, StatusProcessing, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// IsSettable reports whether the status may be requested through SetStatus.
// Confirmation has its own operation and is never set directly.
func (s OrderStatus) IsSettable() bool {
	switch s {
	case StatusBasket, StatusProcessing, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// RequiresStaff reports whether only staff may move an order into this status
func (s OrderStatus) RequiresStaff() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case StatusBasket:
		return target == StatusConfirmed || target == StatusCanceled
	case StatusConfirmed:
		// basket reopens a confirmed order before fulfilment starts
		return target == StatusProcessing || target == StatusCanceled || target == StatusBasket
	case StatusProcessing:
		return target == StatusCompleted || target == StatusCanceled
	case StatusCompleted, StatusCanceled:
		return false
	}
	return false
}

// ParseStatus converts raw input into an OrderStatus
func ParseStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(raw)
	return s, s.IsValid()
}
