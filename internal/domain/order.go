package domain

// Order is a position inside an ordered sibling collection. The zero value
// is the unordered state used for freshly added items.
type Order struct {
	value int
	set   bool
}

// NewOrder accepts nil or a non-negative integer.
func NewOrder(v *int) (Order, error) {
	if v == nil {
		return Order{}, nil
	}
	if *v < 0 {
		return Order{}, NewValidationError("order", "cannot be negative", ErrInvalidOrder)
	}
	return Order{value: *v, set: true}, nil
}

// Value returns nil when unordered.
func (o Order) Value() *int {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// IsSet reports whether an explicit position is held.
func (o Order) IsSet() bool { return o.set }

// Equals compares by value.
func (o Order) Equals(other Order) bool { return o == other }

func intPtr(v int) *int { return &v }
