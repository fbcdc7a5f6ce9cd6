// Package domain holds the workout tracking aggregates and the value objects
// they are built from.
//
// Value objects validate once, at construction, and are immutable after
// that. Aggregates are created through NewX (not yet stored, no id) or
// RestoreX (rehydrated from storage) and both run the same staged checks:
// required fields first, then cross-aggregate id agreement, then value
// object construction. Expected failures are returned as *ValidationError
// values that unwrap to ErrValidation and a field specific code.
package domain
