package domain

// Patch carries one field of a partial update. The zero value means the
// field was omitted and must be left untouched.
type Patch[T any] struct {
	value T
	set   bool
	null  bool
}

// Some returns a patch that replaces the field with v.
func Some[T any](v T) Patch[T] {
	return Patch[T]{value: v, set: true}
}

// Null returns a patch that clears a nullable field.
func Null[T any]() Patch[T] {
	return Patch[T]{set: true, null: true}
}

// FromPtr maps nil to Null and anything else to Some.
func FromPtr[T any](v *T) Patch[T] {
	if v == nil {
		return Null[T]()
	}
	return Some(*v)
}

// Present reports whether the field was supplied at all.
func (p Patch[T]) Present() bool {
	return p.set
}

// IsNull reports whether the field was explicitly cleared.
func (p Patch[T]) IsNull() bool {
	return p.set && p.null
}

// Value returns the supplied value; ok is false when omitted or null.
func (p Patch[T]) Value() (v T, ok bool) {
	return p.value, p.set && !p.null
}

// Ptr returns nil for omitted or null patches.
func (p Patch[T]) Ptr() *T {
	if !p.set || p.null {
		return nil
	}
	v := p.value
	return &v
}
