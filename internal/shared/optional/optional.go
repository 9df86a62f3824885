// Package optional builds and reads the pointer-typed optional fields used by
// the wire records.
package optional

// Of returns a pointer to a copy of v.
func Of[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Clone copies the pointee so the result shares no memory with p.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
