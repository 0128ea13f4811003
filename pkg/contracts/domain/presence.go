package domain

// Presence is a tagged value: either a present value or the reason it is absent.
type Presence[T any] struct {
	value  T
	reason string
	ok     bool
}

// Present wraps an available value
func Present[T any](v T) Presence[T] {
	return Presence[T]{value: v, ok: true}
}

// Absent records why a value is unavailable
func Absent[T any](reason string) Presence[T] {
	return Presence[T]{reason: reason}
}

// Get returns the value and whether it is present
func (p Presence[T]) Get() (T, bool) {
	return p.value, p.ok
}

// IsPresent reports whether a value is available
func (p Presence[T]) IsPresent() bool {
	return p.ok
}

// Reason returns why the value is absent, or "" when present
func (p Presence[T]) Reason() string {
	if p.ok {
		return ""
	}
	return p.reason
}
