// Package delegate provides a value-semantic callable wrapper that can bind a
// free function or an (instance, method) pair and later be matched back
// against the same pair by identity. It is the building block the bus package
// stores per subscription.
package delegate

import (
	"errors"
	"reflect"
)

// ErrNotBound is returned when an unbound delegate is invoked.
var ErrNotBound = errors.New("delegate: invoke of unbound delegate")

// Delegate wraps at most one handler of shape func(T). The zero value is
// unbound. Delegates are copyable; a copy matches the same identity as its
// original. The bound receiver is referenced, not owned: callers must keep it
// alive for as long as any copy of the delegate may be invoked.
type Delegate[T any] struct {
	target any
	fn     func(T)
	fnID   uintptr
}

// BindFunc binds a free function. Identity for Matches is the function's code
// pointer, so distinct closures created from the same literal share one
// identity. Any prior binding is overwritten.
func (d *Delegate[T]) BindFunc(fn func(T)) {
	d.target = nil
	d.fn = fn
	d.fnID = reflect.ValueOf(fn).Pointer()
}

// Bind binds a receiver and a method expression, e.g.
//
//	delegate.Bind(&d, &listener, (*Listener).OnEvent)
//
// The method expression is what gives the binding a stable identity: its code
// pointer is unique per (type, method) and does not vary between call sites,
// so Matches can compare it safely. Bound method values (listener.OnEvent)
// are closures and must not be used here; bind those with BindFunc.
//
// This is a top-level function because Go methods cannot introduce the extra
// receiver type parameter. Any prior binding is overwritten.
func Bind[T any, C any](d *Delegate[T], recv *C, method func(*C, T)) {
	d.target = recv
	d.fn = func(ev T) { method(recv, ev) }
	d.fnID = reflect.ValueOf(method).Pointer()
}

// Bound reports whether a target has been installed.
func (d Delegate[T]) Bound() bool { return d.fn != nil }

// Invoke calls the bound handler with ev. Returns ErrNotBound when no
// binding has been installed; a bound delegate never fails, provided the
// receiver it references is still alive.
func (d Delegate[T]) Invoke(ev T) error {
	if d.fn == nil {
		return ErrNotBound
	}
	d.fn(ev)
	return nil
}

// Matches reports whether both delegates were bound to the same identity:
// the same receiver instance (pointer equality) and the same free function or
// method expression. Two delegates bound to the same receiver but different
// methods do not match. Callers check a live delegate against a freshly bound
// probe carrying the pair they want to remove.
func (d Delegate[T]) Matches(other Delegate[T]) bool {
	return d.target == other.target && d.fnID == other.fnID
}
