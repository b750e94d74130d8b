package bus

import "signalbus/delegate"

// subscription is the type-erased handle stored in the registry so handles
// for heterogeneous event types share one map value shape. Each concrete
// handle is typed to exactly one event type.
type subscription interface {
	deliver(ev any) error
	matches(probe any) bool
}

// typedSub wraps one bound delegate for event type T.
type typedSub[T any] struct {
	d delegate.Delegate[T]
}

func (s typedSub[T]) deliver(ev any) error {
	return s.d.Invoke(ev.(T))
}

// matches compares against a probe delegate built from the (instance, method)
// pair being unbound. A probe for a different event type never matches.
func (s typedSub[T]) matches(probe any) bool {
	p, ok := probe.(delegate.Delegate[T])
	if !ok {
		return false
	}
	return s.d.Matches(p)
}
