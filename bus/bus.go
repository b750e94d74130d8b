// Package bus implements a synchronous in-process publish/subscribe registry.
// Handlers are bound per event type and invoked in registration order when a
// value of that type is emitted. Handlers bound as (instance, method
// expression) pairs can be unbound again by presenting the same pair.
package bus

import (
	"reflect"
	"sync"
	"sync/atomic"

	"signalbus/delegate"
)

// Bus maps event types to their subscription handles. The registry is guarded
// by a RWMutex so Bind/Unbind/Emit may be called from multiple goroutines.
// The bus owns its handles but never the subscriber instances behind them:
// unbind a subscriber before releasing it, or tear the bus down first.
type Bus struct {
	mu   sync.RWMutex
	subs map[reflect.Type][]subscription

	emits      uint64
	deliveries uint64
}

// Stats exposes current registry metrics.
type Stats struct {
	EventTypes    int            `json:"event_types"`
	Subscriptions int            `json:"subscriptions"`
	PerType       map[string]int `json:"per_type"`
	Emits         uint64         `json:"emits"`
	Deliveries    uint64         `json:"deliveries"`
}

func New() *Bus {
	return &Bus{subs: make(map[reflect.Type][]subscription)}
}

// Bind subscribes a receiver's method to event type T, e.g.
//
//	bus.Bind(b, &listener, (*Listener).OnFileSeen)
//
// Binding the same pair twice yields two independent subscriptions that both
// fire per Emit; one Unbind removes them all.
func Bind[T any, C any](b *Bus, recv *C, method func(*C, T)) {
	var d delegate.Delegate[T]
	delegate.Bind(&d, recv, method)
	b.add(reflect.TypeFor[T](), typedSub[T]{d: d})
}

// BindFunc subscribes a free function to event type T.
func BindFunc[T any](b *Bus, fn func(T)) {
	var d delegate.Delegate[T]
	d.BindFunc(fn)
	b.add(reflect.TypeFor[T](), typedSub[T]{d: d})
}

// Unbind removes every subscription of (recv, method) for event type T.
// Unbinding a pair that was never bound, or a type with no subscriptions at
// all, is a no-op.
func Unbind[T any, C any](b *Bus, recv *C, method func(*C, T)) {
	var probe delegate.Delegate[T]
	delegate.Bind(&probe, recv, method)
	b.remove(reflect.TypeFor[T](), probe)
}

// UnbindFunc removes every subscription of the free function fn for type T.
func UnbindFunc[T any](b *Bus, fn func(T)) {
	var probe delegate.Delegate[T]
	probe.BindFunc(fn)
	b.remove(reflect.TypeFor[T](), probe)
}

// Emit delivers ev synchronously to every subscriber of exactly type T, in
// registration order, on the caller's goroutine. No subscribers is a no-op.
// The handle list is snapshotted before delivery, so handlers that Bind or
// Unbind on the same bus do not affect the in-flight fan-out. The first
// handler error aborts the remaining dispatch and is returned.
func Emit[T any](b *Bus, ev T) error {
	key := reflect.TypeFor[T]()

	b.mu.RLock()
	atomic.AddUint64(&b.emits, 1)
	live := b.subs[key]
	snapshot := make([]subscription, len(live))
	copy(snapshot, live)
	b.mu.RUnlock()

	for _, s := range snapshot {
		if err := s.deliver(ev); err != nil {
			return err
		}
		atomic.AddUint64(&b.deliveries, 1)
	}
	return nil
}

// Stats returns current registry metrics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st := Stats{
		EventTypes: len(b.subs),
		PerType:    make(map[string]int, len(b.subs)),
		Emits:      atomic.LoadUint64(&b.emits),
		Deliveries: atomic.LoadUint64(&b.deliveries),
	}
	for typ, list := range b.subs {
		st.Subscriptions += len(list)
		st.PerType[typ.String()] = len(list)
	}
	return st
}

func (b *Bus) add(key reflect.Type, s subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[key] = append(b.subs[key], s)
}

// remove prunes all handles matching probe. The per-type entry stays in the
// registry while any handle remains; it is deleted only once the list is
// empty after pruning.
func (b *Bus) remove(key reflect.Type, probe any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	live, ok := b.subs[key]
	if !ok {
		return
	}
	kept := make([]subscription, 0, len(live))
	for _, s := range live {
		if !s.matches(probe) {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, key)
		return
	}
	b.subs[key] = kept
}
