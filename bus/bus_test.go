package bus

import (
	"testing"
)

type StringEvent struct {
	S string
}

type IntEvent struct {
	N int
}

type recorder struct {
	got []string
}

func (r *recorder) Say(ev StringEvent) {
	r.got = append(r.got, ev.S)
}

func (r *recorder) Shout(ev StringEvent) {
	r.got = append(r.got, "!"+ev.S)
}

func (r *recorder) Count(ev IntEvent) {
	r.got = append(r.got, "int")
}

func TestEmitNoSubscribers(t *testing.T) {
	b := New()
	if err := Emit(b, StringEvent{S: "nobody"}); err != nil {
		t.Fatalf("emit with zero subscribers: %v", err)
	}
}

func TestBindEmitScenario(t *testing.T) {
	b := New()
	var a recorder
	Bind(b, &a, (*recorder).Say)

	if err := Emit(b, StringEvent{S: "Test1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := Emit(b, StringEvent{S: "Test2"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a.got) != 2 || a.got[0] != "Test1" || a.got[1] != "Test2" {
		t.Fatalf("expected [Test1 Test2], got %v", a.got)
	}
}

func TestDuplicateBindFiresTwice(t *testing.T) {
	b := New()
	var a recorder
	Bind(b, &a, (*recorder).Say)
	Bind(b, &a, (*recorder).Say)

	if err := Emit(b, StringEvent{S: "x"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a.got) != 2 {
		t.Fatalf("expected 2 deliveries for duplicate bind, got %d", len(a.got))
	}
}

func TestUnbindPrunesAllMatches(t *testing.T) {
	b := New()
	var a recorder
	Bind(b, &a, (*recorder).Say)
	Bind(b, &a, (*recorder).Say)
	Unbind(b, &a, (*recorder).Say)

	if err := Emit(b, StringEvent{S: "gone"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a.got) != 0 {
		t.Fatalf("expected no deliveries after unbind, got %v", a.got)
	}
}

func TestUnbindNeverBoundIsNoop(t *testing.T) {
	b := New()
	var a, stranger recorder
	Bind(b, &a, (*recorder).Say)
	Unbind(b, &stranger, (*recorder).Say)
	Unbind(b, &a, (*recorder).Shout)

	if err := Emit(b, StringEvent{S: "still here"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a.got) != 1 {
		t.Fatalf("unrelated unbind disturbed subscription, got %v", a.got)
	}
}

func TestUnbindDistinguishesInstances(t *testing.T) {
	b := New()
	var a1, a2 recorder
	Bind(b, &a1, (*recorder).Say)
	Bind(b, &a2, (*recorder).Say)
	Unbind(b, &a1, (*recorder).Say)

	if err := Emit(b, StringEvent{S: "one left"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a1.got) != 0 {
		t.Fatalf("unbound instance still received: %v", a1.got)
	}
	if len(a2.got) != 1 {
		t.Fatalf("remaining instance did not receive: %v", a2.got)
	}
}

func TestUnbindDistinguishesMethods(t *testing.T) {
	b := New()
	var a recorder
	Bind(b, &a, (*recorder).Say)
	Bind(b, &a, (*recorder).Shout)
	Unbind(b, &a, (*recorder).Say)

	if err := Emit(b, StringEvent{S: "y"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a.got) != 1 || a.got[0] != "!y" {
		t.Fatalf("expected only Shout to remain, got %v", a.got)
	}
}

// Regression: the per-type entry must survive a partial unbind; it is removed
// only once its handle list is empty.
func TestPartialUnbindKeepsRegistryEntry(t *testing.T) {
	b := New()
	var a1, a2 recorder
	Bind(b, &a1, (*recorder).Say)
	Bind(b, &a2, (*recorder).Say)

	Unbind(b, &a1, (*recorder).Say)
	st := b.Stats()
	if st.EventTypes != 1 || st.Subscriptions != 1 {
		t.Fatalf("expected entry kept with 1 handle, got types=%d subs=%d", st.EventTypes, st.Subscriptions)
	}

	Unbind(b, &a2, (*recorder).Say)
	st = b.Stats()
	if st.EventTypes != 0 || st.Subscriptions != 0 {
		t.Fatalf("expected empty registry, got types=%d subs=%d", st.EventTypes, st.Subscriptions)
	}
}

func TestRegistrationOrderIsDeliveryOrder(t *testing.T) {
	b := New()
	var order []string
	BindFunc(b, func(StringEvent) { order = append(order, "a") })
	BindFunc(b, func(StringEvent) { order = append(order, "b") })
	BindFunc(b, func(StringEvent) { order = append(order, "c") })

	if err := Emit(b, StringEvent{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("expected delivery order [a b c], got %v", order)
	}
}

func TestTypesAreIsolated(t *testing.T) {
	b := New()
	var a recorder
	Bind(b, &a, (*recorder).Say)
	Bind(b, &a, (*recorder).Count)

	if err := Emit(b, IntEvent{N: 5}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a.got) != 1 || a.got[0] != "int" {
		t.Fatalf("expected only int handler, got %v", a.got)
	}
}

var freeCalls int

func freeStringHandler(StringEvent) { freeCalls++ }

func TestBindFuncUnbindFunc(t *testing.T) {
	b := New()
	freeCalls = 0
	BindFunc(b, freeStringHandler)
	if err := Emit(b, StringEvent{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	UnbindFunc(b, freeStringHandler)
	if err := Emit(b, StringEvent{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if freeCalls != 1 {
		t.Fatalf("expected 1 call, got %d", freeCalls)
	}
}

// A handler that unbinds itself mid-delivery must not disturb the in-flight
// fan-out: the snapshot taken at Emit still runs to completion.
type selfRemover struct {
	b     *Bus
	calls int
}

func (s *selfRemover) OnEvent(ev StringEvent) {
	s.calls++
	Unbind(s.b, s, (*selfRemover).OnEvent)
}

func TestReentrantUnbindDuringEmit(t *testing.T) {
	b := New()
	s1 := &selfRemover{b: b}
	s2 := &selfRemover{b: b}
	Bind(b, s1, (*selfRemover).OnEvent)
	Bind(b, s2, (*selfRemover).OnEvent)

	if err := Emit(b, StringEvent{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if s1.calls != 1 || s2.calls != 1 {
		t.Fatalf("expected both handlers to run once, got %d and %d", s1.calls, s2.calls)
	}

	if err := Emit(b, StringEvent{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if s1.calls != 1 || s2.calls != 1 {
		t.Fatalf("expected no deliveries after self-unbind, got %d and %d", s1.calls, s2.calls)
	}
}

type chainBinder struct {
	b     *Bus
	extra *recorder
}

func (c *chainBinder) OnEvent(ev StringEvent) {
	Bind(c.b, c.extra, (*recorder).Say)
}

func TestReentrantBindDuringEmit(t *testing.T) {
	b := New()
	var extra recorder
	c := &chainBinder{b: b, extra: &extra}
	Bind(b, c, (*chainBinder).OnEvent)

	if err := Emit(b, StringEvent{S: "first"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(extra.got) != 0 {
		t.Fatalf("handler bound mid-emit received the in-flight event: %v", extra.got)
	}

	if err := Emit(b, StringEvent{S: "second"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(extra.got) != 1 || extra.got[0] != "second" {
		t.Fatalf("expected late subscriber to see second emit only, got %v", extra.got)
	}
}

func TestStatsCounters(t *testing.T) {
	b := New()
	var a recorder
	Bind(b, &a, (*recorder).Say)
	Bind(b, &a, (*recorder).Count)

	_ = Emit(b, StringEvent{S: "s"})
	_ = Emit(b, IntEvent{N: 1})
	_ = Emit(b, IntEvent{N: 2})

	st := b.Stats()
	if st.EventTypes != 2 || st.Subscriptions != 2 {
		t.Fatalf("unexpected registry stats: %+v", st)
	}
	if st.Emits != 3 || st.Deliveries != 3 {
		t.Fatalf("expected 3 emits and 3 deliveries, got %d/%d", st.Emits, st.Deliveries)
	}
	if st.PerType["bus.StringEvent"] != 1 {
		t.Fatalf("unexpected per-type stats: %+v", st.PerType)
	}
}
