package events

import (
	"reflect"
	"testing"
)

func TestEmitInRegistrationOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string
	bus.On(PartSelected, func(any) { got = append(got, "a") })
	bus.On(PartSelected, func(any) { got = append(got, "b") })
	bus.On(CostUpdated, func(any) { got = append(got, "other") })

	bus.Emit(PartSelected, PartSelectedPayload{PartID: "P1"})
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
}

func TestPayloadIsDelivered(t *testing.T) {
	bus := NewBus(nil)
	var got CostUpdatedPayload
	bus.On(CostUpdated, func(p any) { got = p.(CostUpdatedPayload) })
	bus.Emit(CostUpdated, CostUpdatedPayload{CurrentCost: 10, TargetCost: 8})
	if got.CurrentCost != 10 || got.TargetCost != 8 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestOnOffRoundTrip(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	l, unsubscribe := bus.On(RefreshData, func(any) { calls++ })
	unsubscribe()
	bus.Emit(RefreshData, nil)
	if calls != 0 {
		t.Fatalf("unregistered handler ran %d times", calls)
	}

	bus.OnListener(RefreshData, l)
	bus.Off(RefreshData, l)
	bus.Emit(RefreshData, nil)
	if calls != 0 {
		t.Fatalf("handler removed with Off ran %d times", calls)
	}
	if n := bus.ListenerCount(RefreshData); n != 0 {
		t.Fatalf("want 0 listeners got %d", n)
	}
}

func TestSameListenerRegisteredOnce(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	l := NewListener(func(any) { calls++ })
	bus.OnListener(ExportRequested, l)
	bus.OnListener(ExportRequested, l)

	bus.Emit(ExportRequested, nil)
	if calls != 1 {
		t.Fatalf("want 1 call got %d", calls)
	}
	if n := bus.ListenerCount(ExportRequested); n != 1 {
		t.Fatalf("want 1 listener got %d", n)
	}
}

func TestOnceRunsExactlyOnce(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	bus.Once(CostDownApplied, func(any) { calls++ })
	for i := 0; i < 5; i++ {
		bus.Emit(CostDownApplied, nil)
	}
	if calls != 1 {
		t.Fatalf("want 1 call got %d", calls)
	}
	if n := bus.ListenerCount(CostDownApplied); n != 0 {
		t.Fatalf("once listener should unregister itself, %d left", n)
	}
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	bus := NewBus(nil)
	var after bool
	bus.On(CostUpdated, func(any) { panic("boom") })
	bus.On(CostUpdated, func(any) { after = true })

	bus.Emit(CostUpdated, nil)
	if !after {
		t.Fatalf("handler after the panicking one did not run")
	}
}

func TestHandlerMayUnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus(nil)
	var order []string
	var unsubscribe func()
	_, unsubscribe = bus.On(AddToComparison, func(any) {
		order = append(order, "first")
		unsubscribe()
	})
	bus.On(AddToComparison, func(any) { order = append(order, "second") })

	bus.Emit(AddToComparison, nil)
	bus.Emit(AddToComparison, nil)
	if want := []string{"first", "second", "second"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("want=%v got=%v", want, order)
	}
}

func TestClearDropsEverything(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	for _, name := range Names {
		bus.On(name, func(any) { calls++ })
	}
	bus.Clear()
	for _, name := range Names {
		bus.Emit(name, nil)
	}
	if calls != 0 {
		t.Fatalf("want 0 calls after Clear got %d", calls)
	}
}

func TestBusesAreIndependent(t *testing.T) {
	a, b := NewBus(nil), NewBus(nil)
	calls := 0
	a.On(PartSelected, func(any) { calls++ })
	b.Emit(PartSelected, nil)
	if calls != 0 {
		t.Fatalf("emit on one bus reached another bus")
	}
}
