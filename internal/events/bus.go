// Package events is an in-process publish/subscribe bus. Each dashboard
// session owns its own Bus; there is no package-level instance.
package events

import (
	"fmt"
	"sync"

	"go-ppm-dashboard/internal/metrics"
	"go-ppm-dashboard/pkg/logger"
)

// Handler receives the payload passed to Emit
type Handler func(payload any)

// Listener is the registration identity of a handler. Registering the same
// Listener twice for one event keeps a single registration.
type Listener struct {
	fn Handler
}

func NewListener(fn Handler) *Listener {
	return &Listener{fn: fn}
}

type Bus struct {
	mu        sync.Mutex
	listeners map[Name][]*Listener
	log       *logger.Logger
}

func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{
		listeners: make(map[Name][]*Listener),
		log:       log,
	}
}

// On registers fn and returns its listener plus an unregister func.
func (b *Bus) On(event Name, fn Handler) (*Listener, func()) {
	l := NewListener(fn)
	return l, b.OnListener(event, l)
}

// OnListener registers l for event; a second registration of the same l is ignored.
func (b *Bus) OnListener(event Name, l *Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.listeners[event] {
		if existing == l {
			return func() { b.Off(event, l) }
		}
	}
	b.listeners[event] = append(b.listeners[event], l)
	return func() { b.Off(event, l) }
}

func (b *Bus) Off(event Name, l *Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[event]
	for i, existing := range list {
		if existing == l {
			next := make([]*Listener, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.listeners, event)
			} else {
				b.listeners[event] = next
			}
			return
		}
	}
}

// Once registers fn so that it runs at most once.
func (b *Bus) Once(event Name, fn Handler) *Listener {
	var (
		once sync.Once
		l    *Listener
	)
	l = NewListener(func(payload any) {
		once.Do(func() {
			b.Off(event, l)
			fn(payload)
		})
	})
	b.OnListener(event, l)
	return l
}

// Emit calls every listener of event synchronously, in registration order.
// A panicking listener is logged and skipped; the rest still run.
func (b *Bus) Emit(event Name, payload any) {
	b.mu.Lock()
	snapshot := append([]*Listener(nil), b.listeners[event]...)
	b.mu.Unlock()

	metrics.EventsEmitted.WithLabelValues(string(event)).Inc()
	for _, l := range snapshot {
		b.dispatch(event, l, payload)
	}
}

func (b *Bus) dispatch(event Name, l *Listener, payload any) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanics.WithLabelValues(string(event)).Inc()
			b.log.Error("event handler failed", "event", event, "panic", fmt.Sprint(r))
		}
	}()
	l.fn(payload)
}

// Clear drops every registration.
func (b *Bus) Clear() {
	b.mu.Lock()
	b.listeners = make(map[Name][]*Listener)
	b.mu.Unlock()
}

func (b *Bus) ListenerCount(event Name) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event])
}
