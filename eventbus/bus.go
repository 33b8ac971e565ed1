package eventbus

import (
	"errors"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// ErrClosed is returned by dispatchers that no longer accept batches.
var ErrClosed = errors.New("eventbus: closed")

// Handler receives events published from the sources it subscribed to.
type Handler interface {
	HandleEvent(source, event any)
}

type funcHandler struct {
	fn func(source, event any)
}

func (f *funcHandler) HandleEvent(source, event any) { f.fn(source, event) }

// Func wraps fn as a Handler. Every call returns a distinct handler; keep the
// result to Unsubscribe it later.
func Func(fn func(source, event any)) Handler {
	return &funcHandler{fn: fn}
}

// KindOf returns the event kind for events of type E.
func KindOf[E any]() reflect.Type {
	return reflect.TypeFor[E]()
}

// Bus is an in-process event registry. The zero value is not usable; call New.
type Bus struct {
	mu       sync.Mutex
	handlers map[any]map[reflect.Type][]Handler

	dispatcher Dispatcher
	logger     *slog.Logger
}

// New returns a bus. Without options it dispatches with a fresh Async
// dispatcher and discards its logs.
func New(opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[any]map[reflect.Type][]Handler),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.dispatcher == nil {
		b.dispatcher = NewAsync()
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b
}

// Subscribe registers h for events of the given kind published from source.
// Subscribing the same handler twice is a no-op.
func (b *Bus) Subscribe(source any, kind reflect.Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kinds := b.handlers[source]
	if kinds == nil {
		kinds = make(map[reflect.Type][]Handler)
		b.handlers[source] = kinds
	}
	if slices.Contains(kinds[kind], h) {
		return
	}
	kinds[kind] = append(kinds[kind], h)
}

// Unsubscribe removes h from (source, kind). Removing an absent handler is a
// no-op. Entries left without handlers are dropped.
func (b *Bus) Unsubscribe(source any, kind reflect.Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kinds := b.handlers[source]
	if kinds == nil {
		return
	}
	i := slices.Index(kinds[kind], h)
	if i < 0 {
		return
	}
	// Publish snapshots are clones, so deleting in place is safe.
	kinds[kind] = slices.Delete(kinds[kind], i, i+1)
	if len(kinds[kind]) == 0 {
		delete(kinds, kind)
	}
	if len(kinds) == 0 {
		delete(b.handlers, source)
	}
}

// ForgetSource removes every registration for source, across all kinds.
func (b *Bus) ForgetSource(source any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, source)
}

// Publish dispatches event to the handlers registered for source and the
// event's dynamic type. Publishing with no handlers is a no-op.
func (b *Bus) Publish(source, event any) {
	b.mu.Lock()
	batch := b.snapshotLocked(source, reflect.TypeOf(event))
	b.mu.Unlock()

	b.dispatch(source, event, batch)
}

// PublishAndForget is Publish followed by ForgetSource, done atomically: the
// handlers registered at the moment of the call still receive the event, and
// nothing can be delivered from source afterwards.
func (b *Bus) PublishAndForget(source, event any) {
	b.mu.Lock()
	batch := b.snapshotLocked(source, reflect.TypeOf(event))
	delete(b.handlers, source)
	b.mu.Unlock()

	b.dispatch(source, event, batch)
}

// Handlers reports how many handlers are registered for (source, kind).
func (b *Bus) Handlers(source any, kind reflect.Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[source][kind])
}

// Len reports the number of sources with at least one registration.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Close closes the dispatcher. Batches already dispatched are allowed to
// finish; later publishes are dropped and logged.
func (b *Bus) Close() error {
	return b.dispatcher.Close()
}

func (b *Bus) snapshotLocked(source any, kind reflect.Type) []Handler {
	return slices.Clone(b.handlers[source][kind])
}

func (b *Bus) dispatch(source, event any, batch []Handler) {
	if len(batch) == 0 {
		return
	}
	err := b.dispatcher.Dispatch(func() {
		for _, h := range batch {
			b.invoke(h, source, event)
		}
	})
	if err != nil {
		b.logger.Error("event dropped",
			slog.String("kind", reflect.TypeOf(event).String()),
			slog.Int("handlers", len(batch)),
			slog.Any("error", err))
	}
}

// invoke runs one handler, recovering a panic so the rest of the batch still
// gets delivered.
func (b *Bus) invoke(h Handler, source, event any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				slog.String("kind", reflect.TypeOf(event).String()),
				slog.Any("panic", r))
		}
	}()
	h.HandleEvent(source, event)
}
