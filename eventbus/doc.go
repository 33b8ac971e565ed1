// Package eventbus provides an in-process publish/subscribe registry keyed by
// event source and event kind.
//
// A handler is registered for a (source, kind) pair, where the kind is the
// dynamic type of the published event value:
//
//	bus := eventbus.New()
//	bus.Subscribe(player, eventbus.KindOf[BallReturned](), game)
//	bus.Publish(player, BallReturned{})
//
// # Dispatch
//
// Publish takes a snapshot of the handlers registered for (source, kind) at
// the moment of the call and hands the batch to a Dispatcher. The batch runs
// off the publisher's stack; handlers inside one batch run in registration
// order. Registry changes made after the snapshot do not affect the batch, so
// a handler may unsubscribe itself or forget a source while being invoked.
//
// Two dispatchers are provided:
//   - Async (default): every batch runs on its own goroutine. Separate
//     batches have no relative ordering.
//   - Ticked: batches are queued and run in FIFO order on Tick, either driven
//     by hand (tests) or by Run on a fixed tick rate. Everything published on
//     the bus is serialized onto one goroutine.
//
// Dispatchers must never run a batch on the caller's stack: publishers are
// allowed to hold their own locks while publishing.
//
// # Identity
//
// Sources are compared with ==, and so are handlers. Both must be comparable,
// in practice pointers. Use Func to turn a function into a handler with
// pointer identity.
package eventbus
