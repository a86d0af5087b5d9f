// Package layout defines how a diagram hands global placement to a layout
// engine and gets coordinates back.
//
// # Protocol
//
// A [Request] is a flat description of the graph: node sizes with their
// parent cluster, edges with rank constraints and label boxes, and a few
// options. An [Engine] answers with a [Response] carrying node centers,
// cluster sizes and edge routes, or with a response of type [TypeCancel]
// when it stopped because it was asked to. The JSON encoding of both types
// is the wire format of the layout worker.
//
// # Execution
//
// Small graphs are laid out in-process by calling the engine directly. Large
// graphs run as a [Task]: the engine works in its own goroutine while the
// caller waits with [Await]. When the configured timeout elapses Await asks a
// [Prompter] whether to keep waiting or cancel. Cancellation is cooperative:
// the engine's context is cancelled and the task waits a short grace period
// for the engine to acknowledge before reporting [StatusCancelled]. A
// cancelled layout never yields partial coordinates.
//
// # Caching
//
// [Cached] wraps an engine with a [cache.Cache] keyed by the request hash,
// so unchanged graphs are not laid out twice.
package layout
