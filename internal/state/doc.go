// Package state holds the fetch state of the list and detail screens.
//
// # Overview
//
// Each screen owns one store. A store is a small state machine over the
// tagged variant FetchState:
//
//	Idle ──Mount──> Loading ──success──> Loaded
//	                   │
//	                   └──failure──> Failed ──Retry──> Loading   (catalog only)
//
// Loaded and Failed are terminal until a new fetch is triggered explicitly
// (Mount, Retry, or a DetailStore id change).
//
// # Running Fetches
//
// Stores never block. Mount and Retry switch to Loading and return a
// Pending function; the caller runs it wherever it likes (the UI wraps it in
// a tea.Cmd) and passes the Result back to Complete:
//
//	pending := store.Mount(ctx)
//	go func() { results <- pending() }()
//	...
//	store.Complete(<-results)
//
// # Cancellation
//
// Every fetch gets a generation number and a child context. Unmount clears
// the store's active flag and cancels the context. Complete drops a result
// when the store is no longer mounted or when a newer fetch has started
// since the result's fetch began, so a late response can never overwrite
// what the screen currently shows.
//
// # Concurrency Model
//
// Stores are not synchronised. They are owned by a single event loop (the
// Bubble Tea Update function) which is the only caller of Mount, Retry,
// SetID, Complete and Unmount. Pending functions only capture immutable
// values and the fetch context.
//
// # Messages
//
// Errors reach screens as text only, via Message. Kinds are distinguished
// with errors.Is against the catalog sentinels.
package state
