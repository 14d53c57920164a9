package state

import (
	"context"

	"github.com/pkg/errors"

	"github.com/five82/storefront/internal/catalog"
)

// Phase tags the lifecycle of a store's network load.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// FetchState is the tagged variant exposed to screens. Data is meaningful
// only when Phase is Loaded and Message only when Phase is Failed.
type FetchState[T any] struct {
	Phase   Phase
	Data    T
	Message string
}

// Result carries a completed fetch back to the store that issued it.
type Result[T any] struct {
	gen   uint64
	Value T
	Err   error
}

// Pending performs a fetch. It touches no store state and may run on any
// goroutine; hand its Result to the issuing store's Complete.
type Pending[T any] func() Result[T]

// machine is the Idle/Loading/Loaded/Failed state machine shared by the
// catalog and detail stores. It is not safe for concurrent use; only the
// owner's event loop mutates it.
type machine[T any] struct {
	state  FetchState[T]
	gen    uint64
	active bool
	cancel context.CancelFunc
}

// begin enters Loading and returns the context and generation for the new
// fetch. Any previous fetch is cancelled and its result will be ignored.
func (m *machine[T]) begin(parent context.Context) (context.Context, uint64) {
	if m.cancel != nil {
		m.cancel()
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.gen++
	m.active = true
	var zero T
	m.state = FetchState[T]{Phase: Loading, Data: zero}
	return ctx, m.gen
}

// resolve applies r if it belongs to the current fetch of a mounted store.
func (m *machine[T]) resolve(r Result[T]) bool {
	if !m.active || r.gen != m.gen || m.state.Phase != Loading {
		return false
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if r.Err != nil {
		var zero T
		m.state = FetchState[T]{Phase: Failed, Data: zero, Message: Message(r.Err)}
		return true
	}
	m.state = FetchState[T]{Phase: Loaded, Data: r.Value}
	return true
}

func (m *machine[T]) teardown() {
	m.active = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Message turns a fetch error into the text shown on screen.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrInvalidID):
		return "Invalid product id"
	case errors.Is(err, catalog.ErrNotFound):
		return "Product not found"
	case errors.Is(err, catalog.ErrParse):
		return "The server sent an unexpected response"
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond"
	case errors.Is(err, catalog.ErrNetwork):
		return "Could not reach the server. Check your connection"
	default:
		return "Something went wrong: " + err.Error()
	}
}
