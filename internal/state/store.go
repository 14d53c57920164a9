package state

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logging"
)

// CatalogFetcher is the API call the catalog store drives.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, limit int) ([]catalog.Item, error)
}

// ItemFetcher is the API call the detail store drives.
type ItemFetcher interface {
	FetchItem(ctx context.Context, id string) (catalog.Item, error)
}

// CatalogStore holds the list screen's fetched items.
type CatalogStore struct {
	fetcher CatalogFetcher
	limit   int
	log     logrus.FieldLogger
	m       machine[[]catalog.Item]
}

// NewCatalogStore returns an Idle store that fetches limit items.
func NewCatalogStore(fetcher CatalogFetcher, limit int, log logrus.FieldLogger) *CatalogStore {
	if log == nil {
		log = logging.Discard()
	}
	return &CatalogStore{fetcher: fetcher, limit: limit, log: log.WithField("store", "catalog")}
}

// State returns the current fetch state.
func (s *CatalogStore) State() FetchState[[]catalog.Item] {
	return s.m.state
}

// Mount enters Loading and returns the fetch to run.
func (s *CatalogStore) Mount(ctx context.Context) Pending[[]catalog.Item] {
	s.log.Debug("mount")
	return s.start(ctx)
}

// Retry re-enters Loading from Failed. It returns false in any other phase
// or when the store is not mounted.
func (s *CatalogStore) Retry(ctx context.Context) (Pending[[]catalog.Item], bool) {
	if !s.m.active || s.m.state.Phase != Failed {
		return nil, false
	}
	s.log.Info("retry")
	return s.start(ctx), true
}

// Complete applies a finished fetch. Results that arrive after Unmount or
// from a superseded fetch are dropped and false is returned.
func (s *CatalogStore) Complete(r Result[[]catalog.Item]) bool {
	applied := s.m.resolve(r)
	entry := s.log.WithField("phase", s.m.state.Phase.String())
	switch {
	case !applied:
		entry.Debug("stale result discarded")
	case r.Err != nil:
		entry.WithError(r.Err).Warn("catalog fetch failed")
	default:
		entry.WithField("items", len(r.Value)).Info("catalog loaded")
	}
	return applied
}

// Unmount stops the store from accepting results and cancels any fetch in
// flight. The current state is left as it was.
func (s *CatalogStore) Unmount() {
	s.log.Debug("unmount")
	s.m.teardown()
}

func (s *CatalogStore) start(ctx context.Context) Pending[[]catalog.Item] {
	fetchCtx, gen := s.m.begin(ctx)
	fetcher, limit := s.fetcher, s.limit
	return func() Result[[]catalog.Item] {
		items, err := fetcher.FetchCatalog(fetchCtx, limit)
		return Result[[]catalog.Item]{gen: gen, Value: items, Err: err}
	}
}

// DetailStore holds a single fetched item keyed by its navigation id.
// Each id gets a fresh state machine.
type DetailStore struct {
	fetcher ItemFetcher
	log     logrus.FieldLogger
	id      string
	m       machine[catalog.Item]
}

// NewDetailStore returns an Idle store.
func NewDetailStore(fetcher ItemFetcher, log logrus.FieldLogger) *DetailStore {
	if log == nil {
		log = logging.Discard()
	}
	return &DetailStore{fetcher: fetcher, log: log.WithField("store", "detail")}
}

// ID returns the id the store was last mounted with.
func (s *DetailStore) ID() string {
	return s.id
}

// State returns the current fetch state.
func (s *DetailStore) State() FetchState[catalog.Item] {
	return s.m.state
}

// Mount starts a fresh fetch for id.
func (s *DetailStore) Mount(ctx context.Context, id string) Pending[catalog.Item] {
	s.id = strings.TrimSpace(id)
	s.log.WithField("id", s.id).Debug("mount")
	fetchCtx, gen := s.m.begin(ctx)
	fetcher, key := s.fetcher, s.id
	return func() Result[catalog.Item] {
		item, err := fetcher.FetchItem(fetchCtx, key)
		return Result[catalog.Item]{gen: gen, Value: item, Err: err}
	}
}

// SetID restarts the store for a new id. It returns nil when the store is
// already mounted for id.
func (s *DetailStore) SetID(ctx context.Context, id string) Pending[catalog.Item] {
	if s.m.active && strings.TrimSpace(id) == s.id {
		return nil
	}
	return s.Mount(ctx, id)
}

// Complete applies a finished fetch; see CatalogStore.Complete.
func (s *DetailStore) Complete(r Result[catalog.Item]) bool {
	applied := s.m.resolve(r)
	entry := s.log.WithFields(logrus.Fields{"id": s.id, "phase": s.m.state.Phase.String()})
	switch {
	case !applied:
		entry.Debug("stale result discarded")
	case r.Err != nil:
		entry.WithError(r.Err).Warn("item fetch failed")
	default:
		entry.Info("item loaded")
	}
	return applied
}

// Unmount stops the store from accepting results and cancels any fetch in
// flight.
func (s *DetailStore) Unmount() {
	s.log.WithField("id", s.id).Debug("unmount")
	s.m.teardown()
}
