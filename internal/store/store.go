// Package store owns the local project collection and keeps it in step with
// the remote project service.
//
// Every successful mutation is followed by a full reload; the local
// collection is never patched in place. Overlapping operations are not
// serialized, so when two reloads race the response that arrives last
// defines the collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectctl/internal/logging"
	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/view"
)

// ErrReloadFailed is wrapped when a create or remove reached the service but
// the reload that follows it failed. The change is committed remotely and the
// local collection is stale.
var ErrReloadFailed = errors.New("reload after change failed")

// Remote is the project service as seen by the store.
type Remote interface {
	List(ctx context.Context) ([]project.Project, error)
	Create(ctx context.Context, p project.Project) error
	Delete(ctx context.Context, id project.ID) error
}

// Store holds the current collection snapshot.
type Store struct {
	remote Remote
	logger *logging.Logger

	mu      sync.RWMutex
	current Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store backed by remote.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote: remote,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("store")
	return s
}

// Load fetches every project and replaces the collection. On failure the
// collection is left as it was.
func (s *Store) Load(ctx context.Context) error {
	ctx = logging.WithOperation(ctx, "load")

	projects, err := s.remote.List(ctx)
	if err != nil {
		s.logger.Warn(ctx, "load failed, keeping current collection", zap.Error(err))
		return fmt.Errorf("load projects: %w", err)
	}

	s.install(newSnapshot(projects))
	s.logger.Debug(ctx, "collection replaced", zap.Int("count", len(projects)))
	return nil
}

// Create sends p to the service and reloads. p is sent as given; validation
// belongs to project.FromDraft.
func (s *Store) Create(ctx context.Context, p project.Project) error {
	ctx = logging.WithOperation(ctx, "create")

	if err := s.remote.Create(ctx, p); err != nil {
		s.logger.Warn(ctx, "create failed", zap.String("name", p.Name), zap.Error(err))
		return fmt.Errorf("create project: %w", err)
	}
	s.logger.Info(ctx, "project created", zap.String("name", p.Name))

	return s.resync(ctx)
}

// Remove deletes the project with id and reloads. Ids not present locally are
// still sent to the service.
func (s *Store) Remove(ctx context.Context, id project.ID) error {
	ctx = logging.WithProjectID(logging.WithOperation(ctx, "remove"), id.String())

	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.Warn(ctx, "remove failed", zap.Error(err))
		return fmt.Errorf("remove project %s: %w", id, err)
	}
	s.logger.Info(ctx, "project removed")

	return s.resync(ctx)
}

func (s *Store) resync(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		s.logger.Error(ctx, "change committed but local collection is stale", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return nil
}

// Snapshot returns the current collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ApplySort reorders the collection by mode and returns the new snapshot.
// The order holds until the next reload.
func (s *Store) ApplySort(mode view.SortMode) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Snapshot{projects: view.Sort(s.current.projects, mode)}
	return s.current
}

// Visible returns the current collection filtered by search.
func (s *Store) Visible(search string) []project.Project {
	return view.Filter(s.Snapshot().Projects(), search)
}

func (s *Store) install(snap Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}
