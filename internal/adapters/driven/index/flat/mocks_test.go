package flat

import (
	"context"
	"errors"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// mockStore keeps snapshots in memory, keyed by path.
type mockStore struct {
	snaps    map[string]*domain.IndexSnapshot
	writeErr error
	readErr  error
}

func newMockStore() *mockStore {
	return &mockStore{snaps: make(map[string]*domain.IndexSnapshot)}
}

func (m *mockStore) Write(_ context.Context, path string, snap *domain.IndexSnapshot) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	cp := &domain.IndexSnapshot{Dimension: snap.Dimension}
	for _, e := range snap.Entries {
		cp.Entries = append(cp.Entries, e.Clone())
	}
	m.snaps[path] = cp
	return nil
}

func (m *mockStore) Read(_ context.Context, path string) (*domain.IndexSnapshot, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	snap, ok := m.snaps[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := &domain.IndexSnapshot{Dimension: snap.Dimension}
	for _, e := range snap.Entries {
		cp.Entries = append(cp.Entries, e.Clone())
	}
	return cp, nil
}

func (m *mockStore) Delete(_ context.Context, path string) error {
	if _, ok := m.snaps[path]; !ok {
		return domain.ErrNotFound
	}
	delete(m.snaps, path)
	return nil
}

func (m *mockStore) Format() domain.IndexFormat {
	return "mock"
}

var errDisk = errors.New("disk full")
