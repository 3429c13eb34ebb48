package songsearch

import (
	"context"
	"time"

	"github.com/kailas-cloud/songsearch/internal/db"
)

// --- db.Store mock ---

type mockStore struct {
	readyErr error
	pingErr  error
	data     map[string][]byte
	closed   int
}

var _ db.Store = (*mockStore)(nil)

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) WaitForReady(_ context.Context, _ time.Duration) error { return m.readyErr }

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) Close() { m.closed++ }
