package post

import (
	"context"
	"testing"

	dbRedis "github.com/kailas-cloud/blogsearch/internal/db/redis"
)

// The production Redis store and the test double satisfy the same consumer interface.
var (
	_ store = (*dbRedis.Store)(nil)
	_ store = (*mockStore)(nil)
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn      func(ctx context.Context, key, path string, data []byte) error
	jsonGetMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.jsonGetMultiFn != nil {
		return m.jsonGetMultiFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "test:"), ms
}
