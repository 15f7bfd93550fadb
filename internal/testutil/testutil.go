package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/monarkh/site/internal/store"
)

// SetupTestStore creates a test database and returns the store.
// Uses t.TempDir() for automatic cleanup on test completion.
func SetupTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// Seed subscribes each email with the given source.
func Seed(t *testing.T, s store.Store, source string, emails ...string) {
	t.Helper()
	for _, email := range emails {
		if _, err := s.Subscribe(context.Background(), email, source); err != nil {
			t.Fatalf("failed to seed %s: %v", email, err)
		}
	}
}
