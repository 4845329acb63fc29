// Package helpers provides shared test fixtures.
package helpers

import (
	"testing"

	"github.com/minasamy417/resultsboard/store"
)

// NewTestStore returns an in-memory SQLite store torn down with the test.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
