package testsupport

import (
	"context"
	"testing"

	"reelgate/internal/catalog"
	"reelgate/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedTitle creates a catalog title for tests. Variants are added separately
// through UpsertVariant where a test needs them.
func SeedTitle(t testing.TB, store *catalog.Store, lookupKey, year, display string) *catalog.Title {
	t.Helper()

	title, _, err := store.FindOrCreateTitle(context.Background(), lookupKey, year, display)
	if err != nil {
		t.Fatalf("store.FindOrCreateTitle: %v", err)
	}
	return title
}
