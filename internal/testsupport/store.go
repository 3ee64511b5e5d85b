package testsupport

import (
	"testing"

	"ridgeid/internal/config"
	"ridgeid/internal/roster"
)

// MustOpenStore opens the roster database described by cfg and registers
// cleanup with the test.
func MustOpenStore(t testing.TB, cfg *config.Config) *roster.Store {
	t.Helper()
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := roster.Open(cfg)
	if err != nil {
		t.Fatalf("roster.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustAddStudent inserts a student with the given ID and a generated name.
func MustAddStudent(t testing.TB, store *roster.Store, id, first, last string) *roster.Student {
	t.Helper()
	st, err := store.AddStudent(t.Context(), roster.Student{StudentID: id, FirstName: first, LastName: last})
	if err != nil {
		t.Fatalf("AddStudent %s: %v", id, err)
	}
	return st
}
