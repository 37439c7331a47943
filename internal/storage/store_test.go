package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// storeFactories lists every backend that can run without external services.
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			return createTestFileStore(t)
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore() error = %v", err)
			}
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			if _, err := store.Get(ctx, KeyStructure); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := store.Put(ctx, KeyStructure, []byte(`[1]`)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := store.Put(ctx, KeyStructure, []byte(`[2]`)); err != nil {
				t.Fatalf("Put(overwrite) error = %v", err)
			}
			if err := store.Put(ctx, KeyHistory, []byte(`[]`)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := store.Get(ctx, KeyStructure)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != `[2]` {
				t.Errorf("Get() = %s, want [2]", got)
			}
			got, _ = store.Get(ctx, KeyHistory)
			if string(got) != `[]` {
				t.Errorf("Get(history) = %s, want []", got)
			}

			if err := store.Put(ctx, "../escape", []byte(`x`)); err == nil {
				t.Error("Put() accepted an invalid key")
			}
			if _, err := store.Get(ctx, "../escape"); err == nil || errors.Is(err, ErrNotFound) {
				t.Errorf("Get(invalid key) error = %v, want a key error", err)
			}
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := s.Put(ctx, KeyHistory, []byte(`["kept"]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore(reopen) error = %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, KeyHistory)
	if err != nil || string(got) != `["kept"]` {
		t.Errorf("Get() = %s, %v", got, err)
	}
}

func TestRedisStore_Contract(t *testing.T) {
	addr := os.Getenv("TASKBOARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TASKBOARD_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(RedisOptions{Addr: addr, Prefix: "taskboard-test:" + t.Name() + ":"})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Put(ctx, KeyStructure, []byte(`[]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := s.Get(ctx, KeyStructure)
	if err != nil || string(got) != `[]` {
		t.Errorf("Get() = %s, %v", got, err)
	}
	if _, err := s.Get(ctx, "never-written"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}
