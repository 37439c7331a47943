package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/fsutil"
	"taskboard/internal/history"
)

func createTestRepository(t *testing.T) (*Repository, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	repo := NewRepository(store, nil)
	repo.SetLocation(testLoc)
	return repo, store
}

func TestRepository_MissingKeysGiveDefaults(t *testing.T) {
	repo, _ := createTestRepository(t)
	ctx := context.Background()

	b, err := repo.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("LoadBoard() error = %v", err)
	}
	if !b.IsEmpty() || b.Default() == nil {
		t.Error("missing board snapshot should give an empty default board")
	}

	l, err := repo.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("history Len() = %d, want 0", l.Len())
	}
}

func TestRepository_MalformedFallsBackToDefaults(t *testing.T) {
	repo, store := createTestRepository(t)
	ctx := context.Background()
	store.Put(ctx, KeyStructure, []byte(`[{"id":"s","todos":[{"name":"no id"}]}]`))
	store.Put(ctx, KeyHistory, []byte(`[{"date":"someday","todos":[{"id":"x"}]}]`))

	b, err := repo.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("LoadBoard() error = %v", err)
	}
	if len(b.Sections()) != 1 || b.TaskCount() != 0 {
		t.Error("malformed board should not be partially recovered")
	}

	l, err := repo.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if l.Len() != 0 {
		t.Error("malformed history should not be partially recovered")
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	repo, _ := createTestRepository(t)
	ctx := context.Background()

	b := sampleBoard(t)
	l := history.New()
	l.Record(&board.Task{ID: "done1", SectionID: "section1"}, "11:30", time.Date(2026, 10, 16, 11, 30, 0, 0, testLoc))

	if err := repo.SaveBoard(ctx, b); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}
	if err := repo.SaveHistory(ctx, l); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}

	gotBoard, err := repo.LoadBoard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if gotBoard.TaskCount() != b.TaskCount() || len(gotBoard.Sections()) != 2 {
		t.Errorf("board after reload: %d tasks, %d sections", gotBoard.TaskCount(), len(gotBoard.Sections()))
	}

	gotLog, err := repo.LoadHistory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p := gotLog.PartitionOf("done1")
	if p == nil || p.Date.Format(PartitionDateLayout) != "2026-10-16" {
		t.Errorf("history after reload: %+v", p)
	}
}

type failingStore struct{ MemoryStore }

var errUnavailable = errors.New("backend unavailable")

func (*failingStore) Get(context.Context, string) ([]byte, error) { return nil, errUnavailable }
func (*failingStore) Put(context.Context, string, []byte) error   { return errUnavailable }

func TestRepository_StoreErrorsPropagate(t *testing.T) {
	repo := NewRepository(&failingStore{}, nil)
	ctx := context.Background()

	if _, err := repo.LoadBoard(ctx); !errors.Is(err, errUnavailable) {
		t.Errorf("LoadBoard() error = %v", err)
	}
	if _, err := repo.LoadHistory(ctx); !errors.Is(err, errUnavailable) {
		t.Errorf("LoadHistory() error = %v", err)
	}
	if err := repo.SaveBoard(ctx, board.New()); !errors.Is(err, errUnavailable) {
		t.Errorf("SaveBoard() error = %v", err)
	}
}

func TestRepository_FileStoreEndToEnd(t *testing.T) {
	store := createTestFileStore(t)
	repo := NewRepository(store, nil)
	ctx := context.Background()

	if err := repo.SaveBoard(ctx, sampleBoard(t)); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(store.Dir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRepository(reopened, nil).LoadBoard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if b.FindSection("section1") == nil || b.TaskCount() != 3 {
		t.Errorf("reloaded board has %d tasks", b.TaskCount())
	}
}

func TestRepository_FileStoreRecoversSnapshotThatIsNotABoard(t *testing.T) {
	store := createTestFileStore(t)
	store.SetNowFunc(func() time.Time { return time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC) })
	repo := NewRepository(store, nil)
	ctx := context.Background()

	if err := repo.SaveBoard(ctx, sampleBoard(t)); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveBoard(ctx, board.New()); err != nil {
		t.Fatal(err)
	}
	// Valid JSON, but an object where the codec wants a list of sections.
	if err := os.WriteFile(store.Path(KeyStructure), []byte(`{"sections":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	b, err := repo.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("LoadBoard() error = %v", err)
	}
	if b.TaskCount() != 3 {
		t.Fatalf("LoadBoard() has %d tasks, want the 3 from the backup", b.TaskCount())
	}
	if _, err := os.Stat(store.Path(KeyStructure) + ".corrupt.20261016-080000"); err != nil {
		t.Errorf("broken file not kept aside: %v", err)
	}

	// Saving again must not replace the good backup with the broken blob.
	if err := repo.SaveBoard(ctx, b); err != nil {
		t.Fatal(err)
	}
	bak, err := os.ReadFile(fsutil.BackupPath(store.Path(KeyStructure)))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	fromBak, err := UnmarshalBoard(bak)
	if err != nil {
		t.Fatalf("backup no longer decodes: %v\n%s", err, bak)
	}
	if fromBak.TaskCount() != 3 {
		t.Errorf("backup has %d tasks, want 3", fromBak.TaskCount())
	}
}

func TestRepository_FileStoreMovesAsideUndecodableSnapshot(t *testing.T) {
	tests := []struct {
		name string
		key  string
		data string
	}{
		{"section without id", KeyStructure, `[{"name":"Work","todos":[]}]`},
		{"history as object", KeyHistory, `{"date":"2026-10-16"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestFileStore(t)
			store.SetNowFunc(func() time.Time { return time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC) })
			repo := NewRepository(store, nil)
			ctx := context.Background()

			if err := os.WriteFile(store.Path(tt.key), []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}

			b, err := repo.LoadBoard(ctx)
			if err != nil {
				t.Fatalf("LoadBoard() error = %v", err)
			}
			l, err := repo.LoadHistory(ctx)
			if err != nil {
				t.Fatalf("LoadHistory() error = %v", err)
			}
			if !b.IsEmpty() || l.Len() != 0 {
				t.Error("undecodable snapshot should load as empty defaults")
			}

			if err := repo.SaveBoard(ctx, b); err != nil {
				t.Fatal(err)
			}
			if err := repo.SaveHistory(ctx, l); err != nil {
				t.Fatal(err)
			}
			kept, err := os.ReadFile(store.Path(tt.key) + ".corrupt.20261016-080000")
			if err != nil {
				t.Fatalf("broken file not kept aside: %v", err)
			}
			if string(kept) != tt.data {
				t.Errorf("kept file = %s, want the original bytes", kept)
			}
			if bak, err := os.ReadFile(fsutil.BackupPath(store.Path(tt.key))); err == nil && string(bak) == tt.data {
				t.Error("broken blob was copied over the backup")
			}
		})
	}
}
