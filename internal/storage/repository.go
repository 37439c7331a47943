package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
	"taskboard/internal/logging"
)

// Repository loads and saves the two roots through a Store.
type Repository struct {
	store Store
	log   *logging.Logger
	loc   *time.Location
}

// NewRepository wraps store. History dates are read in time.Local. Stores
// that can check blobs on read (FileStore) are given the snapshot decoders, so
// a blob that parses as JSON but not as a snapshot is recovered or moved aside
// by the store instead of being overwritten on the next save.
func NewRepository(store Store, log *logging.Logger) *Repository {
	r := &Repository{
		store: store,
		log:   logging.OrNop(log).WithComponent("repository"),
		loc:   time.Local,
	}
	if cs, ok := store.(interface{ SetCheck(CheckFunc) }); ok {
		cs.SetCheck(r.checkBlob)
	}
	return r
}

// checkBlob decodes data the way the matching Load method would.
func (r *Repository) checkBlob(key string, data []byte) error {
	switch key {
	case KeyStructure:
		_, err := UnmarshalBoard(data)
		return err
	case KeyHistory:
		_, err := UnmarshalHistory(data, r.loc)
		return err
	default:
		return nil
	}
}

// SetLocation changes the zone history dates are read in.
func (r *Repository) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	r.loc = loc
}

// Store returns the underlying store.
func (r *Repository) Store() Store {
	return r.store
}

// LoadBoard returns the saved board. A missing or unreadable snapshot yields
// a board holding only the default section; only store errors are returned.
func (r *Repository) LoadBoard(ctx context.Context) (*board.Board, error) {
	data, err := r.store.Get(ctx, KeyStructure)
	if errors.Is(err, ErrNotFound) {
		return board.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}

	b, err := UnmarshalBoard(data)
	if err != nil {
		r.log.WithError(err).Warnw("discarding unreadable board snapshot", "key", KeyStructure)
		return board.New(), nil
	}
	return b, nil
}

// SaveBoard writes b under KeyStructure.
func (r *Repository) SaveBoard(ctx context.Context, b *board.Board) error {
	data, err := MarshalBoard(b)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, KeyStructure, data); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

// LoadHistory returns the saved log, or an empty one under the same rules as
// LoadBoard.
func (r *Repository) LoadHistory(ctx context.Context) (*history.Log, error) {
	data, err := r.store.Get(ctx, KeyHistory)
	if errors.Is(err, ErrNotFound) {
		return history.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	l, err := UnmarshalHistory(data, r.loc)
	if err != nil {
		r.log.WithError(err).Warnw("discarding unreadable history snapshot", "key", KeyHistory)
		return history.New(), nil
	}
	return l, nil
}

// SaveHistory writes l under KeyHistory.
func (r *Repository) SaveHistory(ctx context.Context, l *history.Log) error {
	data, err := MarshalHistory(l)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, KeyHistory, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Close closes the store.
func (r *Repository) Close() error {
	return r.store.Close()
}
