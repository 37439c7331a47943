// Package storage persists the board and the history log. A Repository
// encodes both roots and hands the bytes to a key-value Store; the Store
// decides where they live.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Keys under which the two snapshots are stored.
const (
	KeyStructure = "structure"
	KeyHistory   = "history"
)

// ErrNotFound is returned by Store.Get when nothing is stored under a key.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key-value store for snapshot blobs.
type Store interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the bytes stored under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

var validKey = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
