// Package bookmark keeps the bounded history of already-processed item ids.
package bookmark

import (
	"context"
	"fmt"
)

// DefaultCapacity bounds the history when the configuration does not set one.
const DefaultCapacity = 10

// Store is the durable record the history is persisted to.
type Store interface {
	LoadBookmarks(ctx context.Context) ([]string, error)
	SaveBookmarks(ctx context.Context, ids []string) error
}

// Book holds the in-memory bookmark history, newest last. The last element is
// the effective bookmark used as the query id floor. Assumes a single writer.
type Book struct {
	store    Store
	history  []string
	capacity int
}

// Load reads the persisted history once. A missing record means a first run
// and yields an empty history. Persisted entries beyond capacity are trimmed,
// keeping the newest.
func Load(ctx context.Context, store Store, capacity int) (*Book, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	history, err := store.LoadBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	if len(history) > capacity {
		history = history[len(history)-capacity:]
	}

	return &Book{store: store, history: history, capacity: capacity}, nil
}

// Last returns the effective bookmark, or false when no item has been seen.
func (b *Book) Last() (string, bool) {
	if len(b.history) == 0 {
		return "", false
	}
	return b.history[len(b.history)-1], true
}

// History returns a copy of the bounded history, oldest first.
func (b *Book) History() []string {
	out := make([]string, len(b.history))
	copy(out, b.history)
	return out
}

// Advance appends id, evicts the oldest entries beyond capacity, and persists
// the whole history as one overwrite. A persistence error is returned for
// logging, but the in-memory history keeps the new id so the rest of the run
// still deduplicates correctly.
func (b *Book) Advance(ctx context.Context, id string) error {
	if last, ok := b.Last(); ok && last == id {
		return nil
	}

	b.history = append(b.history, id)
	if len(b.history) > b.capacity {
		b.history = b.history[len(b.history)-b.capacity:]
	}

	if err := b.store.SaveBookmarks(ctx, b.history); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}
