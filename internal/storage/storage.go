// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"redwatch/internal/model"
)

// Storage is the interface for all persistence operations.
//
// The bookmark record is read once at startup and overwritten as one atomic
// unit afterwards. The batch log is append-only and never read by the core.
type Storage interface {
	LoadBookmarks(ctx context.Context) ([]string, error)
	SaveBookmarks(ctx context.Context, ids []string) error

	AppendBatch(ctx context.Context, account string, items []model.Item) error

	Close() error
}
