package repository

import (
	"context"
	"errors"

	"ast3d/internal/domain"
)

// ErrNotFound is returned when a snapshot id does not exist
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore persists named graph snapshots
type SnapshotStore interface {
	// Save inserts s, or replaces the snapshot with the same ID. An empty
	// ID is assigned; CreatedAt survives replacement.
	Save(ctx context.Context, s *domain.Snapshot) error
	Get(ctx context.Context, id string) (*domain.Snapshot, error)

	// List operations return summaries without the graph
	List(ctx context.Context) ([]domain.Snapshot, error)
	ListByType(ctx context.Context, nodeType string) ([]domain.Snapshot, error)
	TypeCounts(ctx context.Context, id string) (map[string]int, error)

	Delete(ctx context.Context, id string) error
	Close() error
}
