// Package repository persists mapping snapshots in a SQL database.
package repository

import (
	"context"

	"github.com/stamp/pkg/model"
)

// SnapshotRepository stores mapping snapshots.
type SnapshotRepository interface {
	// SaveSnapshot stores a snapshot with all its classes and members.
	SaveSnapshot(ctx context.Context, snap *model.MappingSnapshot) error

	// GetSnapshot loads a complete snapshot. Unknown IDs yield a NOT_FOUND error.
	GetSnapshot(ctx context.Context, id string) (*model.MappingSnapshot, error)

	// ListSnapshots returns the newest snapshots first, without their classes.
	ListSnapshots(ctx context.Context, limit int) ([]*model.MappingSnapshot, error)

	// DeleteSnapshot removes a snapshot. Unknown IDs yield a NOT_FOUND error.
	DeleteSnapshot(ctx context.Context, id string) error
}
