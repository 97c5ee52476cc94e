package storage

import (
	"context"

	"github.com/slok/slafeed/internal/model"
)

// SnapshotGetter knows how to get the current dashboard datasets.
type SnapshotGetter interface {
	GetSnapshot(ctx context.Context) (*model.Snapshot, error)
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name SnapshotGetter

// ModelSearcher knows how to search the datasets by model.
type ModelSearcher interface {
	ListModelsBySearch(ctx context.Context, searchInput string) ([]model.Model, error)
	ListSLABreachesByModelSearch(ctx context.Context, searchInput string) ([]model.SLABreach, error)
}
