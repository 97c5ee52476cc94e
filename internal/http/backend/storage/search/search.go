package search

import (
	"context"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/slok/slafeed/internal/http/backend/storage"
	"github.com/slok/slafeed/internal/model"
)

func NewSearchSnapshotGetterWrapper(snapshotGetter storage.SnapshotGetter) SearchSnapshotGetterWrapper {
	return SearchSnapshotGetterWrapper{
		snapshotGetter: snapshotGetter,
	}
}

// SearchSnapshotGetterWrapper is a wrapper for snapshot getters that implements search methods.
// This wrapper only acts on the search methods, the others will proxy to the actual implementation.
//
// The search is done by getting the full snapshot and filtering in memory using fuzzy search.
type SearchSnapshotGetterWrapper struct {
	snapshotGetter storage.SnapshotGetter
}

var _ storage.SnapshotGetter = SearchSnapshotGetterWrapper{}
var _ storage.ModelSearcher = SearchSnapshotGetterWrapper{}

func (s SearchSnapshotGetterWrapper) GetSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return s.snapshotGetter.GetSnapshot(ctx)
}

// ListModelsBySearch returns the models whose ID or name match the search input, in registry order.
func (s SearchSnapshotGetterWrapper) ListModelsBySearch(ctx context.Context, searchInput string) ([]model.Model, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var models []model.Model
	for _, m := range snap.Models {
		if match(searchInput, m.ID, m.Name) {
			models = append(models, m)
		}
	}

	return models, nil
}

// ListSLABreachesByModelSearch returns the SLA breaches whose model matches the search input.
func (s SearchSnapshotGetterWrapper) ListSLABreachesByModelSearch(ctx context.Context, searchInput string) ([]model.SLABreach, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var breaches []model.SLABreach
	for _, b := range snap.Breaches {
		if match(searchInput, b.Model) {
			breaches = append(breaches, b)
		}
	}

	return breaches, nil
}

func match(s string, targets ...string) bool {
	// Remove spaces for better matching.
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	for _, t := range targets {
		if fuzzy.MatchNormalizedFold(s, t) {
			return true
		}
	}
	return false
}
