package app

import (
	"fmt"
	"time"

	"github.com/slok/slafeed/internal/http/backend/storage"
	"github.com/slok/slafeed/internal/http/backend/storage/search"
)

type AppConfig struct {
	SnapshotGetter storage.SnapshotGetter
	// ModelSearcher is used on searches, if missing in memory fuzzy search
	// over the snapshot getter is used.
	ModelSearcher storage.ModelSearcher
	TimeNowFunc   func() time.Time
}

func (c *AppConfig) defaults() error {
	if c.SnapshotGetter == nil {
		return fmt.Errorf("snapshot getter is required")
	}
	if c.ModelSearcher == nil {
		c.ModelSearcher = search.NewSearchSnapshotGetterWrapper(c.SnapshotGetter)
	}
	if c.TimeNowFunc == nil {
		c.TimeNowFunc = time.Now
	}

	return nil
}

type App struct {
	snapshotGetter storage.SnapshotGetter
	modelSearcher  storage.ModelSearcher
	timeNowFunc    func() time.Time
}

func NewApp(config AppConfig) (*App, error) {
	if err := config.defaults(); err != nil {
		return nil, err
	}

	return &App{
		snapshotGetter: config.SnapshotGetter,
		modelSearcher:  config.ModelSearcher,
		timeNowFunc:    config.TimeNowFunc,
	}, nil
}
