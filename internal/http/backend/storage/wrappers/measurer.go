package wrappers

import (
	"context"
	"time"

	"github.com/slok/slafeed/internal/http/backend/metrics"
	"github.com/slok/slafeed/internal/http/backend/storage"
	"github.com/slok/slafeed/internal/model"
)

type measuredSnapshotGetter struct {
	orig    storage.SnapshotGetter
	metrics metrics.Recorder
}

func NewMeasuredSnapshotGetter(orig storage.SnapshotGetter, metricsRecorder metrics.Recorder) storage.SnapshotGetter {
	return measuredSnapshotGetter{
		orig:    orig,
		metrics: metricsRecorder,
	}
}

func (m measuredSnapshotGetter) GetSnapshot(ctx context.Context) (s *model.Snapshot, err error) {
	t0 := time.Now()
	defer func() {
		m.metrics.MeasureSnapshotOperationDuration(ctx, "GetSnapshot", time.Since(t0), err)
	}()
	return m.orig.GetSnapshot(ctx)
}
