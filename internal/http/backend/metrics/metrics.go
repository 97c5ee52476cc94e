package metrics

import (
	"context"
	"time"
)

type Recorder interface {
	MeasureSessionRefresh(ctx context.Context, t time.Duration, err error)
	MeasureSnapshotOperationDuration(ctx context.Context, op string, t time.Duration, err error)
	MeasureProfileReload(ctx context.Context, err error)
}

type noopRecorder bool

var NoopRecorder Recorder = noopRecorder(false)

func (r noopRecorder) MeasureSessionRefresh(ctx context.Context, t time.Duration, err error) {}
func (r noopRecorder) MeasureSnapshotOperationDuration(ctx context.Context, op string, t time.Duration, err error) {
}
func (r noopRecorder) MeasureProfileReload(ctx context.Context, err error) {}
