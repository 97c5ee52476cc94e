package prometheus

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Prefix = "slafeed"
)

type Recorder struct {
	reg prometheus.Registerer

	sessionRefreshLatency    *prometheus.HistogramVec
	snapshotOperationLatency *prometheus.HistogramVec
	profileReloads           *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		reg: reg,

		sessionRefreshLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Prefix,
				Subsystem: "session",
				Name:      "refresh_duration_seconds",
				Help:      "Duration histogram of the dashboard session periodic refreshes.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"success"},
		),

		snapshotOperationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Prefix,
				Subsystem: "session",
				Name:      "snapshot_operation_duration_seconds",
				Help:      "Duration histogram of the dashboard session snapshot operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "success"},
		),

		profileReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Prefix,
				Subsystem: "feed",
				Name:      "profile_reloads_total",
				Help:      "Total number of feed profile hot reloads.",
			},
			[]string{"success"},
		),
	}

	r.init()

	return *r
}

func (r Recorder) init() {
	r.reg.MustRegister(
		r.sessionRefreshLatency,
		r.snapshotOperationLatency,
		r.profileReloads,
	)
}

func (r Recorder) MeasureSessionRefresh(ctx context.Context, t time.Duration, err error) {
	r.sessionRefreshLatency.WithLabelValues(strconv.FormatBool(err == nil)).Observe(t.Seconds())
}

func (r Recorder) MeasureSnapshotOperationDuration(ctx context.Context, op string, t time.Duration, err error) {
	r.snapshotOperationLatency.WithLabelValues(op, strconv.FormatBool(err == nil)).Observe(t.Seconds())
}

func (r Recorder) MeasureProfileReload(ctx context.Context, err error) {
	r.profileReloads.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
}
