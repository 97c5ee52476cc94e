package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/slok/slafeed/internal/http/backend/storage"
	"github.com/slok/slafeed/internal/log"
	"github.com/slok/slafeed/internal/model"
)

const (
	namespace = "slafeed"

	collectTimeout = 5 * time.Second
)

var (
	modelInfoDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "model", "info"),
		"Information of the models of the registry.",
		[]string{"model_id", "name", "status"}, nil,
	)
	modelSLAComplianceDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "model", "sla_compliance_percent"),
		"SLA compliance percent of the model.",
		[]string{"model_id"}, nil,
	)
	modelAccuracyDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "model", "accuracy_ratio"),
		"Accuracy ratio of the model.",
		[]string{"model_id"}, nil,
	)
	modelCostPerRequestDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "model", "cost_per_request_dollars"),
		"Cost per request of the model.",
		[]string{"model_id"}, nil,
	)
	modelFailoversDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "model", "failovers"),
		"Number of failovers of the model.",
		[]string{"model_id"}, nil,
	)
	latencyDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "latency", "milliseconds"),
		"Latest latency sample of the tracked models.",
		[]string{"model"}, nil,
	)
	latencySLAThresholdDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "latency", "sla_threshold_milliseconds"),
		"Latency SLA threshold of the latest latency sample.",
		nil, nil,
	)
	latencyBreachesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "latency", "breaches"),
		"Number of flagged breaches on the latency trend of the day.",
		nil, nil,
	)
	hourlyCostDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cost", "hourly_dollars"),
		"Latest hourly cost sample of the models.",
		[]string{"model"}, nil,
	)
	slaBreachesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "sla_breaches"),
		"Number of SLA breaches on the breaches log.",
		nil, nil,
	)
	failoverEventsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "failover_events"),
		"Number of failover events on the failover log.",
		nil, nil,
	)
	alertsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "alerts"),
		"Number of active alerts by type.",
		[]string{"type"}, nil,
	)
	refreshesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "refreshes_total"),
		"Total number of dashboard session refreshes.",
		nil, nil,
	)
	lastRefreshDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "last_refresh_timestamp_seconds"),
		"Unix timestamp of the last dashboard session refresh.",
		nil, nil,
	)
)

type CollectorConfig struct {
	SnapshotGetter storage.SnapshotGetter
	Logger         log.Logger
}

func (c *CollectorConfig) defaults() error {
	if c.SnapshotGetter == nil {
		return fmt.Errorf("snapshot getter is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "exporter.Collector"})

	return nil
}

// Collector exposes the current dashboard session values as Prometheus metrics.
// The values are read from the session on every scrape.
type Collector struct {
	snapshotGetter storage.SnapshotGetter
	logger         log.Logger
}

func NewCollector(config CollectorConfig) (*Collector, error) {
	if err := config.defaults(); err != nil {
		return nil, err
	}

	return &Collector{
		snapshotGetter: config.SnapshotGetter,
		logger:         config.Logger,
	}, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		modelInfoDesc,
		modelSLAComplianceDesc,
		modelAccuracyDesc,
		modelCostPerRequestDesc,
		modelFailoversDesc,
		latencyDesc,
		latencySLAThresholdDesc,
		latencyBreachesDesc,
		hourlyCostDesc,
		slaBreachesDesc,
		failoverEventsDesc,
		alertsDesc,
		refreshesDesc,
		lastRefreshDesc,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	snap, err := c.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		c.logger.Errorf("Could not get snapshot: %s", err)
		return
	}

	for _, m := range snap.Models {
		ch <- prometheus.MustNewConstMetric(modelInfoDesc, prometheus.GaugeValue, 1, m.ID, m.Name, string(m.Status))
		ch <- prometheus.MustNewConstMetric(modelSLAComplianceDesc, prometheus.GaugeValue, m.SLACompliance, m.ID)
		ch <- prometheus.MustNewConstMetric(modelAccuracyDesc, prometheus.GaugeValue, m.Accuracy, m.ID)
		ch <- prometheus.MustNewConstMetric(modelCostPerRequestDesc, prometheus.GaugeValue, m.CostPerRequest, m.ID)
		ch <- prometheus.MustNewConstMetric(modelFailoversDesc, prometheus.GaugeValue, float64(m.FailoverCount), m.ID)
	}

	if len(snap.Latency) > 0 {
		last := snap.Latency[len(snap.Latency)-1]
		ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, last.GPT4, "gpt4")
		ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, last.Claude3, "claude3")
		ch <- prometheus.MustNewConstMetric(latencySLAThresholdDesc, prometheus.GaugeValue, last.SLAThreshold)
	}
	ch <- prometheus.MustNewConstMetric(latencyBreachesDesc, prometheus.GaugeValue, float64(countLatencyBreaches(snap.Latency)))

	if len(snap.Costs) > 0 {
		last := snap.Costs[len(snap.Costs)-1]
		ch <- prometheus.MustNewConstMetric(hourlyCostDesc, prometheus.GaugeValue, last.GPT4, "gpt4")
		ch <- prometheus.MustNewConstMetric(hourlyCostDesc, prometheus.GaugeValue, last.Claude3, "claude3")
		ch <- prometheus.MustNewConstMetric(hourlyCostDesc, prometheus.GaugeValue, last.LLaMA2, "llama2")
		ch <- prometheus.MustNewConstMetric(hourlyCostDesc, prometheus.GaugeValue, last.BERT, "bert")
	}

	ch <- prometheus.MustNewConstMetric(slaBreachesDesc, prometheus.GaugeValue, float64(len(snap.Breaches)))
	ch <- prometheus.MustNewConstMetric(failoverEventsDesc, prometheus.GaugeValue, float64(len(snap.Failovers)))

	for _, t := range []model.AlertType{model.AlertTypeError, model.AlertTypeWarning, model.AlertTypeInfo} {
		ch <- prometheus.MustNewConstMetric(alertsDesc, prometheus.GaugeValue, float64(countAlerts(snap.Alerts, t)), string(t))
	}

	ch <- prometheus.MustNewConstMetric(refreshesDesc, prometheus.CounterValue, float64(snap.Refreshes))
	if !snap.RefreshedAt.IsZero() {
		ch <- prometheus.MustNewConstMetric(lastRefreshDesc, prometheus.GaugeValue, float64(snap.RefreshedAt.Unix()))
	}
}

func countLatencyBreaches(points []model.LatencyPoint) int {
	n := 0
	for _, p := range points {
		n += p.Breaches
	}
	return n
}

func countAlerts(alerts []model.Alert, t model.AlertType) int {
	n := 0
	for _, a := range alerts {
		if a.Type == t {
			n++
		}
	}
	return n
}
