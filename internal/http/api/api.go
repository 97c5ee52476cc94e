package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	gohttpmetrics "github.com/slok/go-http-metrics/metrics"
	gohttmetrics "github.com/slok/go-http-metrics/middleware"

	"github.com/slok/slafeed/internal/http/backend/app"
	"github.com/slok/slafeed/internal/log"
)

type DashboardApp interface {
	GetOverview(ctx context.Context, req app.GetOverviewRequest) (*app.GetOverviewResponse, error)
	ListModels(ctx context.Context, req app.ListModelsRequest) (*app.ListModelsResponse, error)
	GetModel(ctx context.Context, req app.GetModelRequest) (*app.GetModelResponse, error)
	ListBreaches(ctx context.Context, req app.ListBreachesRequest) (*app.ListBreachesResponse, error)
	ListFailovers(ctx context.Context, req app.ListFailoversRequest) (*app.ListFailoversResponse, error)
	ListCosts(ctx context.Context, req app.ListCostsRequest) (*app.ListCostsResponse, error)
	ListCompliance(ctx context.Context, req app.ListComplianceRequest) (*app.ListComplianceResponse, error)
	ListLatency(ctx context.Context, req app.ListLatencyRequest) (*app.ListLatencyResponse, error)
	ListAlerts(ctx context.Context, req app.ListAlertsRequest) (*app.ListAlertsResponse, error)
	GetSnapshot(ctx context.Context, req app.GetSnapshotRequest) (*app.GetSnapshotResponse, error)
}

const ServePrefix = "/api/v1"

// MetricsRecorder is the service used to record metrics in the HTTP API handler.
type MetricsRecorder interface {
	gohttpmetrics.Recorder
}

var noopMetricsRecorder = struct {
	gohttpmetrics.Recorder
}{
	Recorder: gohttpmetrics.Dummy,
}

type APIConfig struct {
	Logger          log.Logger
	MetricsRecorder MetricsRecorder
	DashboardApp    DashboardApp
}

func (c *APIConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"component": "api"})

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = noopMetricsRecorder
		c.Logger.Warningf("Metrics recorder disabled")
	}

	if c.DashboardApp == nil {
		return fmt.Errorf("dashboard app is required")
	}

	return nil
}

type api struct {
	handler           http.Handler
	router            chi.Router
	metricsMiddleware gohttmetrics.Middleware
	dashboardApp      DashboardApp
	logger            log.Logger
}

// NewAPI returns the dashboard JSON API HTTP handler.
func NewAPI(cfg APIConfig) (http.Handler, error) {
	err := cfg.defaults()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := api{
		router: chi.NewRouter(),
		metricsMiddleware: gohttmetrics.New(gohttmetrics.Config{
			Recorder: cfg.MetricsRecorder,
			Service:  "slafeed-api",
		}),
		dashboardApp: cfg.DashboardApp,
		logger:       cfg.Logger,
	}

	a.registerGlobalMiddlewares()
	a.registerRoutes()

	root := chi.NewRouter()
	root.Mount(ServePrefix, a.router)
	a.handler = root

	return a, nil
}

func (a api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
