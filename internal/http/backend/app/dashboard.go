package app

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/slafeed/internal/feed"
	"github.com/slok/slafeed/internal/model"
	commonerrors "github.com/slok/slafeed/pkg/common/errors"
)

type GetOverviewRequest struct {
	// SelectedModelID is the model shown in the overview, optional.
	SelectedModelID string
}

type GetOverviewResponse struct {
	AvgSLACompliance float64
	TotalBreaches    int
	TotalFailovers   int
	// SelectedModel is nil when the selected model is not in the registry.
	SelectedModel *model.Model
	Alerts        []model.Alert
	RefreshedAt   time.Time
	// DataAge is the time passed since the datasets were refreshed.
	DataAge time.Duration
}

func (a *App) GetOverview(ctx context.Context, req GetOverviewRequest) (*GetOverviewResponse, error) {
	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	var selected *model.Model
	if m, ok := feed.FindModel(snap.Models, req.SelectedModelID); ok {
		selected = &m
	}

	return &GetOverviewResponse{
		AvgSLACompliance: averageSLACompliance(snap.Models),
		TotalBreaches:    len(snap.Breaches),
		TotalFailovers:   len(snap.Failovers),
		SelectedModel:    selected,
		Alerts:           snap.Alerts,
		RefreshedAt:      snap.RefreshedAt,
		DataAge:          a.timeNowFunc().Sub(snap.RefreshedAt),
	}, nil
}

func averageSLACompliance(models []model.Model) float64 {
	if len(models) == 0 {
		return 0
	}

	total := 0.0
	for _, m := range models {
		total += m.SLACompliance
	}
	return total / float64(len(models))
}

// ComplianceStatus is the health classification of a model SLA compliance.
type ComplianceStatus string

const (
	ComplianceStatusOK       ComplianceStatus = "ok"
	ComplianceStatusWarning  ComplianceStatus = "warning"
	ComplianceStatusCritical ComplianceStatus = "critical"
)

const (
	complianceOKMin      = 95.0
	complianceWarningMin = 90.0
)

func complianceStatusFor(slaCompliance float64) ComplianceStatus {
	switch {
	case slaCompliance >= complianceOKMin:
		return ComplianceStatusOK
	case slaCompliance < complianceWarningMin:
		return ComplianceStatusCritical
	default:
		return ComplianceStatusWarning
	}
}

type ModelWithStatus struct {
	Model            model.Model
	ComplianceStatus ComplianceStatus
}

type ListModelsRequest struct {
	// FilterSearchInput filters the models by ID or name, optional.
	FilterSearchInput string
}

type ListModelsResponse struct {
	Models []ModelWithStatus
}

func (a *App) ListModels(ctx context.Context, req ListModelsRequest) (*ListModelsResponse, error) {
	var ms []model.Model
	if req.FilterSearchInput != "" {
		var err error
		ms, err = a.modelSearcher.ListModelsBySearch(ctx, req.FilterSearchInput)
		if err != nil {
			return nil, fmt.Errorf("could not search models: %w", err)
		}
	} else {
		snap, err := a.snapshotGetter.GetSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get snapshot: %w", err)
		}
		ms = snap.Models
	}

	models := make([]ModelWithStatus, 0, len(ms))
	for _, m := range ms {
		models = append(models, ModelWithStatus{
			Model:            m,
			ComplianceStatus: complianceStatusFor(m.SLACompliance),
		})
	}

	return &ListModelsResponse{Models: models}, nil
}

type GetModelRequest struct {
	ModelID string
}

type GetModelResponse struct {
	Model ModelWithStatus
}

func (a *App) GetModel(ctx context.Context, req GetModelRequest) (*GetModelResponse, error) {
	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	m, ok := feed.FindModel(snap.Models, req.ModelID)
	if !ok {
		return nil, fmt.Errorf("model %q: %w", req.ModelID, commonerrors.ErrNotFound)
	}

	return &GetModelResponse{
		Model: ModelWithStatus{
			Model:            m,
			ComplianceStatus: complianceStatusFor(m.SLACompliance),
		},
	}, nil
}

type ListBreachesRequest struct {
	// FilterModelSearchInput filters the breaches by model name, optional.
	FilterModelSearchInput string
}

type ListBreachesResponse struct {
	Breaches []model.SLABreach
}

func (a *App) ListBreaches(ctx context.Context, req ListBreachesRequest) (*ListBreachesResponse, error) {
	if req.FilterModelSearchInput != "" {
		breaches, err := a.modelSearcher.ListSLABreachesByModelSearch(ctx, req.FilterModelSearchInput)
		if err != nil {
			return nil, fmt.Errorf("could not search breaches: %w", err)
		}
		return &ListBreachesResponse{Breaches: breaches}, nil
	}

	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	return &ListBreachesResponse{Breaches: snap.Breaches}, nil
}

type ListFailoversRequest struct{}

type ListFailoversResponse struct {
	Failovers []model.FailoverEvent
}

func (a *App) ListFailovers(ctx context.Context, req ListFailoversRequest) (*ListFailoversResponse, error) {
	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	return &ListFailoversResponse{Failovers: snap.Failovers}, nil
}

type ListComplianceRequest struct{}

type ListComplianceResponse struct {
	Compliance []model.ComplianceScore
}

func (a *App) ListCompliance(ctx context.Context, req ListComplianceRequest) (*ListComplianceResponse, error) {
	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	return &ListComplianceResponse{Compliance: snap.Compliance}, nil
}

type ListAlertsRequest struct{}

type ListAlertsResponse struct {
	Alerts []model.Alert
}

func (a *App) ListAlerts(ctx context.Context, req ListAlertsRequest) (*ListAlertsResponse, error) {
	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	return &ListAlertsResponse{Alerts: snap.Alerts}, nil
}

type ListCostsRequest struct{}

type ListCostsResponse struct {
	Costs     []model.CostSample
	TotalCost float64
	// PeakHour is the hour with the highest total cost, the first one on ties.
	PeakHour string
}

func (a *App) ListCosts(ctx context.Context, req ListCostsRequest) (*ListCostsResponse, error) {
	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	resp := &ListCostsResponse{Costs: snap.Costs}
	peak := -1.0
	for _, c := range snap.Costs {
		resp.TotalCost += c.Total
		if c.Total > peak {
			peak = c.Total
			resp.PeakHour = c.Hour
		}
	}

	return resp, nil
}

type ListLatencyRequest struct {
	// Limit returns only the first N points, 0 means all.
	Limit int
}

type ListLatencyResponse struct {
	Points   []model.LatencyPoint
	Breaches int
}

func (a *App) ListLatency(ctx context.Context, req ListLatencyRequest) (*ListLatencyResponse, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", commonerrors.ErrNotValid)
	}

	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	points := snap.Latency
	if req.Limit > 0 && req.Limit < len(points) {
		points = points[:req.Limit]
	}

	resp := &ListLatencyResponse{Points: points}
	for _, p := range points {
		resp.Breaches += p.Breaches
	}

	return resp, nil
}

type GetSnapshotRequest struct{}

type GetSnapshotResponse struct {
	Snapshot model.Snapshot
}

func (a *App) GetSnapshot(ctx context.Context, req GetSnapshotRequest) (*GetSnapshotResponse, error) {
	snap, err := a.snapshotGetter.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	return &GetSnapshotResponse{Snapshot: *snap}, nil
}
