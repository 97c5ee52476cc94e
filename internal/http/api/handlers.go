package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/slok/slafeed/internal/http/backend/app"
	"github.com/slok/slafeed/internal/model"
	commonerrors "github.com/slok/slafeed/pkg/common/errors"
)

type jsonModel struct {
	model.Model
	ComplianceStatus app.ComplianceStatus `json:"complianceStatus"`
}

const queryParamSearch = "search"

func mapModelToJSON(m app.ModelWithStatus) jsonModel {
	return jsonModel{Model: m.Model, ComplianceStatus: m.ComplianceStatus}
}

func (a api) handlerOverview() http.HandlerFunc {
	const queryParamModel = "model"

	type response struct {
		AvgSLACompliance float64       `json:"avgSlaCompliance"`
		TotalBreaches    int           `json:"totalBreaches"`
		TotalFailovers   int           `json:"totalFailovers"`
		SelectedModel    *model.Model  `json:"selectedModel"`
		Alerts           []model.Alert `json:"alerts"`
		RefreshedAt      time.Time     `json:"refreshedAt"`
		DataAgeSeconds   float64       `json:"dataAgeSeconds"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.GetOverview(r.Context(), app.GetOverviewRequest{
			SelectedModelID: r.URL.Query().Get(queryParamModel),
		})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, response{
			AvgSLACompliance: resp.AvgSLACompliance,
			TotalBreaches:    resp.TotalBreaches,
			TotalFailovers:   resp.TotalFailovers,
			SelectedModel:    resp.SelectedModel,
			Alerts:           resp.Alerts,
			RefreshedAt:      resp.RefreshedAt,
			DataAgeSeconds:   resp.DataAge.Seconds(),
		})
	})
}

func (a api) handlerListModels() http.HandlerFunc {
	type response struct {
		Models []jsonModel `json:"models"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.ListModels(r.Context(), app.ListModelsRequest{
			FilterSearchInput: r.URL.Query().Get(queryParamSearch),
		})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		models := make([]jsonModel, 0, len(resp.Models))
		for _, m := range resp.Models {
			models = append(models, mapModelToJSON(m))
		}

		a.writeJSON(w, http.StatusOK, response{Models: models})
	})
}

func (a api) handlerGetModel() http.HandlerFunc {
	type response struct {
		Model jsonModel `json:"model"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.GetModel(r.Context(), app.GetModelRequest{
			ModelID: chi.URLParam(r, URLParamModelID),
		})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, response{Model: mapModelToJSON(resp.Model)})
	})
}

func (a api) handlerListBreaches() http.HandlerFunc {
	type jsonBreach struct {
		model.SLABreach
		Unit string `json:"unit"`
	}

	type response struct {
		Breaches []jsonBreach `json:"breaches"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.ListBreaches(r.Context(), app.ListBreachesRequest{
			FilterModelSearchInput: r.URL.Query().Get(queryParamSearch),
		})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		breaches := make([]jsonBreach, 0, len(resp.Breaches))
		for _, b := range resp.Breaches {
			breaches = append(breaches, jsonBreach{SLABreach: b, Unit: b.Unit()})
		}

		a.writeJSON(w, http.StatusOK, response{Breaches: breaches})
	})
}

func (a api) handlerListFailovers() http.HandlerFunc {
	type response struct {
		Failovers []model.FailoverEvent `json:"failovers"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.ListFailovers(r.Context(), app.ListFailoversRequest{})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, response{Failovers: resp.Failovers})
	})
}

func (a api) handlerListCosts() http.HandlerFunc {
	type response struct {
		Costs     []model.CostSample `json:"costs"`
		TotalCost float64            `json:"totalCost"`
		PeakHour  string             `json:"peakHour"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.ListCosts(r.Context(), app.ListCostsRequest{})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, response{
			Costs:     resp.Costs,
			TotalCost: resp.TotalCost,
			PeakHour:  resp.PeakHour,
		})
	})
}

func (a api) handlerListCompliance() http.HandlerFunc {
	type response struct {
		Compliance []model.ComplianceScore `json:"compliance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.ListCompliance(r.Context(), app.ListComplianceRequest{})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, response{Compliance: resp.Compliance})
	})
}

func (a api) handlerListLatency() http.HandlerFunc {
	const queryParamLimit = "limit"

	type response struct {
		Points   []model.LatencyPoint `json:"points"`
		Breaches int                  `json:"breaches"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if l := r.URL.Query().Get(queryParamLimit); l != "" {
			var err error
			limit, err = strconv.Atoi(l)
			if err != nil {
				a.writeError(w, r, fmt.Errorf("invalid limit %q: %w", l, commonerrors.ErrNotValid))
				return
			}
		}

		resp, err := a.dashboardApp.ListLatency(r.Context(), app.ListLatencyRequest{Limit: limit})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, response{
			Points:   resp.Points,
			Breaches: resp.Breaches,
		})
	})
}

func (a api) handlerListAlerts() http.HandlerFunc {
	type response struct {
		Alerts []model.Alert `json:"alerts"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.ListAlerts(r.Context(), app.ListAlertsRequest{})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, response{Alerts: resp.Alerts})
	})
}

func (a api) handlerSnapshot() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := a.dashboardApp.GetSnapshot(r.Context(), app.GetSnapshotRequest{})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		a.writeJSON(w, http.StatusOK, resp.Snapshot)
	})
}
