package api

import (
	"fmt"
	"net/http"

	"github.com/slok/go-http-metrics/middleware/std"
)

const (
	URLParamModelID = "modelID"
)

func (a api) registerRoutes() {
	a.wrapGet("/overview", a.handlerOverview())
	a.wrapGet("/models", a.handlerListModels())
	a.wrapGet(fmt.Sprintf("/models/{%s}", URLParamModelID), a.handlerGetModel())
	a.wrapGet("/breaches", a.handlerListBreaches())
	a.wrapGet("/failovers", a.handlerListFailovers())
	a.wrapGet("/costs", a.handlerListCosts())
	a.wrapGet("/compliance", a.handlerListCompliance())
	a.wrapGet("/latency", a.handlerListLatency())
	a.wrapGet("/alerts", a.handlerListAlerts())
	a.wrapGet("/snapshot", a.handlerSnapshot())
}

func (a api) wrapGet(pattern string, h http.HandlerFunc) {
	a.router.With(
		// Add endpoint middlewares.
		std.HandlerProvider(pattern, a.metricsMiddleware),
	).Get(pattern, h)
}
