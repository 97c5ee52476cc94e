package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/slok/slafeed/internal/log"
)

type chiMiddleware = func(next http.Handler) http.Handler

func (a api) registerGlobalMiddlewares() {
	a.router.Use(
		middleware.RequestID,
		a.logMiddleware(),
		middleware.Recoverer,
	)
}

// logMiddleware sets the request values on the context logger values and logs
// the request once served.
func (a api) logMiddleware() chiMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := a.logger.SetValuesOnCtx(r.Context(), log.Kv{
				"request-id": middleware.GetReqID(r.Context()),
			})
			r = r.WithContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			a.logger.WithCtxValues(ctx).WithValues(log.Kv{
				"url":      r.URL,
				"method":   r.Method,
				"status":   ww.Status(),
				"duration": time.Since(start),
			}).Debugf("Request served")
		})
	}
}
