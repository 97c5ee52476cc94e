package api_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/slafeed/internal/http/api"
	"github.com/slok/slafeed/internal/http/backend/app"
	"github.com/slok/slafeed/internal/http/backend/storage/storagemock"
	"github.com/slok/slafeed/internal/model"
)

// Always now is an specific time for tests idempotency.
var testTimeNow = time.Date(2024, 1, 22, 15, 0, 0, 0, time.UTC)

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Models: []model.Model{
			{ID: "gpt-4", Name: "GPT-4", Status: model.ModelStatusActive, Accuracy: 0.94, SLACompliance: 94.5, FailoverCount: 2, CostPerRequest: 0.045},
			{ID: "bert-large", Name: "BERT-Large", Status: model.ModelStatusActive, Accuracy: 0.89, SLACompliance: 98.5, FailoverCount: 0, CostPerRequest: 0.008},
		},
		Alerts: []model.Alert{
			{ID: 1, Type: model.AlertTypeError, Title: "SLA Breach - High Latency", Message: "GPT-4 response time exceeded 200ms threshold", Time: "2 minutes ago"},
		},
		Breaches: []model.SLABreach{
			{ID: 3, Model: "BERT-Large", Type: model.BreachTypeCost, Threshold: 0.01, Actual: 0.012, Timestamp: model.EventTime{Time: time.Date(2024, 1, 22, 14, 15, 0, 0, time.UTC)}, Severity: model.SeverityLow, Duration: "1h 15m", Impact: "Budget overrun"},
		},
		Failovers: []model.FailoverEvent{
			{ID: 1, PrimaryModel: "GPT-4", FailoverModel: "Claude-3", Reason: model.FailoverReasonExcessLoad, Timestamp: model.EventTime{Time: time.Date(2024, 1, 22, 14, 30, 0, 0, time.UTC)}, Duration: "5m 23s", RequestsAffected: 1247, RecoveryTime: "2m 15s"},
		},
		Compliance: []model.ComplianceScore{
			{Model: "GPT-4", Latency: 92, ResponseTime: 94, Availability: 99.8, Cost: 88},
		},
		Costs: []model.CostSample{
			{Hour: "00:00", GPT4: 1, Claude3: 2, LLaMA2: 3, BERT: 4, Total: 10},
			{Hour: "01:00", GPT4: 4, Claude3: 3, LLaMA2: 2, BERT: 11, Total: 20},
		},
		Latency: []model.LatencyPoint{
			{Time: "00:00", GPT4: 150, Claude3: 120, SLAThreshold: 200, Breaches: 1},
			{Time: "00:30", GPT4: 160, Claude3: 125, SLAThreshold: 200, Breaches: 0},
		},
		RefreshedAt: testTimeNow.Add(-10 * time.Second),
		Refreshes:   3,
	}
}

func newTestAPIHandler(t *testing.T, m *storagemock.SnapshotGetter) http.Handler {
	a, err := app.NewApp(app.AppConfig{
		SnapshotGetter: m,
		TimeNowFunc:    func() time.Time { return testTimeNow },
	})
	require.NoError(t, err)

	h, err := api.NewAPI(api.APIConfig{DashboardApp: a})
	require.NoError(t, err)

	return h
}

func TestNewAPIInvalidConfig(t *testing.T) {
	_, err := api.NewAPI(api.APIConfig{})
	assert.Error(t, err)
}

func TestAPIHandlers(t *testing.T) {
	tests := map[string]struct {
		request func() *http.Request
		mock    func(m *storagemock.SnapshotGetter)
		expBody string
		expCode int
	}{
		"Unknown routes should return not found.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/something", nil) },
			mock:    func(m *storagemock.SnapshotGetter) {},
			expCode: 404,
		},

		"Failing getting the snapshot should return an internal error.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(nil, fmt.Errorf("something"))
			},
			expBody: `{"error":"could not get snapshot: something"}`,
			expCode: 500,
		},

		"Overview without selected model should return a null model.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{
	"avgSlaCompliance": 96.5,
	"totalBreaches": 1,
	"totalFailovers": 1,
	"selectedModel": null,
	"alerts": [{"id":1,"type":"error","title":"SLA Breach - High Latency","message":"GPT-4 response time exceeded 200ms threshold","time":"2 minutes ago"}],
	"refreshedAt": "2024-01-22T14:59:50Z",
	"dataAgeSeconds": 10
}`,
			expCode: 200,
		},

		"Overview with a missing selected model should return a null model.": {
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/v1/overview?model=nonexistent-model", nil)
			},
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{
	"avgSlaCompliance": 96.5,
	"totalBreaches": 1,
	"totalFailovers": 1,
	"selectedModel": null,
	"alerts": [{"id":1,"type":"error","title":"SLA Breach - High Latency","message":"GPT-4 response time exceeded 200ms threshold","time":"2 minutes ago"}],
	"refreshedAt": "2024-01-22T14:59:50Z",
	"dataAgeSeconds": 10
}`,
			expCode: 200,
		},

		"Overview with a selected model should return the model.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/overview?model=gpt-4", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{
	"avgSlaCompliance": 96.5,
	"totalBreaches": 1,
	"totalFailovers": 1,
	"selectedModel": {"id":"gpt-4","name":"GPT-4","status":"active","accuracy":0.94,"slaCompliance":94.5,"failoverCount":2,"costPerRequest":0.045},
	"alerts": [{"id":1,"type":"error","title":"SLA Breach - High Latency","message":"GPT-4 response time exceeded 200ms threshold","time":"2 minutes ago"}],
	"refreshedAt": "2024-01-22T14:59:50Z",
	"dataAgeSeconds": 10
}`,
			expCode: 200,
		},

		"Listing models should return them with their compliance status.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/models", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"models":[
	{"id":"gpt-4","name":"GPT-4","status":"active","accuracy":0.94,"slaCompliance":94.5,"failoverCount":2,"costPerRequest":0.045,"complianceStatus":"warning"},
	{"id":"bert-large","name":"BERT-Large","status":"active","accuracy":0.89,"slaCompliance":98.5,"failoverCount":0,"costPerRequest":0.008,"complianceStatus":"ok"}
]}`,
			expCode: 200,
		},

		"Listing models with a search should return the matching models.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/models?search=bert", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"models":[
	{"id":"bert-large","name":"BERT-Large","status":"active","accuracy":0.89,"slaCompliance":98.5,"failoverCount":0,"costPerRequest":0.008,"complianceStatus":"ok"}
]}`,
			expCode: 200,
		},

		"Listing breaches with a search without matches should return an empty list.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/breaches?search=gpt", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"breaches":[]}`,
			expCode: 200,
		},

		"Getting an existing model should return it.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/models/bert-large", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"model":{"id":"bert-large","name":"BERT-Large","status":"active","accuracy":0.89,"slaCompliance":98.5,"failoverCount":0,"costPerRequest":0.008,"complianceStatus":"ok"}}`,
			expCode: 200,
		},

		"Getting a missing model should return not found.": {
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/v1/models/nonexistent-model", nil)
			},
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"error":"model \"nonexistent-model\": not found"}`,
			expCode: 404,
		},

		"Listing breaches should return them with their unit.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/breaches", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"breaches":[{"id":3,"model":"BERT-Large","type":"cost","threshold":0.01,"actual":0.012,"timestamp":"2024-01-22 14:15:00","severity":"low","duration":"1h 15m","impact":"Budget overrun","unit":"$"}]}`,
			expCode: 200,
		},

		"Listing failovers should return them.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/failovers", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"failovers":[{"id":1,"primaryModel":"GPT-4","failoverModel":"Claude-3","reason":"excess_load","timestamp":"2024-01-22 14:30:00","duration":"5m 23s","requestsAffected":1247,"recoveryTime":"2m 15s"}]}`,
			expCode: 200,
		},

		"Listing costs should return the samples and the aggregates.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/costs", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{
	"costs":[
		{"hour":"00:00","gpt4":1,"claude3":2,"llama2":3,"bert":4,"total":10},
		{"hour":"01:00","gpt4":4,"claude3":3,"llama2":2,"bert":11,"total":20}
	],
	"totalCost":30,
	"peakHour":"01:00"
}`,
			expCode: 200,
		},

		"Listing compliance should return the scorecards.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/compliance", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"compliance":[{"model":"GPT-4","latency":92,"responseTime":94,"availability":99.8,"cost":88}]}`,
			expCode: 200,
		},

		"Listing latency should return the points and the breaches.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/latency", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{
	"points":[
		{"time":"00:00","gpt4":150,"claude3":120,"slaThreshold":200,"breaches":1},
		{"time":"00:30","gpt4":160,"claude3":125,"slaThreshold":200,"breaches":0}
	],
	"breaches":1
}`,
			expCode: 200,
		},

		"Listing latency with a limit should return the first points.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/latency?limit=1", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"points":[{"time":"00:00","gpt4":150,"claude3":120,"slaThreshold":200,"breaches":1}],"breaches":1}`,
			expCode: 200,
		},

		"Listing latency with a non numeric limit should return bad request.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/latency?limit=abc", nil) },
			mock:    func(m *storagemock.SnapshotGetter) {},
			expBody: `{"error":"invalid limit \"abc\": not valid"}`,
			expCode: 400,
		},

		"Listing latency with a negative limit should return bad request.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/latency?limit=-3", nil) },
			mock:    func(m *storagemock.SnapshotGetter) {},
			expBody: `{"error":"limit can't be negative: not valid"}`,
			expCode: 400,
		},

		"Listing alerts should return them.": {
			request: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil) },
			mock: func(m *storagemock.SnapshotGetter) {
				m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)
			},
			expBody: `{"alerts":[{"id":1,"type":"error","title":"SLA Breach - High Latency","message":"GPT-4 response time exceeded 200ms threshold","time":"2 minutes ago"}]}`,
			expCode: 200,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			m := storagemock.NewSnapshotGetter(t)
			test.mock(m)

			h := newTestAPIHandler(t, m)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, test.request())

			assert.Equal(test.expCode, w.Code)
			if test.expBody != "" {
				assert.Equal("application/json; charset=utf-8", w.Header().Get("Content-Type"))
				assert.JSONEq(test.expBody, w.Body.String())
			}
		})
	}
}

func TestAPISnapshot(t *testing.T) {
	assert := assert.New(t)

	m := storagemock.NewSnapshotGetter(t)
	m.On("GetSnapshot", mock.Anything).Once().Return(testSnapshot(), nil)

	w := httptest.NewRecorder()
	newTestAPIHandler(t, m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/snapshot", nil))

	assert.Equal(200, w.Code)
	body := w.Body.String()
	for _, exp := range []string{`"models":[`, `"slaBreaches":[`, `"failoverEvents":[`, `"slaCompliance":[`, `"costData":[`, `"latencyTrend":[`, `"refreshes":3`} {
		assert.Contains(body, exp)
	}
}
