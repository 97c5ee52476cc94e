package model

import "time"

// ModelStatus is the operational status of a served model.
type ModelStatus string

const (
	ModelStatusActive   ModelStatus = "active"
	ModelStatusFailover ModelStatus = "failover"
	ModelStatusIdle     ModelStatus = "idle"
	ModelStatusTraining ModelStatus = "training"
)

// Model is an entry of the model registry.
type Model struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	Status         ModelStatus `json:"status" yaml:"status"`
	Accuracy       float64     `json:"accuracy" yaml:"accuracy"`           // Ratio [0, 1].
	SLACompliance  float64     `json:"slaCompliance" yaml:"slaCompliance"` // Percent [0, 100].
	FailoverCount  int         `json:"failoverCount" yaml:"failoverCount"`
	CostPerRequest float64     `json:"costPerRequest" yaml:"costPerRequest"`
}

type BreachType string

const (
	BreachTypeLatency      BreachType = "latency"
	BreachTypeResponseTime BreachType = "response_time"
	BreachTypeCost         BreachType = "cost"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SLABreach is an observed value that violated an SLA threshold.
type SLABreach struct {
	ID        int        `json:"id" yaml:"id"`
	Model     string     `json:"model" yaml:"model"`
	Type      BreachType `json:"type" yaml:"type"`
	Threshold float64    `json:"threshold" yaml:"threshold"`
	Actual    float64    `json:"actual" yaml:"actual"`
	Timestamp EventTime  `json:"timestamp" yaml:"timestamp"`
	Severity  Severity   `json:"severity" yaml:"severity"`
	Duration  string     `json:"duration" yaml:"duration"`
	Impact    string     `json:"impact" yaml:"impact"`
}

// Unit returns the unit the threshold and actual values are expressed in.
func (s SLABreach) Unit() string {
	if s.Type == BreachTypeCost {
		return "$"
	}
	return "ms"
}

// Exceeded returns true when the observed value violates the threshold. All the
// breach types are upper bounds (milliseconds for latency and response time,
// dollars for cost).
func (s SLABreach) Exceeded() bool {
	return s.Actual > s.Threshold
}

type FailoverReason string

const (
	FailoverReasonExcessLoad         FailoverReason = "excess_load"
	FailoverReasonResponseDelay      FailoverReason = "response_delay"
	FailoverReasonServiceUnavailable FailoverReason = "service_unavailable"
)

// FailoverEvent is a recorded substitution of a model by another one.
type FailoverEvent struct {
	ID               int            `json:"id" yaml:"id"`
	PrimaryModel     string         `json:"primaryModel" yaml:"primaryModel"`
	FailoverModel    string         `json:"failoverModel" yaml:"failoverModel"`
	Reason           FailoverReason `json:"reason" yaml:"reason"`
	Timestamp        EventTime      `json:"timestamp" yaml:"timestamp"`
	Duration         string         `json:"duration" yaml:"duration"`
	RequestsAffected int            `json:"requestsAffected" yaml:"requestsAffected"`
	RecoveryTime     string         `json:"recoveryTime" yaml:"recoveryTime"`
}

// CostSample is the cost of each model for one hour of the day.
type CostSample struct {
	Hour    string  `json:"hour" yaml:"hour"`
	GPT4    float64 `json:"gpt4" yaml:"gpt4"`
	Claude3 float64 `json:"claude3" yaml:"claude3"`
	LLaMA2  float64 `json:"llama2" yaml:"llama2"`
	BERT    float64 `json:"bert" yaml:"bert"`
	Total   float64 `json:"total" yaml:"total"`
}

// Sum returns the sum of the per model costs.
func (c CostSample) Sum() float64 {
	return c.GPT4 + c.Claude3 + c.LLaMA2 + c.BERT
}

// ComplianceScore has the percentages of SLA compliance of a model per SLA dimension.
type ComplianceScore struct {
	Model        string  `json:"model" yaml:"model"`
	Latency      float64 `json:"latency" yaml:"latency"`
	ResponseTime float64 `json:"responseTime" yaml:"responseTime"`
	Availability float64 `json:"availability" yaml:"availability"`
	Cost         float64 `json:"cost" yaml:"cost"`
}

// LatencyPoint is a half hour latency sample of the tracked models.
type LatencyPoint struct {
	Time         string  `json:"time" yaml:"time"`
	GPT4         float64 `json:"gpt4" yaml:"gpt4"`
	Claude3      float64 `json:"claude3" yaml:"claude3"`
	SLAThreshold float64 `json:"slaThreshold" yaml:"slaThreshold"`
	Breaches     int     `json:"breaches" yaml:"breaches"` // 0 or 1.
}

type AlertType string

const (
	AlertTypeError   AlertType = "error"
	AlertTypeWarning AlertType = "warning"
	AlertTypeInfo    AlertType = "info"
)

type Alert struct {
	ID      int       `json:"id" yaml:"id"`
	Type    AlertType `json:"type" yaml:"type"`
	Title   string    `json:"title" yaml:"title"`
	Message string    `json:"message" yaml:"message"`
	Time    string    `json:"time" yaml:"time"`
}

// Snapshot is the full set of datasets of a dashboard session at a point in time.
// Its slices are replaced wholesale on refreshes and never mutated in place.
type Snapshot struct {
	Models      []Model           `json:"models" yaml:"models"`
	Alerts      []Alert           `json:"alerts" yaml:"alerts"`
	Breaches    []SLABreach       `json:"slaBreaches" yaml:"slaBreaches"`
	Failovers   []FailoverEvent   `json:"failoverEvents" yaml:"failoverEvents"`
	Compliance  []ComplianceScore `json:"slaCompliance" yaml:"slaCompliance"`
	Costs       []CostSample      `json:"costData" yaml:"costData"`
	Latency     []LatencyPoint    `json:"latencyTrend" yaml:"latencyTrend"`
	RefreshedAt time.Time         `json:"refreshedAt" yaml:"refreshedAt"`
	Refreshes   int               `json:"refreshes" yaml:"refreshes"`
}
