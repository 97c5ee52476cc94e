package feed

import (
	"time"

	"github.com/slok/slafeed/internal/model"
)

func ts(day, hour, min int) model.EventTime {
	return model.EventTime{Time: time.Date(2024, time.January, day, hour, min, 0, 0, time.UTC)}
}

func staticModels() []model.Model {
	return []model.Model{
		{
			ID:             "gpt-4",
			Name:           "GPT-4",
			Status:         model.ModelStatusActive,
			Accuracy:       0.94,
			SLACompliance:  94.2,
			FailoverCount:  2,
			CostPerRequest: 0.045,
		},
		{
			ID:             "claude-3",
			Name:           "Claude-3",
			Status:         model.ModelStatusFailover,
			Accuracy:       0.89,
			SLACompliance:  95.8,
			FailoverCount:  1,
			CostPerRequest: 0.038,
		},
		{
			ID:             "llama-2",
			Name:           "LLaMA-2",
			Status:         model.ModelStatusActive,
			Accuracy:       0.87,
			SLACompliance:  93.1,
			FailoverCount:  0,
			CostPerRequest: 0.025,
		},
		{
			ID:             "bert",
			Name:           "BERT",
			Status:         model.ModelStatusIdle,
			Accuracy:       0.91,
			SLACompliance:  98.5,
			FailoverCount:  1,
			CostPerRequest: 0.015,
		},
	}
}

func staticAlerts() []model.Alert {
	return []model.Alert{
		{
			ID:      1,
			Type:    model.AlertTypeError,
			Title:   "SLA Breach - High Latency",
			Message: "GPT-4 latency exceeded 200ms threshold (450ms recorded)",
			Time:    "2 min ago",
		},
		{
			ID:      2,
			Type:    model.AlertTypeWarning,
			Title:   "Failover Activated",
			Message: "GPT-4 → Claude-3 due to excess load (1,247 requests affected)",
			Time:    "5 min ago",
		},
		{
			ID:      3,
			Type:    model.AlertTypeInfo,
			Title:   "Cost Alert",
			Message: "LLaMA-2 cost per request exceeded budget threshold",
			Time:    "15 min ago",
		},
	}
}

func staticSLABreaches() []model.SLABreach {
	return []model.SLABreach{
		{
			ID:        1,
			Model:     "GPT-4",
			Type:      model.BreachTypeLatency,
			Threshold: 200,
			Actual:    450,
			Timestamp: ts(22, 14, 30),
			Severity:  model.SeverityHigh,
			Duration:  "15m",
			Impact:    "Customer complaints increased by 23%",
		},
		{
			ID:        2,
			Model:     "Claude-3",
			Type:      model.BreachTypeResponseTime,
			Threshold: 500,
			Actual:    850,
			Timestamp: ts(22, 13, 45),
			Severity:  model.SeverityMedium,
			Duration:  "8m",
			Impact:    "API timeout rate: 12%",
		},
		{
			ID:        3,
			Model:     "LLaMA-2",
			Type:      model.BreachTypeCost,
			Threshold: 0.05,
			Actual:    0.12,
			Timestamp: ts(22, 12, 15),
			Severity:  model.SeverityLow,
			Duration:  "45m",
			Impact:    "Budget overrun: $2,340",
		},
	}
}

func staticFailoverEvents() []model.FailoverEvent {
	return []model.FailoverEvent{
		{
			ID:               1,
			PrimaryModel:     "GPT-4",
			FailoverModel:    "Claude-3",
			Reason:           model.FailoverReasonExcessLoad,
			Timestamp:        ts(22, 14, 28),
			Duration:         "18m",
			RequestsAffected: 1247,
			RecoveryTime:     "3m 45s",
		},
		{
			ID:               2,
			PrimaryModel:     "BERT",
			FailoverModel:    "RoBERTa",
			Reason:           model.FailoverReasonResponseDelay,
			Timestamp:        ts(22, 11, 20),
			Duration:         "25m",
			RequestsAffected: 892,
			RecoveryTime:     "5m 12s",
		},
		{
			ID:               3,
			PrimaryModel:     "Claude-3",
			FailoverModel:    "GPT-4",
			Reason:           model.FailoverReasonServiceUnavailable,
			Timestamp:        ts(22, 9, 15),
			Duration:         "12m",
			RequestsAffected: 456,
			RecoveryTime:     "2m 30s",
		},
	}
}

func staticSLACompliance() []model.ComplianceScore {
	return []model.ComplianceScore{
		{Model: "GPT-4", Latency: 94.2, ResponseTime: 96.8, Availability: 99.1, Cost: 87.5},
		{Model: "Claude-3", Latency: 97.1, ResponseTime: 95.3, Availability: 98.9, Cost: 92.1},
		{Model: "LLaMA-2", Latency: 89.7, ResponseTime: 91.4, Availability: 97.8, Cost: 95.6},
		{Model: "BERT", Latency: 98.5, ResponseTime: 97.9, Availability: 99.5, Cost: 98.2},
	}
}
