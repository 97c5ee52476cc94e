// Package v1
//
// Example YAML feed profile with the default values:
//
//	version: "slafeed/v1"
//	refreshInterval: 10s
//	cost:
//	  gpt4:
//	    min: 20
//	    spread: 50
//	  claude3:
//	    min: 15
//	    spread: 40
//	  llama2:
//	    min: 10
//	    spread: 30
//	  bert:
//	    min: 5
//	    spread: 20
//	latency:
//	  slaThreshold: 200
//	  breachProbability: 0.1
//	  gpt4:
//	    base: 150
//	    amplitude: 50
//	    frequency: 0.2
//	    noise: 30
//	  claude3:
//	    base: 120
//	    amplitude: 40
//	    frequency: 0.15
//	    noise: 25
package v1

import prommodel "github.com/prometheus/common/model"

const Version = "slafeed/v1"

// Spec represents the root type of the feed profile specification.
type Spec struct {
	// Version is the version of the spec.
	Version string `yaml:"version"`
	// RefreshInterval is how often the refreshable datasets are regenerated.
	RefreshInterval prommodel.Duration `yaml:"refreshInterval,omitempty"`
	// Cost configures the hourly cost generation.
	Cost *Cost `yaml:"cost,omitempty"`
	// Latency configures the latency trend generation.
	Latency *Latency `yaml:"latency,omitempty"`
}

// Cost has the uniform range of each model hourly cost.
type Cost struct {
	GPT4    *Range `yaml:"gpt4,omitempty"`
	Claude3 *Range `yaml:"claude3,omitempty"`
	LLaMA2  *Range `yaml:"llama2,omitempty"`
	BERT    *Range `yaml:"bert,omitempty"`
}

// Range is a uniform random range `[min, min+spread)`.
type Range struct {
	Min    float64 `yaml:"min"`
	Spread float64 `yaml:"spread"`
}

// Latency configures the latency trend of the tracked models.
type Latency struct {
	// SLAThreshold is the latency SLA in milliseconds.
	SLAThreshold *float64 `yaml:"slaThreshold,omitempty"`
	// BreachProbability is the probability of a point being flagged as breach [0, 1].
	BreachProbability *float64 `yaml:"breachProbability,omitempty"`
	GPT4              *Wave    `yaml:"gpt4,omitempty"`
	Claude3           *Wave    `yaml:"claude3,omitempty"`
}

// Wave is a sinusoidal baseline with uniform noise:
// `base + sin(i*frequency)*amplitude + uniform[0, noise)`.
type Wave struct {
	Base      float64 `yaml:"base"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Noise     float64 `yaml:"noise"`
}
