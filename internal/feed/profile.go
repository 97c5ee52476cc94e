package feed

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// MinRefreshInterval is the lowest refresh interval accepted by a profile.
const MinRefreshInterval = 1 * time.Second

// Range is a uniform random range `[Min, Min+Spread)`.
type Range struct {
	Min    float64 `validate:"gte=0"`
	Spread float64 `validate:"gte=0"`
}

// Wave is a sinusoidal baseline plus uniform noise.
type Wave struct {
	Base      float64
	Amplitude float64 `validate:"gte=0"`
	Frequency float64
	Noise     float64 `validate:"gte=0"`
}

// At returns the noiseless value of the wave at index i.
func (w Wave) At(i int) float64 {
	return w.Base + math.Sin(float64(i)*w.Frequency)*w.Amplitude
}

type CostProfile struct {
	GPT4    Range
	Claude3 Range
	LLaMA2  Range
	BERT    Range
}

type LatencyProfile struct {
	SLAThreshold      float64 `validate:"gt=0"`
	BreachProbability float64 `validate:"gte=0,lte=1"`
	GPT4              Wave
	Claude3           Wave
}

// Profile has all the tunables of the generated data.
type Profile struct {
	RefreshInterval time.Duration
	Cost            CostProfile
	Latency         LatencyProfile
}

// Validate validates the profile.
func (p Profile) Validate() error {
	if p.RefreshInterval < MinRefreshInterval {
		return fmt.Errorf("refresh interval must be at least %s, got %s", MinRefreshInterval, p.RefreshInterval)
	}

	err := profileValidate.Struct(p)
	if err != nil {
		return err
	}

	return nil
}

// DefaultProfile returns the profile used when none is configured.
func DefaultProfile() Profile {
	return Profile{
		RefreshInterval: 10 * time.Second,
		Cost: CostProfile{
			GPT4:    Range{Min: 20, Spread: 50},
			Claude3: Range{Min: 15, Spread: 40},
			LLaMA2:  Range{Min: 10, Spread: 30},
			BERT:    Range{Min: 5, Spread: 20},
		},
		Latency: LatencyProfile{
			SLAThreshold:      200,
			BreachProbability: 0.1,
			GPT4:              Wave{Base: 150, Amplitude: 50, Frequency: 0.2, Noise: 30},
			Claude3:           Wave{Base: 120, Amplitude: 40, Frequency: 0.15, Noise: 25},
		},
	}
}

var profileValidate = func() *validator.Validate {
	return validator.New()
}()
