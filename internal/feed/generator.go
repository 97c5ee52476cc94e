package feed

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/slok/slafeed/internal/model"
)

const (
	costSamples    = 24
	latencySamples = 48
)

type GeneratorConfig struct {
	// Profile is the generation profile, the default profile is used if missing.
	Profile *Profile
	// RandSource is the source of randomness, an unseeded process-local source is
	// used if missing. Set it on tests to get reproducible data.
	RandSource rand.Source
}

func (c *GeneratorConfig) defaults() error {
	if c.Profile == nil {
		p := DefaultProfile()
		c.Profile = &p
	}

	if err := c.Profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if c.RandSource == nil {
		c.RandSource = rand.NewSource(time.Now().UnixNano())
	}

	return nil
}

// Generator generates the synthetic SLA monitoring datasets. It doesn't keep any
// state between calls apart from the random source and the profile.
// It's safe to use it concurrently.
type Generator struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	profile Profile
}

func NewGenerator(config GeneratorConfig) (*Generator, error) {
	if err := config.defaults(); err != nil {
		return nil, err
	}

	return &Generator{
		rnd:     rand.New(config.RandSource),
		profile: *config.Profile,
	}, nil
}

// Profile returns the current generation profile.
func (g *Generator) Profile() Profile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile
}

// SetProfile replaces the generation profile, next generations will use it.
func (g *Generator) SetProfile(p Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	g.mu.Lock()
	g.profile = p
	g.mu.Unlock()

	return nil
}

// Models returns the model registry.
func (g *Generator) Models() []model.Model { return staticModels() }

// Alerts returns the active alerts.
func (g *Generator) Alerts() []model.Alert { return staticAlerts() }

// ModelByID returns the model of the registry with the ID, false if missing.
func (g *Generator) ModelByID(id string) (model.Model, bool) {
	return FindModel(staticModels(), id)
}

// SLABreaches returns the SLA breaches log.
func (g *Generator) SLABreaches() []model.SLABreach { return staticSLABreaches() }

// FailoverEvents returns the failover events log.
func (g *Generator) FailoverEvents() []model.FailoverEvent { return staticFailoverEvents() }

// SLAComplianceData returns a compliance scorecard per model in registry order.
func (g *Generator) SLAComplianceData() []model.ComplianceScore { return staticSLACompliance() }

// CostData returns the cost of each model for every hour of the day, from 00:00 to 23:00.
func (g *Generator) CostData() []model.CostSample {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := g.profile.Cost
	samples := make([]model.CostSample, 0, costSamples)
	for i := 0; i < costSamples; i++ {
		s := model.CostSample{
			Hour:    fmt.Sprintf("%02d:00", i),
			GPT4:    g.uniform(cp.GPT4),
			Claude3: g.uniform(cp.Claude3),
			LLaMA2:  g.uniform(cp.LLaMA2),
			BERT:    g.uniform(cp.BERT),
		}
		s.Total = s.Sum()
		samples = append(samples, s)
	}

	return samples
}

// LatencyTrendData returns the latency of the tracked models every half hour of the day.
func (g *Generator) LatencyTrendData() []model.LatencyPoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	lp := g.profile.Latency
	points := make([]model.LatencyPoint, 0, latencySamples)
	for i := 0; i < latencySamples; i++ {
		minute := "00"
		if i%2 != 0 {
			minute = "30"
		}

		breaches := 0
		if g.rnd.Float64() < lp.BreachProbability {
			breaches = 1
		}

		points = append(points, model.LatencyPoint{
			Time:         fmt.Sprintf("%02d:%s", i/2, minute),
			GPT4:         lp.GPT4.At(i) + g.rnd.Float64()*lp.GPT4.Noise,
			Claude3:      lp.Claude3.At(i) + g.rnd.Float64()*lp.Claude3.Noise,
			SLAThreshold: lp.SLAThreshold,
			Breaches:     breaches,
		})
	}

	return points
}

// uniform must be called with the lock held.
func (g *Generator) uniform(r Range) float64 {
	return r.Min + g.rnd.Float64()*r.Spread
}

// FindModel returns the model with the ID from a list of models, false if missing.
func FindModel(models []model.Model, id string) (model.Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return model.Model{}, false
}
