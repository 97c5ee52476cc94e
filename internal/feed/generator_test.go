package feed_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/slafeed/internal/feed"
	"github.com/slok/slafeed/internal/model"
)

func newTestGenerator(t *testing.T, seed int64) *feed.Generator {
	g, err := feed.NewGenerator(feed.GeneratorConfig{RandSource: rand.NewSource(seed)})
	require.NoError(t, err)
	return g
}

func TestGeneratorCostData(t *testing.T) {
	g := newTestGenerator(t, 42)
	p := feed.DefaultProfile()

	assertInRange := func(t *testing.T, r feed.Range, v float64) {
		assert.GreaterOrEqual(t, v, r.Min)
		assert.Less(t, v, r.Min+r.Spread)
	}

	for run := 0; run < 100; run++ {
		costs := g.CostData()
		require.Len(t, costs, 24)

		for i, c := range costs {
			// Ordered hours without gaps.
			assert.Equal(t, fmt.Sprintf("%02d:00", i), c.Hour)

			// Total is computed from the same values.
			assert.Equal(t, c.GPT4+c.Claude3+c.LLaMA2+c.BERT, c.Total)

			assertInRange(t, p.Cost.GPT4, c.GPT4)
			assertInRange(t, p.Cost.Claude3, c.Claude3)
			assertInRange(t, p.Cost.LLaMA2, c.LLaMA2)
			assertInRange(t, p.Cost.BERT, c.BERT)
		}
	}
}

func TestGeneratorCostDataIsNotIdempotent(t *testing.T) {
	g := newTestGenerator(t, 42)
	assert.NotEqual(t, g.CostData(), g.CostData())
}

func TestGeneratorLatencyTrendData(t *testing.T) {
	g := newTestGenerator(t, 42)
	p := feed.DefaultProfile()

	for run := 0; run < 100; run++ {
		points := g.LatencyTrendData()
		require.Len(t, points, 48)

		assert.Equal(t, "00:00", points[0].Time)
		assert.Equal(t, "23:30", points[47].Time)
		for i, pt := range points {
			minute := "00"
			if i%2 == 1 {
				minute = "30"
			}
			assert.Equal(t, fmt.Sprintf("%02d:%s", i/2, minute), pt.Time)
			if i > 0 {
				assert.Greater(t, pt.Time, points[i-1].Time)
			}

			assert.Equal(t, 200.0, pt.SLAThreshold)
			assert.Contains(t, []int{0, 1}, pt.Breaches)

			gpt4Base := p.Latency.GPT4.At(i)
			assert.GreaterOrEqual(t, pt.GPT4, gpt4Base)
			assert.Less(t, pt.GPT4, gpt4Base+p.Latency.GPT4.Noise)

			claude3Base := p.Latency.Claude3.At(i)
			assert.GreaterOrEqual(t, pt.Claude3, claude3Base)
			assert.Less(t, pt.Claude3, claude3Base+p.Latency.Claude3.Noise)
		}
	}
}

func TestGeneratorLatencyBreachProbability(t *testing.T) {
	tests := map[string]struct {
		probability float64
		check       func(t *testing.T, breaches, total int)
	}{
		"A zero probability should never flag breaches.": {
			probability: 0,
			check: func(t *testing.T, breaches, total int) {
				assert.Equal(t, 0, breaches)
			},
		},

		"A full probability should flag every point.": {
			probability: 1,
			check: func(t *testing.T, breaches, total int) {
				assert.Equal(t, total, breaches)
			},
		},

		"The default probability should flag a low amount of points.": {
			probability: 0.1,
			check: func(t *testing.T, breaches, total int) {
				ratio := float64(breaches) / float64(total)
				assert.InDelta(t, 0.1, ratio, 0.03)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p := feed.DefaultProfile()
			p.Latency.BreachProbability = test.probability
			g, err := feed.NewGenerator(feed.GeneratorConfig{Profile: &p, RandSource: rand.NewSource(7)})
			require.NoError(t, err)

			breaches, total := 0, 0
			for i := 0; i < 200; i++ {
				for _, pt := range g.LatencyTrendData() {
					breaches += pt.Breaches
					total++
				}
			}
			test.check(t, breaches, total)
		})
	}
}

func TestGeneratorSLABreaches(t *testing.T) {
	assert := assert.New(t)
	g := newTestGenerator(t, 1)

	breaches := g.SLABreaches()
	require.Len(t, breaches, 3)
	for _, b := range breaches {
		assert.True(b.Exceeded(), "breach %d should exceed its threshold", b.ID)
	}

	assert.Equal(model.BreachTypeCost, breaches[2].Type)
	assert.Equal("$", breaches[2].Unit())
	assert.Equal(breaches, g.SLABreaches())
}

func TestGeneratorFailoverEvents(t *testing.T) {
	g := newTestGenerator(t, 1)

	events := g.FailoverEvents()
	require.Len(t, events, 3)
	for _, e := range events {
		assert.NotEqual(t, e.PrimaryModel, e.FailoverModel)
	}
	assert.Equal(t, events, g.FailoverEvents())
}

func TestGeneratorSLAComplianceData(t *testing.T) {
	g := newTestGenerator(t, 1)

	scores := g.SLAComplianceData()
	models := g.Models()
	require.Len(t, scores, 4)
	for i, s := range scores {
		assert.Equal(t, models[i].Name, s.Model)
		for _, v := range []float64{s.Latency, s.ResponseTime, s.Availability, s.Cost} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestGeneratorModelByID(t *testing.T) {
	tests := map[string]struct {
		id       string
		expModel model.Model
		expFound bool
	}{
		"A missing model should not be found.": {
			id:       "nonexistent-model",
			expFound: false,
		},

		"An empty ID should not be found.": {
			id:       "",
			expFound: false,
		},

		"An existing model should be returned.": {
			id: "gpt-4",
			expModel: model.Model{
				ID:             "gpt-4",
				Name:           "GPT-4",
				Status:         model.ModelStatusActive,
				Accuracy:       0.94,
				SLACompliance:  94.2,
				FailoverCount:  2,
				CostPerRequest: 0.045,
			},
			expFound: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			g := newTestGenerator(t, 1)

			m, ok := g.ModelByID(test.id)
			assert.Equal(test.expFound, ok)
			assert.Equal(test.expModel, m)
		})
	}
}

func TestGeneratorAverageSLACompliance(t *testing.T) {
	g := newTestGenerator(t, 1)

	models := g.Models()
	require.Len(t, models, 4)

	total := 0.0
	for _, m := range models {
		total += m.SLACompliance
	}
	assert.InDelta(t, 95.4, total/float64(len(models)), 0.0001)
}

func TestGeneratorStaticDataIsNotShared(t *testing.T) {
	g := newTestGenerator(t, 1)

	models := g.Models()
	models[0].Name = "changed"
	alerts := g.Alerts()
	alerts[0].Title = "changed"

	assert.Equal(t, "GPT-4", g.Models()[0].Name)
	assert.Equal(t, "SLA Breach - High Latency", g.Alerts()[0].Title)
}

func TestGeneratorSetProfile(t *testing.T) {
	g := newTestGenerator(t, 1)

	p := feed.DefaultProfile()
	p.Cost.BERT = feed.Range{Min: 1000, Spread: 1}
	require.NoError(t, g.SetProfile(p))
	for _, c := range g.CostData() {
		assert.GreaterOrEqual(t, c.BERT, 1000.0)
	}

	invalid := feed.DefaultProfile()
	invalid.Latency.BreachProbability = 2
	assert.Error(t, g.SetProfile(invalid))
	assert.Equal(t, p, g.Profile())
}

func TestNewGeneratorInvalidProfile(t *testing.T) {
	p := feed.DefaultProfile()
	p.RefreshInterval = 0

	_, err := feed.NewGenerator(feed.GeneratorConfig{Profile: &p})
	assert.Error(t, err)
}
