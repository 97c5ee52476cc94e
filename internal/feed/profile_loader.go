package feed

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v2"

	feedv1 "github.com/slok/slafeed/pkg/feed/api/v1"
)

type yamlProfileLoader bool

// YAMLProfileLoader knows how to load YAML feed profile specs and converts them to a model.
const YAMLProfileLoader = yamlProfileLoader(false)

func (y yamlProfileLoader) LoadProfile(ctx context.Context, data []byte) (*Profile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("spec is required")
	}

	s := feedv1.Spec{}
	err := yaml.UnmarshalStrict(data, &s)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshall YAML spec correctly: %w", err)
	}

	if s.Version != feedv1.Version {
		return nil, fmt.Errorf("invalid spec version, should be %q", feedv1.Version)
	}

	p := y.mapSpecToModel(s)

	err = p.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	return &p, nil
}

// mapSpecToModel maps the spec on top of the default profile, missing sections keep
// the default values.
func (yamlProfileLoader) mapSpecToModel(spec feedv1.Spec) Profile {
	p := DefaultProfile()

	if spec.RefreshInterval != 0 {
		p.RefreshInterval = time.Duration(spec.RefreshInterval)
	}

	if c := spec.Cost; c != nil {
		setRange(&p.Cost.GPT4, c.GPT4)
		setRange(&p.Cost.Claude3, c.Claude3)
		setRange(&p.Cost.LLaMA2, c.LLaMA2)
		setRange(&p.Cost.BERT, c.BERT)
	}

	if l := spec.Latency; l != nil {
		if l.SLAThreshold != nil {
			p.Latency.SLAThreshold = *l.SLAThreshold
		}
		if l.BreachProbability != nil {
			p.Latency.BreachProbability = *l.BreachProbability
		}
		setWave(&p.Latency.GPT4, l.GPT4)
		setWave(&p.Latency.Claude3, l.Claude3)
	}

	return p
}

func setRange(dst *Range, r *feedv1.Range) {
	if r == nil {
		return
	}
	*dst = Range{Min: r.Min, Spread: r.Spread}
}

func setWave(dst *Wave, w *feedv1.Wave) {
	if w == nil {
		return
	}
	*dst = Wave{
		Base:      w.Base,
		Amplitude: w.Amplitude,
		Frequency: w.Frequency,
		Noise:     w.Noise,
	}
}
