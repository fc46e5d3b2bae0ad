package stage

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Spec is the serialized form of one stage inside a pipeline artifact
type Spec struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Config yaml.Node `yaml:"config"`
}

// Builder turns a stage config node into a Stage
type Builder func(name string, cfg *yaml.Node) (Stage, error)

// Factory builds stages by kind
type Factory struct {
	builders map[string]Builder
}

// NewFactory returns an empty factory
func NewFactory() *Factory {
	return &Factory{builders: make(map[string]Builder)}
}

// Register adds or replaces the builder for kind
func (f *Factory) Register(kind string, b Builder) {
	f.builders[kind] = b
}

// Build constructs the stage described by spec
func (f *Factory) Build(spec Spec) (Stage, error) {
	b, ok := f.builders[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown stage kind %q (known: %v)", spec.Kind, f.Kinds())
	}
	name := orDefault(spec.Name, spec.Kind)
	st, err := b(name, &spec.Config)
	if err != nil {
		return nil, fmt.Errorf("build stage %q: %w", name, err)
	}
	return st, nil
}

// Kinds lists the registered kinds
func (f *Factory) Kinds() []string {
	out := make([]string, 0, len(f.builders))
	for k := range f.builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultFactory registers every built-in stage kind
func DefaultFactory() *Factory {
	f := NewFactory()
	f.Register(KindNumeric, buildNumeric)
	f.Register(KindMinMax, buildMinMax)
	f.Register(KindMealRatio, buildMealRatio)
	f.Register(KindActivityBalance, buildActivityBalance)
	f.Register(KindTransportType, buildTransportType)
	f.Register(KindLifestyleScore, buildLifestyleScore)
	f.Register(KindCategoryEncode, buildCategoryEncode)
	f.Register(KindDropFeatures, buildDropFeatures)
	f.Register(KindDropNonNumeric, buildDropNonNumeric)
	return f
}

// decode fills dst from cfg; an absent config leaves dst untouched
func decode(cfg *yaml.Node, dst any) error {
	if cfg == nil || cfg.Kind == 0 {
		return nil
	}
	if err := cfg.Decode(dst); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
