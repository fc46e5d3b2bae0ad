package stage

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"weightwise/internal/core/features"
)

// KindMinMax is the artifact kind for MinMax
const KindMinMax = "minmax"

// Bounds are the frozen training range of one field
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// MinMaxConfig holds per-field bounds and the target range, [0, 1] when omitted
type MinMaxConfig struct {
	Fields map[string]Bounds `yaml:"fields"`
	Range  []float64         `yaml:"feature_range"`
}

type scaled struct {
	field string
	b     Bounds
}

// MinMax rescales fields with frozen bounds
// values outside the bounds extrapolate linearly and are never clamped
type MinMax struct {
	base
	fields []scaled
	lo, hi float64
}

// NewMinMax validates the bounds and builds the stage
func NewMinMax(name string, cfg MinMaxConfig) (*MinMax, error) {
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("stage %q: fields must not be empty", name)
	}
	lo, hi := 0.0, 1.0
	switch len(cfg.Range) {
	case 0:
	case 2:
		lo, hi = cfg.Range[0], cfg.Range[1]
		if !(hi > lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil, fmt.Errorf("stage %q: feature_range [%v, %v] is invalid", name, lo, hi)
		}
	default:
		return nil, fmt.Errorf("stage %q: feature_range needs exactly two values", name)
	}
	s := &MinMax{base: base{name}, lo: lo, hi: hi}
	for f, b := range cfg.Fields {
		if f == "" {
			return nil, fmt.Errorf("stage %q: blank field name", name)
		}
		if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
			return nil, fmt.Errorf("stage %q: bounds for %q are not finite", name, f)
		}
		if !(b.Max > b.Min) {
			return nil, fmt.Errorf("stage %q: bounds for %q need max > min, got [%v, %v]", name, f, b.Min, b.Max)
		}
		s.fields = append(s.fields, scaled{field: f, b: b})
	}
	sort.Slice(s.fields, func(i, j int) bool { return s.fields[i].field < s.fields[j].field })
	return s, nil
}

func buildMinMax(name string, node *yaml.Node) (Stage, error) {
	var cfg MinMaxConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewMinMax(name, cfg)
}

// Kind implements Stage
func (*MinMax) Kind() string { return KindMinMax }

// Scale applies the frozen transform for one field
// the conversion keeps the compiler from fusing into an FMA so results match on every arch
func (s *MinMax) Scale(b Bounds, x float64) float64 {
	return float64((x-b.Min)/(b.Max-b.Min)*(s.hi-s.lo)) + s.lo
}

// Apply implements Stage
func (s *MinMax) Apply(in features.Record) (features.Record, error) {
	out := in.Clone()
	for _, sf := range s.fields {
		x, err := number(in, sf.field)
		if err != nil {
			return features.Record{}, err
		}
		y := s.Scale(sf.b, x)
		if err := finite(sf.field, y); err != nil {
			return features.Record{}, err
		}
		out.SetNumber(sf.field, y)
	}
	return out, nil
}

// Shape implements Stage
func (s *MinMax) Shape(in features.Shape) (features.Shape, error) {
	for _, sf := range s.fields {
		if err := requireShape(in, sf.field, features.KindNumber); err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.name, err)
		}
	}
	return in.Clone(), nil
}
