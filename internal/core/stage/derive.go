package stage

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"weightwise/internal/core/features"
)

// Derived field names written by the domain stages
const (
	FieldHealthyMealRatio = "HealthyMealRatio"
	FieldActivityBalance  = "ActivityBalance"
	FieldTransportType    = "TransportType"
	FieldLifestyleScore   = "LifestyleScore"
)

// Artifact kinds for the derivation stages
const (
	KindMealRatio       = "meal_ratio"
	KindActivityBalance = "activity_balance"
	KindTransportType   = "transport_type"
)

// MealRatioConfig names the ratio inputs and output
type MealRatioConfig struct {
	Output      string `yaml:"output"`
	Numerator   string `yaml:"numerator"`
	Denominator string `yaml:"denominator"`
}

// MealRatio derives HealthyMealRatio as vegetable frequency over main meals
type MealRatio struct {
	base
	out, num, den string
}

// NewMealRatio builds the stage, defaulting to FCVC / NCP
func NewMealRatio(name string, cfg MealRatioConfig) (*MealRatio, error) {
	s := &MealRatio{
		base: base{name},
		out:  orDefault(cfg.Output, FieldHealthyMealRatio),
		num:  orDefault(cfg.Numerator, "FCVC"),
		den:  orDefault(cfg.Denominator, "NCP"),
	}
	if s.num == s.den {
		return nil, fmt.Errorf("stage %q: numerator and denominator are both %q", name, s.num)
	}
	return s, nil
}

func buildMealRatio(name string, node *yaml.Node) (Stage, error) {
	var cfg MealRatioConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewMealRatio(name, cfg)
}

// Kind implements Stage
func (*MealRatio) Kind() string { return KindMealRatio }

// Apply implements Stage
func (s *MealRatio) Apply(in features.Record) (features.Record, error) {
	n, err := number(in, s.num)
	if err != nil {
		return features.Record{}, err
	}
	d, err := number(in, s.den)
	if err != nil {
		return features.Record{}, err
	}
	if d == 0 {
		return features.Record{}, fail(s.den, ReasonDivisionByZero, "denominator of %s is zero", s.out)
	}
	r := n / d
	if err := finite(s.out, r); err != nil {
		return features.Record{}, err
	}
	out := in.Clone()
	out.SetNumber(s.out, r)
	return out, nil
}

// Shape implements Stage
func (s *MealRatio) Shape(in features.Shape) (features.Shape, error) {
	return deriveShape(s.name, in, s.out, features.KindNumber, features.KindNumber, s.num, s.den)
}

// ActivityBalanceConfig names the weighted difference inputs
// weights default to 1 when omitted
type ActivityBalanceConfig struct {
	Output         string   `yaml:"output"`
	Positive       string   `yaml:"positive"`
	Negative       string   `yaml:"negative"`
	PositiveWeight *float64 `yaml:"positive_weight"`
	NegativeWeight *float64 `yaml:"negative_weight"`
}

// ActivityBalance derives physical activity minus screen time
type ActivityBalance struct {
	base
	out, pos, neg string
	wPos, wNeg    float64
}

// NewActivityBalance builds the stage, defaulting to FAF - TUE
func NewActivityBalance(name string, cfg ActivityBalanceConfig) (*ActivityBalance, error) {
	s := &ActivityBalance{
		base: base{name},
		out:  orDefault(cfg.Output, FieldActivityBalance),
		pos:  orDefault(cfg.Positive, "FAF"),
		neg:  orDefault(cfg.Negative, "TUE"),
		wPos: 1,
		wNeg: 1,
	}
	if cfg.PositiveWeight != nil {
		s.wPos = *cfg.PositiveWeight
	}
	if cfg.NegativeWeight != nil {
		s.wNeg = *cfg.NegativeWeight
	}
	if err := finite("positive_weight", s.wPos); err != nil {
		return nil, fmt.Errorf("stage %q: %w", name, err)
	}
	if err := finite("negative_weight", s.wNeg); err != nil {
		return nil, fmt.Errorf("stage %q: %w", name, err)
	}
	return s, nil
}

func buildActivityBalance(name string, node *yaml.Node) (Stage, error) {
	var cfg ActivityBalanceConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewActivityBalance(name, cfg)
}

// Kind implements Stage
func (*ActivityBalance) Kind() string { return KindActivityBalance }

// Apply implements Stage
func (s *ActivityBalance) Apply(in features.Record) (features.Record, error) {
	p, err := number(in, s.pos)
	if err != nil {
		return features.Record{}, err
	}
	n, err := number(in, s.neg)
	if err != nil {
		return features.Record{}, err
	}
	v := float64(s.wPos*p) - float64(s.wNeg*n)
	if err := finite(s.out, v); err != nil {
		return features.Record{}, err
	}
	out := in.Clone()
	out.SetNumber(s.out, v)
	return out, nil
}

// Shape implements Stage
func (s *ActivityBalance) Shape(in features.Shape) (features.Shape, error) {
	return deriveShape(s.name, in, s.out, features.KindNumber, features.KindNumber, s.pos, s.neg)
}

// TransportTypeConfig maps raw transport modes to coarse categories
// Default, when set, is used for modes missing from the table
type TransportTypeConfig struct {
	Output     string            `yaml:"output"`
	Source     string            `yaml:"source"`
	Categories map[string]string `yaml:"categories"`
	Default    string            `yaml:"default"`
}

// TransportType derives a coarse transport category from MTRANS
type TransportType struct {
	base
	out, src string
	table    map[string]string
	def      string
}

// NewTransportType builds the stage, reading MTRANS by default
func NewTransportType(name string, cfg TransportTypeConfig) (*TransportType, error) {
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("stage %q: categories must not be empty", name)
	}
	table := make(map[string]string, len(cfg.Categories))
	for k, v := range cfg.Categories {
		if k == "" || v == "" {
			return nil, fmt.Errorf("stage %q: blank entry in categories (%q: %q)", name, k, v)
		}
		table[k] = v
	}
	return &TransportType{
		base:  base{name},
		out:   orDefault(cfg.Output, FieldTransportType),
		src:   orDefault(cfg.Source, "MTRANS"),
		table: table,
		def:   cfg.Default,
	}, nil
}

func buildTransportType(name string, node *yaml.Node) (Stage, error) {
	var cfg TransportTypeConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewTransportType(name, cfg)
}

// Kind implements Stage
func (*TransportType) Kind() string { return KindTransportType }

// Modes returns the known raw modes in sorted order
func (s *TransportType) Modes() []string {
	out := make([]string, 0, len(s.table))
	for k := range s.table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Apply implements Stage
func (s *TransportType) Apply(in features.Record) (features.Record, error) {
	mode, err := text(in, s.src)
	if err != nil {
		return features.Record{}, err
	}
	cat, ok := s.table[mode]
	if !ok {
		if s.def == "" {
			return features.Record{}, fail(s.src, ReasonUnknownCategory, "unknown transport mode %q", mode)
		}
		cat = s.def
	}
	out := in.Clone()
	out.SetString(s.out, cat)
	return out, nil
}

// Shape implements Stage
func (s *TransportType) Shape(in features.Shape) (features.Shape, error) {
	return deriveShape(s.name, in, s.out, features.KindString, features.KindString, s.src)
}

func deriveShape(name string, in features.Shape, out string, outKind, inKind features.Kind, inputs ...string) (features.Shape, error) {
	for _, f := range inputs {
		if err := requireShape(in, f, inKind); err != nil {
			return nil, fmt.Errorf("stage %q: %w", name, err)
		}
	}
	s := in.Clone()
	s[out] = outKind
	return s, nil
}
