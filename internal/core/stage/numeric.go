package stage

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"weightwise/internal/core/features"
)

// KindNumeric is the artifact kind for Numeric
const KindNumeric = "numeric"

// NumericConfig lists the fields to coerce
type NumericConfig struct {
	Fields []string `yaml:"fields"`
}

// Numeric coerces ordinal and count fields to canonical float64 values
// numbers pass through, numeric strings are parsed, anything else is InvalidFieldType
type Numeric struct {
	base
	fields []string
}

// NewNumeric builds a Numeric stage
func NewNumeric(name string, cfg NumericConfig) (*Numeric, error) {
	if err := nonEmpty(name, "fields", cfg.Fields); err != nil {
		return nil, err
	}
	return &Numeric{base: base{name}, fields: append([]string(nil), cfg.Fields...)}, nil
}

func buildNumeric(name string, node *yaml.Node) (Stage, error) {
	var cfg NumericConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewNumeric(name, cfg)
}

// Kind implements Stage
func (*Numeric) Kind() string { return KindNumeric }

// Fields returns the coerced fields
func (s *Numeric) Fields() []string { return append([]string(nil), s.fields...) }

// Apply implements Stage
func (s *Numeric) Apply(in features.Record) (features.Record, error) {
	out := in.Clone()
	for _, f := range s.fields {
		v, ok := in.Get(f)
		if !ok {
			return features.Record{}, fail(f, ReasonMissingField, "field is not present")
		}
		if n, ok := v.Float(); ok {
			if err := finite(f, n); err != nil {
				return features.Record{}, err
			}
			continue
		}
		raw, _ := v.Text()
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return features.Record{}, fail(f, ReasonInvalidFieldType, "cannot coerce %s to a number", v.Format())
		}
		out.SetNumber(f, n)
	}
	return out, nil
}

// Shape implements Stage
func (s *Numeric) Shape(in features.Shape) (features.Shape, error) {
	out := in.Clone()
	for _, f := range s.fields {
		if err := requireShape(in, f, 0); err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.name, err)
		}
		out[f] = features.KindNumber
	}
	return out, nil
}
