package stage

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"weightwise/internal/core/features"
)

// Artifact kinds for the dropping stages
const (
	KindDropFeatures   = "drop_features"
	KindDropNonNumeric = "drop_non_numeric"
)

// DropFeaturesConfig lists the fields to remove
type DropFeaturesConfig struct {
	Fields []string `yaml:"fields"`
}

// DropFeatures removes named fields
type DropFeatures struct {
	base
	fields []string
}

// NewDropFeatures builds the stage
func NewDropFeatures(name string, cfg DropFeaturesConfig) (*DropFeatures, error) {
	if err := nonEmpty(name, "fields", cfg.Fields); err != nil {
		return nil, err
	}
	return &DropFeatures{base: base{name}, fields: append([]string(nil), cfg.Fields...)}, nil
}

func buildDropFeatures(name string, node *yaml.Node) (Stage, error) {
	var cfg DropFeaturesConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewDropFeatures(name, cfg)
}

// Kind implements Stage
func (*DropFeatures) Kind() string { return KindDropFeatures }

// Apply implements Stage
func (s *DropFeatures) Apply(in features.Record) (features.Record, error) {
	for _, f := range s.fields {
		if !in.Has(f) {
			return features.Record{}, fail(f, ReasonMissingField, "cannot drop a field that is not present")
		}
	}
	out := in.Clone()
	for _, f := range s.fields {
		out.Delete(f)
	}
	return out, nil
}

// Shape implements Stage
func (s *DropFeatures) Shape(in features.Shape) (features.Shape, error) {
	out := in.Clone()
	for _, f := range s.fields {
		if err := requireShape(in, f, 0); err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.name, err)
		}
		delete(out, f)
	}
	return out, nil
}

// DropNonNumericConfig names the string fields that survive
type DropNonNumericConfig struct {
	Keep []string `yaml:"keep"`
}

// DropNonNumeric removes every string field except the keep list
// kept fields are explanatory only and must not be estimator inputs
type DropNonNumeric struct {
	base
	keep map[string]struct{}
}

// NewDropNonNumeric builds the stage
func NewDropNonNumeric(name string, cfg DropNonNumericConfig) (*DropNonNumeric, error) {
	keep := make(map[string]struct{}, len(cfg.Keep))
	for _, k := range cfg.Keep {
		if k == "" {
			return nil, fmt.Errorf("stage %q: blank keep entry", name)
		}
		keep[k] = struct{}{}
	}
	return &DropNonNumeric{base: base{name}, keep: keep}, nil
}

func buildDropNonNumeric(name string, node *yaml.Node) (Stage, error) {
	var cfg DropNonNumericConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewDropNonNumeric(name, cfg)
}

// Kind implements Stage
func (*DropNonNumeric) Kind() string { return KindDropNonNumeric }

// Apply implements Stage
func (s *DropNonNumeric) Apply(in features.Record) (features.Record, error) {
	out := in.Clone()
	for _, name := range in.Names() {
		v, _ := in.Get(name)
		if v.IsNumber() {
			continue
		}
		if _, ok := s.keep[name]; ok {
			continue
		}
		out.Delete(name)
	}
	return out, nil
}

// Shape implements Stage
func (s *DropNonNumeric) Shape(in features.Shape) (features.Shape, error) {
	for k := range s.keep {
		if err := requireShape(in, k, features.KindString); err != nil {
			return nil, fmt.Errorf("stage %q: keep: %w", s.name, err)
		}
	}
	out := in.Clone()
	for name, kind := range in {
		if kind == features.KindString {
			if _, ok := s.keep[name]; !ok {
				delete(out, name)
			}
		}
	}
	return out, nil
}
