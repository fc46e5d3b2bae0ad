package stage

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"weightwise/internal/core/codec"
	"weightwise/internal/core/features"
)

// KindCategoryEncode is the artifact kind for CategoryEncode
const KindCategoryEncode = "category_encode"

// EncodeField maps one string field to integer codes
// Output defaults to Source, which replaces the string in place
type EncodeField struct {
	Source     string         `yaml:"source"`
	Output     string         `yaml:"output"`
	Categories map[string]int `yaml:"categories"`
}

// CategoryEncodeConfig lists the encoded fields
type CategoryEncodeConfig struct {
	Fields []EncodeField `yaml:"fields"`
}

type encoded struct {
	src, out string
	codec    *codec.Categorical
}

// CategoryEncode translates string labels into numeric codes with frozen tables
type CategoryEncode struct {
	base
	fields []encoded
}

// NewCategoryEncode builds one codec per field
func NewCategoryEncode(name string, cfg CategoryEncodeConfig) (*CategoryEncode, error) {
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("stage %q: fields must not be empty", name)
	}
	s := &CategoryEncode{base: base{name}}
	outs := make(map[string]struct{}, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if f.Source == "" {
			return nil, fmt.Errorf("stage %q: field entry without source", name)
		}
		out := orDefault(f.Output, f.Source)
		if _, dup := outs[out]; dup {
			return nil, fmt.Errorf("stage %q: output %q written twice", name, out)
		}
		outs[out] = struct{}{}
		c, err := codec.NewCategorical(f.Categories)
		if err != nil {
			return nil, fmt.Errorf("stage %q: field %q: %w", name, f.Source, err)
		}
		s.fields = append(s.fields, encoded{src: f.Source, out: out, codec: c})
	}
	return s, nil
}

func buildCategoryEncode(name string, node *yaml.Node) (Stage, error) {
	var cfg CategoryEncodeConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewCategoryEncode(name, cfg)
}

// Kind implements Stage
func (*CategoryEncode) Kind() string { return KindCategoryEncode }

// Codec returns the table used for source, if any
func (s *CategoryEncode) Codec(source string) (*codec.Categorical, bool) {
	for _, f := range s.fields {
		if f.src == source {
			return f.codec, true
		}
	}
	return nil, false
}

// Apply implements Stage
func (s *CategoryEncode) Apply(in features.Record) (features.Record, error) {
	out := in.Clone()
	for _, f := range s.fields {
		label, err := text(in, f.src)
		if err != nil {
			return features.Record{}, err
		}
		code, ok := f.codec.Encode(label)
		if !ok {
			return features.Record{}, fail(f.src, ReasonUnknownCategory, "unknown category %q (known: %v)", label, f.codec.Labels())
		}
		out.SetNumber(f.out, float64(code))
	}
	return out, nil
}

// Shape implements Stage
func (s *CategoryEncode) Shape(in features.Shape) (features.Shape, error) {
	out := in.Clone()
	for _, f := range s.fields {
		if err := requireShape(in, f.src, features.KindString); err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.name, err)
		}
		out[f.out] = features.KindNumber
	}
	return out, nil
}
