// Package pipeline composes frozen stages and a terminal estimator into one read-only pipeline
package pipeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"weightwise/internal/core/codec"
	"weightwise/internal/core/estimator"
	"weightwise/internal/core/features"
	"weightwise/internal/core/stage"
)

// EstimatorStage names the terminal step in StageErrors
const EstimatorStage = "estimator"

// Meta identifies where a pipeline came from
type Meta struct {
	Name      string
	Version   string
	TrainedAt string
	Source    string
	SHA256    string
}

// Pipeline is an ordered stage list ending in an estimator
// it is immutable once built and shared by all requests without locking
type Pipeline struct {
	id      uuid.UUID
	meta    Meta
	input   features.Shape
	prefix  features.Shape
	stages  []stage.Stage
	est     estimator.Estimator
	classes *codec.Categorical
}

// Outcome is the result of one Evaluate: the prefix record and the label scored from it
type Outcome struct {
	Features features.Record
	Label    int
}

type options struct {
	factory  *stage.Factory
	source   string
	checksum string
	expect   string
}

// Option tunes Load and Build
type Option func(*options)

// WithFactory swaps the stage registry
func WithFactory(f *stage.Factory) Option { return func(o *options) { o.factory = f } }

// WithSource records where the artifact was read from
func WithSource(s string) Option { return func(o *options) { o.source = s } }

// ExpectSHA256 makes Load fail unless the artifact bytes hash to sum
func ExpectSHA256(sum string) Option { return func(o *options) { o.expect = sum } }

func resolve(opts []Option) options {
	o := options{factory: stage.DefaultFactory()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Load decodes and builds a pipeline from raw artifact bytes
func Load(data []byte, opts ...Option) (*Pipeline, error) {
	o := resolve(opts)
	o.checksum = Checksum(data)
	if o.expect != "" && o.expect != o.checksum {
		return nil, &LoadError{Source: o.source, Err: fmt.Errorf("checksum %s does not match expected %s", o.checksum, o.expect)}
	}
	a, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Source: o.source, Err: err}
	}
	return build(a, o)
}

// Build constructs a pipeline from a decoded artifact
func Build(a Artifact, opts ...Option) (*Pipeline, error) {
	return build(a, resolve(opts))
}

func build(a Artifact, o options) (*Pipeline, error) {
	fail := func(err error) (*Pipeline, error) { return nil, &LoadError{Source: o.source, Err: err} }

	input, err := a.InputShape()
	if err != nil {
		return fail(err)
	}
	if len(a.Stages) == 0 {
		return fail(errors.New("artifact has no stages"))
	}

	stages := make([]stage.Stage, 0, len(a.Stages))
	names := make(map[string]int, len(a.Stages))
	shape := input.Clone()
	for i, spec := range a.Stages {
		st, err := o.factory.Build(spec)
		if err != nil {
			return fail(fmt.Errorf("stage %d: %w", i, err))
		}
		if prev, dup := names[st.Name()]; dup {
			return fail(fmt.Errorf("stage %d: name %q already used by stage %d", i, st.Name(), prev))
		}
		names[st.Name()] = i
		if shape, err = st.Shape(shape); err != nil {
			return fail(fmt.Errorf("stage %d: %w", i, err))
		}
		stages = append(stages, st)
	}

	est, err := estimator.Build(a.Estimator)
	if err != nil {
		return fail(err)
	}
	for _, f := range est.Features() {
		k, ok := shape[f]
		if !ok {
			return fail(fmt.Errorf("estimator feature %q is not produced by the stages", f))
		}
		if k != features.KindNumber {
			return fail(fmt.Errorf("estimator feature %q is a %s, want number", f, k))
		}
	}

	classes, err := a.Estimator.ClassCodec()
	if err != nil {
		return fail(fmt.Errorf("estimator classes: %w", err))
	}
	if classes != nil {
		if out, ok := est.(interface{ Outputs() []int }); ok {
			for _, c := range out.Outputs() {
				if _, known := classes.Decode(c); !known {
					return fail(fmt.Errorf("estimator can emit class %d which has no label", c))
				}
			}
		}
	}

	return &Pipeline{
		id: uuid.New(),
		meta: Meta{
			Name:      a.Name,
			Version:   a.Version,
			TrainedAt: a.TrainedAt,
			Source:    o.source,
			SHA256:    o.checksum,
		},
		input:   input,
		prefix:  shape,
		stages:  stages,
		est:     est,
		classes: classes,
	}, nil
}

// TransformPrefix runs every stage but not the estimator
func (p *Pipeline) TransformPrefix(seed features.Record) (features.Record, error) {
	rec := seed
	for i, s := range p.stages {
		next, err := s.Apply(rec)
		if err != nil {
			return features.Record{}, &StageError{Stage: s.Name(), Kind: s.Kind(), Index: i, Err: err}
		}
		rec = next
	}
	return rec, nil
}

// Predict runs the prefix and then the estimator
func (p *Pipeline) Predict(seed features.Record) (int, error) {
	out, err := p.Evaluate(seed)
	if err != nil {
		return 0, err
	}
	return out.Label, nil
}

// Evaluate runs the prefix once and scores that same record
// the returned features and label therefore share one transformation history
func (p *Pipeline) Evaluate(seed features.Record) (Outcome, error) {
	rec, err := p.TransformPrefix(seed)
	if err != nil {
		return Outcome{}, err
	}
	label, err := p.score(rec)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Features: rec, Label: label}, nil
}

// Vector extracts the estimator inputs from a prefix record
func (p *Pipeline) Vector(rec features.Record) ([]float64, error) {
	names := p.est.Features()
	x := make([]float64, len(names))
	for i, f := range names {
		v, ok := rec.Get(f)
		if !ok {
			return nil, &stage.Error{Field: f, Reason: stage.ReasonMissingField, Msg: "estimator input is not present"}
		}
		n, ok := v.Float()
		if !ok {
			return nil, &stage.Error{Field: f, Reason: stage.ReasonInvalidFieldType, Msg: "estimator input is not numeric"}
		}
		x[i] = n
	}
	return x, nil
}

func (p *Pipeline) score(rec features.Record) (int, error) {
	wrap := func(err error) error {
		return &StageError{Stage: EstimatorStage, Kind: p.est.Kind(), Index: len(p.stages), Err: err}
	}
	x, err := p.Vector(rec)
	if err != nil {
		return 0, wrap(err)
	}
	label, err := p.est.Predict(x)
	if err != nil {
		return 0, wrap(err)
	}
	return label, nil
}

// ID is the random instance id assigned at build
func (p *Pipeline) ID() string { return p.id.String() }

// Meta returns the artifact identity
func (p *Pipeline) Meta() Meta { return p.meta }

// InputShape is the raw record schema the pipeline expects
func (p *Pipeline) InputShape() features.Shape { return p.input.Clone() }

// PrefixShape is the shape TransformPrefix produces
func (p *Pipeline) PrefixShape() features.Shape { return p.prefix.Clone() }

// Len is the number of stages before the estimator
func (p *Pipeline) Len() int { return len(p.stages) }

// Label decodes a class code when the artifact carries labels
func (p *Pipeline) Label(code int) (string, bool) {
	if p.classes == nil {
		return "", false
	}
	return p.classes.Decode(code)
}
