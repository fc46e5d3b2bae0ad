package stage

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"weightwise/internal/core/features"
)

// KindLifestyleScore is the artifact kind for LifestyleScore
const KindLifestyleScore = "lifestyle_score"

// LifestyleScoreConfig is a frozen CEL expression over numeric inputs
// every identifier in Expr must be listed in Inputs, and the result must be a double
type LifestyleScoreConfig struct {
	Output string   `yaml:"output"`
	Expr   string   `yaml:"expr"`
	Inputs []string `yaml:"inputs"`
}

// LifestyleScore evaluates the compiled expression once per record
// cel programs are safe for concurrent use so one instance serves every request
type LifestyleScore struct {
	base
	out    string
	expr   string
	inputs []string
	prg    cel.Program
}

// NewLifestyleScore compiles and type-checks the expression
func NewLifestyleScore(name string, cfg LifestyleScoreConfig) (*LifestyleScore, error) {
	if cfg.Expr == "" {
		return nil, fmt.Errorf("stage %q: expr must not be empty", name)
	}
	if err := nonEmpty(name, "inputs", cfg.Inputs); err != nil {
		return nil, err
	}
	opts := make([]cel.EnvOption, 0, len(cfg.Inputs))
	for _, in := range cfg.Inputs {
		opts = append(opts, cel.Variable(in, cel.DoubleType))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("stage %q: cel env: %w", name, err)
	}
	ast, iss := env.Compile(cfg.Expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("stage %q: compile %q: %w", name, cfg.Expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.DoubleType) {
		return nil, fmt.Errorf("stage %q: expression yields %s, want double", name, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("stage %q: program: %w", name, err)
	}
	return &LifestyleScore{
		base:   base{name},
		out:    orDefault(cfg.Output, FieldLifestyleScore),
		expr:   cfg.Expr,
		inputs: append([]string(nil), cfg.Inputs...),
		prg:    prg,
	}, nil
}

func buildLifestyleScore(name string, node *yaml.Node) (Stage, error) {
	var cfg LifestyleScoreConfig
	if err := decode(node, &cfg); err != nil {
		return nil, err
	}
	return NewLifestyleScore(name, cfg)
}

// Kind implements Stage
func (*LifestyleScore) Kind() string { return KindLifestyleScore }

// Expr returns the frozen expression
func (s *LifestyleScore) Expr() string { return s.expr }

// Apply implements Stage
func (s *LifestyleScore) Apply(in features.Record) (features.Record, error) {
	act := make(map[string]any, len(s.inputs))
	for _, f := range s.inputs {
		v, err := number(in, f)
		if err != nil {
			return features.Record{}, err
		}
		act[f] = v
	}
	res, _, err := s.prg.Eval(act)
	if err != nil {
		return features.Record{}, fail(s.out, ReasonEvaluation, "evaluate %q: %v", s.expr, err)
	}
	score, ok := res.Value().(float64)
	if !ok {
		return features.Record{}, fail(s.out, ReasonInvalidFieldType, "expression returned %T", res.Value())
	}
	if err := finite(s.out, score); err != nil {
		return features.Record{}, err
	}
	out := in.Clone()
	out.SetNumber(s.out, score)
	return out, nil
}

// Shape implements Stage
func (s *LifestyleScore) Shape(in features.Shape) (features.Shape, error) {
	return deriveShape(s.name, in, s.out, features.KindNumber, features.KindNumber, s.inputs...)
}
