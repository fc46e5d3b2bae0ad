// Package estimator holds the frozen terminal models that map a feature vector to a class code
package estimator

import (
	"errors"
	"fmt"
	"math"

	"weightwise/internal/core/codec"
)

// Estimator maps a fully transformed feature vector to a class code
// implementations are immutable after construction and safe for concurrent use
type Estimator interface {
	Kind() string
	// Features names the vector positions in order
	Features() []string
	Predict(x []float64) (int, error)
}

// ErrInput reports a vector the estimator cannot score
var ErrInput = errors.New("estimator input")

// Spec is the serialized estimator section of a pipeline artifact
type Spec struct {
	Kind     string         `yaml:"kind"`
	Features []string       `yaml:"features"`
	Classes  map[int]string `yaml:"classes"`
	Tree     []TreeNode     `yaml:"tree"`
	Softmax  *SoftmaxSpec   `yaml:"softmax"`
}

// Build constructs the estimator described by spec
func Build(spec Spec) (Estimator, error) {
	if len(spec.Features) == 0 {
		return nil, fmt.Errorf("estimator %q: features must not be empty", spec.Kind)
	}
	seen := make(map[string]struct{}, len(spec.Features))
	for _, f := range spec.Features {
		if _, dup := seen[f]; dup || f == "" {
			return nil, fmt.Errorf("estimator %q: feature %q is blank or repeated", spec.Kind, f)
		}
		seen[f] = struct{}{}
	}
	switch spec.Kind {
	case KindDecisionTree:
		return NewDecisionTree(spec.Features, spec.Tree)
	case KindSoftmax:
		if spec.Softmax == nil {
			return nil, fmt.Errorf("estimator %q: softmax section missing", spec.Kind)
		}
		return NewSoftmax(spec.Features, *spec.Softmax)
	default:
		return nil, fmt.Errorf("unknown estimator kind %q", spec.Kind)
	}
}

// ClassCodec returns the label table, or nil when the artifact carries none
func (s Spec) ClassCodec() (*codec.Categorical, error) {
	if len(s.Classes) == 0 {
		return nil, nil
	}
	return codec.NewCategoricalByCode(s.Classes)
}

func checkInput(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("%w: got %d values, want %d", ErrInput, len(x), want)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: position %d is not finite", ErrInput, i)
		}
	}
	return nil
}
