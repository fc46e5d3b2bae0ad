package estimator

import (
	"fmt"
	"math"
)

// KindSoftmax is the artifact kind for Softmax
const KindSoftmax = "softmax"

// SoftmaxSpec holds one weight row and bias per class; the row index is the class code
type SoftmaxSpec struct {
	Weights [][]float64 `yaml:"weights"`
	Bias    []float64   `yaml:"bias"`
}

// Softmax is a multinomial linear model
// the predicted class is the argmax of the logits, ties going to the lower code
type Softmax struct {
	features []string
	weights  [][]float64
	bias     []float64
}

// NewSoftmax checks dimensions and copies the coefficients
func NewSoftmax(features []string, spec SoftmaxSpec) (*Softmax, error) {
	if len(spec.Weights) == 0 {
		return nil, fmt.Errorf("softmax: no classes")
	}
	if len(spec.Bias) != len(spec.Weights) {
		return nil, fmt.Errorf("softmax: %d bias terms for %d classes", len(spec.Bias), len(spec.Weights))
	}
	m := &Softmax{features: append([]string(nil), features...), bias: append([]float64(nil), spec.Bias...)}
	for c, row := range spec.Weights {
		if len(row) != len(features) {
			return nil, fmt.Errorf("softmax: class %d has %d weights, want %d", c, len(row), len(features))
		}
		if !allFinite(row) || !allFinite(spec.Bias[c:c+1]) {
			return nil, fmt.Errorf("softmax: class %d has a non-finite coefficient", c)
		}
		m.weights = append(m.weights, append([]float64(nil), row...))
	}
	return m, nil
}

// Kind implements Estimator
func (*Softmax) Kind() string { return KindSoftmax }

// Features implements Estimator
func (m *Softmax) Features() []string { return append([]string(nil), m.features...) }

// Logits returns the per-class linear scores
func (m *Softmax) Logits(x []float64) ([]float64, error) {
	if err := checkInput(x, len(m.features)); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.weights))
	for c, row := range m.weights {
		z := m.bias[c]
		for i, w := range row {
			z += w * x[i]
		}
		out[c] = z
	}
	return out, nil
}

// Predict implements Estimator
func (m *Softmax) Predict(x []float64) (int, error) {
	z, err := m.Logits(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for c := 1; c < len(z); c++ {
		if z[c] > z[best] {
			best = c
		}
	}
	return best, nil
}

func allFinite(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Outputs lists the class codes, one per weight row
func (m *Softmax) Outputs() []int {
	out := make([]int, len(m.weights))
	for i := range out {
		out[i] = i
	}
	return out
}
