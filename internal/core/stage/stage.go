// Package stage defines the frozen, pure transformation steps a feature pipeline is built from
package stage

import (
	"errors"
	"fmt"
	"math"

	"weightwise/internal/core/features"
)

// Stage is one frozen transformation step
// Apply never mutates its input: it returns a transformed copy or an error and nothing in between
type Stage interface {
	Name() string
	Kind() string
	Apply(in features.Record) (features.Record, error)
	// Shape checks that the stage can run on records of shape in and returns the output shape
	Shape(in features.Shape) (features.Shape, error)
}

// Reason classifies a stage failure
type Reason string

const (
	// ReasonInvalidFieldType means the field holds a value the stage cannot use
	ReasonInvalidFieldType Reason = "InvalidFieldType"
	// ReasonMissingField means the field is absent from the record
	ReasonMissingField Reason = "MissingField"
	// ReasonUnknownCategory means a categorical value is outside the frozen table
	ReasonUnknownCategory Reason = "UnknownCategory"
	// ReasonNonFinite means a computation produced NaN or Inf
	ReasonNonFinite Reason = "NonFinite"
	// ReasonDivisionByZero means a ratio denominator was zero
	ReasonDivisionByZero Reason = "DivisionByZero"
	// ReasonEvaluation means a frozen expression raised an error at run time
	ReasonEvaluation Reason = "EvaluationFailed"
)

// Error is a failure tied to one field of the record being transformed
type Error struct {
	Field  string
	Reason Reason
	Msg    string
}

// Error implements error
func (e *Error) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.Reason, e.Field, e.Msg)
}

// IsReason reports whether err carries a stage Error with reason r
func IsReason(err error, r Reason) bool {
	var se *Error
	return errors.As(err, &se) && se.Reason == r
}

func fail(field string, r Reason, format string, a ...any) *Error {
	return &Error{Field: field, Reason: r, Msg: fmt.Sprintf(format, a...)}
}

// base carries the stage name
type base struct{ name string }

func (b base) Name() string { return b.name }

// number reads a numeric field
func number(r features.Record, field string) (float64, error) {
	v, ok := r.Get(field)
	if !ok {
		return 0, fail(field, ReasonMissingField, "field is not present")
	}
	f, ok := v.Float()
	if !ok {
		return 0, fail(field, ReasonInvalidFieldType, "expected number, got %s %s", v.Kind(), v.Format())
	}
	return f, nil
}

// text reads a string field
func text(r features.Record, field string) (string, error) {
	v, ok := r.Get(field)
	if !ok {
		return "", fail(field, ReasonMissingField, "field is not present")
	}
	s, ok := v.Text()
	if !ok {
		return "", fail(field, ReasonInvalidFieldType, "expected string, got %s %s", v.Kind(), v.Format())
	}
	return s, nil
}

func finite(field string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fail(field, ReasonNonFinite, "computed value %v is not finite", f)
	}
	return nil
}

// requireShape checks that field exists in s with kind k; k == 0 accepts any kind
func requireShape(s features.Shape, field string, k features.Kind) error {
	got, ok := s[field]
	if !ok {
		return fmt.Errorf("field %q is not available at this point", field)
	}
	if k != 0 && got != k {
		return fmt.Errorf("field %q is a %s, want %s", field, got, k)
	}
	return nil
}

func nonEmpty(name, what string, vals []string) error {
	if len(vals) == 0 {
		return fmt.Errorf("stage %q: %s must not be empty", name, what)
	}
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v == "" {
			return fmt.Errorf("stage %q: %s has a blank entry", name, what)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("stage %q: %s lists %q twice", name, what, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
